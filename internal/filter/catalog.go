package filter

import "github.com/vytor/wildcards/internal/models"

// CategoryDef is one entry of the fixed category catalog.
type CategoryDef struct {
	Key   string
	Icon  string
	Label string
}

// Catalog is the category bar layout. Order is fixed and independent of the data.
var Catalog = []CategoryDef{
	{Key: models.AllFilter, Icon: "📚", Label: "Toutes"},
	{Key: "frontend", Icon: "🖥️", Label: "Frontend"},
	{Key: "backend", Icon: "⚙️", Label: "Backend"},
	{Key: "database", Icon: "🗄️", Label: "Base de données"},
	{Key: "devops", Icon: "🚀", Label: "DevOps"},
	{Key: "architecture", Icon: "🏗️", Label: "Architecture"},
	{Key: "tests", Icon: "🧪", Label: "Tests"},
	{Key: "security", Icon: "🔒", Label: "Sécurité"},
	{Key: "design", Icon: "🎨", Label: "Conception"},
	{Key: "project", Icon: "📋", Label: "Gestion de projet"},
	{Key: "tools", Icon: "🛠️", Label: "Outils"},
	{Key: "fullstack", Icon: "🔄", Label: "Fullstack"},
	{Key: "modern_practices", Icon: "✨", Label: "Pratiques modernes"},
}

// Lookup returns the catalog entry for key.
func Lookup(key string) (CategoryDef, bool) {
	for _, def := range Catalog {
		if def.Key == key {
			return def, true
		}
	}
	return CategoryDef{}, false
}

// Label returns the display label of key, or key itself when it is not in
// the catalog.
func Label(key string) string {
	if def, ok := Lookup(key); ok {
		return def.Label
	}
	return key
}
