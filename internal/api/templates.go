package api

import (
	"encoding/json"
	"html/template"
	"io/fs"
)

// LoadTemplates parses the layouts, pages and partials found in fsys.
func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		// json marshals a value to JSON string
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		"templates/layouts/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
