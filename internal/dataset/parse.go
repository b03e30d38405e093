package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vytor/wildcards/internal/models"
)

type section[T any] struct {
	name  string
	items []T
}

type group[T any] struct {
	name     string
	sections []section[T]
}

// ParseDataset decodes a flashcard corpus, keeping formation and category
// order as written in the document.
func ParseDataset(r io.Reader) (*models.Dataset, error) {
	groups, err := decodeCorpus[models.QuestionRecord](r)
	if err != nil {
		return nil, err
	}
	ds := &models.Dataset{Formations: make([]models.Formation, 0, len(groups))}
	for _, g := range groups {
		f := models.Formation{Name: g.name, Categories: make([]models.Category, 0, len(g.sections))}
		for _, s := range g.sections {
			f.Categories = append(f.Categories, models.Category{Name: s.name, Questions: s.items})
		}
		ds.Formations = append(ds.Formations, f)
	}
	return ds, nil
}

// ParseQCM decodes a quiz corpus in document order.
func ParseQCM(r io.Reader) (*models.QCMDataset, error) {
	groups, err := decodeCorpus[models.QCMRecord](r)
	if err != nil {
		return nil, err
	}
	ds := &models.QCMDataset{Formations: make([]models.QCMFormation, 0, len(groups))}
	for _, g := range groups {
		f := models.QCMFormation{Name: g.name, Categories: make([]models.QCMCategory, 0, len(g.sections))}
		for _, s := range g.sections {
			f.Categories = append(f.Categories, models.QCMCategory{Name: s.name, Questions: s.items})
		}
		ds.Formations = append(ds.Formations, f)
	}
	return ds, nil
}

// decodeCorpus walks {formation: {category: [T]}} token by token. A repeated
// key keeps its first position and takes the last value.
func decodeCorpus[T any](r io.Reader) ([]group[T], error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var groups []group[T]
	index := map[string]int{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		sections, err := decodeSections[T](dec)
		if err != nil {
			return nil, fmt.Errorf("formation %q: %w", name, err)
		}
		if i, ok := index[name]; ok {
			groups[i].sections = sections
			continue
		}
		index[name] = len(groups)
		groups = append(groups, group[T]{name: name, sections: sections})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after corpus object")
	}
	return groups, nil
}

func decodeSections[T any](dec *json.Decoder) ([]section[T], error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var sections []section[T]
	index := map[string]int{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var items []T
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		if i, ok := index[name]; ok {
			sections[i].items = items
			continue
		}
		index[name] = len(sections)
		sections = append(sections, section[T]{name: name, items: items})
	}
	return sections, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
