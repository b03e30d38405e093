package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/validator"
)

// ExportFilename is the download name of a progress export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("flashcards-progress-%s.json", now.Format("2006-01-02"))
}

// ExportRevealed returns the stored revealed-cards record, indented.
func (a *Adapter) ExportRevealed(ctx context.Context) ([]byte, error) {
	var records []models.CardIdentity
	if !a.Load(ctx, RevealedCardsKey, &records) {
		return nil, errors.NewNotFoundError("progress", "no progress to export")
	}
	if records == nil {
		records = []models.CardIdentity{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return data, nil
}

// ParseRevealed decodes an uploaded revealed-cards record. Every entry must
// carry all three identity fields.
func ParseRevealed(data []byte) ([]models.CardIdentity, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.NewInvalidImportError(fmt.Errorf("empty file"))
	}

	var records []models.CardIdentity
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, errors.NewInvalidImportError(err)
	}
	if dec.More() {
		return nil, errors.NewInvalidImportError(fmt.Errorf("trailing data after record"))
	}

	for i, rec := range records {
		if fields := validator.Struct(rec); fields != nil {
			appErr := errors.NewInvalidImportError(fmt.Errorf("entry %d is incomplete", i))
			appErr.Fields = fields
			return nil, appErr
		}
	}
	if records == nil {
		records = []models.CardIdentity{}
	}
	return records, nil
}

// ImportRevealed parses data and overwrites the stored record. Storage is
// untouched when the content is rejected.
func (a *Adapter) ImportRevealed(ctx context.Context, data []byte) ([]models.CardIdentity, error) {
	records, err := ParseRevealed(data)
	if err != nil {
		return nil, err
	}
	if !a.Save(ctx, RevealedCardsKey, records) {
		return nil, errors.NewInternalError(fmt.Errorf("failed to store imported progress"))
	}
	return records, nil
}
