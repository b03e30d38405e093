package storage_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildcards/internal/errors"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/repository/memory"
	"github.com/vytor/wildcards/internal/storage"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 7, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "flashcards-progress-2026-03-07.json", storage.ExportFilename(now))
}

func TestExportRevealed(t *testing.T) {
	ctx := context.Background()
	adapter := storage.New(memory.NewKVRepository(), storage.ScopeLocal, "v")

	_, err := adapter.ExportRevealed(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	record := []models.CardIdentity{{Formation: "CDA", Category: "frontend", QuestionText: "Q1"}}
	require.True(t, adapter.Save(ctx, storage.RevealedCardsKey, record))

	data, err := adapter.ExportRevealed(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"formation":"CDA","category":"frontend","questionText":"Q1"}]`, string(data))
}

func TestParseRevealed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "valid", input: `[{"formation":"CDA","category":"frontend","questionText":"Q1"}]`, want: 1},
		{name: "empty array", input: `[]`, want: 0},
		{name: "empty file", input: "  ", wantErr: true},
		{name: "not json", input: `hello`, wantErr: true},
		{name: "object instead of array", input: `{"formation":"CDA"}`, wantErr: true},
		{name: "missing field", input: `[{"formation":"CDA","category":"frontend"}]`, wantErr: true},
		{name: "unknown field", input: `[{"formation":"CDA","category":"f","questionText":"q","extra":1}]`, wantErr: true},
		{name: "trailing data", input: `[] []`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseRevealed([]byte(tt.input))
			if tt.wantErr {
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidImport), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestImportRevealed_RejectLeavesStorageUntouched(t *testing.T) {
	ctx := context.Background()
	adapter := storage.New(memory.NewKVRepository(), storage.ScopeLocal, "v")

	prior := []models.CardIdentity{{Formation: "CDA", Category: "frontend", QuestionText: "Q1"}}
	require.True(t, adapter.Save(ctx, storage.RevealedCardsKey, prior))

	_, err := adapter.ImportRevealed(ctx, []byte(`[{"formation":"CDA"}]`))
	require.Error(t, err)

	var got []models.CardIdentity
	require.True(t, adapter.Load(ctx, storage.RevealedCardsKey, &got))
	assert.Equal(t, prior, got)
}

func TestImportRevealed_Overwrites(t *testing.T) {
	ctx := context.Background()
	adapter := storage.New(memory.NewKVRepository(), storage.ScopeLocal, "v")
	require.True(t, adapter.Save(ctx, storage.RevealedCardsKey, []models.CardIdentity{{Formation: "A", Category: "b", QuestionText: "c"}}))

	incoming := []models.CardIdentity{
		{Formation: "DWWM", Category: "tools", QuestionText: "À quoi sert Git ?"},
		{Formation: "CDA", Category: "security", QuestionText: "Qu'est-ce qu'une injection SQL ?"},
	}
	data, err := json.Marshal(incoming)
	require.NoError(t, err)

	got, err := adapter.ImportRevealed(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, incoming, got)

	var stored []models.CardIdentity
	require.True(t, adapter.Load(ctx, storage.RevealedCardsKey, &stored))
	assert.Equal(t, incoming, stored)
}
