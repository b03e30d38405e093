package dataset_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildcards/internal/dataset"
)

const (
	questionsDoc = `{"CDA": {"frontend": [{"question": "Q1", "answer": "A1"}]}}`
	qcmDoc       = `{"CDA": {"frontend": [{"question": "Q", "options": ["a", "b"], "correctAnswers": [1], "explanation": "b"}]}}`
)

func corpusServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoader_HTTPSuccessIsCached(t *testing.T) {
	var hits int32
	srv := corpusServer(t, http.StatusOK, questionsDoc, &hits)
	loader := dataset.NewLoader(srv.URL, srv.URL, time.Second)

	ds := loader.LoadQuestionsData(context.Background())
	require.Len(t, ds.Formations, 1)
	assert.Equal(t, "Q1", ds.Formations[0].Categories[0].Questions[0].QuestionText("frontend"))

	again := loader.LoadQuestionsData(context.Background())
	assert.Same(t, ds, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLoader_FallbackOnFailures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slow.Close)

	sources := map[string]string{
		"server error": corpusServer(t, http.StatusInternalServerError, "boom", nil).URL,
		"not found":    corpusServer(t, http.StatusNotFound, "", nil).URL,
		"malformed":    corpusServer(t, http.StatusOK, `{"CDA": [`, nil).URL,
		"empty body":   corpusServer(t, http.StatusOK, "", nil).URL,
		"timeout":      slow.URL,
		"missing file": filepath.Join(t.TempDir(), "absent.json"),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			loader := dataset.NewLoader(src, src, 100*time.Millisecond)

			ds := loader.LoadQuestionsData(context.Background())
			assert.Equal(t, dataset.FallbackDataset(), ds)

			qcm := loader.LoadQCMData(context.Background())
			assert.Equal(t, dataset.FallbackQCM(), qcm)
		})
	}
}

func TestLoader_FallbackIsNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	loader := dataset.NewLoader(path, path, time.Second)

	assert.Equal(t, dataset.FallbackDataset(), loader.LoadQuestionsData(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte(questionsDoc), 0o644))
	ds := loader.LoadQuestionsData(context.Background())
	assert.Equal(t, "A1", ds.Formations[0].Categories[0].Questions[0].AnswerText())
}

func TestLoader_CancelledContext(t *testing.T) {
	srv := corpusServer(t, http.StatusOK, questionsDoc, nil)
	loader := dataset.NewLoader(srv.URL, srv.URL, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, dataset.FallbackDataset(), loader.LoadQuestionsData(ctx))
}

func TestLoader_Reload(t *testing.T) {
	dir := t.TempDir()
	qPath := filepath.Join(dir, "data.json")
	cPath := filepath.Join(dir, "dataQCM.json")
	require.NoError(t, os.WriteFile(qPath, []byte(questionsDoc), 0o644))
	require.NoError(t, os.WriteFile(cPath, []byte(qcmDoc), 0o644))

	loader := dataset.NewLoader(qPath, cPath, time.Second)
	first := loader.LoadQuestionsData(context.Background())
	require.Equal(t, []string{"CDA"}, first.FormationNames())

	require.NoError(t, os.WriteFile(qPath, []byte(`{"DWWM": {"tools": []}}`), 0o644))
	require.NoError(t, os.WriteFile(cPath, []byte(`not json`), 0o644))

	questions, qcm := loader.Reload(context.Background())
	assert.Equal(t, []string{"DWWM"}, questions.FormationNames())
	assert.Equal(t, dataset.FallbackQCM(), qcm, "no cached quiz corpus yet")

	assert.Same(t, questions, loader.LoadQuestionsData(context.Background()))
}

func TestLoader_ReloadKeepsLastGoodCorpus(t *testing.T) {
	dir := t.TempDir()
	cPath := filepath.Join(dir, "dataQCM.json")
	require.NoError(t, os.WriteFile(cPath, []byte(qcmDoc), 0o644))

	loader := dataset.NewLoader(cPath, cPath, time.Second)
	good := loader.LoadQCMData(context.Background())
	require.Len(t, good.Formations, 1)

	require.NoError(t, os.Remove(cPath))
	_, qcm := loader.Reload(context.Background())
	assert.Same(t, good, qcm)
}
