package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
)

const maxBodyBytes = 16 << 20

// Loader fetches the flashcard and quiz corpora from a URL or a file path.
// Successful loads are cached; failures yield the fallback corpora and are
// retried on the next call.
type Loader struct {
	httpClient      *http.Client
	questionsSource string
	qcmSource       string

	mu        sync.Mutex
	questions *models.Dataset
	qcm       *models.QCMDataset
}

func NewLoader(questionsSource, qcmSource string, timeout time.Duration) *Loader {
	return &Loader{
		httpClient:      &http.Client{Timeout: timeout},
		questionsSource: questionsSource,
		qcmSource:       qcmSource,
	}
}

// LoadQuestionsData returns the flashcard corpus, never nil.
func (l *Loader) LoadQuestionsData(ctx context.Context) *models.Dataset {
	l.mu.Lock()
	cached := l.questions
	l.mu.Unlock()
	if cached != nil {
		return cached
	}

	ds, err := l.fetchQuestions(ctx)
	if err != nil {
		return FallbackDataset()
	}
	l.mu.Lock()
	l.questions = ds
	l.mu.Unlock()
	return ds
}

// LoadQCMData returns the quiz corpus, never nil.
func (l *Loader) LoadQCMData(ctx context.Context) *models.QCMDataset {
	l.mu.Lock()
	cached := l.qcm
	l.mu.Unlock()
	if cached != nil {
		return cached
	}

	ds, err := l.fetchQCM(ctx)
	if err != nil {
		return FallbackQCM()
	}
	l.mu.Lock()
	l.qcm = ds
	l.mu.Unlock()
	return ds
}

// Reload refetches both corpora. A corpus that fails to load keeps its
// previously cached version, or the fallback when there is none.
func (l *Loader) Reload(ctx context.Context) (*models.Dataset, *models.QCMDataset) {
	questions, qErr := l.fetchQuestions(ctx)
	qcm, cErr := l.fetchQCM(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if qErr == nil {
		l.questions = questions
	}
	if cErr == nil {
		l.qcm = qcm
	}

	outQ, outC := l.questions, l.qcm
	if outQ == nil {
		outQ = FallbackDataset()
	}
	if outC == nil {
		outC = FallbackQCM()
	}
	return outQ, outC
}

func (l *Loader) fetchQuestions(ctx context.Context) (*models.Dataset, error) {
	log := logger.FromContext(ctx).WithPrefix("dataset").WithField("source", l.questionsSource)
	start := time.Now()

	body, err := l.read(ctx, l.questionsSource)
	if err != nil {
		log.Error("Erreur lors du chargement des données: %v", err)
		return nil, err
	}
	ds, err := ParseDataset(bytes.NewReader(body))
	if err != nil {
		log.Error("Erreur lors du chargement des données: malformed corpus: %v", err)
		return nil, err
	}

	log.Info("loaded %d formations in %v", len(ds.Formations), time.Since(start))
	return ds, nil
}

func (l *Loader) fetchQCM(ctx context.Context) (*models.QCMDataset, error) {
	log := logger.FromContext(ctx).WithPrefix("dataset").WithField("source", l.qcmSource)
	start := time.Now()

	body, err := l.read(ctx, l.qcmSource)
	if err != nil {
		log.Error("Erreur lors du chargement des données QCM: %v", err)
		return nil, err
	}
	ds, err := ParseQCM(bytes.NewReader(body))
	if err != nil {
		log.Error("Erreur lors du chargement des données QCM: malformed corpus: %v", err)
		return nil, err
	}

	log.Info("loaded %d QCM formations in %v", len(ds.Formations), time.Since(start))
	return ds, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = l.fetch(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty body from %s", source)
	}
	return body, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("dataset")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("dataset response received, status=%d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("HTTP error! status: %d: %s", resp.StatusCode, string(snippet))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
