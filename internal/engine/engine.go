package engine

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docretrieval/internal/analysis"
	"github.com/knowledge-engine/docretrieval/internal/config"
	"github.com/knowledge-engine/docretrieval/internal/domain"
	"github.com/knowledge-engine/docretrieval/internal/reader"
	"github.com/knowledge-engine/docretrieval/internal/search"
	"github.com/knowledge-engine/docretrieval/internal/storage"
)

// Engine is the retrieval session. It owns the selected directory, its file
// listing and the loaded stopwords, and runs every action synchronously.
// The mutex only protects session fields from concurrent HTTP handlers.
type Engine struct {
	Config       *config.Config
	Logger       *logrus.Entry
	Reader       *reader.Reader
	Preprocessor analysis.TextPreprocessor
	Stopwords    analysis.StopwordSet
	Mode         search.Mode

	// Session state
	mu       sync.RWMutex
	source   storage.DocumentSource
	files    []string
	warnings []string
}

// NewEngine loads stopwords and builds the configured preprocessor. A missing
// stopwords file or an unusable initial directory is recorded as a warning
// and does not prevent startup.
func NewEngine(cfg *config.Config, logger *logrus.Entry) (*Engine, error) {
	if logger == nil {
		logger = logrus.WithField("component", "engine")
	}

	mode, err := search.ParseMode(cfg.Search.Mode)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Config: cfg,
		Logger: logger,
		Reader: reader.NewReader(cfg.Documents.CaseInsensitive),
		Mode:   mode,
	}

	e.Stopwords, err = e.loadStopwords()
	if err != nil {
		return nil, err
	}

	e.Preprocessor, err = analysis.NewPreprocessor(cfg.Analysis.Preprocessor, cfg.Analysis.Language, e.Stopwords)
	if err != nil {
		return nil, err
	}

	if dir := cfg.Documents.Directory; dir != "" {
		if _, err := e.SelectDirectory(dir); err != nil {
			e.warn(err, "Initial directory could not be selected")
		}
	}

	logger.WithFields(logrus.Fields{
		"preprocessor": e.Preprocessor.Name(),
		"mode":         e.Mode,
		"stopwords":    len(e.Stopwords),
	}).Info("Engine ready")

	return e, nil
}

func (e *Engine) loadStopwords() (analysis.StopwordSet, error) {
	if !e.Config.Analysis.UseStopwords {
		return analysis.StopwordSet{}, nil
	}
	path := e.Config.Analysis.StopwordsFile
	if path == "" {
		return analysis.DefaultStopwords(), nil
	}

	stop, err := analysis.LoadStopwords(path)
	if errors.Is(err, domain.ErrStopwordsFileMissing) {
		e.warn(err, "Using empty stopword set")
		return stop, nil
	}
	return stop, err
}

func (e *Engine) warn(err error, msg string) {
	e.Logger.WithError(err).Warn(msg)
	e.mu.Lock()
	e.warnings = append(e.warnings, err.Error())
	e.mu.Unlock()
}

// SelectDirectory lists the supported documents of dir and makes it the
// current selection.
func (e *Engine) SelectDirectory(dir string) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("%w: no directory given", domain.ErrEmptySelection)
	}

	src, err := storage.NewDirectoryStorage(dir, e.Config.Documents.CaseInsensitive)
	if err != nil {
		return nil, err
	}
	return e.UseSource(src)
}

// UseSource replaces the current selection with src and caches its listing
func (e *Engine) UseSource(src storage.DocumentSource) ([]string, error) {
	files, err := src.List()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.source = src
	e.files = files
	e.mu.Unlock()

	e.Logger.WithFields(logrus.Fields{
		"directory": src.Root(),
		"files":     len(files),
	}).Info("Directory selected")

	return slices.Clone(files), nil
}

// Directory returns the selected directory, or "" if none
func (e *Engine) Directory() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.source == nil {
		return ""
	}
	return e.source.Root()
}

// Files returns the cached listing of the selected directory
func (e *Engine) Files() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.files)
}

// Warnings returns non-fatal problems recorded since startup
func (e *Engine) Warnings() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.warnings)
}

// snapshot returns the current source and listing, failing if nothing is selected
func (e *Engine) snapshot() (storage.DocumentSource, []string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.source == nil {
		return nil, nil, fmt.Errorf("%w: no directory selected", domain.ErrEmptySelection)
	}
	return e.source, slices.Clone(e.files), nil
}

func (e *Engine) load(src storage.DocumentSource, name string) (*domain.Document, error) {
	path, err := src.Path(name)
	if err != nil {
		return nil, err
	}
	return e.Reader.Read(path)
}

// TokenCounts is the size of each preprocessing stage
type TokenCounts struct {
	Original int `json:"original"`
	Filtered int `json:"filtered"`
	Stemmed  int `json:"stemmed"`
}

// TermWeight is a term with its raw count and log(1+count)
type TermWeight struct {
	Term      string  `json:"term"`
	Count     int     `json:"count"`
	LogWeight float64 `json:"log_weight"`
}

// Analysis is everything shown for a single selected document
type Analysis struct {
	File          string           `json:"file"`
	Text          string           `json:"text"`
	Preprocessing *analysis.Result `json:"preprocessing"`
	TotalTerms    int              `json:"total_terms"`
	TokenCounts   TokenCounts      `json:"token_counts"`
	TopTerms      []TermWeight     `json:"top_terms"`
}

// Inspect reads and preprocesses one listed document
func (e *Engine) Inspect(name string) (*Analysis, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: no document selected", domain.ErrEmptySelection)
	}
	src, files, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(files, name) {
		return nil, fmt.Errorf("%w: %q is not in the current listing", domain.ErrEmptySelection, name)
	}

	doc, err := e.load(src, name)
	if err != nil {
		e.Logger.WithError(err).WithField("file", name).Error("Failed to read document")
		return nil, err
	}

	res := e.Preprocessor.Process(doc.Text)

	top := res.TermWeights.Top(e.Config.Analysis.TopTerms)
	weights := make([]TermWeight, len(top))
	for i, tc := range top {
		weights[i] = TermWeight{
			Term:      tc.Term,
			Count:     tc.Count,
			LogWeight: math.Log1p(float64(tc.Count)),
		}
	}

	e.Logger.WithFields(logrus.Fields{
		"file":   name,
		"tokens": len(res.StemmedTokens),
		"terms":  len(res.TermWeights),
	}).Debug("Document inspected")

	return &Analysis{
		File:          name,
		Text:          doc.Text,
		Preprocessing: res,
		TotalTerms:    res.TermWeights.Total(),
		TokenCounts: TokenCounts{
			Original: len(res.OriginalTokens),
			Filtered: len(res.FilteredTokens),
			Stemmed:  len(res.StemmedTokens),
		},
		TopTerms: weights,
	}, nil
}

// SearchRequest describes one search action. An empty Mode uses the engine
// default; an empty Files list scores every listed document.
type SearchRequest struct {
	Query string
	Mode  search.Mode
	Files []string
}

// ScoredDocument is a document and its similarity to the query
type ScoredDocument struct {
	File  string  `json:"file"`
	Score float64 `json:"score"`
}

// SkippedDocument is a document that could not be scored
type SkippedDocument struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// SearchReport holds the ranked scores of one search action. Scores from
// different modes are on different scales.
type SearchReport struct {
	Query       string            `json:"query"`
	Mode        search.Mode       `json:"mode"`
	QueryTokens []string          `json:"query_tokens"`
	Results     []ScoredDocument  `json:"results"`
	Skipped     []SkippedDocument `json:"skipped"`
}

// Search scores the selected documents against the query. Documents that
// cannot be read are reported in Skipped and left out of Results.
func (e *Engine) Search(req SearchRequest) (*SearchReport, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	mode := req.Mode
	if mode == "" {
		mode = e.Mode
	}
	if _, err := search.ParseMode(string(mode)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	src, files, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	targets := files
	if len(req.Files) > 0 {
		// each document is scored once; order of first mention is kept
		targets = make([]string, 0, len(req.Files))
		for _, name := range req.Files {
			if !slices.Contains(files, name) {
				return nil, fmt.Errorf("%w: %q is not in the current listing", domain.ErrEmptySelection, name)
			}
			if !slices.Contains(targets, name) {
				targets = append(targets, name)
			}
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no documents to search", domain.ErrEmptySelection)
	}

	queryResult := e.Preprocessor.Process(query)
	report := &SearchReport{
		Query:       query,
		Mode:        mode,
		QueryTokens: queryResult.StemmedTokens,
		Results:     make([]ScoredDocument, 0, len(targets)),
		Skipped:     make([]SkippedDocument, 0),
	}

	var corpus []*search.Document
	for _, name := range targets {
		doc, err := e.load(src, name)
		if err != nil {
			e.Logger.WithError(err).WithField("file", name).Warn("Skipping document")
			report.Skipped = append(report.Skipped, SkippedDocument{File: name, Error: err.Error()})
			continue
		}
		processed := e.Preprocessor.Process(doc.Text)

		switch mode {
		case search.ModeCount:
			report.Results = append(report.Results, ScoredDocument{
				File:  name,
				Score: search.CountCosine(queryResult.TermWeights, processed.TermWeights),
			})
		case search.ModeTFIDF:
			corpus = append(corpus, &search.Document{
				ID:      name,
				Content: strings.Join(processed.StemmedTokens, " "),
			})
		}
	}

	if mode == search.ModeTFIDF && len(corpus) > 0 {
		store := search.NewVectorStore()
		store.AddDocuments(corpus)
		for _, hit := range store.Search(strings.Join(queryResult.StemmedTokens, " "), 0) {
			report.Results = append(report.Results, ScoredDocument{File: hit.Document.ID, Score: hit.Score})
		}
	}

	sort.SliceStable(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.File < b.File
	})

	e.Logger.WithFields(logrus.Fields{
		"mode":    mode,
		"scored":  len(report.Results),
		"skipped": len(report.Skipped),
	}).Info("Search completed")

	return report, nil
}

// Status summarises the session
type Status struct {
	Directory    string      `json:"directory"`
	Files        int         `json:"files"`
	Preprocessor string      `json:"preprocessor"`
	Mode         search.Mode `json:"mode"`
	Stopwords    int         `json:"stopwords"`
	Warnings     []string    `json:"warnings"`
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := Status{
		Files:        len(e.files),
		Preprocessor: e.Preprocessor.Name(),
		Mode:         e.Mode,
		Stopwords:    len(e.Stopwords),
		Warnings:     slices.Clone(e.warnings),
	}
	if e.source != nil {
		status.Directory = e.source.Root()
	}
	if status.Warnings == nil {
		status.Warnings = []string{}
	}
	return status
}
