package engine_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/docretrieval/internal/config"
	"github.com/knowledge-engine/docretrieval/internal/domain"
	"github.com/knowledge-engine/docretrieval/internal/engine"
	"github.com/knowledge-engine/docretrieval/internal/search"
)

// Mocks

type MockSource struct {
	mock.Mock
}

func (m *MockSource) List() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSource) Path(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockSource) Root() string {
	args := m.Called()
	return args.String(0)
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("test", "engine")
}

func corpusDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":     "Saya suka membaca buku",
		"b.txt":     "Kucing tidur di rumah",
		"c.csv":     "membaca,buku",
		"rusak.pdf": "not a pdf at all",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newEngine(t *testing.T, mutate func(*config.Config)) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	eng, err := engine.NewEngine(cfg, testLogger())
	require.NoError(t, err)
	return eng
}

func TestNewEngine(t *testing.T) {
	eng := newEngine(t, nil)

	assert.Equal(t, "rule", eng.Preprocessor.Name())
	assert.Equal(t, search.ModeCount, eng.Mode)
	assert.Len(t, eng.Stopwords, 24)
	assert.Empty(t, eng.Warnings())
	assert.Equal(t, "", eng.Directory())
	assert.Empty(t, eng.Files())
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Search.Mode = "bm25"
	_, err := engine.NewEngine(cfg, testLogger())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Analysis.Preprocessor = "neural"
	_, err = engine.NewEngine(cfg, testLogger())
	assert.Error(t, err)
}

func TestNewEngine_StopwordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("saya kamu"), 0644))

	eng := newEngine(t, func(c *config.Config) { c.Analysis.StopwordsFile = path })
	assert.Len(t, eng.Stopwords, 2)
	assert.Empty(t, eng.Warnings())
}

func TestNewEngine_MissingStopwordsFileWarns(t *testing.T) {
	eng := newEngine(t, func(c *config.Config) {
		c.Analysis.StopwordsFile = filepath.Join(t.TempDir(), "missing.txt")
	})

	assert.Empty(t, eng.Stopwords)
	require.Len(t, eng.Warnings(), 1)
	assert.Contains(t, eng.Warnings()[0], "stopwords file missing")
	assert.Len(t, eng.Status().Warnings, 1)
}

func TestNewEngine_StopwordsDisabled(t *testing.T) {
	eng := newEngine(t, func(c *config.Config) { c.Analysis.UseStopwords = false })
	assert.Empty(t, eng.Stopwords)
}

func TestNewEngine_InitialDirectory(t *testing.T) {
	dir := corpusDir(t)
	eng := newEngine(t, func(c *config.Config) { c.Documents.Directory = dir })

	assert.Equal(t, dir, eng.Directory())
	assert.Equal(t, []string{"a.txt", "b.txt", "rusak.pdf"}, eng.Files())

	bad := newEngine(t, func(c *config.Config) { c.Documents.Directory = filepath.Join(dir, "nope") })
	assert.Equal(t, "", bad.Directory())
	assert.Len(t, bad.Warnings(), 1)
}

func TestSelectDirectory(t *testing.T) {
	eng := newEngine(t, nil)
	dir := corpusDir(t)

	files, err := eng.SelectDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "rusak.pdf"}, files)
	assert.NotContains(t, files, "c.csv")

	_, err = eng.SelectDirectory("  ")
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))

	_, err = eng.SelectDirectory(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, domain.ErrReadFailure))
	// a failed selection keeps the previous one
	assert.Equal(t, dir, eng.Directory())
}

func TestUseSource_ListError(t *testing.T) {
	eng := newEngine(t, nil)
	src := new(MockSource)
	src.On("List").Return(nil, domain.ErrReadFailure)

	_, err := eng.UseSource(src)
	assert.True(t, errors.Is(err, domain.ErrReadFailure))
	assert.Equal(t, "", eng.Directory())
	src.AssertExpectations(t)
}

func TestInspect(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	res, err := eng.Inspect("a.txt")
	require.NoError(t, err)

	assert.Equal(t, "a.txt", res.File)
	assert.Equal(t, "Saya suka membaca buku", res.Text)
	assert.Equal(t, []string{"saya", "suka", "mbaca", "bu"}, res.Preprocessing.StemmedTokens)
	assert.Equal(t, domain.TermFrequencies{"saya": 1, "suka": 1, "mbaca": 1, "bu": 1}, res.Preprocessing.TermWeights)
	assert.Equal(t, 4, res.TotalTerms)
	assert.Equal(t, engine.TokenCounts{Original: 4, Filtered: 4, Stemmed: 4}, res.TokenCounts)

	require.Len(t, res.TopTerms, 4)
	// all counts tie, so terms are ordered alphabetically
	assert.Equal(t, "bu", res.TopTerms[0].Term)
	assert.InDelta(t, math.Log(2), res.TopTerms[0].LogWeight, 1e-9)
}

func TestInspect_TopTermsLimit(t *testing.T) {
	eng := newEngine(t, func(c *config.Config) { c.Analysis.TopTerms = 2 })
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	res, err := eng.Inspect("a.txt")
	require.NoError(t, err)
	assert.Len(t, res.TopTerms, 2)
}

func TestInspect_Errors(t *testing.T) {
	eng := newEngine(t, nil)

	_, err := eng.Inspect("a.txt")
	assert.True(t, errors.Is(err, domain.ErrEmptySelection), "no directory selected")

	_, err = eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	_, err = eng.Inspect("")
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))

	_, err = eng.Inspect("c.csv")
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))

	_, err = eng.Inspect("rusak.pdf")
	assert.True(t, errors.Is(err, domain.ErrReadFailure))
}

func TestSearch_CountMode(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	report, err := eng.Search(engine.SearchRequest{Query: "membaca"})
	require.NoError(t, err)

	assert.Equal(t, search.ModeCount, report.Mode)
	assert.Equal(t, []string{"mbaca"}, report.QueryTokens)
	require.Len(t, report.Results, 2)

	// dot 1, |q| 1, |d| 2
	assert.Equal(t, "a.txt", report.Results[0].File)
	assert.InDelta(t, 50.0, report.Results[0].Score, 1e-9)
	assert.Equal(t, "b.txt", report.Results[1].File)
	assert.Equal(t, 0.0, report.Results[1].Score)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "rusak.pdf", report.Skipped[0].File)
	assert.NotEmpty(t, report.Skipped[0].Error)
}

func TestSearch_TFIDFMode(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	report, err := eng.Search(engine.SearchRequest{Query: "Saya suka membaca buku", Mode: search.ModeTFIDF})
	require.NoError(t, err)

	assert.Equal(t, search.ModeTFIDF, report.Mode)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "a.txt", report.Results[0].File)
	assert.InDelta(t, 1.0, report.Results[0].Score, 1e-9)
	assert.Equal(t, 0.0, report.Results[1].Score)
	assert.Len(t, report.Skipped, 1)
}

func TestSearch_FileSubset(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	report, err := eng.Search(engine.SearchRequest{Query: "rumah", Files: []string{"b.txt"}})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "b.txt", report.Results[0].File)
	assert.Greater(t, report.Results[0].Score, 0.0)
	assert.Empty(t, report.Skipped)

	_, err = eng.Search(engine.SearchRequest{Query: "rumah", Files: []string{"c.csv"}})
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))
}

func TestSearch_DuplicateFiles(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	for _, mode := range []search.Mode{search.ModeCount, search.ModeTFIDF} {
		t.Run(string(mode), func(t *testing.T) {
			unique, err := eng.Search(engine.SearchRequest{
				Query: "kucing rumah",
				Mode:  mode,
				Files: []string{"a.txt", "b.txt"},
			})
			require.NoError(t, err)

			repeated, err := eng.Search(engine.SearchRequest{
				Query: "kucing rumah",
				Mode:  mode,
				Files: []string{"b.txt", "a.txt", "b.txt", "b.txt"},
			})
			require.NoError(t, err)

			// a repeated row would change the IDF in tfidf mode
			require.Len(t, repeated.Results, 2)
			require.Len(t, unique.Results, 2)
			for i := range unique.Results {
				assert.Equal(t, unique.Results[i].File, repeated.Results[i].File)
				assert.InDelta(t, unique.Results[i].Score, repeated.Results[i].Score, 1e-9)
			}
			assert.Equal(t, "b.txt", repeated.Results[0].File)
		})
	}
}

func TestSearch_Errors(t *testing.T) {
	eng := newEngine(t, nil)

	_, err := eng.Search(engine.SearchRequest{Query: "buku"})
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))

	_, err = eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	_, err = eng.Search(engine.SearchRequest{Query: "   "})
	assert.True(t, errors.Is(err, domain.ErrEmptyQuery))

	_, err = eng.Search(engine.SearchRequest{Query: "buku", Mode: "bm25"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = eng.SelectDirectory(t.TempDir())
	require.NoError(t, err)
	_, err = eng.Search(engine.SearchRequest{Query: "buku"})
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))
}

func TestSearch_MockSource(t *testing.T) {
	dir := corpusDir(t)
	src := new(MockSource)
	src.On("List").Return([]string{"a.txt"}, nil)
	src.On("Root").Return("mock")
	src.On("Path", "a.txt").Return(filepath.Join(dir, "a.txt"), nil)

	eng := newEngine(t, nil)
	_, err := eng.UseSource(src)
	require.NoError(t, err)

	report, err := eng.Search(engine.SearchRequest{Query: "buku"})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.InDelta(t, 50.0, report.Results[0].Score, 1e-9)
	assert.Equal(t, "mock", eng.Status().Directory)

	src.AssertExpectations(t)
}

func TestStatus(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.SelectDirectory(corpusDir(t))
	require.NoError(t, err)

	status := eng.Status()
	assert.Equal(t, 3, status.Files)
	assert.Equal(t, "rule", status.Preprocessor)
	assert.Equal(t, search.ModeCount, status.Mode)
	assert.Equal(t, 24, status.Stopwords)
	assert.NotNil(t, status.Warnings)
}
