package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go-gigharvest-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	perKeyword map[string][]scraper.Gig
	failOn     map[string]error
	calls      []string
}

func (f *fakeCollector) Collect(_ context.Context, keyword string, _ int) ([]scraper.Gig, error) {
	f.calls = append(f.calls, keyword)
	if err, ok := f.failOn[keyword]; ok {
		return nil, err
	}
	return f.perKeyword[keyword], nil
}

type fakeAssessor struct {
	err   error
	score int
}

func (f *fakeAssessor) Assess(_ context.Context, gigs []scraper.Gig, _ int) ([]scraper.Gig, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]scraper.Gig, len(gigs))
	for i, gig := range gigs {
		gig.QualityScore = f.score
		gig.AIAnalysis = "looks solid"
		out[i] = gig
	}
	return out, nil
}

type fakeWriter struct {
	err   error
	wrote []scraper.Gig
	path  string
}

func (f *fakeWriter) Write(gigs []scraper.Gig, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.wrote = gigs
	f.path = path
	return path, nil
}

func nGigs(n int, keyword string) []scraper.Gig {
	gigs := make([]scraper.Gig, n)
	for i := range gigs {
		url := fmt.Sprintf("https://example.com/jobs/%s-%d", keyword, i)
		gigs[i] = scraper.NewGig("Title", "Co", "Remote", "Contract", "2026-08-01", url)
	}
	return gigs
}

func TestRunEndToEnd(t *testing.T) {
	collector := &fakeCollector{perKeyword: map[string][]scraper.Gig{
		"a": nGigs(3, "a"),
		"b": nGigs(3, "b"),
	}}
	assessor := &fakeAssessor{score: 8}
	writer := &fakeWriter{}

	w := New(collector, assessor, writer)
	state := w.Run(context.Background(), Options{
		Keywords:           []string{"a", "b"},
		MaxPagesPerKeyword: 1,
		MinScore:           5,
		OutputPath:         "output/gigs.xlsx",
	})

	assert.Equal(t, 6, state.CollectedCount())
	assert.Equal(t, 6, state.AssessedCount())
	assert.GreaterOrEqual(t, state.StepCount, 2, "at least one step per keyword")
	assert.Equal(t, 4, state.StepCount, "two collect steps plus assess plus persist")
	assert.Equal(t, PhaseDone, state.Phase)
	assert.Contains(t, state.FinalOutput, "output/gigs.xlsx")
	assert.Empty(t, state.Errors)
	require.Len(t, writer.wrote, 6)
}

func TestRunKeywordOrderAndIndex(t *testing.T) {
	collector := &fakeCollector{perKeyword: map[string][]scraper.Gig{}}
	w := New(collector, nil, &fakeWriter{})

	keywords := []string{"x", "y", "z"}
	state := w.Run(context.Background(), Options{Keywords: keywords, MaxPagesPerKeyword: 1})

	//each keyword collected exactly once, in order, never revisited
	assert.Equal(t, keywords, collector.calls)
	assert.Equal(t, len(keywords), state.CurrentQueryIndex)
}

func TestRunTagsGigsWithKeyword(t *testing.T) {
	collector := &fakeCollector{perKeyword: map[string][]scraper.Gig{
		"golang": nGigs(2, "golang"),
		"rust":   nGigs(1, "rust"),
	}}
	writer := &fakeWriter{}
	w := New(collector, nil, writer)

	state := w.Run(context.Background(), Options{
		Keywords:           []string{"golang", "rust"},
		MaxPagesPerKeyword: 1,
		OutputPath:         "out.xlsx",
	})

	require.Equal(t, 3, state.CollectedCount())
	assert.Equal(t, "golang", state.AllGigs[0].SearchKeyword)
	assert.Equal(t, "golang", state.AllGigs[1].SearchKeyword)
	assert.Equal(t, "rust", state.AllGigs[2].SearchKeyword)
}

func TestRunAssessorUnavailableFallsBack(t *testing.T) {
	collector := &fakeCollector{perKeyword: map[string][]scraper.Gig{
		"a": nGigs(4, "a"),
	}}
	assessor := &fakeAssessor{err: fmt.Errorf("%w: no API key", ErrAssessorUnavailable)}
	w := New(collector, assessor, &fakeWriter{})

	state := w.Run(context.Background(), Options{
		Keywords: []string{"a"}, MaxPagesPerKeyword: 1, OutputPath: "out.xlsx",
	})

	//filtering failure must never cause data loss
	assert.Equal(t, state.CollectedCount(), state.AssessedCount())
	assert.Empty(t, state.Errors, "a configuration gap is not a run error")

	found := false
	for _, msg := range state.Messages {
		if strings.Contains(msg, "not configured") {
			found = true
		}
	}
	assert.True(t, found, "messages must note the fallback")

	for _, gig := range state.FilteredGigs {
		assert.Equal(t, "Not analyzed", gig.AIAnalysis)
		assert.Zero(t, gig.QualityScore)
	}
}

func TestRunAssessorTransientErrorFallsBack(t *testing.T) {
	collector := &fakeCollector{perKeyword: map[string][]scraper.Gig{
		"a": nGigs(2, "a"),
	}}
	assessor := &fakeAssessor{err: errors.New("502 bad gateway")}
	w := New(collector, assessor, &fakeWriter{})

	state := w.Run(context.Background(), Options{
		Keywords: []string{"a"}, MaxPagesPerKeyword: 1, OutputPath: "out.xlsx",
	})

	assert.Equal(t, 2, state.AssessedCount())
	assert.NotEmpty(t, state.Errors, "transient failures are recorded")
	assert.Equal(t, PhaseDone, state.Phase, "persist still runs")
	assert.Contains(t, state.FinalOutput, "SUCCESS")
}

func TestRunKeywordFailureAdvancesIndex(t *testing.T) {
	collector := &fakeCollector{
		perKeyword: map[string][]scraper.Gig{"b": nGigs(2, "b")},
		failOn:     map[string]error{"a": errors.New("navigation timed out")},
	}
	w := New(collector, nil, &fakeWriter{})

	state := w.Run(context.Background(), Options{
		Keywords: []string{"a", "b"}, MaxPagesPerKeyword: 1, OutputPath: "out.xlsx",
	})

	assert.Equal(t, []string{"a", "b"}, collector.calls, "failed keyword is not retried")
	assert.Equal(t, 2, state.CurrentQueryIndex)
	assert.Equal(t, 2, state.CollectedCount(), "the healthy keyword still collects")
	assert.NotEmpty(t, state.Errors)
	assert.Contains(t, state.FinalOutput, "SUCCESS")
}

func TestRunWriterFailureRecordedInFinalStatus(t *testing.T) {
	collector := &fakeCollector{perKeyword: map[string][]scraper.Gig{
		"a": nGigs(1, "a"),
	}}
	w := New(collector, nil, &fakeWriter{err: errors.New("disk full")})

	state := w.Run(context.Background(), Options{
		Keywords: []string{"a"}, MaxPagesPerKeyword: 1, OutputPath: "out.xlsx",
	})

	assert.Equal(t, PhaseDone, state.Phase)
	assert.Contains(t, state.FinalOutput, "ERROR")
	assert.NotEmpty(t, state.Errors)
}

func TestRunNoKeywords(t *testing.T) {
	w := New(&fakeCollector{}, nil, &fakeWriter{})
	state := w.Run(context.Background(), Options{Keywords: nil, OutputPath: "out.xlsx"})

	assert.Equal(t, 0, state.CollectedCount())
	assert.Equal(t, "No gigs to save", state.FinalOutput)
	assert.Equal(t, 2, state.StepCount, "assess and persist still step")
	assert.Equal(t, PhaseDone, state.Phase)
}
