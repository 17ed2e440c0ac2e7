package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gigharvest-automation/internal/scraper"
	"go-gigharvest-automation/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGigs(n int) []scraper.Gig {
	gigs := make([]scraper.Gig, n)
	for i := range gigs {
		gigs[i] = scraper.NewGig(
			fmt.Sprintf("Gig %d", i), "Acme", "Remote", "Contract",
			"2026-08-01", fmt.Sprintf("https://example.com/%d", i))
	}
	return gigs
}

func TestAssessMissingKeyIsConfigurationError(t *testing.T) {
	c := NewGroqClient("", "")
	_, err := c.Assess(context.Background(), sampleGigs(1), 5)
	assert.True(t, errors.Is(err, workflow.ErrAssessorUnavailable))
}

func TestAssessEmptyInput(t *testing.T) {
	c := NewGroqClient("key", "")
	kept, err := c.Assess(context.Background(), nil, 5)
	assert.NoError(t, err)
	assert.Empty(t, kept)
}

func mockGroqServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAssessKeepsScoredGigs(t *testing.T) {
	verdictJSON := "```json\n" + `{"jobs":[
		{"index":0,"is_freelance":true,"is_legitimate":true,"quality_score":8,"reason":"clear scope"},
		{"index":1,"is_freelance":false,"is_legitimate":true,"quality_score":3,"reason":"full-time in disguise"}
	]}` + "\n```"
	srv := mockGroqServer(t, verdictJSON, http.StatusOK)
	defer srv.Close()

	c := &groqClient{apiKey: "test-key", model: "test", apiURL: srv.URL, httpClient: srv.Client()}
	kept, err := c.Assess(context.Background(), sampleGigs(2), 5)
	require.NoError(t, err)
	require.Len(t, kept, 1, "the low-score gig is filtered out")
	assert.Equal(t, 8, kept[0].QualityScore)
	assert.Equal(t, "clear scope", kept[0].AIAnalysis)
}

func TestAssessAPIFailureKeepsBatch(t *testing.T) {
	srv := mockGroqServer(t, "", http.StatusBadGateway)
	defer srv.Close()

	c := &groqClient{apiKey: "test-key", model: "test", apiURL: srv.URL, httpClient: srv.Client()}
	kept, err := c.Assess(context.Background(), sampleGigs(3), 5)
	require.NoError(t, err, "a transient batch failure never drops gigs")
	require.Len(t, kept, 3)
	for _, gig := range kept {
		assert.Equal(t, 5, gig.QualityScore)
		assert.Contains(t, gig.AIAnalysis, "included by default")
	}
}

func TestApplyVerdictsIgnoresOutOfRangeIndexes(t *testing.T) {
	batch := sampleGigs(2)
	verdicts := []verdict{
		{Index: 9, QualityScore: 9, Reason: "below batch range"},
		{Index: 12, QualityScore: 9, Reason: "hallucinated index"},
		{Index: 10, QualityScore: 7, Reason: "valid"},
	}
	kept := applyVerdicts(batch, 10, verdicts, 5)
	require.Len(t, kept, 1)
	assert.Equal(t, 7, kept[0].QualityScore)
	assert.Equal(t, "valid", kept[0].AIAnalysis)
}

func TestParseVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		count   int
		wantErr bool
	}{
		{"plain json", `{"jobs":[{"index":0,"quality_score":6,"reason":"ok"}]}`, 1, false},
		{"fenced json", "```json\n{\"jobs\":[{\"index\":0,\"quality_score\":6}]}\n```", 1, false},
		{"bare fence", "```\n{\"jobs\":[]}\n```", 0, false},
		{"garbage", "I could not analyze these jobs, sorry!", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdicts, err := parseVerdicts(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, verdicts, tt.count)
		})
	}
}

func TestFormatGigsTruncatesDescription(t *testing.T) {
	gig := sampleGigs(1)[0]
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	gig.Description = string(long)

	out := formatGigs([]scraper.Gig{gig}, 4)
	assert.Contains(t, out, "Job 4:")
	assert.LessOrEqual(t, len(out), 600)
}
