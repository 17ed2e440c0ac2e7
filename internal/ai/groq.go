package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"go-gigharvest-automation/internal/scraper"
	"go-gigharvest-automation/internal/workflow"
)

const groqURL = "https://api.groq.com/openai/v1/chat/completions"

// one API call scores up to this many gigs
const batchSize = 10

type groqClient struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewGroqClient creates a Groq API client for gig assessment.
func NewGroqClient(apiKey, model string) Client {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &groqClient{
		apiKey:     apiKey,
		model:      model,
		apiURL:     groqURL,
		httpClient: &http.Client{},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type verdict struct {
	Index        int    `json:"index"`
	IsFreelance  bool   `json:"is_freelance"`
	IsLegitimate bool   `json:"is_legitimate"`
	QualityScore int    `json:"quality_score"`
	Reason       string `json:"reason"`
}

type verdictList struct {
	Jobs []verdict `json:"jobs"`
}

// Assess scores gigs in batches. A batch whose API call or response
// parsing fails is kept with a default score rather than dropped; only
// a missing API key fails the whole call, as a configuration error.
func (c *groqClient) Assess(ctx context.Context, gigs []scraper.Gig, minScore int) ([]scraper.Gig, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: GROQ_API_KEY not set", workflow.ErrAssessorUnavailable)
	}
	if len(gigs) == 0 {
		return nil, nil
	}

	var kept []scraper.Gig
	for i := 0; i < len(gigs); i += batchSize {
		end := i + batchSize
		if end > len(gigs) {
			end = len(gigs)
		}
		batch := gigs[i:end]

		verdicts, err := c.assessBatch(ctx, batch, i, minScore)
		if err != nil {
			log.Printf("⚠️ AI batch %d-%d failed, keeping batch with default score: %v", i, end-1, err)
			kept = append(kept, defaultKeep(batch, "Could not analyze - included by default")...)
			continue
		}
		kept = append(kept, applyVerdicts(batch, i, verdicts, minScore)...)
	}

	log.Printf("🤖 AI assessment kept %d/%d gigs (score >= %d)", len(kept), len(gigs), minScore)
	return kept, nil
}

func (c *groqClient) assessBatch(ctx context.Context, batch []scraper.Gig, startIndex, minScore int) ([]verdict, error) {
	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: buildSystemPrompt()},
			{Role: "user", Content: buildUserPrompt(formatGigs(batch, startIndex), minScore)},
		},
		Temperature: 0.3, // Low temperature for consistency
		MaxTokens:   2048,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if groqResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", groqResp.Error.Message)
	}

	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from groq API")
	}

	return parseVerdicts(groqResp.Choices[0].Message.Content)
}

// parseVerdicts decodes the model's JSON verdict list, tolerating
// markdown fences the model sometimes wraps its output in.
func parseVerdicts(content string) ([]verdict, error) {
	cleaned := cleanMarkdownJSON(content)

	var list verdictList
	if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
		return nil, fmt.Errorf("failed to parse AI verdicts: %w", err)
	}
	return list.Jobs, nil
}

// applyVerdicts annotates batch gigs with their verdicts and keeps
// those meeting minScore. Verdict indexes are global, startIndex maps
// them back into the batch; out-of-range indexes are ignored.
func applyVerdicts(batch []scraper.Gig, startIndex int, verdicts []verdict, minScore int) []scraper.Gig {
	var kept []scraper.Gig
	for _, v := range verdicts {
		localIdx := v.Index - startIndex
		if localIdx < 0 || localIdx >= len(batch) {
			continue
		}
		if v.QualityScore < minScore {
			continue
		}
		gig := batch[localIdx]
		gig.QualityScore = v.QualityScore
		gig.AIAnalysis = v.Reason
		kept = append(kept, gig)
	}
	return kept
}

func defaultKeep(batch []scraper.Gig, reason string) []scraper.Gig {
	out := make([]scraper.Gig, len(batch))
	for i, gig := range batch {
		gig.QualityScore = 5
		gig.AIAnalysis = reason
		out[i] = gig
	}
	return out
}

// cleanMarkdownJSON removes backticks and "json" prefix if the model tries to be helpful
func cleanMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
