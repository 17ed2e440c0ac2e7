package ai

import (
	"context"
	"fmt"
	"strings"

	"go-gigharvest-automation/internal/scraper"
)

// Client is the interface for AI assessment providers
type Client interface {
	// Assess scores a batch of gigs and returns those meeting minScore,
	// annotated with their quality score and rationale.
	Assess(ctx context.Context, gigs []scraper.Gig, minScore int) ([]scraper.Gig, error)
}

// buildSystemPrompt creates the system instruction for the AI model
func buildSystemPrompt() string {
	return `You are an expert freelance job analyst. Analyze job listings and determine if they are good freelance/contract opportunities.

For each job, evaluate:
1. Is it truly a freelance/contract role (not full-time)?
2. Does it seem legitimate (not a scam)?
3. Quality of the opportunity

Respond in JSON format:
{
    "jobs": [
        {
            "index": 0,
            "is_freelance": true,
            "is_legitimate": true,
            "quality_score": 8,
            "reason": "Clear project scope, reputable company"
        }
    ]
}

Quality score is 1-10:
- 1-3: Poor (vague, low pay, red flags)
- 4-6: Average
- 7-10: Excellent (clear scope, good pay)

Respond ONLY with valid JSON, no other text.`
}

// buildUserPrompt combines the formatted batch with the score cutoff
func buildUserPrompt(gigsText string, minScore int) string {
	return fmt.Sprintf("Analyze these job listings:\n\n%s\nOnly include jobs with quality score >= %d.\nRespond ONLY with valid JSON, no other text.", gigsText, minScore)
}

// formatGigs renders one batch for the prompt, indexed from startIndex
func formatGigs(gigs []scraper.Gig, startIndex int) string {
	var b strings.Builder
	for i, gig := range gigs {
		desc := gig.Description
		if desc == "" {
			desc = "N/A"
		} else if len(desc) > 300 {
			desc = desc[:300]
		}
		fmt.Fprintf(&b, "Job %d:\n- Title: %s\n- Company: %s\n- Location: %s\n- Type: %s\n- Posted: %s\n- Description: %s\n\n",
			startIndex+i, gig.Title, gig.Company, gig.Location, gig.JobType, gig.PostedDate, desc)
	}
	return b.String()
}
