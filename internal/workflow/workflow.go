// Three-phase run pipeline: collect → assess → persist.
//
// The collect phase loops over search keywords, the two later phases
// run exactly once each, in order, regardless of upstream failures.
// Partial results always reach persistence.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-gigharvest-automation/internal/scraper"
)

// ErrAssessorUnavailable signals a recoverable configuration problem
// (no API key, assessment disabled) as opposed to a transient failure.
// The workflow treats both as "pass every gig through unscored", but
// only transient failures are recorded in State.Errors.
var ErrAssessorUnavailable = errors.New("assessor not configured")

// Assessor scores gigs and drops those below minScore.
type Assessor interface {
	Assess(ctx context.Context, gigs []scraper.Gig, minScore int) ([]scraper.Gig, error)
}

// Writer renders assessed gigs to a shareable file and returns the
// resolved output location.
type Writer interface {
	Write(gigs []scraper.Gig, path string) (string, error)
}

type Workflow struct {
	collector scraper.Collector
	assessor  Assessor
	writer    Writer
}

func New(collector scraper.Collector, assessor Assessor, writer Writer) *Workflow {
	return &Workflow{
		collector: collector,
		assessor:  assessor,
		writer:    writer,
	}
}

// Run executes the full pipeline and returns the final state snapshot.
// It never fails outright: every failure short of a missing browser
// session lands in the snapshot's error list instead.
func (w *Workflow) Run(ctx context.Context, opts Options) *State {
	state := newState(opts)

	//Phase 1: collect, one step per keyword
	for state.CurrentQueryIndex < len(state.SearchQueries) {
		w.collectStep(ctx, state)

		if state.CurrentQueryIndex < len(state.SearchQueries) && opts.KeywordDelay > 0 {
			time.Sleep(opts.KeywordDelay)
		}
	}
	state.addMessage("All keywords scraped")

	//Phase 2: assess
	state.Phase = PhaseAssessing
	w.assessStep(ctx, state)

	//Phase 3: persist, always runs exactly once
	state.Phase = PhasePersisting
	w.persistStep(state)

	state.Phase = PhaseDone
	return state
}

// collectStep scrapes one keyword and advances the index. A failed
// keyword records an error and still advances, it is never retried.
func (w *Workflow) collectStep(ctx context.Context, state *State) {
	idx := state.CurrentQueryIndex
	keyword := state.SearchQueries[idx]

	log.Printf("🔑 [%d/%d] Scraping: %s", idx+1, len(state.SearchQueries), keyword)
	state.addMessage("Scraping: %s", keyword)

	gigs, err := w.collector.Collect(ctx, keyword, state.MaxPagesPerQuery)
	if err != nil {
		state.addError("Error scraping %q: %v", keyword, err)
		log.Printf("❌ Error scraping %q: %v", keyword, err)
	}

	//keep whatever came back even on error, tagged with its keyword
	for _, gig := range gigs {
		gig.SearchKeyword = keyword
		state.AllGigs = append(state.AllGigs, gig)
	}
	if err == nil {
		state.addMessage("Found %d gigs for %q", len(gigs), keyword)
		log.Printf("✅ Found %d gigs for %q", len(gigs), keyword)
	}

	state.CurrentQueryIndex = idx + 1
	state.StepCount++
}

// assessStep hands every collected gig to the assessment collaborator.
// An unavailable or failing assessor must never cause data loss: the
// fallback passes all gigs through with a neutral marker.
func (w *Workflow) assessStep(ctx context.Context, state *State) {
	defer func() { state.StepCount++ }()

	if len(state.AllGigs) == 0 {
		state.addMessage("No gigs to assess")
		return
	}

	if w.assessor == nil {
		log.Println("⚠️ AI assessment skipped (not configured)")
		state.addMessage("AI assessment skipped (not configured)")
		state.FilteredGigs = passThrough(state.AllGigs)
		return
	}

	log.Printf("🤖 AI assessing %d gigs...", len(state.AllGigs))
	state.addMessage("AI assessing %d gigs...", len(state.AllGigs))

	filtered, err := w.assessor.Assess(ctx, state.AllGigs, state.MinQualityScore)
	if err != nil {
		if errors.Is(err, ErrAssessorUnavailable) {
			log.Printf("⚠️ AI assessment skipped: %v", err)
			state.addMessage("AI assessment skipped (not configured)")
		} else {
			state.addError("AI assessment error: %v", err)
			state.addMessage("AI assessment failed, keeping all gigs")
			log.Printf("❌ AI assessment error: %v", err)
		}
		state.FilteredGigs = passThrough(state.AllGigs)
		return
	}

	state.FilteredGigs = filtered
	state.addMessage("AI kept %d quality gigs", len(filtered))
	log.Printf("✅ AI kept %d quality gigs", len(filtered))
}

// persistStep writes the assessed gigs and records the final status.
func (w *Workflow) persistStep(state *State) {
	defer func() { state.StepCount++ }()

	if len(state.FilteredGigs) == 0 {
		state.FinalOutput = "No gigs to save"
		state.addMessage("No gigs to save")
		return
	}

	log.Printf("💾 Saving %d gigs...", len(state.FilteredGigs))
	outputPath, err := w.writer.Write(state.FilteredGigs, state.OutputPath)
	if err != nil {
		state.addError("Save error: %v", err)
		state.FinalOutput = fmt.Sprintf("ERROR: failed to save %d gigs to %s: %v",
			len(state.FilteredGigs), state.OutputPath, err)
		log.Printf("❌ %s", state.FinalOutput)
		return
	}

	state.FinalOutput = fmt.Sprintf("SUCCESS: Saved %d gigs to %s", len(state.FilteredGigs), outputPath)
	state.addMessage("Saved to %s", outputPath)
	log.Printf("🏁 %s", state.FinalOutput)
}

// passThrough marks gigs as unassessed without dropping any.
func passThrough(gigs []scraper.Gig) []scraper.Gig {
	out := make([]scraper.Gig, len(gigs))
	for i, gig := range gigs {
		gig.QualityScore = 0
		gig.AIAnalysis = "Not analyzed"
		out[i] = gig
	}
	return out
}
