package workflow

import (
	"fmt"
	"time"

	"go-gigharvest-automation/internal/scraper"
)

// Phase is one of the three sequential stages of a run plus the
// terminal state. The pipeline is strictly forward: a phase is never
// re-entered once left.
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseAssessing  Phase = "assessing"
	PhasePersisting Phase = "persisting"
	PhaseDone       Phase = "done"
)

// State is the single mutable object for one run. It has exactly one
// writer (the workflow goroutine) for the lifetime of the run, so no
// locking. The final value is the caller-visible result snapshot.
type State struct {
	//configuration, fixed at run start
	SearchQueries    []string
	MaxPagesPerQuery int
	MinQualityScore  int
	OutputPath       string

	//CurrentQueryIndex only moves forward, 0 through len(SearchQueries)
	CurrentQueryIndex int

	//accumulated results
	AllGigs      []scraper.Gig //append-only
	FilteredGigs []scraper.Gig //written once, in the assess phase

	//status
	Messages    []string //append-only, human readable progress
	Errors      []string //append-only
	FinalOutput string   //written once, in the persist phase

	StepCount int
	Phase     Phase
}

// Options configures one workflow run.
type Options struct {
	Keywords           []string
	MaxPagesPerKeyword int
	MinScore           int
	OutputPath         string
	KeywordDelay       time.Duration
}

func newState(opts Options) *State {
	return &State{
		SearchQueries:    opts.Keywords,
		MaxPagesPerQuery: opts.MaxPagesPerKeyword,
		MinQualityScore:  opts.MinScore,
		OutputPath:       opts.OutputPath,
		Phase:            PhaseCollecting,
	}
}

func (s *State) addMessage(format string, args ...any) {
	s.Messages = append(s.Messages, fmt.Sprintf(format, args...))
}

func (s *State) addError(format string, args ...any) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// CollectedCount is the total number of gigs gathered across keywords.
func (s *State) CollectedCount() int {
	return len(s.AllGigs)
}

// AssessedCount is the number of gigs that reached the persist phase.
func (s *State) AssessedCount() int {
	return len(s.FilteredGigs)
}
