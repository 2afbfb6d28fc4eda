package refresh

import (
	"time"

	"tarediiran-industries.com/side-services/internal/datasource"
)

type Event interface {
	event()
}

// Mounted starts every lifecycle; it is only honoured once.
type Mounted struct{}

// KeyChanged moves the selection key; layout and trains refetch when it differs.
type KeyChanged struct {
	Key Key
}

// Tick re-polls layout and trains for the current key unless they are already fetching.
type Tick struct{}

type TrainSelected struct {
	TrainNo string
}

type SelectionCleared struct{}

// Fetched carries the result of a fetch back into the loop.
type Fetched struct {
	Lifecycle  Lifecycle
	Generation uint64
	Payload    any
	Err        error
	At         time.Time
}

func (Mounted) event()          {}
func (KeyChanged) event()       {}
func (Tick) event()             {}
func (TrainSelected) event()    {}
func (SelectionCleared) event() {}
func (Fetched) event()          {}

// Fetch is a query the reducer asks the controller to run.
type Fetch struct {
	Lifecycle  Lifecycle
	Generation uint64
	Query      datasource.Query
}

type Outcome string

const (
	OutcomeReady      Outcome = "ready"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuperseded Outcome = "superseded"
)

// Classify tells what applying a fetch result to s will do.
func Classify(s State, f Fetched) Outcome {
	if f.Lifecycle < 0 || f.Lifecycle >= lifecycleCount {
		return OutcomeSuperseded
	}
	cycle := s.Cycles[f.Lifecycle]
	if cycle.Phase != PhaseFetching || cycle.Generation != f.Generation {
		return OutcomeSuperseded
	}
	if f.Err != nil {
		return OutcomeFailed
	}
	return OutcomeReady
}
