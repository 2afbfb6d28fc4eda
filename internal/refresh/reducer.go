package refresh

import (
	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/roster"
	"tarediiran-industries.com/side-services/internal/scene"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

// Reducer computes state transitions. It is pure: the same state and event
// always give the same next state and fetches.
type Reducer struct {
	ExcludeServers []string
	ActiveOnly     bool
}

func (r Reducer) Reduce(s State, ev Event) (State, []Fetch) {
	switch ev := ev.(type) {
	case Mounted:
		if s.Mounted {
			return s, nil
		}
		s.Mounted = true
		fetches := make([]Fetch, 0, len(Lifecycles))
		for _, l := range Lifecycles {
			fetches = append(fetches, issue(&s, l))
		}
		return s, fetches

	case KeyChanged:
		if ev.Key == s.Key {
			return s, nil
		}
		s.Key = ev.Key
		if !s.Mounted {
			return s, nil
		}
		return s, issueKeyed(&s, false)

	case Tick:
		if !s.Mounted {
			return s, nil
		}
		return s, issueKeyed(&s, true)

	case TrainSelected:
		s.SelectedTrainID, _ = roster.Select(s.Roster, s.SelectedTrainID, ev.TrainNo)
		return s, nil

	case SelectionCleared:
		s.SelectedTrainID = roster.None
		return s, nil

	case Fetched:
		return r.applyFetched(s, ev), nil
	}
	return s, nil
}

func (r Reducer) applyFetched(s State, ev Fetched) State {
	switch Classify(s, ev) {
	case OutcomeSuperseded:
		return s

	case OutcomeFailed:
		cycle := s.Cycles[ev.Lifecycle]
		cycle.Phase = PhaseFailed
		cycle.LastError = ev.Err.Error()
		cycle.Failures++
		cycle.FailedAt = ev.At
		s.Cycles[ev.Lifecycle] = cycle
		return s
	}

	switch ev.Lifecycle {
	case LifecycleServers:
		s.Servers = viewmodel.FilterServers(viewmodel.ToServerList(ev.Payload), r.ExcludeServers, r.ActiveOnly)
	case LifecycleLayouts:
		s.Layouts = viewmodel.ToLayoutList(ev.Payload)
	case LifecycleLayout:
		s.Layout = viewmodel.ToLayout(ev.Payload)
		s.Scene = scene.Render(s.Layout)
	case LifecycleTrains:
		s.Roster = viewmodel.ToTrainSummaries(ev.Payload)
		s.SelectedTrainID = roster.Reconcile(s.SelectedTrainID, s.Roster)
	}

	cycle := s.Cycles[ev.Lifecycle]
	cycle.Phase = PhaseReady
	cycle.LastError = ""
	cycle.Failures = 0
	cycle.UpdatedAt = ev.At
	s.Cycles[ev.Lifecycle] = cycle
	return s
}

// issue starts a new generation of l for the current key; any fetch still in
// flight for l is superseded.
func issue(s *State, l Lifecycle) Fetch {
	cycle := s.Cycles[l]
	cycle.Generation++
	cycle.Phase = PhaseFetching
	cycle.Key = s.Key
	s.Cycles[l] = cycle

	return Fetch{Lifecycle: l, Generation: cycle.Generation, Query: queryFor(l, s.Key)}
}

// issueKeyed refetches the keyed lifecycles, optionally leaving alone those
// with a fetch still in flight.
func issueKeyed(s *State, skipInFlight bool) []Fetch {
	var fetches []Fetch
	for _, l := range Lifecycles {
		if !l.Keyed() || (skipInFlight && s.Cycles[l].Phase == PhaseFetching) {
			continue
		}
		fetches = append(fetches, issue(s, l))
	}
	return fetches
}

func queryFor(l Lifecycle, key Key) datasource.Query {
	switch l {
	case LifecycleServers:
		return datasource.ServersQuery()
	case LifecycleLayouts:
		return datasource.LayoutsQuery()
	case LifecycleLayout:
		return datasource.LayoutQuery(key.Server, key.LayoutNumber)
	default:
		return datasource.TrainsQuery(key.Server, key.LayoutNumber)
	}
}
