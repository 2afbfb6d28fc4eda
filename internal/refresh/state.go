// Package refresh owns the dashboard state and the fetch lifecycles that keep
// it current for the selected server and layout.
package refresh

import (
	"fmt"
	"time"

	"tarediiran-industries.com/side-services/internal/roster"
	"tarediiran-industries.com/side-services/internal/scene"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

// Key is the selection that layout and roster fetches are keyed on.
type Key struct {
	Server       string
	LayoutNumber int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Server, k.LayoutNumber)
}

type Lifecycle int

const (
	LifecycleServers Lifecycle = iota
	LifecycleLayouts
	LifecycleLayout
	LifecycleTrains
	lifecycleCount
)

var lifecycleNames = [lifecycleCount]string{"servers", "layouts", "layout", "trains"}

// Lifecycles lists every lifecycle in a stable order.
var Lifecycles = []Lifecycle{LifecycleServers, LifecycleLayouts, LifecycleLayout, LifecycleTrains}

func (l Lifecycle) String() string {
	if l >= 0 && l < lifecycleCount {
		return lifecycleNames[l]
	}
	return fmt.Sprintf("lifecycle(%d)", int(l))
}

// Keyed lifecycles refetch on every selection change; the others run once at mount.
func (l Lifecycle) Keyed() bool {
	return l == LifecycleLayout || l == LifecycleTrains
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseReady
	PhaseFailed
)

var phaseNames = [...]string{"idle", "fetching", "ready", "failed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) && p >= 0 {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Cycle struct {
	Phase Phase
	// Generation of the latest issued fetch; only its result is applied.
	Generation uint64
	Key        Key
	LastError  string
	// Failures counts consecutive failed fetches.
	Failures  int
	UpdatedAt time.Time
	FailedAt  time.Time
}

// Stale reports whether the slice on display predates a failed refresh.
func (c Cycle) Stale() bool {
	return c.Phase == PhaseFailed && !c.UpdatedAt.IsZero()
}

// State is replaced, never mutated, on every transition; slices in it are
// shared with earlier snapshots and must be treated as read-only.
type State struct {
	Mounted         bool
	Key             Key
	SelectedTrainID string

	Servers []viewmodel.ServerInfo
	Layouts []viewmodel.LayoutInfo
	Layout  viewmodel.Layout
	Scene   scene.Scene
	Roster  []viewmodel.TrainSummary

	Cycles [lifecycleCount]Cycle
}

func NewState(key Key) State {
	layout := viewmodel.EmptyLayout()
	return State{
		Key:     key,
		Servers: []viewmodel.ServerInfo{},
		Layouts: []viewmodel.LayoutInfo{},
		Layout:  layout,
		Scene:   scene.Render(layout),
		Roster:  []viewmodel.TrainSummary{},
	}
}

func (s State) Cycle(l Lifecycle) Cycle {
	return s.Cycles[l]
}

// Detail is the roster record of the selected train.
func (s State) Detail() (viewmodel.TrainSummary, bool) {
	return roster.Detail(s.Roster, s.SelectedTrainID)
}
