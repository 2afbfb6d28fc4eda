// Package viewmodel holds the fully-defaulted shapes every dashboard consumer
// works against, and the normalizers that build them from untyped API payloads.
package viewmodel

import "github.com/aarondl/opt/omit"

// Unknown is shown for any text field the upstream payload did not provide.
const Unknown = "unknown"

type ServerInfo struct {
	Code   string
	Name   string
	Active bool
}

type LayoutInfo struct {
	ID     string
	Number int
	Name   string
}

// Layout is a geometry snapshot. Every slice is non-nil after ToLayout.
// Coordinates are optional so a renderer can skip an element missing one.
type Layout struct {
	GLines       []Line
	Stations     []Station
	StationAreas []StationArea
	TrainZones   []Zone
	BlockZones   []Zone
	Buttons      []Button
	Labels       []Label
}

type Line struct {
	X1, Y1, X2, Y2 omit.Val[float64]
	Stroke         string
	StrokeWidth    float64
}

type Station struct {
	X, Y omit.Val[float64]
	Name string
}

type Point struct {
	X, Y float64
}

type StationArea struct {
	Name   string
	Fill   string
	Points []Point
}

// Zone is a rectangular overlay used for both train zones and block zones.
type Zone struct {
	ID                  string
	X, Y, Width, Height omit.Val[float64]
	Occupied            bool
}

type Button struct {
	ID                  string
	X, Y, Width, Height omit.Val[float64]
	Text                string
}

type Label struct {
	X, Y     omit.Val[float64]
	Text     string
	FontSize float64
	Fill     string
}

type TrainSummary struct {
	// TrainNoLocal is the stable identifier; empty when the payload had none.
	TrainNoLocal     string
	Name             string
	// Numeric attributes are unset when the payload omitted them.
	Velocity         omit.Val[float64]
	Delay            omit.Val[int] // minutes
	LocoType         string
	Length           omit.Val[float64]
	Weight           omit.Val[float64]
	Type             string
	StartStation     string
	EndStation       string
	HeldAtSignal     bool
	HeldAtSignalSoon bool
	Timetable        []TimetableEntry
}

type TimetableEntry struct {
	StationName  string
	Arrival      string // real time when known, scheduled otherwise
	Departure    string
	StopDuration int
	DelayMinutes int
}

// EmptyLayout is the layout shown before the first successful fetch.
func EmptyLayout() Layout {
	return Layout{
		GLines:       []Line{},
		Stations:     []Station{},
		StationAreas: []StationArea{},
		TrainZones:   []Zone{},
		BlockZones:   []Zone{},
		Buttons:      []Button{},
		Labels:       []Label{},
	}
}
