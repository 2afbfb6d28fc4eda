// Package scene projects a layout into the vector elements of the map.
package scene

import (
	"fmt"
	"strings"

	"github.com/aarondl/opt/omit"

	"tarediiran-industries.com/side-services/internal/viewmodel"
)

const (
	ViewBox = "0 0 1000 1300"

	StationRadius      = 12.0
	StationFill        = "dodgerblue"
	StationLabelOffset = 16.0
	StationLabelSize   = 18.0
	StationLabelFill   = "#fff"

	DefaultStroke      = "#9e9e9e"
	DefaultStrokeWidth = 2.0
	DefaultAreaFill    = "rgba(30, 144, 255, 0.15)"
	TrainZoneFill      = "rgba(255, 193, 7, 0.35)"
	BlockZoneFill      = "rgba(158, 158, 158, 0.25)"
	BlockZoneOccupied  = "rgba(220, 53, 69, 0.6)"
	ButtonFill         = "#343a40"
	LabelSize          = 16.0
	LabelFill          = "#ddd"
)

// Kind is the element category; categories draw in declaration order.
type Kind int

const (
	KindLine Kind = iota
	KindStationMarker
	KindStationLabel
	KindStationArea
	KindTrainZone
	KindBlockZone
	KindButton
	KindLabel
)

var kindNames = [...]string{"line", "station-marker", "station-label", "station-area", "train-zone", "block-zone", "button", "label"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Element is one drawable; which fields matter depends on Kind.
type Element struct {
	Kind Kind
	ID   string

	// lines
	X1, Y1, X2, Y2 float64
	// markers, labels, rectangles (top-left corner)
	X, Y          float64
	R             float64
	Width, Height float64
	// polygons
	Points string

	Text        string
	FontSize    float64
	Fill        string
	Stroke      string
	StrokeWidth float64
}

type Scene struct {
	ViewBox  string
	Elements []Element
	// Skipped counts elements dropped for a missing coordinate.
	Skipped int
}

// Count returns how many elements of a kind the scene holds.
func (s Scene) Count(kind Kind) int {
	n := 0
	for _, e := range s.Elements {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type builder struct {
	scene Scene
}

func (b *builder) add(e Element, ok bool) {
	if !ok {
		b.scene.Skipped++
		return
	}
	b.scene.Elements = append(b.scene.Elements, e)
}

// Render rebuilds the whole scene from the layout. It keeps no state between
// calls, so rendering the same layout twice gives equal scenes.
func Render(layout viewmodel.Layout) Scene {
	b := &builder{scene: Scene{ViewBox: ViewBox, Elements: make([]Element, 0, elementCount(layout))}}

	for _, line := range layout.GLines {
		b.add(lineElement(line))
	}
	for _, station := range layout.Stations {
		b.add(stationMarker(station))
	}
	for _, station := range layout.Stations {
		label, ok := stationLabel(station)
		// the marker pass already counted this station as skipped
		if ok {
			b.scene.Elements = append(b.scene.Elements, label)
		}
	}
	for _, area := range layout.StationAreas {
		b.add(stationArea(area))
	}
	for _, zone := range layout.TrainZones {
		b.add(zoneElement(KindTrainZone, zone))
	}
	for _, zone := range layout.BlockZones {
		b.add(zoneElement(KindBlockZone, zone))
	}
	for _, button := range layout.Buttons {
		b.add(buttonElement(button))
	}
	for _, label := range layout.Labels {
		b.add(labelElement(label))
	}
	return b.scene
}

func elementCount(layout viewmodel.Layout) int {
	return len(layout.GLines) + 2*len(layout.Stations) + len(layout.StationAreas) +
		len(layout.TrainZones) + len(layout.BlockZones) + len(layout.Buttons) + len(layout.Labels)
}

// coords returns the values of every coordinate, or false if any is unset.
func coords(values ...omit.Val[float64]) ([]float64, bool) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := v.Get()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func orString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orNumber(value, fallback float64) float64 {
	if value <= 0 {
		return fallback
	}
	return value
}

func lineElement(line viewmodel.Line) (Element, bool) {
	c, ok := coords(line.X1, line.Y1, line.X2, line.Y2)
	if !ok {
		return Element{}, false
	}
	return Element{
		Kind:        KindLine,
		X1:          c[0],
		Y1:          c[1],
		X2:          c[2],
		Y2:          c[3],
		Stroke:      orString(line.Stroke, DefaultStroke),
		StrokeWidth: orNumber(line.StrokeWidth, DefaultStrokeWidth),
	}, true
}

func stationMarker(station viewmodel.Station) (Element, bool) {
	c, ok := coords(station.X, station.Y)
	if !ok {
		return Element{}, false
	}
	return Element{Kind: KindStationMarker, ID: station.Name, X: c[0], Y: c[1], R: StationRadius, Fill: StationFill}, true
}

func stationLabel(station viewmodel.Station) (Element, bool) {
	c, ok := coords(station.X, station.Y)
	if !ok {
		return Element{}, false
	}
	return Element{
		Kind:     KindStationLabel,
		ID:       station.Name,
		X:        c[0] + StationLabelOffset,
		Y:        c[1],
		Text:     station.Name,
		FontSize: StationLabelSize,
		Fill:     StationLabelFill,
	}, true
}

// stationArea needs at least a triangle to be drawable.
func stationArea(area viewmodel.StationArea) (Element, bool) {
	if len(area.Points) < 3 {
		return Element{}, false
	}
	parts := make([]string, len(area.Points))
	for i, p := range area.Points {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return Element{
		Kind:   KindStationArea,
		ID:     area.Name,
		Points: strings.Join(parts, " "),
		Fill:   orString(area.Fill, DefaultAreaFill),
	}, true
}

func zoneElement(kind Kind, zone viewmodel.Zone) (Element, bool) {
	c, ok := coords(zone.X, zone.Y, zone.Width, zone.Height)
	if !ok {
		return Element{}, false
	}
	fill := TrainZoneFill
	if kind == KindBlockZone {
		fill = BlockZoneFill
		if zone.Occupied {
			fill = BlockZoneOccupied
		}
	}
	return Element{Kind: kind, ID: zone.ID, X: c[0], Y: c[1], Width: c[2], Height: c[3], Fill: fill}, true
}

func buttonElement(button viewmodel.Button) (Element, bool) {
	c, ok := coords(button.X, button.Y, button.Width, button.Height)
	if !ok {
		return Element{}, false
	}
	return Element{
		Kind:     KindButton,
		ID:       button.ID,
		X:        c[0],
		Y:        c[1],
		Width:    c[2],
		Height:   c[3],
		Text:     button.Text,
		FontSize: LabelSize,
		Fill:     ButtonFill,
	}, true
}

func labelElement(label viewmodel.Label) (Element, bool) {
	c, ok := coords(label.X, label.Y)
	if !ok {
		return Element{}, false
	}
	return Element{
		Kind:     KindLabel,
		X:        c[0],
		Y:        c[1],
		Text:     label.Text,
		FontSize: orNumber(label.FontSize, LabelSize),
		Fill:     orString(label.Fill, LabelFill),
	}, true
}
