package viewmodel

import (
	"strconv"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/samber/lo"
)

// TimetableLayout is the format of timetable times in the trains payload.
const TimetableLayout = "2006-01-02 15:04:05"

var (
	layoutDataPath = jp.MustParseString("$.layout_data")
	trainsPath     = jp.MustParseString("$.data.t[*]")
	serversPath    = jp.MustParseString("$.servers[*]")
	layoutsPath    = jp.MustParseString("$.layouts[*]")

	trainNamePath     = jp.MustParseString("$.trainObject.TrainName")
	velocityPath      = jp.MustParseString("$.trainObject.TrainData.Velocity")
	delayPath         = jp.MustParseString("$.trainObject.delay")
	locoTypePath      = jp.MustParseString("$.trainObject.Locotype")
	lengthPath        = jp.MustParseString("$.trainObject.TrainLength")
	weightPath        = jp.MustParseString("$.trainObject.TrainWeight")
	trainTypePath     = jp.MustParseString("$.trainObject.TrainType")
	startStationPath  = jp.MustParseString("$.trainObject.startStation")
	endStationPath    = jp.MustParseString("$.trainObject.endStation")
	heldPath          = jp.MustParseString("$.trainObject.held_at_signal")
	heldSoonPath      = jp.MustParseString("$.trainObject.held_at_signal_soon")
	timetableRowsPath = jp.MustParseString("$.timetable[*]")
)

func first(path jp.Expr, data any) any {
	if data == nil {
		return nil
	}
	return path.First(data)
}

func all(path jp.Expr, data any) []any {
	if data == nil {
		return nil
	}
	return path.Get(data)
}

func decodeAll[T any](items any, decode func(map[string]any) T) []T {
	raw := array(items)
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		if m := object(item); m != nil {
			out = append(out, decode(m))
		}
	}
	return out
}

// ToLayout reads {layout_data: {...}}. Missing or malformed arrays become empty slices.
func ToLayout(payload any) Layout {
	data := object(first(layoutDataPath, payload))

	return Layout{
		GLines:       decodeAll(data["glines"], toLine),
		Stations:     decodeAll(data["stations"], toStation),
		StationAreas: decodeAll(data["stationareas"], toStationArea),
		TrainZones:   decodeAll(data["trainzones"], toZone),
		BlockZones:   decodeAll(data["blockzones"], toZone),
		Buttons:      decodeAll(data["buttons"], toButton),
		Labels:       decodeAll(data["labels"], toLabel),
	}
}

func toLine(m map[string]any) Line {
	return Line{
		X1:          coordinate(m["x1"]),
		Y1:          coordinate(m["y1"]),
		X2:          coordinate(m["x2"]),
		Y2:          coordinate(m["y2"]),
		Stroke:      textOr(m["stroke"], ""),
		StrokeWidth: numberOr(m["stroke_width"], 0),
	}
}

func toStation(m map[string]any) Station {
	return Station{
		X:    coordinate(m["x"]),
		Y:    coordinate(m["y"]),
		Name: textOr(m["name"], Unknown),
	}
}

// toStationArea accepts points as [{x,y}, ...] or [[x,y], ...]; malformed points are dropped.
func toStationArea(m map[string]any) StationArea {
	points := make([]Point, 0)
	for _, raw := range array(m["points"]) {
		if p := object(raw); p != nil {
			x, okX := number(p["x"])
			y, okY := number(p["y"])
			if okX && okY {
				points = append(points, Point{X: x, Y: y})
			}
			continue
		}
		if pair := array(raw); len(pair) == 2 {
			x, okX := number(pair[0])
			y, okY := number(pair[1])
			if okX && okY {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return StationArea{
		Name:   textOr(m["name"], Unknown),
		Fill:   textOr(m["fill"], ""),
		Points: points,
	}
}

func toZone(m map[string]any) Zone {
	return Zone{
		ID:       textOr(m["id"], Unknown),
		X:        coordinate(m["x"]),
		Y:        coordinate(m["y"]),
		Width:    coordinate(m["width"]),
		Height:   coordinate(m["height"]),
		Occupied: boolean(m["occupied"]),
	}
}

func toButton(m map[string]any) Button {
	return Button{
		ID:     textOr(m["id"], Unknown),
		X:      coordinate(m["x"]),
		Y:      coordinate(m["y"]),
		Width:  coordinate(m["width"]),
		Height: coordinate(m["height"]),
		Text:   textOr(m["text"], ""),
	}
}

func toLabel(m map[string]any) Label {
	return Label{
		X:        coordinate(m["x"]),
		Y:        coordinate(m["y"]),
		Text:     textOr(m["text"], ""),
		FontSize: numberOr(m["size"], 0),
		Fill:     textOr(m["fill"], ""),
	}
}

// ToTrainSummaries reads {data: {t: [...]}}. Entries that are not objects are dropped;
// missing text falls back to Unknown, missing numbers stay unset.
func ToTrainSummaries(payload any) []TrainSummary {
	raw := all(trainsPath, payload)
	out := make([]TrainSummary, 0, len(raw))
	for _, item := range raw {
		if m := object(item); m != nil {
			out = append(out, toTrainSummary(m))
		}
	}
	return out
}

func toTrainSummary(train map[string]any) TrainSummary {
	rows := all(timetableRowsPath, train)
	timetable := make([]TimetableEntry, 0, len(rows))
	for _, row := range rows {
		if m := object(row); m != nil {
			timetable = append(timetable, toTimetableEntry(m))
		}
	}

	return TrainSummary{
		TrainNoLocal:     textOr(train["trainNoLocal"], ""),
		Name:             textOr(first(trainNamePath, train), Unknown),
		Velocity:         coordinate(first(velocityPath, train)),
		Delay:            wholeNumber(first(delayPath, train)),
		LocoType:         textOr(first(locoTypePath, train), Unknown),
		Length:           coordinate(first(lengthPath, train)),
		Weight:           coordinate(first(weightPath, train)),
		Type:             textOr(first(trainTypePath, train), Unknown),
		StartStation:     textOr(first(startStationPath, train), Unknown),
		EndStation:       textOr(first(endStationPath, train), Unknown),
		HeldAtSignal:     boolean(first(heldPath, train)),
		HeldAtSignalSoon: boolean(first(heldSoonPath, train)),
		Timetable:        timetable,
	}
}

func toTimetableEntry(m map[string]any) TimetableEntry {
	arrivalReal, hasArrivalReal := text(m["arrivalTime_real"])
	arrivalPlan := textOr(m["arrivalTime"], "")
	departureReal, hasDepartureReal := text(m["departureTime_real"])
	departurePlan := textOr(m["departureTime"], "")

	entry := TimetableEntry{
		StationName:  textOr(m["nameForPerson"], Unknown),
		Arrival:      lo.Ternary(hasArrivalReal, arrivalReal, arrivalPlan),
		Departure:    lo.Ternary(hasDepartureReal, departureReal, departurePlan),
		StopDuration: intOr(m["stop_duration"], 0),
	}

	switch {
	case hasDepartureReal && departurePlan != "":
		entry.DelayMinutes = DelayByDateDiff(departurePlan, departureReal)
	case hasArrivalReal && arrivalPlan != "":
		entry.DelayMinutes = DelayByDateDiff(arrivalPlan, arrivalReal)
	}
	return entry
}

// DelayByDateDiff returns b-a in whole minutes, or 0 when either time does not parse.
func DelayByDateDiff(a, b string) int {
	tA, errA := time.Parse(TimetableLayout, a)
	tB, errB := time.Parse(TimetableLayout, b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tB.Sub(tA).Minutes())
}

// ToServerList reads {servers: [{ServerCode, ServerName, IsActive}]}.
// Entries without a code cannot be selected and are dropped.
func ToServerList(payload any) []ServerInfo {
	return lo.FilterMap(all(serversPath, payload), func(item any, _ int) (ServerInfo, bool) {
		m := object(item)
		code, ok := text(m["ServerCode"])
		if !ok {
			return ServerInfo{}, false
		}
		active := true
		if v, set := m["IsActive"]; set {
			active = boolean(v)
		}
		return ServerInfo{
			Code:   code,
			Name:   textOr(m["ServerName"], code),
			Active: active,
		}, true
	})
}

// ToLayoutList reads {layouts: [{id, number, name}]}. Entries without a number are dropped.
func ToLayoutList(payload any) []LayoutInfo {
	return lo.FilterMap(all(layoutsPath, payload), func(item any, _ int) (LayoutInfo, bool) {
		m := object(item)
		n, ok := number(m["number"])
		if !ok {
			return LayoutInfo{}, false
		}
		nr := int(n)
		return LayoutInfo{
			ID:     textOr(m["id"], strconv.Itoa(nr)),
			Number: nr,
			Name:   textOr(m["name"], "Layout "+strconv.Itoa(nr)),
		}, true
	})
}
