package viewmodel

import (
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) any {
	t.Helper()
	payload, err := oj.ParseString(data)
	require.NoError(t, err)
	return payload
}

func assertLayoutComplete(t *testing.T, layout Layout) {
	t.Helper()
	assert.NotNil(t, layout.GLines)
	assert.NotNil(t, layout.Stations)
	assert.NotNil(t, layout.StationAreas)
	assert.NotNil(t, layout.TrainZones)
	assert.NotNil(t, layout.BlockZones)
	assert.NotNil(t, layout.Buttons)
	assert.NotNil(t, layout.Labels)
}

func TestToLayout_MissingArrays(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty object", payload: `{}`},
		{name: "null layout_data", payload: `{"layout_data": null}`},
		{name: "empty layout_data", payload: `{"layout_data": {}}`},
		{name: "only stations", payload: `{"layout_data": {"stations": [{"x": 1, "y": 2, "name": "A"}]}}`},
		{name: "only glines", payload: `{"layout_data": {"glines": [{"x1": 0, "y1": 0, "x2": 5, "y2": 5}]}}`},
		{name: "arrays of wrong type", payload: `{"layout_data": {"glines": "nope", "stations": 12, "labels": {"a": 1}}}`},
		{name: "nulls", payload: `{"layout_data": {"glines": null, "stations": null, "buttons": null}}`},
		{name: "not an object", payload: `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertLayoutComplete(t, ToLayout(parse(t, tt.payload)))
		})
	}

	t.Run("nil payload", func(t *testing.T) {
		assertLayoutComplete(t, ToLayout(nil))
	})
}

func TestToLayout_Elements(t *testing.T) {
	layout := ToLayout(parse(t, `{"layout_data": {
		"glines": [{"x1": 0, "y1": 1.5, "x2": "10", "y2": 20, "stroke": "#fff", "stroke_width": 3}, {"x1": 4}],
		"stations": [{"x": 10, "y": 20, "name": "Central"}, {"y": 5}],
		"stationareas": [{"name": "Yard", "points": [{"x": 0, "y": 0}, [10, 0], [10, 10], "junk"]}],
		"trainzones": [{"id": "tz1", "x": 1, "y": 2, "width": 3, "height": 4, "occupied": true}],
		"blockzones": [{"id": 7, "x": 1, "y": 2, "width": 3, "height": 4}],
		"buttons": [{"id": "b1", "x": 5, "y": 5, "width": 20, "height": 10, "text": "Go"}],
		"labels": [{"x": 100, "y": 200, "text": "North", "size": 12}, "garbage"]
	}}`))

	require.Len(t, layout.GLines, 2)
	x2, ok := layout.GLines[0].X2.Get()
	assert.True(t, ok)
	assert.Equal(t, 10.0, x2)
	assert.Equal(t, "#fff", layout.GLines[0].Stroke)
	assert.Equal(t, 3.0, layout.GLines[0].StrokeWidth)
	assert.True(t, layout.GLines[1].Y1.IsUnset())

	require.Len(t, layout.Stations, 2)
	assert.Equal(t, "Central", layout.Stations[0].Name)
	assert.Equal(t, Unknown, layout.Stations[1].Name)
	assert.True(t, layout.Stations[1].X.IsUnset())

	require.Len(t, layout.StationAreas, 1)
	assert.Equal(t, []Point{{0, 0}, {10, 0}, {10, 10}}, layout.StationAreas[0].Points)

	require.Len(t, layout.TrainZones, 1)
	assert.True(t, layout.TrainZones[0].Occupied)
	require.Len(t, layout.BlockZones, 1)
	assert.Equal(t, "7", layout.BlockZones[0].ID)

	require.Len(t, layout.Buttons, 1)
	assert.Equal(t, "Go", layout.Buttons[0].Text)

	require.Len(t, layout.Labels, 1)
	assert.Equal(t, 12.0, layout.Labels[0].FontSize)
}

func TestToTrainSummaries_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []TrainSummary
	}{
		{name: "no data", payload: `{}`, want: []TrainSummary{}},
		{name: "null t", payload: `{"data": {"t": null}}`, want: []TrainSummary{}},
		{
			name:    "no trainObject",
			payload: `{"data": {"t": [{"trainNoLocal": "501"}]}}`,
			want: []TrainSummary{{
				TrainNoLocal: "501", Name: Unknown, LocoType: Unknown, Type: Unknown,
				StartStation: Unknown, EndStation: Unknown, Timetable: []TimetableEntry{},
			}},
		},
		{
			name:    "null trainObject and numeric id",
			payload: `{"data": {"t": [{"trainNoLocal": 14021, "trainObject": null, "timetable": null}]}}`,
			want: []TrainSummary{{
				TrainNoLocal: "14021", Name: Unknown, LocoType: Unknown, Type: Unknown,
				StartStation: Unknown, EndStation: Unknown, Timetable: []TimetableEntry{},
			}},
		},
		{
			name:    "trainObject without TrainData",
			payload: `{"data": {"t": [{"trainNoLocal": "1", "trainObject": {"TrainName": "IC1"}}]}}`,
			want: []TrainSummary{{
				TrainNoLocal: "1", Name: "IC1", LocoType: Unknown, Type: Unknown,
				StartStation: Unknown, EndStation: Unknown, Timetable: []TimetableEntry{},
			}},
		},
		{
			name:    "non-object entries dropped",
			payload: `{"data": {"t": [42, "x", null]}}`,
			want:    []TrainSummary{},
		},
		{
			name:    "missing identifier",
			payload: `{"data": {"t": [{}]}}`,
			want: []TrainSummary{{
				Name: Unknown, LocoType: Unknown, Type: Unknown,
				StartStation: Unknown, EndStation: Unknown, Timetable: []TimetableEntry{},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []TrainSummary
			assert.NotPanics(t, func() { got = ToTrainSummaries(parse(t, tt.payload)) })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToTrainSummaries_MissingNumbersStayUnset(t *testing.T) {
	got := ToTrainSummaries(parse(t, `{"data": {"t": [
		{"trainNoLocal": "501"},
		{"trainNoLocal": "502", "trainObject": {"TrainData": {"Velocity": "fast"}, "delay": 0}}
	]}}`))
	require.Len(t, got, 2)

	bare := got[0]
	assert.True(t, bare.Velocity.IsUnset())
	assert.True(t, bare.Delay.IsUnset())
	assert.True(t, bare.Length.IsUnset())
	assert.True(t, bare.Weight.IsUnset())

	assert.True(t, got[1].Velocity.IsUnset(), "non-numeric speed is not a speed")
	assert.Equal(t, omit.From(0), got[1].Delay, "an explicit zero delay is kept")
}

func TestToTrainSummaries_Full(t *testing.T) {
	got := ToTrainSummaries(parse(t, `{"data": {"t": [{
		"trainNoLocal": "501",
		"trainObject": {
			"TrainName": "IC1", "TrainData": {"Velocity": 121.4}, "delay": 3,
			"Locotype": "EP07", "TrainLength": 180, "TrainWeight": 420.5, "TrainType": "IC",
			"startStation": "Katowice", "endStation": "Warszawa", "held_at_signal": true
		},
		"timetable": [
			{"nameForPerson": "Katowice", "departureTime": "2024-01-01 10:00:00", "departureTime_real": "2024-01-01 10:04:00"},
			{"nameForPerson": "Sosnowiec", "arrivalTime": "2024-01-01 10:10:00", "arrivalTime_real": "",
			 "departureTime": "2024-01-01 10:11:00", "stop_duration": 1},
			{"arrivalTime": "2024-01-01 11:00:00", "arrivalTime_real": "2024-01-01 10:58:00"}
		]
	}]}}`))

	require.Len(t, got, 1)
	train := got[0]
	assert.Equal(t, "501", train.TrainNoLocal)
	assert.Equal(t, "IC1", train.Name)
	assert.Equal(t, omit.From(121.4), train.Velocity)
	assert.Equal(t, omit.From(3), train.Delay)
	assert.Equal(t, "EP07", train.LocoType)
	assert.Equal(t, omit.From(180.0), train.Length)
	assert.Equal(t, omit.From(420.5), train.Weight)
	assert.True(t, train.HeldAtSignal)
	assert.False(t, train.HeldAtSignalSoon)

	assert.Equal(t, []TimetableEntry{
		{StationName: "Katowice", Departure: "2024-01-01 10:04:00", DelayMinutes: 4},
		{StationName: "Sosnowiec", Arrival: "2024-01-01 10:10:00", Departure: "2024-01-01 10:11:00", StopDuration: 1},
		{StationName: Unknown, Arrival: "2024-01-01 10:58:00", DelayMinutes: -2},
	}, train.Timetable)
}

func TestDelayByDateDiff(t *testing.T) {
	assert.Equal(t, 5, DelayByDateDiff("2024-01-01 10:00:00", "2024-01-01 10:05:30"))
	assert.Equal(t, 0, DelayByDateDiff("bad", "2024-01-01 10:05:30"))
	assert.Equal(t, -1, DelayByDateDiff("2024-01-01 10:01:00", "2024-01-01 10:00:00"))
}

func TestToServerList(t *testing.T) {
	got := ToServerList(parse(t, `{"servers": [
		{"ServerCode": "en1", "ServerName": "EN1 (English)"},
		{"ServerCode": "pl1", "ServerName": "PL1", "IsActive": false},
		{"ServerName": "no code"},
		{"ServerCode": "de1"},
		"junk"
	]}`))

	assert.Equal(t, []ServerInfo{
		{Code: "en1", Name: "EN1 (English)", Active: true},
		{Code: "pl1", Name: "PL1", Active: false},
		{Code: "de1", Name: "de1", Active: true},
	}, got)

	assert.Empty(t, ToServerList(parse(t, `{"servers": null}`)))
	assert.Empty(t, ToServerList(nil))
}

func TestToLayoutList(t *testing.T) {
	got := ToLayoutList(parse(t, `{"layouts": [
		{"id": "l0", "number": 0, "name": "Katowice"},
		{"number": "3"},
		{"id": "x", "name": "no number"}
	]}`))

	assert.Equal(t, []LayoutInfo{
		{ID: "l0", Number: 0, Name: "Katowice"},
		{ID: "3", Number: 3, Name: "Layout 3"},
	}, got)

	assert.Empty(t, ToLayoutList(parse(t, `{}`)))
}

func TestFilterServers(t *testing.T) {
	servers := []ServerInfo{
		{Code: "en1", Active: true},
		{Code: "pl2", Active: true},
		{Code: "de1", Active: false},
	}

	assert.Equal(t, []ServerInfo{{Code: "en1", Active: true}, {Code: "de1", Active: false}},
		FilterServers(servers, DefaultExcludedServers, false))
	assert.Equal(t, []ServerInfo{{Code: "en1", Active: true}},
		FilterServers(servers, DefaultExcludedServers, true))
	assert.Len(t, FilterServers(servers, nil, false), 3)
}

func TestFindLayout(t *testing.T) {
	layouts := []LayoutInfo{{ID: "a", Number: 0}, {ID: "b", Number: 2}}
	got, ok := FindLayout(layouts, 2)
	assert.True(t, ok)
	assert.Equal(t, "b", got.ID)
	_, ok = FindLayout(layouts, 9)
	assert.False(t, ok)
}
