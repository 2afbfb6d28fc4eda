package datasource

import (
	"context"
	"sync"

	"github.com/ohler55/ojg/oj"
)

const mockServers = `{"servers": [
	{"ServerCode": "en1", "ServerName": "EN1 (English)", "IsActive": true},
	{"ServerCode": "de1", "ServerName": "DE1 (Deutsch)", "IsActive": true},
	{"ServerCode": "pl1", "ServerName": "PL1 (Polski)", "IsActive": true},
	{"ServerCode": "pl2", "ServerName": "PL2 (Polski)", "IsActive": false}
]}`

const mockLayouts = `{"layouts": [
	{"id": "kat", "number": 0, "name": "Katowice - Sosnowiec"},
	{"id": "zaw", "number": 1, "name": "Zawiercie - Myszkow"}
]}`

const mockLayout = `{"layout_data": {
	"glines": [
		{"x1": 100, "y1": 200, "x2": 500, "y2": 200, "stroke": "#9e9e9e", "stroke_width": 4},
		{"x1": 500, "y1": 200, "x2": 800, "y2": 600, "stroke": "#9e9e9e", "stroke_width": 4}
	],
	"stations": [
		{"x": 100, "y": 200, "name": "Katowice"},
		{"x": 500, "y": 200, "name": "Sosnowiec Glowny"},
		{"x": 800, "y": 600, "name": "Dabrowa Gornicza"}
	],
	"blockzones": [{"id": "KO1", "x": 250, "y": 190, "width": 60, "height": 20, "occupied": true}],
	"labels": [{"x": 40, "y": 40, "text": "Line 1", "size": 22}]
}}`

const mockTrains = `{"data": {"t": [
	{
		"trainNoLocal": "501",
		"trainObject": {
			"TrainName": "IC1", "TrainData": {"Velocity": 118}, "delay": 2,
			"Locotype": "EP07", "TrainLength": 180, "TrainWeight": 420, "TrainType": "IC",
			"startStation": "Katowice", "endStation": "Warszawa Centralna",
			"held_at_signal": false, "held_at_signal_soon": true
		},
		"timetable": [
			{"nameForPerson": "Katowice", "departureTime": "2024-01-01 10:00:00", "departureTime_real": "2024-01-01 10:02:00"},
			{"nameForPerson": "Sosnowiec Glowny", "arrivalTime": "2024-01-01 10:09:00", "departureTime": "2024-01-01 10:10:00", "stop_duration": 1},
			{"nameForPerson": "Dabrowa Gornicza", "arrivalTime": "2024-01-01 10:21:00"}
		]
	},
	{
		"trainNoLocal": "40610",
		"trainObject": {"TrainName": "ROJ", "TrainData": {"Velocity": 0}, "delay": 0, "held_at_signal": true}
	},
	{"trainNoLocal": "3130", "trainObject": null}
]}}`

// MockSource serves canned payloads; every query type answers regardless of key.
type MockSource struct {
	mu       sync.Mutex
	payloads map[QueryType]string
	failures map[QueryType]error
	calls    []Query
}

func NewMockSource() *MockSource {
	return &MockSource{
		payloads: map[QueryType]string{
			QueryServers: mockServers,
			QueryLayouts: mockLayouts,
			QueryLayout:  mockLayout,
			QueryTrains:  mockTrains,
		},
		failures: map[QueryType]error{},
	}
}

// Set replaces the JSON document served for a query type and clears any failure.
func (m *MockSource) Set(queryType QueryType, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[queryType] = payload
	delete(m.failures, queryType)
}

// Fail makes every following query of that type return err.
func (m *MockSource) Fail(queryType QueryType, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[queryType] = err
}

func (m *MockSource) Calls() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.calls...)
}

func (m *MockSource) Query(ctx context.Context, q Query) (any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	payload, known := m.payloads[q.Type]
	failure := m.failures[q.Type]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Query: q, Err: err}
	}
	if failure != nil {
		return nil, &FetchError{Query: q, Err: failure}
	}
	if !known {
		return nil, &FetchError{Query: q, Err: ErrUnknownQuery}
	}
	parsed, err := oj.ParseString(payload)
	if err != nil {
		return nil, &FetchError{Query: q, Err: err}
	}
	return parsed, nil
}
