// Package datasource issues the read-only queries the dashboard is built from.
package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type QueryType string

const (
	QueryServers QueryType = "servers"
	QueryLayouts QueryType = "layouts"
	QueryLayout  QueryType = "layout"
	QueryTrains  QueryType = "trains"
)

// Query is one parameterized read against /api. Server and LayoutNumber are
// only sent for the layout and trains queries.
type Query struct {
	Type         QueryType
	Server       string
	LayoutNumber int
}

func ServersQuery() Query { return Query{Type: QueryServers} }

func LayoutsQuery() Query { return Query{Type: QueryLayouts} }

func LayoutQuery(server string, layoutNumber int) Query {
	return Query{Type: QueryLayout, Server: server, LayoutNumber: layoutNumber}
}

func TrainsQuery(server string, layoutNumber int) Query {
	return Query{Type: QueryTrains, Server: server, LayoutNumber: layoutNumber}
}

func (q Query) Keyed() bool {
	return q.Type == QueryLayout || q.Type == QueryTrains
}

func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set("type", string(q.Type))
	if q.Keyed() {
		values.Set("server", q.Server)
		values.Set("layout", strconv.Itoa(q.LayoutNumber))
	}
	return values
}

func (q Query) String() string {
	if q.Keyed() {
		return fmt.Sprintf("%s(%s/%d)", q.Type, q.Server, q.LayoutNumber)
	}
	return string(q.Type)
}

// Source returns the parsed JSON payload of a query: map[string]any, []any,
// string, int64, float64, bool or nil. Failures are returned, never panicked.
type Source interface {
	Query(ctx context.Context, q Query) (any, error)
}
