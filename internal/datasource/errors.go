package datasource

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = errors.New("transport error")
	// ErrMalformedBody means the response body was not JSON at all.
	ErrMalformedBody = errors.New("malformed response body")
	ErrUnknownQuery  = errors.New("unknown query type")
)

type FetchError struct {
	Query      Query
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("query %s: status %d: %v", e.Query, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
