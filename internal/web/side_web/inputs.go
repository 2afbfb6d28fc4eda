package side_web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tarediiran-industries.com/side-services/internal/feed"
	"tarediiran-industries.com/side-services/internal/refresh"
)

type SelectionInput struct {
	Server       string
	LayoutNumber int
}

func (input SelectionInput) Key() refresh.Key {
	return refresh.Key{Server: input.Server, LayoutNumber: input.LayoutNumber}
}

func ParseSelectionForm(values url.Values) (SelectionInput, error) {
	server := strings.ToLower(strings.TrimSpace(values.Get("server")))
	if server == "" {
		return SelectionInput{}, fmt.Errorf("missing server")
	}

	raw := strings.TrimSpace(values.Get("layout"))
	layout, err := strconv.Atoi(raw)
	if err != nil || layout < 0 {
		return SelectionInput{}, fmt.Errorf("invalid layout %q", raw)
	}

	return SelectionInput{Server: server, LayoutNumber: layout}, nil
}

type FeedQuery struct {
	Format string // feed.FormatProto or feed.FormatJSON
}

func ParseFeedQuery(values url.Values) (FeedQuery, error) {
	format := strings.ToLower(strings.TrimSpace(values.Get("format")))
	switch format {
	case "", feed.FormatProto:
		return FeedQuery{Format: feed.FormatProto}, nil
	case feed.FormatJSON:
		return FeedQuery{Format: feed.FormatJSON}, nil
	default:
		return FeedQuery{}, fmt.Errorf("unknown feed format %q", format)
	}
}
