package side_web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/refresh"
)

const (
	waitFor = 2 * time.Second
	pollIn  = 5 * time.Millisecond
)

func newTestServer(t *testing.T) (*SideWebServer, *datasource.MockSource) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Mock = true

	server, err := NewSideWebServer(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	mock, ok := server.source.(*datasource.MockSource)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = server.controller.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	require.Eventually(t, func() bool {
		state := server.controller.Snapshot()
		for _, l := range refresh.Lifecycles {
			if state.Cycle(l).Phase != refresh.PhaseReady {
				return false
			}
		}
		return true
	}, waitFor, pollIn)
	return server, mock
}

func do(t *testing.T, server *SideWebServer, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var request *http.Request
	if form != nil {
		request = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		request = httptest.NewRequest(method, path, nil)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Redirect(t *testing.T) {
	server, _ := newTestServer(t)
	response := do(t, server, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, response.Code)
	assert.Equal(t, "/dashboard", response.Header().Get("Location"))
}

func TestServer_DashboardPage(t *testing.T) {
	server, _ := newTestServer(t)
	response := do(t, server, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, htmlContentType, response.Header().Get("Content-Type"))

	body := response.Body.String()
	assert.Contains(t, body, "EN1 (English)")
	assert.Contains(t, body, "0 - Katowice - Sosnowiec")
	assert.NotContains(t, body, "PL2 (Polski)")
	assert.Contains(t, body, "every 2s")
	assert.Contains(t, body, "Select a train to see its timetable.")
}

func TestServer_MapPartial(t *testing.T) {
	server, _ := newTestServer(t)
	response := do(t, server, http.MethodGet, "/dashboard/map", nil)
	require.Equal(t, http.StatusOK, response.Code)

	body := response.Body.String()
	assert.Contains(t, body, `viewBox="0 0 1000 1300"`)
	assert.Contains(t, body, `cx="100" cy="200"`)
	assert.Contains(t, body, `<text x="116" y="200"`)
	assert.Contains(t, body, "Sosnowiec Glowny")
	assert.Contains(t, body, `data-zone="KO1" class="block-zone"`)
	assert.Contains(t, body, "Line 1")
	assert.Equal(t, 2, strings.Count(body, "<line "))
}

func TestServer_TrainSelection(t *testing.T) {
	server, _ := newTestServer(t)

	response := do(t, server, http.MethodGet, "/dashboard/trains", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "IC1")
	assert.Contains(t, response.Body.String(), "Held at signal")
	assert.Contains(t, response.Body.String(), "/dashboard/trains/501/select")

	response = do(t, server, http.MethodPost, "/dashboard/trains/501/select", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "EP07")
	assert.Contains(t, response.Body.String(), "Sosnowiec Glowny")
	assert.Contains(t, response.Body.String(), "10:09")

	response = do(t, server, http.MethodGet, "/dashboard/detail", nil)
	assert.Contains(t, response.Body.String(), "Warszawa Centralna")
	response = do(t, server, http.MethodGet, "/dashboard/trains", nil)
	assert.Contains(t, response.Body.String(), `class="selected"`)

	response = do(t, server, http.MethodPost, "/dashboard/trains/9999/select", nil)
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, "501", server.controller.Snapshot().SelectedTrainID)

	response = do(t, server, http.MethodPost, "/dashboard/trains/clear", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "Select a train")
	assert.Empty(t, server.controller.Snapshot().SelectedTrainID)
}

func TestServer_SelectionChange(t *testing.T) {
	server, mock := newTestServer(t)

	response := do(t, server, http.MethodPost, "/dashboard/selection", url.Values{"server": {"DE1"}, "layout": {"1"}})
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, refresh.Key{Server: "de1", LayoutNumber: 1}, server.controller.Snapshot().Key)

	assert.Eventually(t, func() bool {
		for _, q := range mock.Calls() {
			if q == datasource.TrainsQuery("de1", 1) {
				return true
			}
		}
		return false
	}, waitFor, pollIn)

	response = do(t, server, http.MethodPost, "/dashboard/selection", url.Values{"server": {"de1"}, "layout": {"x"}})
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestServer_SelectionClearedWhenTrainLeaves(t *testing.T) {
	server, mock := newTestServer(t)

	response := do(t, server, http.MethodPost, "/dashboard/trains/501/select", nil)
	require.Equal(t, http.StatusOK, response.Code)

	mock.Set(datasource.QueryTrains, `{"data": {"t": [{"trainNoLocal": "40610"}]}}`)
	response = do(t, server, http.MethodPost, "/dashboard/refresh", nil)
	assert.Equal(t, http.StatusSeeOther, response.Code)

	assert.Eventually(t, func() bool {
		state := server.controller.Snapshot()
		return state.Cycle(refresh.LifecycleTrains).Phase == refresh.PhaseReady && len(state.Roster) == 1
	}, waitFor, pollIn)

	response = do(t, server, http.MethodGet, "/dashboard/detail", nil)
	assert.NotContains(t, response.Body.String(), "IC1")
	assert.Contains(t, response.Body.String(), "Select a train")
}

func TestServer_FailedRefreshKeepsRoster(t *testing.T) {
	server, mock := newTestServer(t)

	mock.Fail(datasource.QueryTrains, errors.New("upstream down"))
	do(t, server, http.MethodPost, "/dashboard/refresh", nil)

	assert.Eventually(t, func() bool {
		return server.controller.Snapshot().Cycle(refresh.LifecycleTrains).Phase == refresh.PhaseFailed
	}, waitFor, pollIn)

	body := do(t, server, http.MethodGet, "/dashboard/trains", nil).Body.String()
	assert.Contains(t, body, "IC1")
	assert.Contains(t, body, "(stale)")
	assert.Contains(t, body, "upstream down")
}

func TestServer_Status(t *testing.T) {
	server, _ := newTestServer(t)
	response := do(t, server, http.MethodGet, "/dashboard/status", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "application/json", response.Header().Get("Content-Type"))

	parsed, err := oj.Parse(response.Body.Bytes())
	require.NoError(t, err)
	status, ok := parsed.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "en1/0", status["key"])

	lifecycles, ok := status["lifecycles"].([]any)
	require.True(t, ok)
	require.Len(t, lifecycles, 4)
	for _, item := range lifecycles {
		lifecycle := item.(map[string]any)
		assert.Equal(t, "ready", lifecycle["phase"], lifecycle["name"])
		assert.NotEmpty(t, lifecycle["updatedAt"])
	}
}

func TestServer_Feed(t *testing.T) {
	server, _ := newTestServer(t)

	response := do(t, server, http.MethodGet, "/dashboard/feed", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "application/x-protobuf", response.Header().Get("Content-Type"))
	message := &gtfs.FeedMessage{}
	require.NoError(t, proto.Unmarshal(response.Body.Bytes(), message))
	assert.Len(t, message.GetEntity(), 3)

	response = do(t, server, http.MethodGet, "/dashboard/feed?format=json", nil)
	require.Equal(t, http.StatusOK, response.Code)
	fromJSON := &gtfs.FeedMessage{}
	require.NoError(t, protojson.Unmarshal(response.Body.Bytes(), fromJSON))
	assert.Equal(t, "501", fromJSON.GetEntity()[0].GetTripUpdate().GetTrip().GetTripId())

	response = do(t, server, http.MethodGet, "/dashboard/feed?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, response.Code)
}
