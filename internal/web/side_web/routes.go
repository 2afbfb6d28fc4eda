package side_web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ohler55/ojg/oj"
	"go.uber.org/zap"

	"tarediiran-industries.com/side-services/internal/feed"
	"tarediiran-industries.com/side-services/internal/refresh"
)

const htmlContentType = "text/html; charset=utf-8"

func (server *SideWebServer) render(writer http.ResponseWriter, name string, data any) {
	writer.Header().Set("Content-Type", htmlContentType)
	if err := server.renderer.Render(writer, name, data); err != nil {
		server.logger.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// apply hands ev to the controller and waits for the resulting state.
func (server *SideWebServer) apply(writer http.ResponseWriter, request *http.Request, ev refresh.Event) (refresh.State, bool) {
	state, err := server.controller.Apply(request.Context(), ev)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusServiceUnavailable)
		return refresh.State{}, false
	}
	return state, true
}

func (server *SideWebServer) handleDashboardPage(writer http.ResponseWriter, request *http.Request) {
	viewmodel := BuildDashboardPageVM(server.controller.Snapshot(), server.pollSeconds, server.now())
	server.render(writer, "layout.html", viewmodel)
}

func (server *SideWebServer) handleMapPartial(writer http.ResponseWriter, request *http.Request) {
	viewmodel := BuildMapVM(server.controller.Snapshot(), server.now())
	server.render(writer, "map.html", viewmodel)
}

func (server *SideWebServer) handleTrainsPartial(writer http.ResponseWriter, request *http.Request) {
	viewmodel := BuildRosterTableVM(server.controller.Snapshot(), server.now())
	server.render(writer, "trains_table.html", viewmodel)
}

func (server *SideWebServer) handleDetailPartial(writer http.ResponseWriter, request *http.Request) {
	server.render(writer, "detail.html", BuildDetailVM(server.controller.Snapshot()))
}

func (server *SideWebServer) handleStatus(writer http.ResponseWriter, request *http.Request) {
	body := oj.JSON(BuildStatus(server.controller.Snapshot()))
	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write([]byte(body))
}

// BuildStatus is the JSON document served by the status endpoint.
func BuildStatus(state refresh.State) map[string]any {
	lifecycles := make([]any, 0, len(refresh.Lifecycles))
	for _, l := range refresh.Lifecycles {
		cycle := state.Cycle(l)
		updatedAt := ""
		if !cycle.UpdatedAt.IsZero() {
			updatedAt = cycle.UpdatedAt.UTC().Format(time.RFC3339)
		}
		lifecycles = append(lifecycles, map[string]any{
			"name":       l.String(),
			"phase":      cycle.Phase.String(),
			"generation": int64(cycle.Generation),
			"key":        cycle.Key.String(),
			"lastError":  cycle.LastError,
			"failures":   int64(cycle.Failures),
			"updatedAt":  updatedAt,
			"stale":      cycle.Stale(),
		})
	}
	return map[string]any{
		"key":           state.Key.String(),
		"selectedTrain": state.SelectedTrainID,
		"trains":        int64(len(state.Roster)),
		"lifecycles":    lifecycles,
	}
}

func (server *SideWebServer) handleFeed(writer http.ResponseWriter, request *http.Request) {
	query, err := ParseFeedQuery(request.URL.Query())
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	message := feed.BuildFeedMessage(server.controller.Snapshot().Roster, server.now())
	body, err := feed.Marshal(message, query.Format)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", feed.ContentType(query.Format))
	_, _ = writer.Write(body)
}

func (server *SideWebServer) handleSelection(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	input, err := ParseSelectionForm(request.PostForm)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := server.apply(writer, request, refresh.KeyChanged{Key: input.Key()}); !ok {
		return
	}
	http.Redirect(writer, request, "/dashboard", http.StatusSeeOther)
}

func (server *SideWebServer) handleRefresh(writer http.ResponseWriter, request *http.Request) {
	if _, ok := server.apply(writer, request, refresh.Tick{}); !ok {
		return
	}
	http.Redirect(writer, request, "/dashboard", http.StatusSeeOther)
}

func (server *SideWebServer) handleSelectTrain(writer http.ResponseWriter, request *http.Request) {
	trainNo := chi.URLParam(request, "trainNo")
	state, ok := server.apply(writer, request, refresh.TrainSelected{TrainNo: trainNo})
	if !ok {
		return
	}
	if state.SelectedTrainID != trainNo {
		http.Error(writer, "train not found", http.StatusNotFound)
		return
	}
	server.render(writer, "detail.html", BuildDetailVM(state))
}

func (server *SideWebServer) handleClearTrain(writer http.ResponseWriter, request *http.Request) {
	state, ok := server.apply(writer, request, refresh.SelectionCleared{})
	if !ok {
		return
	}
	server.render(writer, "detail.html", BuildDetailVM(state))
}
