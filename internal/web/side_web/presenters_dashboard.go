package side_web

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"tarediiran-industries.com/side-services/internal/refresh"
	"tarediiran-industries.com/side-services/internal/scene"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

func BuildDashboardPageVM(state refresh.State, pollSeconds int, now time.Time) DashboardPageVM {
	if pollSeconds <= 0 {
		pollSeconds = 2
	}

	return DashboardPageVM{
		Servers:     serverOptions(state.Servers, state.Key.Server),
		Layouts:     layoutOptions(state.Layouts, state.Key.LayoutNumber),
		PollSeconds: pollSeconds,
		Map:         BuildMapVM(state, now),
		Trains:      BuildRosterTableVM(state, now),
		Detail:      BuildDetailVM(state),
	}
}

// serverOptions keeps the current server selectable even when the catalog
// failed to load or does not list it.
func serverOptions(servers []viewmodel.ServerInfo, selected string) []OptionVM {
	out := lo.Map(servers, func(server viewmodel.ServerInfo, _ int) OptionVM {
		return OptionVM{Value: server.Code, Label: server.Name, Selected: server.Code == selected}
	})
	if !lo.ContainsBy(out, func(option OptionVM) bool { return option.Selected }) {
		out = append([]OptionVM{{Value: selected, Label: selected, Selected: true}}, out...)
	}
	return out
}

func layoutOptions(layouts []viewmodel.LayoutInfo, selected int) []OptionVM {
	out := lo.Map(layouts, func(layout viewmodel.LayoutInfo, _ int) OptionVM {
		return OptionVM{
			Value:    strconv.Itoa(layout.Number),
			Label:    fmt.Sprintf("%d - %s", layout.Number, layout.Name),
			Selected: layout.Number == selected,
		}
	})
	if _, ok := viewmodel.FindLayout(layouts, selected); !ok {
		value := strconv.Itoa(selected)
		out = append([]OptionVM{{Value: value, Label: "Layout " + value, Selected: true}}, out...)
	}
	return out
}

func BuildMapVM(state refresh.State, now time.Time) MapVM {
	elements := lo.Map(state.Scene.Elements, func(e scene.Element, _ int) ElementVM {
		return ElementVM{
			Kind:        e.Kind.String(),
			ID:          e.ID,
			X1:          e.X1,
			Y1:          e.Y1,
			X2:          e.X2,
			Y2:          e.Y2,
			X:           e.X,
			Y:           e.Y,
			R:           e.R,
			Width:       e.Width,
			Height:      e.Height,
			Points:      e.Points,
			Text:        e.Text,
			FontSize:    e.FontSize,
			Fill:        e.Fill,
			Stroke:      e.Stroke,
			StrokeWidth: e.StrokeWidth,
		}
	})

	return MapVM{
		ViewBox:  state.Scene.ViewBox,
		Elements: elements,
		Skipped:  state.Scene.Skipped,
		Status:   BuildLifecycleVM(refresh.LifecycleLayout, state.Cycle(refresh.LifecycleLayout), now),
	}
}

func BuildLifecycleVM(l refresh.Lifecycle, cycle refresh.Cycle, now time.Time) LifecycleVM {
	updated := "never"
	if !cycle.UpdatedAt.IsZero() {
		updated = formatAge(now, cycle.UpdatedAt)
	}
	return LifecycleVM{
		Name:      l.String(),
		Phase:     cycle.Phase.String(),
		LastError: cycle.LastError,
		UpdatedAt: updated,
		Stale:     cycle.Stale(),
	}
}

func formatAge(now, then time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs ago", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}
