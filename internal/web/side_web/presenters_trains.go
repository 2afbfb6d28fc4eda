package side_web

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/samber/lo"

	"tarediiran-industries.com/side-services/internal/refresh"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

func BuildRosterTableVM(state refresh.State, now time.Time) RosterTableVM {
	rows := lo.Map(state.Roster, func(train viewmodel.TrainSummary, _ int) TrainRowVM {
		selectable := train.TrainNoLocal != ""
		return TrainRowVM{
			TrainNo:    lo.Ternary(selectable, train.TrainNoLocal, "-"),
			Name:       train.Name,
			Type:       train.Type,
			Speed:      formatSpeed(train.Velocity),
			Delay:      formatDelay(train.Delay),
			Route:      formatRoute(train.StartStation, train.EndStation),
			Signal:     formatSignal(train),
			Selected:   selectable && train.TrainNoLocal == state.SelectedTrainID,
			Selectable: selectable,
			SelectURL:  "/dashboard/trains/" + url.PathEscape(train.TrainNoLocal) + "/select",
		}
	})

	return RosterTableVM{
		Key:       state.Key.String(),
		UpdatedAt: now.Format("15:04:05"),
		Status:    BuildLifecycleVM(refresh.LifecycleTrains, state.Cycle(refresh.LifecycleTrains), now),
		Rows:      rows,
	}
}

// BuildDetailVM is empty unless a train is selected and still in the roster.
func BuildDetailVM(state refresh.State) DetailVM {
	train, ok := state.Detail()
	if !ok {
		return DetailVM{}
	}

	stops := lo.Map(train.Timetable, func(entry viewmodel.TimetableEntry, _ int) StopVM {
		return StopVM{
			Station:   entry.StationName,
			Arrival:   formatClock(entry.Arrival),
			Departure: formatClock(entry.Departure),
			Stop:      lo.Ternary(entry.StopDuration > 0, strconv.Itoa(entry.StopDuration)+" min", "-"),
			Delay:     formatDelayMinutes(entry.DelayMinutes),
		}
	})

	return DetailVM{
		Visible:  true,
		TrainNo:  train.TrainNoLocal,
		Name:     train.Name,
		Type:     train.Type,
		LocoType: train.LocoType,
		Length:   formatMeasure(train.Length, "m"),
		Weight:   formatMeasure(train.Weight, "t"),
		Speed:    formatSpeed(train.Velocity),
		Delay:    formatDelay(train.Delay),
		Route:    formatRoute(train.StartStation, train.EndStation),
		Signal:   formatSignal(train),
		Stops:    stops,
	}
}

func formatSpeed(velocity omit.Val[float64]) string {
	v, ok := velocity.Get()
	if !ok {
		return viewmodel.Unknown
	}
	return fmt.Sprintf("%.0f km/h", v)
}

func formatMeasure(value omit.Val[float64], unit string) string {
	v, ok := value.Get()
	if !ok {
		return viewmodel.Unknown
	}
	return fmt.Sprintf("%g %s", v, unit)
}

// formatDelay renders a reported train delay; absence is not the same as on time.
func formatDelay(minutes omit.Val[int]) string {
	m, ok := minutes.Get()
	if !ok {
		return viewmodel.Unknown
	}
	return formatDelayMinutes(m)
}

func formatDelayMinutes(minutes int) string {
	switch {
	case minutes == 0:
		return "on time"
	case minutes > 0:
		return fmt.Sprintf("+%d min", minutes)
	default:
		return fmt.Sprintf("%d min", minutes)
	}
}

func formatRoute(from, to string) string {
	return from + " → " + to
}

func formatSignal(train viewmodel.TrainSummary) string {
	switch {
	case train.HeldAtSignal:
		return "Held at signal"
	case train.HeldAtSignalSoon:
		return "Approaching signal"
	default:
		return ""
	}
}

// formatClock shows the wall-clock part of a timetable time, or "-" when missing.
func formatClock(value string) string {
	if value == "" {
		return "-"
	}
	t, err := time.Parse(viewmodel.TimetableLayout, value)
	if err != nil {
		return value
	}
	return t.Format("15:04")
}
