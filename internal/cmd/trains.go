package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/aarondl/opt/omit"
	"github.com/spf13/cobra"

	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/roster"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

func fetchRoster(cmd *cobra.Command, app *SideCtlApp, key keyFlags) ([]viewmodel.TrainSummary, error) {
	payload, err := app.Source.Query(cmd.Context(), datasource.TrainsQuery(key.server, key.layout))
	if err != nil {
		return nil, err
	}
	return viewmodel.ToTrainSummaries(payload), nil
}

func NewTrainsCmd(app *SideCtlApp) *cobra.Command {
	var key keyFlags

	cmd := &cobra.Command{
		Use:   "trains",
		Short: "List trains running on a server and layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			trains, err := fetchRoster(cmd, app, key)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NO\tNAME\tSPEED\tDELAY\tFROM\tTO")
			for _, train := range trains {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					train.TrainNoLocal, train.Name, optional(train.Velocity, "%.0f"), optional(train.Delay, "%d"),
					train.StartStation, train.EndStation)
			}
			return w.Flush()
		},
	}

	key.register(cmd)
	return cmd
}

func optional[T any](value omit.Val[T], format string) string {
	v, ok := value.Get()
	if !ok {
		return viewmodel.Unknown
	}
	return fmt.Sprintf(format, v)
}

func NewTimetableCmd(app *SideCtlApp) *cobra.Command {
	var key keyFlags

	cmd := &cobra.Command{
		Use:   "timetable <trainNo>",
		Short: "Show the timetable of one train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trains, err := fetchRoster(cmd, app, key)
			if err != nil {
				return err
			}

			train, ok := roster.Find(trains, args[0])
			if !ok {
				return fmt.Errorf("train %s not found on %s/%d", args[0], key.server, key.layout)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s %s\n", train.TrainNoLocal, train.Name)
			fmt.Fprintln(w, "STATION\tARRIVAL\tDEPARTURE\tSTOP\tDELAY")
			for _, entry := range train.Timetable {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					entry.StationName, entry.Arrival, entry.Departure, entry.StopDuration, entry.DelayMinutes)
			}
			return w.Flush()
		},
	}

	key.register(cmd)
	return cmd
}
