package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/side-services/internal/common"
	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/scene"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

var sceneKinds = []scene.Kind{
	scene.KindLine,
	scene.KindStationMarker,
	scene.KindStationLabel,
	scene.KindStationArea,
	scene.KindTrainZone,
	scene.KindBlockZone,
	scene.KindButton,
	scene.KindLabel,
}

func NewLayoutCmd(app *SideCtlApp) *cobra.Command {
	var key keyFlags

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Render a layout and summarize its map elements",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.Source.Query(cmd.Context(), datasource.LayoutQuery(key.server, key.layout))
			if err != nil {
				return err
			}

			rendered, err := common.RuntimeBenchmark(app.Logger, "render-layout", func() (scene.Scene, error) {
				return scene.Render(viewmodel.ToLayout(payload)), nil
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCOUNT")
			for _, kind := range sceneKinds {
				fmt.Fprintf(w, "%s\t%d\n", kind, rendered.Count(kind))
			}
			fmt.Fprintf(w, "skipped\t%d\n", rendered.Skipped)
			return w.Flush()
		},
	}

	key.register(cmd)
	return cmd
}
