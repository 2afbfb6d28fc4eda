package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/side-services/internal/common"
	"tarediiran-industries.com/side-services/internal/datasource"
)

func NewHealthCmd(app *SideCtlApp) *cobra.Command {
	var key keyFlags

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that every API query answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries := []datasource.Query{
				datasource.ServersQuery(),
				datasource.LayoutsQuery(),
				datasource.LayoutQuery(key.server, key.layout),
				datasource.TrainsQuery(key.server, key.layout),
			}

			failed := 0
			for _, q := range queries {
				benchmarker := common.NewBenchmarker(app.Logger, q.String())
				_, err := app.Source.Query(cmd.Context(), q)
				elapsed := benchmarker.Elapsed()
				benchmarker.Close()

				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %-16s %v\n", q, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK   %-16s %s\n", q, elapsed.Round(time.Microsecond))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d queries failed", failed, len(queries))
			}
			return nil
		},
	}

	key.register(cmd)
	return cmd
}
