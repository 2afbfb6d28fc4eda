package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

func NewServersCmd(app *SideCtlApp) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "List game servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.Source.Query(cmd.Context(), datasource.ServersQuery())
			if err != nil {
				return err
			}

			servers := viewmodel.ToServerList(payload)
			if !all {
				servers = viewmodel.FilterServers(servers, viewmodel.DefaultExcludedServers, false)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tACTIVE")
			for _, server := range servers {
				fmt.Fprintf(w, "%s\t%s\t%t\n", server.Code, server.Name, server.Active)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include servers hidden from the dashboard")
	return cmd
}

func NewLayoutsCmd(app *SideCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List track layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.Source.Query(cmd.Context(), datasource.LayoutsQuery())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NUMBER\tID\tNAME")
			for _, layout := range viewmodel.ToLayoutList(payload) {
				fmt.Fprintf(w, "%d\t%s\t%s\n", layout.Number, layout.ID, layout.Name)
			}
			return w.Flush()
		},
	}

	return cmd
}
