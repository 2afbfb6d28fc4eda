package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/side-services/internal/feed"
)

func NewFeedCmd(app *SideCtlApp) *cobra.Command {
	var key keyFlags

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the roster as a GTFS-Realtime feed in JSON form",
		RunE: func(cmd *cobra.Command, args []string) error {
			trains, err := fetchRoster(cmd, app, key)
			if err != nil {
				return err
			}

			body, err := feed.Marshal(feed.BuildFeedMessage(trains, time.Now()), feed.FormatJSON)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}

	key.register(cmd)
	return cmd
}
