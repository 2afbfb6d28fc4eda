package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/log"
)

const DefaultConfigPath = "config/side.dev.toml"

// CtlConfigFile reads the keys side-ctl shares with the side-web config file.
type CtlConfigFile struct {
	ApiBaseUrl     string        `toml:"api_base_url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	Mock           bool          `toml:"mock"`
}

type SideCtlApp struct {
	ConfigPath string
	ApiBaseUrl string
	Mock       bool
	LogLevel   string

	Logger *zap.Logger
	// Source overrides the configured data source; set by tests.
	Source datasource.Source

	timeout time.Duration
}

func Execute() error {
	app := &SideCtlApp{}
	rootCmd := NewRootCmd(app)
	return rootCmd.Execute()
}

func NewRootCmd(app *SideCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "side-ctl",
		Short:         "CLI tool used to inspect SimRail servers, layouts and trains",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd.Flags().Changed("toml"))
		},
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"toml",
		DefaultConfigPath,
		"Path to configuration file",
	)
	cmd.PersistentFlags().StringVar(&app.ApiBaseUrl, "api", "", "Base URL of the SimRail data API (overrides the config file)")
	cmd.PersistentFlags().BoolVar(&app.Mock, "mock", false, "Use canned data instead of calling the API")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level")

	cmd.AddCommand(NewServersCmd(app))
	cmd.AddCommand(NewLayoutsCmd(app))
	cmd.AddCommand(NewLayoutCmd(app))
	cmd.AddCommand(NewTrainsCmd(app))
	cmd.AddCommand(NewTimetableCmd(app))
	cmd.AddCommand(NewFeedCmd(app))
	cmd.AddCommand(NewHealthCmd(app))

	return cmd
}

// load reads the config file and builds the logger and data source. A missing
// file is only an error when it was asked for explicitly.
func (app *SideCtlApp) load(explicitConfig bool) error {
	if app.Logger == nil {
		logger, err := log.New(app.LogLevel, "console")
		if err != nil {
			return err
		}
		app.Logger = logger
	}

	var file CtlConfigFile
	if _, err := toml.DecodeFile(app.ConfigPath, &file); err != nil {
		if explicitConfig || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config %s: %w", app.ConfigPath, err)
		}
		app.Logger.Debug("no config file", zap.String("path", app.ConfigPath))
	}

	if app.ApiBaseUrl == "" {
		app.ApiBaseUrl = file.ApiBaseUrl
	}
	app.Mock = app.Mock || file.Mock
	app.timeout = file.RequestTimeout

	if app.Source != nil {
		return nil
	}
	if app.Mock {
		app.Source = datasource.NewMockSource()
		return nil
	}
	if app.ApiBaseUrl == "" {
		return fmt.Errorf("no API base URL: pass --api or set api_base_url in %s", app.ConfigPath)
	}

	opts := []datasource.Option{datasource.WithLogger(app.Logger.Named("datasource"))}
	if app.timeout > 0 {
		opts = append(opts, datasource.WithTimeout(app.timeout))
	}
	source, err := datasource.NewClient(app.ApiBaseUrl, opts...)
	if err != nil {
		return err
	}
	app.Source = source
	return nil
}

// keyFlags binds the --server and --layout flags shared by keyed commands.
type keyFlags struct {
	server string
	layout int
}

func (k *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&k.server, "server", "en1", "Server code")
	cmd.Flags().IntVar(&k.layout, "layout", 0, "Layout number")
}
