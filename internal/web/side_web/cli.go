package side_web

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"tarediiran-industries.com/side-services/internal/common"
	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/viewmodel"
)

type ConfigFile struct {
	Listen         string        `toml:"listen"`
	Telemetry      string        `toml:"telemetry"`
	ApiBaseUrl     string        `toml:"api_base_url"`
	DefaultServer  string        `toml:"default_server"`
	DefaultLayout  *int          `toml:"default_layout"`
	PollSeconds    int           `toml:"poll_seconds"`
	RepollInterval time.Duration `toml:"repoll_interval"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	ExcludeServers []string      `toml:"exclude_servers"`
	ActiveOnly     bool          `toml:"active_only"`
	LogLevel       string        `toml:"log_level"`
	LogFormat      string        `toml:"log_format"`
	Mock           bool          `toml:"mock"`
}

type Config struct {
	Version        bool
	TomlConfigPath string

	ListenAddress    string
	TelemetryAddress string
	ApiBaseUrl       string
	Mock             bool

	DefaultServer  string
	DefaultLayout  int
	PollSeconds    int
	RepollInterval time.Duration
	RequestTimeout time.Duration
	ExcludeServers []string
	ActiveOnly     bool

	LogLevel  string
	LogFormat string
}

func DefaultConfig() Config {
	return Config{
		ListenAddress:  ":8080",
		DefaultServer:  "en1",
		DefaultLayout:  0,
		PollSeconds:    2,
		RequestTimeout: datasource.DefaultTimeout,
		ExcludeServers: viewmodel.DefaultExcludedServers,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

func LoadConfigFromToml(path string) (ConfigFile, error) {
	var cfg ConfigFile
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ConfigFile{}, err
	}

	return cfg, nil
}

// apply overlays the values the file sets on top of cfg.
func (file ConfigFile) apply(cfg *Config) {
	if file.Listen != "" {
		cfg.ListenAddress = file.Listen
	}
	if file.Telemetry != "" {
		cfg.TelemetryAddress = file.Telemetry
	}
	if file.ApiBaseUrl != "" {
		cfg.ApiBaseUrl = file.ApiBaseUrl
	}
	if file.DefaultServer != "" {
		cfg.DefaultServer = file.DefaultServer
	}
	if file.DefaultLayout != nil {
		cfg.DefaultLayout = *file.DefaultLayout
	}
	if file.PollSeconds != 0 {
		cfg.PollSeconds = file.PollSeconds
	}
	if file.RepollInterval != 0 {
		cfg.RepollInterval = file.RepollInterval
	}
	if file.RequestTimeout != 0 {
		cfg.RequestTimeout = file.RequestTimeout
	}
	if file.ExcludeServers != nil {
		cfg.ExcludeServers = file.ExcludeServers
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		cfg.LogFormat = file.LogFormat
	}
	cfg.ActiveOnly = cfg.ActiveOnly || file.ActiveOnly
	cfg.Mock = cfg.Mock || file.Mock
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")
	fs.StringVar(&cfg.TomlConfigPath, "toml", "", "Configuration file")
	fs.StringVar(&cfg.ListenAddress, "listen", cfg.ListenAddress, "Dashboard listen address")
	fs.StringVar(&cfg.TelemetryAddress, "telemetry", "", "Metrics and pprof listen address (disabled when empty)")
	fs.StringVar(&cfg.ApiBaseUrl, "api", "", "Base URL of the SimRail data API")
	fs.BoolVar(&cfg.Mock, "mock", false, "Serve canned data instead of calling the API")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return cfg, flag.ErrHelp
	}

	if cfg.TomlConfigPath != "" {
		tomlCfg, err := LoadConfigFromToml(cfg.TomlConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("LoadConfigFromToml: %w", err)
		}
		tomlCfg.apply(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("Missing required argument: listen")
	}
	if cfg.ApiBaseUrl == "" && !cfg.Mock {
		return fmt.Errorf("Need an API base URL unless running with mock data")
	}
	if cfg.DefaultServer == "" {
		return fmt.Errorf("Missing required setting: default_server")
	}
	if cfg.DefaultLayout < 0 {
		return fmt.Errorf("default_layout must not be negative, got %d", cfg.DefaultLayout)
	}
	if cfg.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", cfg.PollSeconds)
	}
	if cfg.RepollInterval < 0 || cfg.RequestTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

func Main(programName string, args []string, out, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(cfg, errOut)
}
