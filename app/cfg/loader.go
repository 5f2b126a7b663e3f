package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://reader.example.com)"`

	// Relay configuration
	RelayURL     string  `long:"relay-url" env:"RELAY_URL" default:"https://allorigins.hexlet.app/get" description:"CORS relay endpoint used to fetch feeds"`
	RelayTimeout int     `long:"relay-timeout" env:"RELAY_TIMEOUT" default:"30" description:"Relay request timeout in seconds"`
	RelayRate    float64 `long:"relay-rate" env:"RELAY_RATE" default:"0" description:"Maximum relay requests per second (0 = unlimited)"`

	// Reconciliation configuration
	RefreshInterval   int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"5" description:"Delay in seconds between the end of one refresh cycle and the start of the next"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of workers processing feed submissions"`
	IsolateFeedErrors bool   `long:"isolate-feed-errors" env:"ISOLATE_FEED_ERRORS" description:"Merge successful feeds even when another feed in the same cycle fails"`
	FeedsFile         string `long:"feeds-file" env:"FEEDS_FILE" description:"YAML file with feed URLs to subscribe at startup (optional)"`

	// Application metadata
	Lang      string `long:"lang" env:"LANG_DEFAULT" default:"ru" choice:"ru" choice:"en" description:"Default interface language"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Reader/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Moscow)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses os.Args and the environment. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		RelayURL:          raw.RelayURL,
		RelayTimeout:      raw.RelayTimeout,
		RelayRate:         raw.RelayRate,
		RefreshInterval:   raw.RefreshInterval,
		WorkerCount:       raw.WorkerCount,
		IsolateFeedErrors: raw.IsolateFeedErrors,
		FeedsFile:         raw.FeedsFile,
		Lang:              raw.Lang,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// GetRefreshInterval returns the delay between reconciliation cycles
func (c *Cfg) GetRefreshInterval() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// GetRelayTimeout returns the relay timeout, 0 meaning no timeout
func (c *Cfg) GetRelayTimeout() time.Duration {
	return time.Duration(c.RelayTimeout) * time.Second
}

func validate(raw *rawCfg) error {
	positiveFields := map[string]int{
		"refresh interval": raw.RefreshInterval,
		"worker count":     raw.WorkerCount,
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	if raw.RelayTimeout < 0 {
		return fmt.Errorf("relay timeout must be non-negative")
	}
	if raw.RelayRate < 0 {
		return fmt.Errorf("relay rate must be non-negative")
	}
	if raw.RelayURL == "" {
		return fmt.Errorf("relay URL is required")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
