// Package config reads smartui settings from defaults, smartui.yaml,
// SMARTUI_* environment variables and bound command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverRod    = "rod"
	DriverStatic = "static"
)

// Config is the resolved set of settings for one command.
type Config struct {
	Driver          string
	Headless        bool
	BrowserBin      string
	WaitTimeout     time.Duration
	PageLoadTimeout time.Duration
	PressEnter      bool
	ScrollIntoView  bool
	ScreenshotDir   string
	FlagServiceURL  string
	CacheURL        string
	HistoryDB       string
	LogLevel        string
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("driver", DriverRod)
	v.SetDefault("headless", true)
	v.SetDefault("browser_bin", "")
	v.SetDefault("wait_timeout", 15*time.Second)
	v.SetDefault("page_load_timeout", 15*time.Second)
	v.SetDefault("press_enter", true)
	v.SetDefault("scroll_into_view", true)
	v.SetDefault("screenshot_dir", "")
	v.SetDefault("flag_service.url", "")
	v.SetDefault("flag_service.cache_url", "")
	v.SetDefault("history_db", ".smartui/history.db")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SMARTUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("smartui")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return v
}

// ReadFile reads path, or smartui.yaml from the working directory when
// path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// From resolves v into a Config and rejects values no command can use.
func From(v *viper.Viper) (Config, error) {
	c := Config{
		Driver:          strings.ToLower(v.GetString("driver")),
		Headless:        v.GetBool("headless"),
		BrowserBin:      v.GetString("browser_bin"),
		WaitTimeout:     v.GetDuration("wait_timeout"),
		PageLoadTimeout: v.GetDuration("page_load_timeout"),
		PressEnter:      v.GetBool("press_enter"),
		ScrollIntoView:  v.GetBool("scroll_into_view"),
		ScreenshotDir:   v.GetString("screenshot_dir"),
		FlagServiceURL:  v.GetString("flag_service.url"),
		CacheURL:        v.GetString("flag_service.cache_url"),
		HistoryDB:       v.GetString("history_db"),
		LogLevel:        v.GetString("log_level"),
	}

	switch c.Driver {
	case DriverRod, DriverStatic:
	default:
		return c, fmt.Errorf("unknown driver %q (supported: %s, %s)", c.Driver, DriverRod, DriverStatic)
	}
	if c.WaitTimeout < 0 || c.PageLoadTimeout < 0 {
		return c, fmt.Errorf("timeouts must not be negative")
	}
	return c, nil
}
