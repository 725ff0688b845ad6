// Package config implements component C15: binding the daemon's CLI
// surface (spec.md §6) to viper, with WITTYGO_* environment overrides.
// The schedule document itself is a separate concern, parsed by
// internal/scheduledoc.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved daemon configuration, after flags and
// environment overrides are applied.
type Config struct {
	Bus          int    `mapstructure:"bus"`
	Addr         int    `mapstructure:"addr"`
	Force        bool   `mapstructure:"force"`
	SchedulePath string `mapstructure:"schedule"`
	Verbosity    int    `mapstructure:"verbosity"`
}

// Load parses args (normally os.Args[1:]) against the CLI surface of
// spec.md §6 and returns the resolved Config. Flags take precedence over
// WITTYGO_* environment variables, which take precedence over the
// defaults below.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("wittygod", pflag.ContinueOnError)
	fs.Int("bus", 1, "I2C bus number")
	fs.Int("addr", 8, "I2C device address")
	fs.Bool("force", true, "force the host on regardless of schedule")
	fs.Bool("no-force", false, "disable --force (schedule decides power state)")
	fs.StringP("schedule", "s", "schedule.yml", "path to the schedule document")
	fs.CountP("verbose", "v", "increase log verbosity (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parsing flags: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: binding flags: %w", err)
	}

	v.SetEnvPrefix("WITTYGO")
	v.AutomaticEnv()

	cfg := &Config{
		Bus:          v.GetInt("bus"),
		Addr:         v.GetInt("addr"),
		Force:        v.GetBool("force"),
		SchedulePath: v.GetString("schedule"),
		Verbosity:    v.GetInt("verbose"),
	}
	if fs.Changed("no-force") && v.GetBool("no-force") {
		cfg.Force = false
	}
	return cfg, nil
}
