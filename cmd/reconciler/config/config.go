// Package config assembles the runtime configuration of the reconciler CLI
// from flags, environment variables, and an optional config file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"revenue-reconciliation-service/internal/matcher"
	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/pkg/errors"
)

// Config holds everything a reconciliation run needs
type Config struct {
	// DatabasePath is the SQLite database file
	DatabasePath string

	// Program scopes every query; runs for different programs never
	// see each other's records
	Program string

	// Location identifies the collection site being reconciled
	Location models.Location

	// DateRange bounds the records loaded for matching
	DateRange models.DateRange

	// RunDate is the "today" stamped into reconciled_on and
	// in_progress_on fields
	RunDate time.Time

	// Matching carries the heuristic tolerances
	Matching matcher.Config

	// ExceptionAfterDays is how many business days a record may stay
	// unresolved before the exception sweep claims it
	ExceptionAfterDays int

	// ReconciledOffsetDays, when positive, derives each exception's
	// reconciled_on from the record date plus this many business days
	// instead of the run date. Deterministic replays use this.
	ReconciledOffsetDays int
}

// LoadFromViper builds a Config from the bound viper state
func LoadFromViper() (*Config, error) {
	cfg := &Config{
		DatabasePath: viper.GetString("db"),
		Program:      viper.GetString("program"),
		Location: models.Location{
			LocationID:   viper.GetInt("location-id"),
			PTLocationID: viper.GetInt("pt-location-id"),
			MerchantIDs:  viper.GetIntSlice("merchant-ids"),
		},
		Matching:             *matcher.DefaultConfig(),
		ExceptionAfterDays:   viper.GetInt("exception-after-days"),
		ReconciledOffsetDays: viper.GetInt("reconciled-offset-days"),
	}

	// Tolerance flags exist only on commands that run the matchers;
	// elsewhere the production defaults stand.
	if v := viper.GetInt("time-tolerance"); v > 0 {
		cfg.Matching.TimeToleranceMinutes = v
	}
	if v := viper.GetInt("business-day-window"); v > 0 {
		cfg.Matching.BusinessDayWindow = v
	}

	var err error
	if cfg.DateRange.MinDate, err = parseFlagDate("start-date"); err != nil {
		return nil, err
	}
	if cfg.DateRange.MaxDate, err = parseFlagDate("end-date"); err != nil {
		return nil, err
	}
	if cfg.RunDate, err = parseFlagDate("run-date"); err != nil {
		return nil, err
	}
	if cfg.RunDate.IsZero() {
		cfg.RunDate = time.Now().Truncate(24 * time.Hour)
	}

	return cfg, nil
}

// Validate checks the parts every command depends on
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "db", nil)
	}
	if c.Program == "" {
		return errors.ConfigurationError(errors.CodeMissingConfig, "program", nil)
	}
	if c.Location.LocationID <= 0 {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "location-id",
			fmt.Errorf("must be a positive integer, got %d", c.Location.LocationID))
	}
	if err := c.Matching.Validate(); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "matching tolerances", err)
	}
	return nil
}

// ValidateDateRange additionally requires a well-formed reconciliation window
func (c *Config) ValidateDateRange() error {
	if c.DateRange.MinDate.IsZero() || c.DateRange.MaxDate.IsZero() {
		return errors.ConfigurationError(errors.CodeMissingConfig, "start-date/end-date", nil)
	}
	if err := c.DateRange.Validate(); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "date range", err)
	}
	return nil
}

func parseFlagDate(key string) (time.Time, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateFormat, raw)
	if err != nil {
		return time.Time{}, errors.ConfigurationError(errors.CodeInvalidConfig, key,
			fmt.Errorf("expected YYYY-MM-DD, got %q", raw))
	}
	return t, nil
}
