// Package matcher implements the payment-to-deposit matching engines.
//
// Two flows are covered:
//   - cash: single-pass, one-to-one, exact-amount matching of cash-till
//     deposits against per-day aggregated cash payments
//   - POS: four progressively looser heuristic passes over card settlement
//     batches, from a five-minute timestamp window down to aggregate
//     many-to-many matching by (date, method) group
//
// Matching is greedy first-fit with no backtracking: the first candidate
// satisfying a round's predicate wins, and matched deposits are consumed so
// later rounds cannot re-claim them. This is a deliberate policy, stable and
// deterministic given the input ordering, not an optimal assignment.
//
// The engines mutate records in memory only; persisting the results is the
// caller's responsibility.
package matcher

import "fmt"

// Config holds the tolerances for the POS heuristic rounds
type Config struct {
	// TimeToleranceMinutes is the round-one timestamp window
	TimeToleranceMinutes int `json:"time_tolerance_minutes"`

	// BusinessDayWindow is the round-three business-day tolerance
	BusinessDayWindow int `json:"business_day_window"`
}

// DefaultConfig returns the production tolerances
func DefaultConfig() *Config {
	return &Config{
		TimeToleranceMinutes: 5,
		BusinessDayWindow:    2,
	}
}

// Validate checks if the matching configuration is valid
func (c *Config) Validate() error {
	if c.TimeToleranceMinutes <= 0 {
		return fmt.Errorf("time tolerance minutes must be positive: %d", c.TimeToleranceMinutes)
	}
	if c.BusinessDayWindow <= 0 {
		return fmt.Errorf("business day window must be positive: %d", c.BusinessDayWindow)
	}
	return nil
}
