package seasonsim

import (
	"fmt"
	"os"

	"github.com/prixsix/engine/pkg/logger"
)

// SetupLogging initializes the shared logger for the simulator binary.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the season simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Prix Six Season Simulator
=========================

Runs a full simulated season against an in-process scoring engine and
verifies the standings invariants after every round.

Usage:
  go run cmd/seasonsim/main.go [options]

Options:
  -teams int
        Number of primary teams to register (default 20)
  -events int
        Number of sessions to run (default 24)
  -skip float
        Probability that a team skips an event (default 0.2)
  -seed int
        RNG seed for reproducible seasons (default 1)
  -workers int
        Number of scoring workers (default CPU cores)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/seasonsim/main.go

  # A long season with flaky participants
  go run cmd/seasonsim/main.go -events 30 -skip 0.4

  # Reproduce a specific season
  go run cmd/seasonsim/main.go -seed 42 -verbose
`)
}
