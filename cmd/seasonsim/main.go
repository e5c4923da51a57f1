package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/prixsix/engine/internal/seasonsim"
)

// Default configuration constants.
const (
	defaultTeams    = 20
	defaultEvents   = 24
	defaultSkipRate = 0.2
	defaultSeed     = 1
	defaultTimeout  = 10 * time.Minute
)

func main() {
	var (
		teams    = flag.Int("teams", defaultTeams, "Number of primary teams to register")
		events   = flag.Int("events", defaultEvents, "Number of sessions to run")
		skipRate = flag.Float64("skip", defaultSkipRate, "Probability that a team skips an event")
		seed     = flag.Int64("seed", defaultSeed, "RNG seed for reproducible seasons")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of scoring workers")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seasonsim.ShowHelp()
		return
	}

	// Setup logging
	if err := seasonsim.SetupLogging(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	// Create simulation configuration
	config := &seasonsim.Config{
		Teams:    *teams,
		Events:   *events,
		SkipRate: *skipRate,
		Seed:     *seed,
		Workers:  *workers,
		Verbose:  *verbose,
	}

	// Run the simulation
	if err := seasonsim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
