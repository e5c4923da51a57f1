package seasonsim

import "time"

// Config holds configuration for a simulated season
type Config struct {
	Teams    int     // Number of primary teams to register
	Events   int     // Number of sessions to run
	SkipRate float64 // Probability that a team skips an event
	Seed     int64   // RNG seed for reproducible seasons
	Workers  int     // Scoring worker count
	Verbose  bool    // Enable verbose logging
}

// Stats holds simulation statistics
type Stats struct {
	TeamsRegistered int
	EventsRun       int
	PredictionsMade int
	ScoresWritten   int
	CarriedForward  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
