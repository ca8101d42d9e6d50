// Package model defines shared data structures.
package model

import (
	"errors"
	"time"
)

// ErrNotAuthenticated is returned when a store call is made without a profile.
var ErrNotAuthenticated = errors.New("no active profile")

// ErrInvalidLetter is returned for targets outside A..Z.
var ErrInvalidLetter = errors.New("letter outside A..Z")

// Config defines practice settings.
type Config struct {
	Profile       string
	Letter        string
	Scorer        string
	PassThreshold int
	CelebrateSecs int
	FocusWeak     bool
	WeakFactor    float64
}

// ProgressConfig defines filters and options for progress output.
type ProgressConfig struct {
	Profile string
	Letter  string
	Plain   bool
	Recent  int
}

// Point is a cell position on the drawing surface.
type Point struct {
	X int
	Y int
}

// Stroke is one continuous polyline of captured pointer positions.
type Stroke []Point

// TraceResult is the outcome of evaluating one stroke session.
type TraceResult struct {
	Completed bool
	Score     int
}

// ProgressRecord summarizes all attempts for one profile and letter.
type ProgressRecord struct {
	Profile    string
	Letter     string
	Attempts   int
	Score      int
	Completed  bool
	LastTraced time.Time
}

// AttemptRecord is one entry in the append-only attempt log.
type AttemptRecord struct {
	ID        int64
	Profile   string
	Letter    string
	Score     int
	Completed bool
	TracedAt  time.Time
}
