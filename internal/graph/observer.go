package graph

import "time"

// DriveReport summarizes one completed Drive call.
type DriveReport struct {
	ID       string
	Passes   int
	Duration time.Duration
	Err      error
}

// Observer is notified after every top-level Drive.
type Observer interface {
	DriveFinished(DriveReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(DriveReport)

func (f ObserverFunc) DriveFinished(r DriveReport) { f(r) }
