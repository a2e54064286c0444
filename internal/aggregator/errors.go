package aggregator

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching.
var (
	ErrFetch       = errors.New("fetch failed")
	ErrNotFound    = errors.New("channel not found")
	ErrComputation = errors.New("computation failed")
)

// FetchError is any failure talking to the YouTube API other than a
// missing channel: transport, timeout, non-2xx, bad payload, open circuit.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// NotFoundError means the channel id does not resolve to a channel.
type NotFoundError struct {
	ChannelID string
	Err       error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("channel %q not found", e.ChannelID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ComputationError reports an impossible state while building a report.
// Guards in the metric code keep it from occurring on valid snapshots.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("compute %s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

func (e *ComputationError) Is(target error) bool { return target == ErrComputation }
