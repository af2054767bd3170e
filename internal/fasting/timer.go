package fasting

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyStarted = errors.New("fasting timer already started")
	ErrNotActive      = errors.New("fasting timer not active")
	ErrNotPaused      = errors.New("fasting timer not paused")
	ErrNotStopped     = errors.New("fasting timer must be stopped")
)

type Status string

const (
	StatusNotActive Status = "not_active"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
)

type Phase string

const (
	PhaseFasting Phase = "fasting"
	PhaseEating  Phase = "eating"
)

// minPhaseDuration floors armed phases so a zero-hour protocol cannot spin
// the sampling loop through instant flips.
const minPhaseDuration = time.Minute

// State is the fasting timer state machine. All transitions take an explicit
// clock reading and return a new value; nothing here touches time.Now, so
// callers own persistence and tests own the clock.
//
// Invariant while a phase is armed: EndTime = PhaseStart + armed phase
// duration + PausedDuration. Resume maintains it by shifting EndTime forward
// by each pause segment.
type State struct {
	Status         Status
	Phase          Phase
	StartTime      time.Time
	EndTime        time.Time
	PhaseStart     time.Time
	PausedDuration time.Duration // accumulated pauses, reset each phase
	LastPause      time.Time     // set only while paused
	Protocol       Protocol
}

// NewState returns a NotActive timer governed by the given protocol.
func NewState(p Protocol) State {
	return State{Status: StatusNotActive, Phase: PhaseFasting, Protocol: p}
}

// Start begins a fast. Valid only from NotActive.
func (s State) Start(now time.Time) (State, error) {
	if s.Status != StatusNotActive {
		return s, ErrAlreadyStarted
	}
	s.Status = StatusActive
	s.Phase = PhaseFasting
	s.StartTime = now
	s.PhaseStart = now
	s.EndTime = now.Add(s.armedDuration(PhaseFasting))
	s.PausedDuration = 0
	s.LastPause = time.Time{}
	return s, nil
}

// Pause freezes the countdown. Valid only from Active; EndTime and
// PhaseStart stay untouched until resume.
func (s State) Pause(now time.Time) (State, error) {
	if s.Status != StatusActive {
		return s, ErrNotActive
	}
	s.Status = StatusPaused
	s.LastPause = now
	return s, nil
}

// Resume continues a paused countdown, shifting EndTime forward by the pause
// segment so remaining time is preserved exactly across the pause.
func (s State) Resume(now time.Time) (State, error) {
	if s.Status != StatusPaused {
		return s, ErrNotPaused
	}
	segment := now.Sub(s.LastPause)
	s.PausedDuration += segment
	s.EndTime = s.EndTime.Add(segment)
	s.LastPause = time.Time{}
	s.Status = StatusActive
	return s, nil
}

// End abandons the current fast entirely, returning a fresh NotActive state
// seeded with the given protocol. Valid from Active or Paused.
func (s State) End(next Protocol) (State, error) {
	if s.Status == StatusNotActive {
		return s, ErrNotActive
	}
	return NewState(next), nil
}

// ChangeProtocol swaps the protocol governing the next Start. Valid only
// while stopped.
func (s State) ChangeProtocol(p Protocol) (State, error) {
	if s.Status != StatusNotActive {
		return s, ErrNotStopped
	}
	s.Protocol = p
	return s, nil
}

// Sample advances the machine for one clock reading. While Active with
// now >= EndTime it flips the phase: new PhaseStart, fresh EndTime from the
// new phase's duration, PausedDuration reset. The flip and the remaining-time
// read share this single recomputation so a negative remainder is never
// observable. Returns the (possibly flipped) state and whether a flip
// occurred.
func (s State) Sample(now time.Time) (State, bool) {
	if s.Status != StatusActive || now.Before(s.EndTime) {
		return s, false
	}
	next := PhaseEating
	if s.Phase == PhaseEating {
		next = PhaseFasting
	}
	s.Phase = next
	s.PhaseStart = now
	s.EndTime = now.Add(s.armedDuration(next))
	s.PausedDuration = 0
	return s, true
}

// Remaining derives the time left in the current phase without mutating
// state. Paused timers report the remainder frozen at the pause instant:
// (PhaseStart + armed duration + PausedDuration) - LastPause, which by the
// EndTime invariant is EndTime - LastPause.
func (s State) Remaining(now time.Time) time.Duration {
	var r time.Duration
	switch s.Status {
	case StatusActive:
		r = s.EndTime.Sub(now)
	case StatusPaused:
		r = s.EndTime.Sub(s.LastPause)
	default:
		return 0
	}
	if r < 0 {
		r = 0
	}
	return r
}

// Elapsed is total wall time in the current phase minus accumulated pauses.
func (s State) Elapsed(now time.Time) time.Duration {
	switch s.Status {
	case StatusActive:
		return now.Sub(s.PhaseStart) - s.PausedDuration
	case StatusPaused:
		return s.LastPause.Sub(s.PhaseStart) - s.PausedDuration
	default:
		return 0
	}
}

func (s State) armedDuration(phase Phase) time.Duration {
	d := s.Protocol.Duration(phase)
	if d < minPhaseDuration {
		d = minPhaseDuration
	}
	return d
}

// FormatClock renders a duration as zero-padded HH:MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}
