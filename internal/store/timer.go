package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/melcan/fastbite/internal/fasting"
)

// LoadTimer reads the fasting timer snapshot. A load-miss yields a fresh
// NotActive state under the given protocol.
func (s *Store) LoadTimer(fallback fasting.Protocol) (fasting.State, error) {
	var (
		status, phase, protoType       string
		startTime, endTime, phaseStart sql.NullString
		lastPause                      sql.NullString
		pausedMs                       int64
		fastingHours, eatingHours      float64
	)
	err := s.db.QueryRow(`
		SELECT status, phase, start_time, end_time, phase_start, paused_ms, last_pause,
		       protocol_type, fasting_hours, eating_hours
		FROM fasting_timer WHERE id = 1`,
	).Scan(&status, &phase, &startTime, &endTime, &phaseStart, &pausedMs, &lastPause,
		&protoType, &fastingHours, &eatingHours)
	if err == sql.ErrNoRows {
		return fasting.NewState(fallback), nil
	}
	if err != nil {
		return fasting.State{}, fmt.Errorf("load timer: %w", err)
	}

	st := fasting.State{
		Status:         fasting.Status(status),
		Phase:          fasting.Phase(phase),
		PausedDuration: time.Duration(pausedMs) * time.Millisecond,
		Protocol:       fasting.NewProtocol(fasting.ProtocolType(protoType), fastingHours, eatingHours),
	}
	st.StartTime = parseNullTime(startTime)
	st.EndTime = parseNullTime(endTime)
	st.PhaseStart = parseNullTime(phaseStart)
	st.LastPause = parseNullTime(lastPause)
	return st, nil
}

// SaveTimer snapshots the state machine. Called on user transitions and on
// automatic phase flips so a restart resumes the current phase.
func (s *Store) SaveTimer(st fasting.State) error {
	_, err := s.db.Exec(`
		INSERT INTO fasting_timer (id, status, phase, start_time, end_time, phase_start,
			paused_ms, last_pause, protocol_type, fasting_hours, eating_hours)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, phase=excluded.phase,
			start_time=excluded.start_time, end_time=excluded.end_time,
			phase_start=excluded.phase_start, paused_ms=excluded.paused_ms,
			last_pause=excluded.last_pause, protocol_type=excluded.protocol_type,
			fasting_hours=excluded.fasting_hours, eating_hours=excluded.eating_hours`,
		string(st.Status), string(st.Phase),
		formatNullTime(st.StartTime), formatNullTime(st.EndTime), formatNullTime(st.PhaseStart),
		st.PausedDuration.Milliseconds(), formatNullTime(st.LastPause),
		string(st.Protocol.Type), st.Protocol.FastingHours, st.Protocol.EatingHours,
	)
	if err != nil {
		return fmt.Errorf("save timer: %w", err)
	}
	return nil
}

func parseNullTime(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, v.String)
	return t
}

func formatNullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
