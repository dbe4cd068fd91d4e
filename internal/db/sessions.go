package db

import (
	"fmt"
	"time"

	"distractiondodge/internal/session"
)

type SessionRecord struct {
	ID                      string
	Variant                 string
	Score                   int
	BestStreakSeconds       int
	TotalFocusSeconds       int
	DistractionsEncountered int
	DurationPlayedSeconds   int
	EndReason               string
	PlayedAt                time.Time
}

// RecordSession appends a completed session result. The core only ever
// appends; history is never rewritten.
func (d *DB) RecordSession(res session.Result) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, variant, score, best_streak_seconds, total_focus_seconds,
			distractions_encountered, duration_played_seconds, end_reason, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, res.ID, string(res.Variant), res.Score, res.BestStreakSeconds, res.TotalFocusSeconds,
		res.DistractionsEncountered, res.DurationPlayedSeconds, string(res.EndReason), res.Date)
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

func (d *DB) GetRecentSessions(limit int) ([]SessionRecord, error) {
	rows, err := d.conn.Query(`
		SELECT id, variant, score, best_streak_seconds, total_focus_seconds,
			distractions_encountered, duration_played_seconds, end_reason, played_at
		FROM sessions ORDER BY played_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("getting sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.Variant, &r.Score, &r.BestStreakSeconds, &r.TotalFocusSeconds,
			&r.DistractionsEncountered, &r.DurationPlayedSeconds, &r.EndReason, &r.PlayedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// RecordMindfulMinutes forwards played time to the health ledger.
func (d *DB) RecordMindfulMinutes(sessionID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	_, err := d.conn.Exec(`
		INSERT INTO mindful_minutes (session_id, minutes)
		VALUES ($1, $2)
	`, sessionID, minutes)
	if err != nil {
		return fmt.Errorf("recording mindful minutes: %w", err)
	}
	return nil
}

func (d *DB) TotalMindfulMinutes() (int, error) {
	var total int
	err := d.conn.QueryRow(`
		SELECT COALESCE(SUM(minutes), 0) FROM mindful_minutes
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing mindful minutes: %w", err)
	}
	return total, nil
}
