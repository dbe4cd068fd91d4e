package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type ProgressRecord struct {
	HighScore            int       `json:"high_score"`
	LongestStreakSeconds int       `json:"longest_streak_seconds"`
	TotalSessions        int       `json:"total_sessions"`
	TotalFocusSeconds    int       `json:"total_focus_seconds"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UpdateProgress folds one session result into the lifetime aggregates.
func (d *DB) UpdateProgress(score, bestStreakSeconds, focusSeconds int) error {
	_, err := d.conn.Exec(`
		INSERT INTO user_progress (id, high_score, longest_streak_seconds, total_sessions, total_focus_seconds, updated_at)
		VALUES (1, $1, $2, 1, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			high_score = GREATEST(user_progress.high_score, $1),
			longest_streak_seconds = GREATEST(user_progress.longest_streak_seconds, $2),
			total_sessions = user_progress.total_sessions + 1,
			total_focus_seconds = user_progress.total_focus_seconds + $3,
			updated_at = now()
	`, score, bestStreakSeconds, focusSeconds)
	if err != nil {
		return fmt.Errorf("updating progress: %w", err)
	}
	return nil
}

// GetProgress returns the lifetime aggregates, zeroed if no session has ever
// completed.
func (d *DB) GetProgress() (*ProgressRecord, error) {
	var p ProgressRecord
	err := d.conn.QueryRow(`
		SELECT high_score, longest_streak_seconds, total_sessions, total_focus_seconds, updated_at
		FROM user_progress WHERE id = 1
	`).Scan(&p.HighScore, &p.LongestStreakSeconds, &p.TotalSessions, &p.TotalFocusSeconds, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &ProgressRecord{UpdatedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting progress: %w", err)
	}
	return &p, nil
}
