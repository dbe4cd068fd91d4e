package db

import "fmt"

func (d *DB) AwardAchievement(achievementID string, sessionID *string) error {
	_, err := d.conn.Exec(`
		INSERT INTO achievements (achievement_id, session_id)
		VALUES ($1, $2)
		ON CONFLICT (achievement_id) DO NOTHING
	`, achievementID, sessionID)
	if err != nil {
		return fmt.Errorf("awarding achievement: %w", err)
	}
	return nil
}

func (d *DB) GetAchievements() ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT achievement_id FROM achievements ORDER BY awarded_at
	`)
	if err != nil {
		return nil, fmt.Errorf("getting achievements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
