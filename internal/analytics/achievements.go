package analytics

import "distractiondodge/internal/session"

type AchievementID string

const (
	AchievementLaserFocus  AchievementID = "laser_focus"
	AchievementUntouchable AchievementID = "untouchable"
	AchievementCenturion   AchievementID = "centurion"
	AchievementHoarder     AchievementID = "hoarder"
	AchievementSurvivor    AchievementID = "survivor"
	AchievementDedicated   AchievementID = "dedicated"
	AchievementMarathoner  AchievementID = "marathoner"
)

type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
}

var AllAchievements = map[AchievementID]Achievement{
	AchievementLaserFocus:  {ID: AchievementLaserFocus, Name: "Laser Focus", Description: "Hold a 30-second focus streak"},
	AchievementUntouchable: {ID: AchievementUntouchable, Name: "Untouchable", Description: "Finish a session without ever losing focus"},
	AchievementCenturion:   {ID: AchievementCenturion, Name: "Centurion", Description: "Score 100+ points in a single session"},
	AchievementHoarder:     {ID: AchievementHoarder, Name: "Hoarder", Description: "Catch 10+ holograms in a single session"},
	AchievementSurvivor:    {ID: AchievementSurvivor, Name: "Survivor", Description: "Finish a visionOS session with all three hearts"},
	AchievementDedicated:   {ID: AchievementDedicated, Name: "Dedicated", Description: "Complete 10 sessions"},
	AchievementMarathoner:  {ID: AchievementMarathoner, Name: "Marathoner", Description: "Bank 60 mindful minutes"},
}

// LifetimeStats is the slice of aggregates lifetime achievements read.
type LifetimeStats struct {
	TotalSessions       int
	TotalMindfulMinutes int
}

// EvaluateSessionAchievements checks which achievements one session earned.
func EvaluateSessionAchievements(res session.Result) []Achievement {
	var earned []Achievement

	if res.BestStreakSeconds >= 30 {
		earned = append(earned, AllAchievements[AchievementLaserFocus])
	}

	// A full-duration session where every played second was focused.
	if res.EndReason == session.EndTimeUp && res.DurationPlayedSeconds > 0 &&
		res.TotalFocusSeconds == res.DurationPlayedSeconds {
		earned = append(earned, AllAchievements[AchievementUntouchable])
	}

	if res.Score >= 100 {
		earned = append(earned, AllAchievements[AchievementCenturion])
	}

	if res.HologramsCaught >= 10 {
		earned = append(earned, AllAchievements[AchievementHoarder])
	}

	if res.Variant == session.VariantVisionOS && res.EndReason == session.EndTimeUp &&
		res.HeartsRemaining == 3 {
		earned = append(earned, AllAchievements[AchievementSurvivor])
	}

	return earned
}

// EvaluateLifetimeAchievements checks achievements earned across all sessions.
func EvaluateLifetimeAchievements(stats LifetimeStats) []Achievement {
	var earned []Achievement

	if stats.TotalSessions >= 10 {
		earned = append(earned, AllAchievements[AchievementDedicated])
	}

	if stats.TotalMindfulMinutes >= 60 {
		earned = append(earned, AllAchievements[AchievementMarathoner])
	}

	return earned
}
