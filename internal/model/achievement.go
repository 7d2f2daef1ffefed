package model

import (
	"time"

	"github.com/google/uuid"
)

type AchievementType string

const (
	FirstBreathing   AchievementType = "FIRST_BREATHING"
	Explorer5Videos  AchievementType = "EXPLORER_5_VIDEOS"
	SelfKnowledge    AchievementType = "SELF_KNOWLEDGE"
	Reflective10     AchievementType = "REFLECTIVE_10"
	SevenDaysJourney AchievementType = "SEVEN_DAYS_JOURNEY"
	ThirtyDaysCare   AchievementType = "THIRTY_DAYS_CARE"
)

// CounterSource names the activity aggregate an achievement rule reads.
type CounterSource string

const (
	CompletedBreathingSessions CounterSource = "completed_breathing_sessions"
	DistinctVideosWatched      CounterSource = "distinct_videos_watched"
	CompletedJourneys          CounterSource = "completed_journeys"
	SavedReflections           CounterSource = "saved_reflections"
	CurrentStreakLength        CounterSource = "current_streak_length"
)

type Achievement struct {
	ID           uuid.UUID
	UserID       int64
	Type         AchievementType
	UnlockedAt   time.Time
	Acknowledged bool
}

type AchievementRule struct {
	Type           AchievementType
	RequiredCount  int
	ProgressSource CounterSource
	Title          string
	Description    string
}

type Progress struct {
	Current  int
	Required int
}

type AchievementStatus struct {
	Rule         AchievementRule
	Progress     Progress
	Unlocked     bool
	UnlockedAt   *time.Time
	Acknowledged bool
	ID           *uuid.UUID
}
