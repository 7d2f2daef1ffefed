package model

import "time"

type StreakRecord struct {
	UserID        int64
	CurrentStreak int
	LongestStreak int
	LastCheckIn   time.Time
	RestDayUsed   bool
}

type CheckInOutcome string

const (
	CheckInStarted          CheckInOutcome = "started"
	CheckInIncreased        CheckInOutcome = "increased"
	CheckInAlreadyCheckedIn CheckInOutcome = "already_checked_in"
	CheckInReset            CheckInOutcome = "reset"
)

type CheckInResult struct {
	Outcome          CheckInOutcome
	CurrentStreak    int
	LongestStreak    int
	StreakIncreased  bool
	IsReset          bool
	UsedRestDay      bool
	AlreadyCheckedIn bool
	Unlocked         []AchievementType
}

type StreakStatus struct {
	UserID          int64
	CurrentStreak   int
	LongestStreak   int
	LastCheckIn     time.Time
	RestDayUsed     bool
	NextCheckInAt   time.Time
	StreakExpiresAt time.Time
	CanCheckIn      bool
}
