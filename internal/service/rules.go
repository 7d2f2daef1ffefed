package service

import "wellness_tracker/internal/model"

var achievementRules = []model.AchievementRule{
	{
		Type:           model.FirstBreathing,
		RequiredCount:  1,
		ProgressSource: model.CompletedBreathingSessions,
		Title:          "First breath",
		Description:    "Complete your first breathing session",
	},
	{
		Type:           model.Explorer5Videos,
		RequiredCount:  5,
		ProgressSource: model.DistinctVideosWatched,
		Title:          "Explorer",
		Description:    "Watch 5 different videos",
	},
	{
		Type:           model.SelfKnowledge,
		RequiredCount:  1,
		ProgressSource: model.CompletedJourneys,
		Title:          "Self-knowledge",
		Description:    "Complete a journey",
	},
	{
		Type:           model.Reflective10,
		RequiredCount:  10,
		ProgressSource: model.SavedReflections,
		Title:          "Reflective",
		Description:    "Write 10 daily reflections",
	},
	{
		Type:           model.SevenDaysJourney,
		RequiredCount:  7,
		ProgressSource: model.CurrentStreakLength,
		Title:          "Seven days journey",
		Description:    "Check in 7 days in a row",
	},
	{
		Type:           model.ThirtyDaysCare,
		RequiredCount:  30,
		ProgressSource: model.CurrentStreakLength,
		Title:          "Thirty days of care",
		Description:    "Check in 30 days in a row",
	},
}

var rulesByType = func() map[model.AchievementType]model.AchievementRule {
	m := make(map[model.AchievementType]model.AchievementRule, len(achievementRules))
	for _, rule := range achievementRules {
		m[rule.Type] = rule
	}
	return m
}()

// Rules returns a copy of the rule table in display order.
func Rules() []model.AchievementRule {
	out := make([]model.AchievementRule, len(achievementRules))
	copy(out, achievementRules)
	return out
}

func RuleFor(achievementType model.AchievementType) (model.AchievementRule, error) {
	rule, ok := rulesByType[achievementType]
	if !ok {
		return model.AchievementRule{}, ErrInvalidAchievementType
	}
	return rule, nil
}

// StreakRules returns the rules driven by the current streak length.
func StreakRules() []model.AchievementRule {
	var out []model.AchievementRule
	for _, rule := range achievementRules {
		if rule.ProgressSource == model.CurrentStreakLength {
			out = append(out, rule)
		}
	}
	return out
}

func ParseAchievementType(s string) (model.AchievementType, error) {
	t := model.AchievementType(s)
	if _, ok := rulesByType[t]; !ok {
		return "", ErrInvalidAchievementType
	}
	return t, nil
}
