// Package match scores a listing against the user's preferences.
//
// Points are awarded independently and summed:
//
//	keyword in title        25
//	keyword in description  15
//	preferred location      15
//	preferred mode          10
//	experience level        10
//	shared skill            15
//	posted within 2 days     5
//	source is LinkedIn       5
//
// The sum is capped at 100.
package match

import (
	"slices"
	"strings"

	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/prefs"
)

const (
	pointsTitle       = 25
	pointsDescription = 15
	pointsLocation    = 15
	pointsMode        = 10
	pointsExperience  = 10
	pointsSkill       = 15
	pointsRecent      = 5
	pointsSource      = 5

	// recentDays is the inclusive postedDaysAgo bound for the recency bonus.
	recentDays = 2
	// missingPosted stands in for an unknown postedDaysAgo: never recent.
	missingPosted = 999

	bonusSource = "LinkedIn"

	// MaxScore is the cap applied to the summed points.
	MaxScore = 100
)

// Score returns the preference match of job in [0,100]. A nil p scores 0.
func Score(job listing.Job, p *prefs.Preferences) int {
	if p == nil {
		return 0
	}

	score := 0
	keywords := p.Keywords()
	if containsAny(strings.ToLower(job.Title), keywords) {
		score += pointsTitle
	}
	if containsAny(strings.ToLower(job.Description), keywords) {
		score += pointsDescription
	}

	if len(p.PreferredLocations) > 0 && slices.Contains(p.PreferredLocations, job.Location) {
		score += pointsLocation
	}
	if len(p.PreferredMode) > 0 && slices.Contains(p.PreferredMode, job.Mode) {
		score += pointsMode
	}
	if p.ExperienceLevel != "" && job.Experience == p.ExperienceLevel {
		score += pointsExperience
	}

	if sharesSkill(job.Skills, p.SkillSet()) {
		score += pointsSkill
	}

	if job.PostedOr(missingPosted) <= recentDays {
		score += pointsRecent
	}
	if job.Source == bonusSource {
		score += pointsSource
	}

	return min(MaxScore, score)
}

// containsAny reports whether any keyword is a substring of text.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// sharesSkill compares skill tokens case-insensitively and exactly.
func sharesSkill(jobSkills, userSkills []string) bool {
	if len(userSkills) == 0 {
		return false
	}
	for _, s := range jobSkills {
		if slices.Contains(userSkills, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// Band buckets a score for display.
func Band(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	case score >= 40:
		return "neutral"
	default:
		return "low"
	}
}
