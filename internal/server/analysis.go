package server

import (
	"sort"
	"strings"

	"mindcompanion/backend/internal/store"
)

const (
	signInfo    = "info"
	signWarning = "warning"
	signSuccess = "success"

	highDistressThreshold = 70
)

type distressResult struct {
	DistressScore   int    `json:"distressScore"`
	SuggestedAction string `json:"suggestedAction"`
}

var distressKeywords = []string{"stressed", "anxious", "tired", "overwhelmed"}

// analyzeDistress maps free text to a score and a coping suggestion. Any
// distress keyword present (case-insensitive substring) scores 70, else 20.
func analyzeDistress(text string) distressResult {
	lowered := strings.ToLower(text)
	for _, keyword := range distressKeywords {
		if strings.Contains(lowered, keyword) {
			return distressResult{
				DistressScore:   70,
				SuggestedAction: "Try a 5-minute breathing exercise",
			}
		}
	}
	return distressResult{
		DistressScore:   20,
		SuggestedAction: "Write a journal entry",
	}
}

// DistressSign is a transient advisory derived from a daily routine; it is
// never persisted.
type DistressSign struct {
	Type       string `json:"type"`
	Category   string `json:"category,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// analyzeRoutine evaluates the fixed rule set against a lower-cased copy of
// the routine text. Rules run independently and in order, so several
// warnings can co-occur. The physical-activity rule fires on absence of its
// keywords, not presence.
func analyzeRoutine(routine string) []DistressSign {
	if strings.TrimSpace(routine) == "" {
		return []DistressSign{{
			Type:    signInfo,
			Message: "No routine provided yet. Add one to get personalized insights!",
		}}
	}

	lowered := strings.ToLower(routine)
	signs := make([]DistressSign, 0, 5)

	if containsAny(lowered, "late", "can't sleep", "insomnia", "tired") {
		signs = append(signs, DistressSign{
			Type:       signWarning,
			Category:   "sleep",
			Message:    "Possible sleep disruption detected.",
			Suggestion: "Consider establishing a consistent sleep schedule and bedtime routine.",
		})
	}
	if containsAny(lowered, "busy", "deadline", "stress", "overwork") {
		signs = append(signs, DistressSign{
			Type:       signWarning,
			Category:   "stress",
			Message:    "High workload or stress indicators found.",
			Suggestion: "Try scheduling short breaks throughout your day and practice stress management techniques.",
		})
	}
	if containsAny(lowered, "alone", "lonely", "no time for friends") {
		signs = append(signs, DistressSign{
			Type:       signWarning,
			Category:   "social",
			Message:    "Potential isolation or lack of social connection.",
			Suggestion: "Consider scheduling time for social activities, even brief ones.",
		})
	}
	if !containsAny(lowered, "exercise", "walk", "gym") {
		signs = append(signs, DistressSign{
			Type:       signWarning,
			Category:   "physical",
			Message:    "Limited physical activity mentioned.",
			Suggestion: "Even short walks can improve mood and reduce stress.",
		})
	}
	if containsAny(lowered, "meditate", "exercise", "hobby", "friend") {
		signs = append(signs, DistressSign{
			Type:       signSuccess,
			Message:    "Positive wellness activities detected in your routine!",
			Suggestion: "Keep up these beneficial practices.",
		})
	}

	if len(signs) == 0 {
		signs = append(signs, DistressSign{
			Type:       signInfo,
			Message:    "Your routine looks balanced overall.",
			Suggestion: "Continue monitoring how your daily activities affect your wellbeing.",
		})
	}
	return signs
}

func containsAny(lowered string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

type dailyDistressPoint struct {
	Date         string  `json:"date"`
	AverageScore float64 `json:"averageScore"`
	Interactions int     `json:"interactions"`
}

type distressOverview struct {
	Patients          int                  `json:"patients"`
	Interactions      int                  `json:"interactions"`
	AverageDistress   float64              `json:"averageDistress"`
	HighDistressCount int                  `json:"highDistressCount"`
	Daily             []dailyDistressPoint `json:"daily"`
}

// aggregateDistress folds every patient's history into the admin dashboard
// summary. HighDistressCount counts patients whose most recent score is at
// or above the threshold.
func aggregateDistress(users []store.User) distressOverview {
	overview := distressOverview{
		Patients: len(users),
		Daily:    []dailyDistressPoint{},
	}

	total := 0
	dayTotals := map[string]int{}
	dayCounts := map[string]int{}

	for _, user := range users {
		if n := len(user.Interactions); n > 0 &&
			user.Interactions[n-1].DistressScore >= highDistressThreshold {
			overview.HighDistressCount++
		}
		for _, interaction := range user.Interactions {
			overview.Interactions++
			total += interaction.DistressScore
			day := interaction.Timestamp.UTC().Format("2006-01-02")
			dayTotals[day] += interaction.DistressScore
			dayCounts[day]++
		}
	}

	if overview.Interactions > 0 {
		overview.AverageDistress = roundTo1(float64(total) / float64(overview.Interactions))
	}

	days := make([]string, 0, len(dayTotals))
	for day := range dayTotals {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		overview.Daily = append(overview.Daily, dailyDistressPoint{
			Date:         day,
			AverageScore: roundTo1(float64(dayTotals[day]) / float64(dayCounts[day])),
			Interactions: dayCounts[day],
		})
	}
	return overview
}

func roundTo1(value float64) float64 {
	if value < 0 {
		return float64(int(value*10-0.5)) / 10
	}
	return float64(int(value*10+0.5)) / 10
}
