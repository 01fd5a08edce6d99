package server

import (
	"testing"
	"time"

	"mindcompanion/backend/internal/store"
)

func TestAnalyzeDistressKeywordScoresHigh(t *testing.T) {
	for _, input := range []string{
		"I am stressed about work",
		"Feeling ANXIOUS today",
		"so tired of everything",
		"completely overwhelmed right now",
	} {
		result := analyzeDistress(input)
		if result.DistressScore != 70 {
			t.Fatalf("input %q: expected score 70, got %d", input, result.DistressScore)
		}
		if result.SuggestedAction != "Try a 5-minute breathing exercise" {
			t.Fatalf("input %q: unexpected suggestion %q", input, result.SuggestedAction)
		}
	}
}

func TestAnalyzeDistressNeutralScoresLow(t *testing.T) {
	for _, input := range []string{"", "I had a lovely walk", "what a great day"} {
		result := analyzeDistress(input)
		if result.DistressScore != 20 {
			t.Fatalf("input %q: expected score 20, got %d", input, result.DistressScore)
		}
		if result.SuggestedAction != "Write a journal entry" {
			t.Fatalf("input %q: unexpected suggestion %q", input, result.SuggestedAction)
		}
	}
}

func TestAnalyzeRoutineEmptyReturnsInfo(t *testing.T) {
	signs := analyzeRoutine("   ")
	if len(signs) != 1 {
		t.Fatalf("expected 1 sign, got %d", len(signs))
	}
	if signs[0].Type != signInfo {
		t.Fatalf("expected info sign, got %q", signs[0].Type)
	}
	if signs[0].Message != "No routine provided yet. Add one to get personalized insights!" {
		t.Fatalf("unexpected message %q", signs[0].Message)
	}
}

func TestAnalyzeRoutineRulesCoOccur(t *testing.T) {
	signs := analyzeRoutine("Up late with deadlines, always alone, watching tv all day")

	categories := map[string]bool{}
	for _, sign := range signs {
		if sign.Category != "" {
			categories[sign.Category] = true
		}
	}
	for _, want := range []string{"sleep", "stress", "social", "physical"} {
		if !categories[want] {
			t.Fatalf("expected %q warning, got signs %+v", want, signs)
		}
	}
}

func TestAnalyzeRoutinePhysicalRuleFiresOnAbsence(t *testing.T) {
	signs := analyzeRoutine("I walk to work and hit the gym after")
	for _, sign := range signs {
		if sign.Category == "physical" {
			t.Fatalf("physical warning should not fire when activity is mentioned: %+v", sign)
		}
	}
}

func TestAnalyzeRoutinePositiveSign(t *testing.T) {
	signs := analyzeRoutine("I meditate every morning and exercise with a friend")

	found := false
	for _, sign := range signs {
		if sign.Type == signSuccess {
			found = true
			if sign.Message != "Positive wellness activities detected in your routine!" {
				t.Fatalf("unexpected success message %q", sign.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected a success sign, got %+v", signs)
	}
}

func TestAnalyzeRoutineOrderIsStable(t *testing.T) {
	signs := analyzeRoutine("can't sleep, big deadline, feeling lonely")
	if len(signs) < 3 {
		t.Fatalf("expected at least 3 signs, got %d", len(signs))
	}
	if signs[0].Category != "sleep" || signs[1].Category != "stress" || signs[2].Category != "social" {
		t.Fatalf("signs out of order: %+v", signs)
	}
}

func TestAggregateDistress(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	users := []store.User{
		{
			ID: "a",
			Interactions: []store.Interaction{
				{Timestamp: day1, DistressScore: 20},
				{Timestamp: day2, DistressScore: 70},
			},
		},
		{
			ID: "b",
			Interactions: []store.Interaction{
				{Timestamp: day1, DistressScore: 70},
				{Timestamp: day2, DistressScore: 20},
			},
		},
		{ID: "c"},
	}

	overview := aggregateDistress(users)
	if overview.Patients != 3 {
		t.Fatalf("expected 3 patients, got %d", overview.Patients)
	}
	if overview.Interactions != 4 {
		t.Fatalf("expected 4 interactions, got %d", overview.Interactions)
	}
	if overview.AverageDistress != 45.0 {
		t.Fatalf("expected average 45.0, got %v", overview.AverageDistress)
	}
	// Only user "a" ends on a high score.
	if overview.HighDistressCount != 1 {
		t.Fatalf("expected 1 high-distress patient, got %d", overview.HighDistressCount)
	}
	if len(overview.Daily) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(overview.Daily))
	}
	if overview.Daily[0].Date != "2026-03-01" || overview.Daily[1].Date != "2026-03-02" {
		t.Fatalf("daily points out of order: %+v", overview.Daily)
	}
	if overview.Daily[0].AverageScore != 45.0 || overview.Daily[0].Interactions != 2 {
		t.Fatalf("unexpected daily point %+v", overview.Daily[0])
	}
}

func TestAggregateDistressEmpty(t *testing.T) {
	overview := aggregateDistress(nil)
	if overview.Patients != 0 || overview.Interactions != 0 || overview.AverageDistress != 0 {
		t.Fatalf("unexpected overview %+v", overview)
	}
	if overview.Daily == nil || len(overview.Daily) != 0 {
		t.Fatalf("daily should be an empty slice, got %+v", overview.Daily)
	}
}
