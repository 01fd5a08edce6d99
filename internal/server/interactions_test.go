package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type failingTranscriber struct{}

func (failingTranscriber) Transcribe(context.Context, string) (string, error) {
	return "", errors.New("upstream unavailable")
}

func TestInteractRecordsTextInput(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "pat@example.com")
	token := env.userToken(t, user)

	rec := performRequest(t, env.router, http.MethodPost, "/api/interact", token, map[string]any{
		"textInput": "I feel really anxious about tomorrow",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeJSONMap(t, rec)
	if body["message"] != "Interaction recorded" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["distressScore"] != float64(70) {
		t.Fatalf("expected score 70, got %v", body["distressScore"])
	}
	if body["response"] != "Try a 5-minute breathing exercise" {
		t.Fatalf("unexpected response %v", body["response"])
	}

	stored, err := env.store.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if len(stored.Interactions) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(stored.Interactions))
	}
	interaction := stored.Interactions[0]
	if interaction.TextInput != "I feel really anxious about tomorrow" {
		t.Fatalf("unexpected stored text %q", interaction.TextInput)
	}
	if interaction.DistressScore != 70 || interaction.VoiceInput != nil {
		t.Fatalf("unexpected stored interaction %+v", interaction)
	}
}

func TestInteractNeutralTextScoresLow(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "calm@example.com")

	rec := performRequest(t, env.router, http.MethodPost, "/api/interact", env.userToken(t, user), map[string]any{
		"textInput": "had a nice lunch with a friend",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeJSONMap(t, rec)
	if body["distressScore"] != float64(20) || body["response"] != "Write a journal entry" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestInteractTranscribesVoiceInput(t *testing.T) {
	env := newTestEnvWith(t, MockAIClient{}, StaticTranscriber{Text: "I am overwhelmed"})
	user := env.seedUser(t, "voice@example.com")

	rec := performRequest(t, env.router, http.MethodPost, "/api/interact", env.userToken(t, user), map[string]any{
		"voiceInput": "bm90LXJlYWwtYXVkaW8=",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	// Scoring runs on the transcript, not the raw audio payload.
	if body := decodeJSONMap(t, rec); body["distressScore"] != float64(70) {
		t.Fatalf("expected score 70 from transcript, got %v", body["distressScore"])
	}

	stored, err := env.store.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if len(stored.Interactions) != 1 || stored.Interactions[0].VoiceInput == nil {
		t.Fatalf("expected a voice interaction, got %+v", stored.Interactions)
	}
	if *stored.Interactions[0].VoiceInput != "I am overwhelmed" {
		t.Fatalf("expected transcript stored, got %q", *stored.Interactions[0].VoiceInput)
	}
}

func TestInteractSpeechFailureReturns502(t *testing.T) {
	env := newTestEnvWith(t, MockAIClient{}, failingTranscriber{})
	user := env.seedUser(t, "broken@example.com")

	rec := performRequest(t, env.router, http.MethodPost, "/api/interact", env.userToken(t, user), map[string]any{
		"voiceInput": "bm90LXJlYWwtYXVkaW8=",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rec.Code, rec.Body.String())
	}
	if detail := responseDetail(t, rec); detail != "Speech service unavailable" {
		t.Fatalf("unexpected detail %q", detail)
	}

	stored, err := env.store.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if len(stored.Interactions) != 0 {
		t.Fatalf("failed transcription must not record an interaction, got %+v", stored.Interactions)
	}
}

func TestInteractRequiresSomeInput(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "empty@example.com")

	rec := performRequest(t, env.router, http.MethodPost, "/api/interact", env.userToken(t, user), map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestInteractUnknownUserReturns404(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, env.cfg, testID(), "gone@example.com", "")

	rec := performRequest(t, env.router, http.MethodPost, "/api/interact", token, map[string]any{
		"textInput": "hello",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
	if detail := responseDetail(t, rec); detail != "User not found" {
		t.Fatalf("unexpected detail %q", detail)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "edit@example.com")
	token := env.userToken(t, user)

	rec := performRequest(t, env.router, http.MethodPost, "/api/update-profile", token, map[string]any{
		"dailyRoutine": "wake at 7, gym, work until 6",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeJSONMap(t, rec)
	if body["dailyRoutine"] != "wake at 7, gym, work until 6" {
		t.Fatalf("routine not updated: %v", body)
	}
	// Untouched fields survive a partial update.
	if body["name"] != user.Name {
		t.Fatalf("name should be unchanged, got %v", body["name"])
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "strict@example.com")
	token := env.userToken(t, user)

	for _, payload := range []map[string]any{
		{"name": "   "},
		{"age": -3},
		{"age": 200},
	} {
		rec := performRequest(t, env.router, http.MethodPost, "/api/update-profile", token, payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestRoutineAnalysisEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "routine@example.com")
	token := env.userToken(t, user)

	rec := performRequest(t, env.router, http.MethodGet, "/api/routine-analysis", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeJSONMap(t, rec)
	signs, _ := body["signs"].([]any)
	if len(signs) != 1 {
		t.Fatalf("expected single info sign for empty routine, got %v", body)
	}

	rec = performRequest(t, env.router, http.MethodPost, "/api/update-profile", token, map[string]any{
		"dailyRoutine": "up late with deadlines, no time for friends",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update routine: expected 200, got %d", rec.Code)
	}

	rec = performRequest(t, env.router, http.MethodGet, "/api/routine-analysis", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body = decodeJSONMap(t, rec)
	signs, _ = body["signs"].([]any)
	if len(signs) < 3 {
		t.Fatalf("expected several warnings, got %v", body)
	}
}
