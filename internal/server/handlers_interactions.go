package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindcompanion/backend/internal/store"
)

type interactRequest struct {
	TextInput  string  `json:"textInput"`
	VoiceInput *string `json:"voiceInput"`
}

func (a *App) interact(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Access denied")
		return
	}

	var payload interactRequest
	if !mustJSON(c, &payload) {
		return
	}
	hasVoice := payload.VoiceInput != nil && strings.TrimSpace(*payload.VoiceInput) != ""
	if strings.TrimSpace(payload.TextInput) == "" && !hasVoice {
		writeError(c, http.StatusBadRequest, "textInput or voiceInput is required")
		return
	}

	effectiveText := payload.TextInput
	var voiceText *string
	if hasVoice {
		transcript, err := a.transcriber.Transcribe(c.Request.Context(), *payload.VoiceInput)
		if err != nil {
			log.Printf("speech transcription failed: %v", err)
			writeError(c, http.StatusBadGateway, "Speech service unavailable")
			return
		}
		effectiveText = transcript
		voiceText = &transcript
	}

	result := analyzeDistress(effectiveText)
	interaction := store.Interaction{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		TextInput:       payload.TextInput,
		VoiceInput:      voiceText,
		DistressScore:   result.DistressScore,
		SuggestedAction: result.SuggestedAction,
	}

	if err := a.store.AppendInteraction(c.Request.Context(), user.ID, interaction); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "User not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to record interaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Interaction recorded",
		"response":      result.SuggestedAction,
		"distressScore": result.DistressScore,
	})
}

func (a *App) getProfile(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Access denied")
		return
	}

	record, err := a.store.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "User not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, record)
}

type updateProfileRequest struct {
	Name         *string `json:"name"`
	Age          *int    `json:"age"`
	Gender       *string `json:"gender"`
	DailyRoutine *string `json:"dailyRoutine"`
}

func (a *App) updateProfile(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Access denied")
		return
	}

	var payload updateProfileRequest
	if !mustJSON(c, &payload) {
		return
	}
	if payload.Name != nil && strings.TrimSpace(*payload.Name) == "" {
		writeError(c, http.StatusBadRequest, "name must not be empty")
		return
	}
	if payload.Age != nil && (*payload.Age < 0 || *payload.Age > 150) {
		writeError(c, http.StatusBadRequest, "age must be between 0 and 150")
		return
	}

	record, err := a.store.UpdateUserProfile(c.Request.Context(), user.ID, store.ProfileUpdate{
		Name:         payload.Name,
		Age:          payload.Age,
		Gender:       payload.Gender,
		DailyRoutine: payload.DailyRoutine,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "User not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, record)
}

func (a *App) routineAnalysis(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Access denied")
		return
	}

	record, err := a.store.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "User not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	routine := ""
	if record.DailyRoutine != nil {
		routine = *record.DailyRoutine
	}
	c.JSON(http.StatusOK, gin.H{
		"dailyRoutine": routine,
		"signs":        analyzeRoutine(routine),
	})
}
