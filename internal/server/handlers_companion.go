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

const companionSystemPrompt = `You are MindCompanion, a supportive mental-wellness companion.
Respond ONLY with a single JSON object of the shape:
{"reply": string, "insights": {"mood_trend": string, "distress_level": integer 0-100, "trigger_keywords": [string], "suggested_action": string, "timeline_data": [{"date": "YYYY-MM-DD", "mood_score": integer -100..100}]}}
Be warm and non-judgmental. Never include text outside the JSON object.`

const timelineSystemPrompt = `You are MindCompanion, analysing a user's recent interaction history.
Respond ONLY with a single JSON object of the shape:
{"insights": {"mood_trend": string, "distress_level": integer 0-100, "trigger_keywords": [string], "suggested_action": string, "timeline_data": [{"date": "YYYY-MM-DD", "mood_score": integer -100..100}]}}
Derive one timeline_data entry per dated interaction, mood_score from -100 (very low) to 100 (very positive).
Never include text outside the JSON object.`

type companionChatRequest struct {
	Message string `json:"message"`
}

func (a *App) chatWithGrok(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Access denied")
		return
	}

	var payload companionChatRequest
	if !mustJSON(c, &payload) {
		return
	}
	message := strings.TrimSpace(payload.Message)
	if message == "" {
		writeError(c, http.StatusBadRequest, "message is required")
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

	// The keyword analyzer runs and is stored regardless of what the
	// hosted model returns.
	result := analyzeDistress(message)
	interaction := store.Interaction{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		TextInput:       message,
		DistressScore:   result.DistressScore,
		SuggestedAction: result.SuggestedAction,
	}
	if err := a.store.AppendInteraction(c.Request.Context(), user.ID, interaction); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to record interaction")
		return
	}

	response, err := a.ai.Query(c.Request.Context(), AIModelRequest{
		SystemPrompt: companionSystemPrompt,
		Conversation: companionConversation(record, a.cfg.AIHistoryLimit),
		UserPrompt:   message,
	})
	if err != nil {
		log.Printf("companion query failed: %v", err)
		writeError(c, http.StatusBadGateway, "Companion service unavailable")
		return
	}

	reply, err := decodeCompanionReply(response.Answer)
	if err != nil {
		log.Printf("companion reply rejected: %v", err)
		writeError(c, http.StatusBadGateway, "Companion returned an unreadable reply")
		return
	}

	// The raw model output replaces the keyword suggestion on the
	// triggering interaction; the score itself is never overwritten.
	if err := a.store.SetInteractionSuggestion(c.Request.Context(), user.ID, interaction.ID, response.Answer); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to record interaction")
		return
	}

	body := gin.H{
		"reply":         reply.Reply,
		"distressScore": result.DistressScore,
		"interactionId": interaction.ID,
	}
	if reply.Insights != nil {
		body["insights"] = reply.Insights
	}
	c.JSON(http.StatusOK, body)
}

func (a *App) chatTimeline(c *gin.Context) {
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

	response, err := a.ai.Query(c.Request.Context(), AIModelRequest{
		SystemPrompt: timelineSystemPrompt,
		Conversation: companionConversation(record, a.cfg.AIHistoryLimit),
		UserPrompt:   "Summarise my emotional timeline from the conversation so far.",
	})
	if err != nil {
		log.Printf("timeline query failed: %v", err)
		writeError(c, http.StatusBadGateway, "Companion service unavailable")
		return
	}

	reply, err := decodeCompanionReply(response.Answer)
	if err != nil || reply.Insights == nil {
		log.Printf("timeline reply rejected: %v", err)
		writeError(c, http.StatusBadGateway, "Companion returned an unreadable reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": reply.Insights})
}

// companionConversation flattens the last limit interactions into
// chronological user/assistant turns. Dates are prefixed so the model can
// build the timeline.
func companionConversation(user store.User, limit int) []ChatTurn {
	interactions := user.Interactions
	if limit > 0 && len(interactions) > limit {
		interactions = interactions[len(interactions)-limit:]
	}

	turns := make([]ChatTurn, 0, len(interactions)*2)
	for _, interaction := range interactions {
		text := interaction.TextInput
		if interaction.VoiceInput != nil && strings.TrimSpace(*interaction.VoiceInput) != "" {
			text = *interaction.VoiceInput
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		turns = append(turns, ChatTurn{
			Role:    "user",
			Content: interaction.Timestamp.UTC().Format("2006-01-02") + ": " + text,
		})
		if suggestion := strings.TrimSpace(interaction.SuggestedAction); suggestion != "" {
			turns = append(turns, ChatTurn{Role: "assistant", Content: suggestion})
		}
	}
	return turns
}
