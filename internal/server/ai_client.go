package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindcompanion/backend/internal/config"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIModelRequest struct {
	SystemPrompt string
	Conversation []ChatTurn
	UserPrompt   string
}

type AIModelResponse struct {
	Answer string
	Model  string
}

type AIClient interface {
	Query(ctx context.Context, req AIModelRequest) (AIModelResponse, error)
}

// GrokClient talks to an OpenAI-compatible chat-completions endpoint
// (xAI's hosted API by default).
type GrokClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGrokClient(cfg config.Config) *GrokClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &GrokClient{
		apiKey:  strings.TrimSpace(cfg.GrokAPIKey),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.GrokBaseURL), "/"),
		model:   strings.TrimSpace(cfg.GrokModel),
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (c *GrokClient) Query(ctx context.Context, req AIModelRequest) (AIModelResponse, error) {
	if c.apiKey == "" {
		return AIModelResponse{}, errors.New("GROK_API_KEY is not configured")
	}
	if c.baseURL == "" {
		return AIModelResponse{}, errors.New("GROK_BASE_URL is not configured")
	}
	if c.model == "" {
		return AIModelResponse{}, errors.New("GROK_MODEL is not configured")
	}

	messages := make([]ChatTurn, 0, len(req.Conversation)+2)
	if prompt := strings.TrimSpace(req.SystemPrompt); prompt != "" {
		messages = append(messages, ChatTurn{Role: "system", Content: prompt})
	}
	for _, turn := range req.Conversation {
		role := strings.ToLower(strings.TrimSpace(turn.Role))
		if role != "user" && role != "assistant" {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		messages = append(messages, ChatTurn{Role: role, Content: content})
	}
	if prompt := strings.TrimSpace(req.UserPrompt); prompt != "" {
		messages = append(messages, ChatTurn{Role: "user", Content: prompt})
	}
	if len(messages) == 0 {
		return AIModelResponse{}, errors.New("AI request input is empty")
	}

	bodyRaw, err := json.Marshal(map[string]any{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return AIModelResponse{}, err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(bodyRaw),
	)
	if err != nil {
		return AIModelResponse{}, err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return AIModelResponse{}, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return AIModelResponse{}, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return AIModelResponse{}, fmt.Errorf(
			"grok chat completions error (%d): %s",
			response.StatusCode,
			truncateForLog(string(responseBody), 600),
		)
	}

	parsed := parseJSONStringMap(responseBody)
	answer := extractCompletionAnswer(parsed)
	if strings.TrimSpace(answer) == "" {
		return AIModelResponse{}, errors.New("grok response answer is empty")
	}

	modelName := strings.TrimSpace(toString(parsed["model"]))
	if modelName == "" {
		modelName = c.model
	}
	return AIModelResponse{Answer: answer, Model: modelName}, nil
}

func extractCompletionAnswer(data map[string]any) string {
	choices, ok := data["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(message["content"]))
}

type timelinePoint struct {
	Date      string `json:"date"`
	MoodScore int    `json:"mood_score"`
}

type companionInsights struct {
	MoodTrend       string          `json:"mood_trend"`
	DistressLevel   int             `json:"distress_level"`
	TriggerKeywords []string        `json:"trigger_keywords"`
	SuggestedAction string          `json:"suggested_action"`
	TimelineData    []timelinePoint `json:"timeline_data"`
}

type companionReply struct {
	Reply    string             `json:"reply"`
	Insights *companionInsights `json:"insights,omitempty"`
}

// decodeCompanionReply is the strict parse boundary for model output. It
// tolerates markdown code fences and one level of double-encoding (the
// model sometimes returns a JSON string containing JSON); anything else is
// an error rather than a passthrough of an inconsistent shape.
func decodeCompanionReply(raw string) (companionReply, error) {
	trimmed := stripCodeFence(raw)
	if trimmed == "" {
		return companionReply{}, errors.New("companion reply is empty")
	}

	payload := []byte(trimmed)
	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		payload = []byte(inner)
	}

	var reply companionReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return companionReply{}, fmt.Errorf("companion reply is not valid JSON: %w", err)
	}
	if strings.TrimSpace(reply.Reply) == "" && reply.Insights == nil {
		return companionReply{}, errors.New("companion reply has neither reply nor insights")
	}
	if reply.Insights != nil {
		if reply.Insights.TriggerKeywords == nil {
			reply.Insights.TriggerKeywords = []string{}
		}
		if reply.Insights.TimelineData == nil {
			reply.Insights.TimelineData = []timelinePoint{}
		}
		for idx := range reply.Insights.TimelineData {
			reply.Insights.TimelineData[idx].MoodScore = clampMoodScore(reply.Insights.TimelineData[idx].MoodScore)
		}
		reply.Insights.DistressLevel = clampRange(reply.Insights.DistressLevel, 0, 100)
	}
	return reply, nil
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func clampMoodScore(score int) int {
	return clampRange(score, -100, 100)
}

func clampRange(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// MockAIClient produces a deterministic, well-formed companion reply so the
// service can run and be tested without the hosted model.
type MockAIClient struct {
	Model string
}

func (m MockAIClient) Query(_ context.Context, req AIModelRequest) (AIModelResponse, error) {
	question := strings.TrimSpace(req.UserPrompt)
	scores := make([]int, 0, len(req.Conversation))
	for _, turn := range req.Conversation {
		if strings.EqualFold(turn.Role, "user") {
			if analyzeDistress(turn.Content).DistressScore >= highDistressThreshold {
				scores = append(scores, -40)
			} else {
				scores = append(scores, 30)
			}
		}
	}

	trend := "stable"
	if len(scores) > 0 && scores[len(scores)-1] < 0 {
		trend = "declining"
	}

	reply := companionReply{
		Reply: "Thanks for sharing. Take a slow breath; I'm here with you.",
		Insights: &companionInsights{
			MoodTrend:       trend,
			DistressLevel:   analyzeDistress(question).DistressScore,
			TriggerKeywords: []string{},
			SuggestedAction: analyzeDistress(question).SuggestedAction,
			TimelineData:    []timelinePoint{},
		},
	}
	for idx, score := range scores {
		reply.Insights.TimelineData = append(reply.Insights.TimelineData, timelinePoint{
			Date:      time.Now().UTC().AddDate(0, 0, idx-len(scores)+1).Format("2006-01-02"),
			MoodScore: score,
		})
	}
	for _, keyword := range distressKeywords {
		if strings.Contains(strings.ToLower(question), keyword) {
			reply.Insights.TriggerKeywords = append(reply.Insights.TriggerKeywords, keyword)
		}
	}

	encoded, err := json.Marshal(reply)
	if err != nil {
		return AIModelResponse{}, err
	}

	model := strings.TrimSpace(m.Model)
	if model == "" {
		model = "grok-2-latest"
	}
	return AIModelResponse{Answer: string(encoded), Model: model}, nil
}
