package server

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

// Transcriber resolves a voice clip to text. Audio content is the
// base64-encoded clip as sent by the client.
type Transcriber interface {
	Transcribe(ctx context.Context, audioContent string) (string, error)
}

// StaticTranscriber is the development stand-in used when no speech API key
// is configured.
type StaticTranscriber struct {
	Text string
}

func (s StaticTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	if strings.TrimSpace(s.Text) == "" {
		return "I feel stressed today", nil
	}
	return s.Text, nil
}

type GoogleSpeechTranscriber struct {
	service *speech.Service
}

func NewGoogleSpeechTranscriber(ctx context.Context, apiKey string) (*GoogleSpeechTranscriber, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("speech API key is required")
	}
	service, err := speech.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleSpeechTranscriber{service: service}, nil
}

func (g *GoogleSpeechTranscriber) Transcribe(ctx context.Context, audioContent string) (string, error) {
	if strings.TrimSpace(audioContent) == "" {
		return "", errors.New("audio content is empty")
	}

	response, err := g.service.Speech.Recognize(&speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode: "en-US",
		},
		Audio: &speech.RecognitionAudio{Content: audioContent},
	}).Context(ctx).Do()
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		transcript := strings.TrimSpace(result.Alternatives[0].Transcript)
		if transcript != "" {
			parts = append(parts, transcript)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no transcription returned")
	}
	return strings.Join(parts, " "), nil
}
