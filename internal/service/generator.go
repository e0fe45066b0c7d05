package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

var ErrGeneratorNotConfigured = errors.New("content generator is not configured")

// GenerationRequest describes the copy the user wants.
type GenerationRequest struct {
	ContentType  string `json:"contentType" validate:"required"`
	BusinessType string `json:"businessType" validate:"required"`
	Tone         string `json:"tone" validate:"required"`
	Length       string `json:"length" validate:"required"`
	Details      string `json:"details" validate:"required"`
	Language     string `json:"language"`
}

type GeneratedCopy struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// OpenAIGenerator produces marketing copy through the OpenAI chat API.
type OpenAIGenerator struct {
	client *openai.Client
}

func NewOpenAIGenerator(apiKey string) *OpenAIGenerator {
	if apiKey == "" {
		return &OpenAIGenerator{}
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey)}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (*GeneratedCopy, error) {
	if g.client == nil {
		return nil, ErrGeneratorNotConfigured
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4o,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req.Language)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	raw := resp.Choices[0].Message.Content

	var copyOut GeneratedCopy
	err = json.Unmarshal([]byte(raw), &copyOut)
	if err != nil || copyOut.Content == "" {
		// Model ignored the JSON contract; use the raw text as content.
		slog.Warn("generator returned non-JSON content, using raw text", "error", err)
		copyOut = GeneratedCopy{Content: raw}
	}
	if copyOut.Title == "" {
		copyOut.Title = defaultTitle(req)
	}

	return &copyOut, nil
}

func systemPrompt(language string) string {
	if language == "th" {
		return "คุณเป็นนักการตลาดมืออาชีพที่เชี่ยวชาญการเขียนคอนเทนต์การตลาดภาษาไทย " +
			"ตอบเป็น JSON object ที่มี key เป็น title และ content เท่านั้น"
	}
	return "You are a professional marketer who writes sharp, on-brand marketing copy. " +
		"Respond with a JSON object containing only the keys title and content."
}

func userPrompt(req GenerationRequest) string {
	return fmt.Sprintf(
		"Write %s marketing copy.\nContent type: %s\nBusiness type: %s\nTone: %s\nLength: %s\nDetails: %s",
		req.Language, req.ContentType, req.BusinessType, req.Tone, req.Length, req.Details,
	)
}

func defaultTitle(req GenerationRequest) string {
	return fmt.Sprintf("%s - %s", req.ContentType, req.BusinessType)
}
