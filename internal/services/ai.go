package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/duty-tracker/internal/constants"
	"github.com/yukikurage/duty-tracker/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoDutiesGenerated    = errors.New("AI did not generate any duties")
	ErrAINoValidDuties        = errors.New("no valid duties could be created from AI output")
	ErrAITooManyDuties        = fmt.Errorf("AI generated too many duties (max %d)", constants.MaxAIGeneratedDuties)
)

// chatCompleter is the part of *openai.Client the AI service calls.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client chatCompleter
	model  string
	now    func() time.Time
}

// SuggestedDuty is a draft duty extracted from free text. It is never
// persisted by the AI service itself.
type SuggestedDuty struct {
	Title    string          `json:"title"`
	Detail   string          `json:"detail"`
	Priority models.Priority `json:"priority"`
}

func NewAIService(apiKey string) *AIService {
	return newAIService(openai.NewClient(apiKey))
}

func newAIService(client chatCompleter) *AIService {
	return &AIService{client: client, model: openai.GPT4o, now: time.Now}
}

// SuggestDutiesFromText asks the model for duties described in text.
func (s *AIService) SuggestDutiesFromText(ctx context.Context, text string) ([]SuggestedDuty, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	currentTime := s.now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You extract duties (tasks) for a project team from free text.

Current time: %s

Text:
%s

Return a JSON array of the duties you found:
[
  {
    "title": "short duty title",
    "detail": "what has to be done",
    "priority": "one of CRITICAL, HIGH, MEDIUM, LOW"
  }
]

Rules:
- Return [] when the text describes no duties
- Use LOW when the text gives no hint about urgency
- Return only JSON, no commentary`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseSuggestedDuties(resp.Choices[0].Message.Content)
}

// parseSuggestedDuties decodes the model reply, tolerating a markdown code
// fence around the JSON.
func parseSuggestedDuties(content string) ([]SuggestedDuty, error) {
	body := strings.TrimSpace(content)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}

	var raw []struct {
		Title    string `json:"title"`
		Detail   string `json:"detail"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	duties := make([]SuggestedDuty, 0, len(raw))
	for _, r := range raw {
		priority, err := models.ParsePriority(r.Priority)
		if err != nil {
			priority = models.PriorityLow
		}
		duties = append(duties, SuggestedDuty{Title: r.Title, Detail: r.Detail, Priority: priority})
	}
	return duties, nil
}
