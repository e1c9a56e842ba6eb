package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
	"github.com/uipilot/uipilot/internal/vision"
)

const systemPrompt = `You are a desktop accessibility agent. Users rely on you for motor assistance.

You will see the user's command and a numbered list of the interactive UI
elements currently on screen. Choose exactly one action.

RULES:
1. Reference UI elements by their number (e.g. element 5).
2. After every action the system verifies the result itself. Do not verify.
3. If no action fits, use "unknown".

RESPONSE FORMAT: a single JSON object:
{
  "action": "click" | "double_click" | "right_click" | "type" | "shortcut" | "scroll" | "speak" | "unknown",
  "element": <number or 0>,
  "text": "<text for type/speak>",
  "shortcut": "<e.g. cmd+c>",
  "direction": "<up|down|left|right for scroll>",
  "confidence": <0.0-1.0>,
  "reasoning": "<brief explanation>"
}`

// OpenAIPlanner asks a chat-completion model to choose the action. It is an
// optional backend; the rule planner remains the default.
type OpenAIPlanner struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAIPlanner creates the LLM-backed planner. Requires OPENAI_API_KEY.
func NewOpenAIPlanner(modelName string, log *zap.Logger) (*OpenAIPlanner, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIPlanner{client: openai.NewClient(apiKey), model: modelName, log: log}, nil
}

// planResponse is the JSON shape the model is instructed to return.
type planResponse struct {
	Action     string  `json:"action"`
	Element    int     `json:"element"`
	Text       string  `json:"text"`
	Shortcut   string  `json:"shortcut"`
	Direction  string  `json:"direction"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Plan sends the command and the numbered element list to the model.
func (p *OpenAIPlanner) Plan(ctx context.Context, utterance string, sctx *model.ScreenContext) (model.Action, error) {
	userMsg := fmt.Sprintf("USER COMMAND: %s\n\n%s", utterance, vision.Describe(sctx))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return model.Action{}, fmt.Errorf("planner completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Action{}, fmt.Errorf("planner returned no choices")
	}

	var pr planResponse
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &pr); err != nil {
		return model.Action{}, fmt.Errorf("planner JSON parse: %w (content: %.200s)", err, content)
	}
	return pr.toAction(), nil
}

func (pr planResponse) toAction() model.Action {
	a := model.Action{
		Element:    pr.Element,
		Text:       pr.Text,
		Shortcut:   strings.ToLower(pr.Shortcut),
		Direction:  strings.ToLower(pr.Direction),
		Confidence: pr.Confidence,
		Reasoning:  pr.Reasoning,
	}
	switch strings.ToLower(strings.TrimSpace(pr.Action)) {
	case "click":
		a.Type = model.ActionClick
	case "double_click":
		a.Type = model.ActionDoubleClick
	case "right_click":
		a.Type = model.ActionRightClick
	case "type":
		a.Type = model.ActionTypeText
	case "shortcut":
		a.Type = model.ActionShortcut
	case "scroll":
		a.Type = model.ActionScroll
	case "speak":
		a.Type = model.ActionSpeak
	default:
		a.Type = model.ActionUnknown
	}
	if a.Confidence <= 0 && a.Type != model.ActionUnknown {
		a.Confidence = 0.5
	}
	return a
}
