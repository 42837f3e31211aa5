package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model name is configured
const DefaultGeminiModel = "gemini-2.0-flash"

const geminiTimeout = 30 * time.Second

// Gemini implements the Advisor interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Advisor instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Insight asks Gemini for one observation about recent transactions
func (g *Gemini) Insight(ctx context.Context, snap Snapshot) (*Insight, error) {
	text, err := g.generate(ctx, insightPrompt(snap))
	if err != nil {
		return nil, err
	}
	insight, err := parseInsightJSON(text)
	if err != nil {
		return nil, fmt.Errorf("parsing insight: %w", err)
	}
	return insight, nil
}

// Plan asks Gemini for a monthly budget plan
func (g *Gemini) Plan(ctx context.Context, snap Snapshot) (*Plan, error) {
	text, err := g.generate(ctx, planPrompt(snap))
	if err != nil {
		return nil, err
	}
	plan, err := parsePlanJSON(text)
	if err != nil {
		return nil, fmt.Errorf("parsing budget plan: %w", err)
	}
	return plan, nil
}

// Chat continues an assistant conversation
func (g *Gemini) Chat(ctx context.Context, snap Snapshot, history []Message, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	prompt, err := chatPrompt(snap, question)
	if err != nil {
		return "", err
	}

	session := g.model.StartChat()
	session.History = geminiHistory(history)

	resp, err := session.SendMessage(ctx, genai.Text(assistantSystemPrompt+" "+prompt))
	if err != nil {
		return "", fmt.Errorf("sending chat message: %w", err)
	}
	return responseText(resp)
}

// geminiHistory converts the conversation to Gemini turns; assistant turns
// belong to the "model" role
func geminiHistory(history []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := RoleUser
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
