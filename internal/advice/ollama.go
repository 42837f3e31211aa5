package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ollama implements the Advisor interface using a local Ollama server
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates a new Ollama Advisor instance
func NewOllama(baseURL string, modelName string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llama3"
	}

	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		client: &http.Client{
			Timeout: 120 * time.Second, // local models can be slow
		},
	}, nil
}

// ollamaChatRequest represents the request body for Ollama's chat API
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatResponse represents the response from Ollama's chat API
type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Insight asks the model for one observation about recent transactions
func (o *Ollama) Insight(ctx context.Context, snap Snapshot) (*Insight, error) {
	text, err := o.chat(ctx, []ollamaMessage{{Role: RoleUser, Content: insightPrompt(snap)}})
	if err != nil {
		return nil, err
	}
	insight, err := parseInsightJSON(text)
	if err != nil {
		return nil, fmt.Errorf("parsing insight: %w", err)
	}
	return insight, nil
}

// Plan asks the model for a monthly budget plan
func (o *Ollama) Plan(ctx context.Context, snap Snapshot) (*Plan, error) {
	text, err := o.chat(ctx, []ollamaMessage{{Role: RoleUser, Content: planPrompt(snap)}})
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
func (o *Ollama) Chat(ctx context.Context, snap Snapshot, history []Message, question string) (string, error) {
	prompt, err := chatPrompt(snap, question)
	if err != nil {
		return "", err
	}

	messages := []ollamaMessage{{Role: "system", Content: assistantSystemPrompt}}
	for _, m := range history {
		messages = append(messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ollamaMessage{Role: RoleUser, Content: prompt})

	return o.chat(ctx, messages)
}

func (o *Ollama) chat(ctx context.Context, messages []ollamaMessage) (string, error) {
	reqBody := ollamaChatRequest{
		Model:    o.model,
		Stream:   false,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

// Close closes the Ollama client (no-op for HTTP client)
func (o *Ollama) Close() error {
	return nil
}
