package advice

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// extractJSON strips markdown fences and returns the outermost JSON object
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("invalid JSON object in response")
	}

	return text[startIdx : endIdx+1], nil
}

// parseInsightJSON parses a model reply into an Insight
func parseInsightJSON(text string) (*Insight, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var insight Insight
	if err := json.Unmarshal([]byte(raw), &insight); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	insight.Title = strings.TrimSpace(insight.Title)
	switch strings.ToLower(strings.TrimSpace(insight.Type)) {
	case "positive", "warning":
		insight.Type = strings.ToLower(strings.TrimSpace(insight.Type))
	default:
		insight.Type = "neutral"
	}
	return &insight, nil
}

// parsePlanJSON parses a model reply into a Plan
func parsePlanJSON(text string) (*Plan, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	if plan.BudgetPlans == nil {
		plan.BudgetPlans = []PlanItem{}
	}
	return &plan, nil
}

// UnmarshalJSON accepts a planned amount given as a number or a numeric
// string. Anything else becomes zero so one bad line doesn't sink the plan.
func (p *PlanItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Category      string          `json:"category"`
		PlannedAmount json.RawMessage `json:"plannedAmount"`
		Notes         string          `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Category = raw.Category
	p.PlannedAmount = lenientAmount(raw.PlannedAmount)
	p.Notes = raw.Notes
	return nil
}

func lenientAmount(raw json.RawMessage) decimal.Decimal {
	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return amount
}
