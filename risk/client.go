// Package risk talks to the external scoring agent. The ledger only consumes
// the numeric score coming back; how the agent computes it is its business.
package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultDaysUntilDue is used when no due date is set. Past due dates
	// clamp to one day instead.
	DefaultDaysUntilDue = 60
)

type ScoreRequest struct {
	Wallet       string `json:"wallet"`
	Country      string `json:"country"`
	Amount       int64  `json:"amount"`
	Industry     string `json:"industry"`
	DaysUntilDue int    `json:"days_until_due"`
}

type ScoreResult struct {
	RiskScore int64  `json:"risk_score"`
	RiskLevel string `json:"risk_level"`
	Message   string `json:"message"`
}

type ScoreClientWrapper interface {
	Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error)
}

type AgentClient struct {
	url    string
	client *http.Client
}

func NewAgentClient(cfg *Config) *AgentClient {
	return &AgentClient{
		url: cfg.RiskAgentURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.RiskAgentTimeout) * time.Second,
		},
	}
}

func (a *AgentClient) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	payload := new(bytes.Buffer)
	if err := json.NewEncoder(payload).Encode(req); err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/risk/check", payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("risk agent returned status %d", resp.StatusCode)
	}

	result := &ScoreResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, err
	}
	return result, nil
}

// DaysUntilDue derives the agent's days_until_due parameter from an invoice
// due date, clamped to a minimum of one day.
func DaysUntilDue(dueDate time.Time, now time.Time) int {
	if dueDate.IsZero() {
		return DefaultDaysUntilDue
	}
	days := int(dueDate.Sub(now).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

var _ ScoreClientWrapper = (*AgentClient)(nil)
