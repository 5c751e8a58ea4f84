package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/pkg/circuitbreaker"
)

const systemPrompt = "You are a medical assistant. Extract actionable steps from doctor's notes and return JSON inside a code block."

const userPromptTemplate = `Extract actionable steps from the following medical note and format it in JSON:

%q

Return the output inside a Markdown code block, like this:

` + "```json" + `
{
  "checklist": ["Task 1", "Task 2"],
  "plan": [
    { "action": "Action 1", "schedule": "Schedule 1" },
    { "action": "Action 2", "schedule": "Schedule 2" }
  ]
}
` + "```" + `

Do not include any other text before or after the JSON block.`

// Models sometimes return the JSON bare instead of fenced; accept both.
var jsonBlockRe = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")

type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// openAIExtractor calls an OpenAI-compatible chat-completions endpoint.
type openAIExtractor struct {
	cfg        Config
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
}

func NewOpenAIExtractor(cfg Config) PlanExtractor {
	if cfg.URL == "" {
		cfg.URL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &openAIExtractor{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "plan-extractor",
			MaxFailures: 5,
			Timeout:     time.Minute,
		}),
	}
}

func (e *openAIExtractor) Extract(ctx context.Context, note string) (*model.CarePlan, error) {
	var completion string
	err := e.cb.Execute(func() error {
		var callErr error
		completion, callErr = e.complete(ctx, note)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	plan, err := parseCarePlan(completion)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (e *openAIExtractor) complete(ctx context.Context, note string) (string, error) {
	reqBody := map[string]interface{}{
		"model": e.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": fmt.Sprintf(userPromptTemplate, note)},
		},
		"temperature": 0.5,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("extractor api error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var completionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	return strings.TrimSpace(completionResp.Choices[0].Message.Content), nil
}

// parseCarePlan extracts the JSON payload from a completion, tolerating
// both fenced and bare output.
func parseCarePlan(completion string) (*model.CarePlan, error) {
	if completion == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrExtraction)
	}

	payload := completion
	if m := jsonBlockRe.FindStringSubmatch(completion); m != nil {
		payload = m[1]
	}

	var plan model.CarePlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	if plan.Checklist == nil {
		plan.Checklist = []string{}
	}
	if plan.Plan == nil {
		plan.Plan = []model.PlanDirective{}
	}
	return &plan, nil
}
