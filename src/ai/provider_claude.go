package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type claudeClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   Options
}

func newClaudeClient(cfg FactoryConfig) *claudeClient {
	return &claudeClient{
		apiKey:     cfg.ClaudeKey,
		endpoint:   "https://api.anthropic.com/v1/messages",
		httpClient: &http.Client{Timeout: 120 * time.Second},
		defaults: Options{
			Model:       valueOrDefault(cfg.Model, "claude-3-haiku-20240307"),
			Temperature: orFloat(cfg.Temperature, 0.3),
			MaxTokens:   orInt(cfg.MaxTokens, 1024),
		},
	}
}

func (c *claudeClient) AnalyzeProposal(ctx context.Context, proposalDoc string) (*Analysis, error) {
	reqBody := map[string]any{
		"model": c.defaults.Model,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(proposalDoc)},
		},
		"system":      systemMessage,
		"max_tokens":  c.defaults.MaxTokens,
		"temperature": c.defaults.Temperature,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai: claude API error: %s", string(body))
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if len(result.Content) == 0 {
		return nil, fmt.Errorf("ai: no response from Claude")
	}
	return parseAnalysis(result.Content[0].Text)
}
