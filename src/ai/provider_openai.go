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

type openAIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   Options
}

func newOpenAIClient(cfg FactoryConfig) *openAIClient {
	return &openAIClient{
		apiKey:     cfg.OpenAIKey,
		endpoint:   "https://api.openai.com/v1/chat/completions",
		httpClient: &http.Client{Timeout: 120 * time.Second},
		defaults: Options{
			Model:       valueOrDefault(cfg.Model, "gpt-4o-mini"),
			Temperature: orFloat(cfg.Temperature, 0.3),
			MaxTokens:   orInt(cfg.MaxTokens, 1024),
		},
	}
}

func (c *openAIClient) AnalyzeProposal(ctx context.Context, proposalDoc string) (*Analysis, error) {
	reqBody := map[string]any{
		"model": c.defaults.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemMessage},
			{"role": "user", "content": buildPrompt(proposalDoc)},
		},
		"temperature": c.defaults.Temperature,
		"max_tokens":  c.defaults.MaxTokens,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return nil, fmt.Errorf("ai: openAI API error: %s", string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("ai: no response from OpenAI")
	}
	return parseAnalysis(result.Choices[0].Message.Content)
}
