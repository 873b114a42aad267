// Package analyzer asks a hosted vision model for a plant health
// assessment of an uploaded photo.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	defaultModel    = "gpt-4o-mini"
	defaultTimeout  = 60 * time.Second
	maxResponseSize = 4 << 20
)

var (
	// ErrUpstream wraps non-2xx model API responses.
	ErrUpstream = errors.New("analyzer: upstream request failed")
	// ErrNoJSON means the model reply held no parseable JSON object.
	ErrNoJSON = errors.New("analyzer: no JSON object in model output")

	jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)
)

// Analysis is the normalized health assessment of one photo.
type Analysis struct {
	IsPlant              bool            `json:"isPlant"`
	HealthScore          int             `json:"healthScore"`
	Summary              string          `json:"summary"`
	Issues               []string        `json:"issues"`
	Recommendations      []string        `json:"recommendations"`
	WateringSuggestion   string          `json:"wateringSuggestion"`
	FertilizerSuggestion string          `json:"fertilizerSuggestion"`
	TodayCare            string          `json:"todayCare"`
	Raw                  json.RawMessage `json:"raw,omitempty"`
}

// Demo is returned when no API key is configured.
func Demo() Analysis {
	return Analysis{
		Summary:         "AI disabled, no plant detection",
		Issues:          []string{},
		Recommendations: []string{"Enable AI_API_KEY for real analysis"},
		Raw:             json.RawMessage(`{"demo":true}`),
	}
}

// Failsafe is returned alongside any analysis error.
func Failsafe(err error) Analysis {
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	return Analysis{
		Summary:         "Analysis failed",
		Issues:          []string{},
		Recommendations: []string{},
		Raw:             raw,
	}
}

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the OpenAI responses endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      opts.Model,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return c
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// Analyze assesses the image at imageURL. It always returns a usable
// Analysis: Demo when disabled, Failsafe together with the error otherwise.
func (c *Client) Analyze(ctx context.Context, imageURL string) (Analysis, error) {
	if !c.Enabled() {
		return Demo(), nil
	}
	text, err := c.complete(ctx, buildPrompt(imageURL))
	if err != nil {
		return Failsafe(err), err
	}
	a, err := parseAnalysis(text)
	if err != nil {
		return Failsafe(err), err
	}
	return a, nil
}

type inputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []inputContent `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
}

type outputMessage struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

type responsesReply struct {
	Output     []outputMessage `json:"output"`
	OutputText string          `json:"output_text"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(responsesRequest{
		Model: c.model,
		Input: []inputMessage{{
			Role:    "user",
			Content: []inputContent{{Type: "input_text", Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("analyzer: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("analyzer: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyzer: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("analyzer: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return extractText(data), nil
}

// extractText prefers the first output message, then output_text, then the
// whole body.
func extractText(data []byte) string {
	var reply responsesReply
	if err := json.Unmarshal(data, &reply); err == nil {
		if len(reply.Output) > 0 && len(reply.Output[0].Content) > 0 && reply.Output[0].Content[0].Text != "" {
			return reply.Output[0].Content[0].Text
		}
		if reply.OutputText != "" {
			return reply.OutputText
		}
	}
	return string(data)
}

type modelVerdict struct {
	IsPlant              *bool    `json:"isPlant"`
	HealthScore          float64  `json:"healthScore"`
	Summary              string   `json:"summary"`
	Issues               []string `json:"issues"`
	Recommendations      []string `json:"recommendations"`
	WateringSuggestion   string   `json:"wateringSuggestion"`
	FertilizerSuggestion string   `json:"fertilizerSuggestion"`
	TodayCare            string   `json:"todayCare"`
}

func parseAnalysis(text string) (Analysis, error) {
	block := jsonBlock.FindString(text)
	if block == "" {
		return Analysis{}, ErrNoJSON
	}
	var v modelVerdict
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	a := Analysis{
		IsPlant:              v.IsPlant != nil && *v.IsPlant,
		HealthScore:          clampScore(v.HealthScore),
		Summary:              v.Summary,
		Issues:               v.Issues,
		Recommendations:      v.Recommendations,
		WateringSuggestion:   v.WateringSuggestion,
		FertilizerSuggestion: v.FertilizerSuggestion,
		TodayCare:            v.TodayCare,
		Raw:                  json.RawMessage(block),
	}
	if a.Issues == nil {
		a.Issues = []string{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	return a, nil
}

func clampScore(s float64) int {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return int(s)
}

func buildPrompt(imageURL string) string {
	return `You are a strict plant detection and plant health analysis system.

1) First detect whether a plant is visible in this image.

2) If NO plant is detected, return EXACTLY this JSON:
{"isPlant": false, "healthScore": 0, "summary": "No plant detected", "issues": [], "recommendations": [], "wateringSuggestion": "", "fertilizerSuggestion": "", "todayCare": ""}

3) If a plant IS detected, return ONLY this JSON:
{"isPlant": true, "healthScore": 0-100, "summary": "short summary", "issues": ["..."], "recommendations": ["..."], "wateringSuggestion": "short advice", "fertilizerSuggestion": "organic advice", "todayCare": "what to do today"}

Image URL: ` + imageURL + `

Return JSON ONLY. No explanations.`
}
