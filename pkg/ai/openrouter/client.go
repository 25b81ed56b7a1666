// Package openrouter implements the ai.Analyzer contract against the
// OpenRouter (OpenAI-compatible) chat completions API with a
// JSON-schema-constrained response.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/msulikowski96-cmd/newcvtoai/pkg/ai"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client is a minimal OpenRouter chat completions client.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	httpDo  *http.Client
}

// New builds a client. timeout bounds every Analyze call; it is applied on
// top of whatever deadline the caller's context already carries.
func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		httpDo:  &http.Client{},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Type       string `json:"type"`
	JSONSchema struct {
		Name   string         `json:"name"`
		Strict bool           `json:"strict"`
		Schema map[string]any `json:"schema"`
	} `json:"json_schema"`
}

type chatCompletionsRequest struct {
	Model          string            `json:"model"`
	Messages       []message         `json:"messages"`
	Temperature    float32           `json:"temperature,omitempty"`
	ResponseFormat *jsonSchemaFormat `json:"response_format,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

const systemPrompt = "You are an expert career coach and CV writer. " +
	"Compare the candidate's CV against the job description and respond " +
	"strictly with a single JSON object matching the requested schema. " +
	"No prose outside the JSON."

// Analyze implements ai.Analyzer.
func (c *Client) Analyze(ctx context.Context, cvText, jobDescription string) (ai.AnalysisResult, error) {
	if c.apiKey == "" {
		return ai.AnalysisResult{}, fmt.Errorf("%w: api key not configured", ai.ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	format := &jsonSchemaFormat{Type: "json_schema"}
	format.JSONSchema.Name = "cv_analysis"
	format.JSONSchema.Strict = true
	format.JSONSchema.Schema = resultSchema()

	user := fmt.Sprintf("Job description:\n<<<\n%s\n>>>\n\nCandidate CV:\n<<<\n%s\n>>>", jobDescription, cvText)
	body, err := json.Marshal(chatCompletionsRequest{
		Model:          c.model,
		Messages:       []message{{Role: "system", Content: systemPrompt}, {Role: "user", Content: user}},
		Temperature:    0.2,
		ResponseFormat: format,
	})
	if err != nil {
		return ai.AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ai.AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return ai.AnalysisResult{}, fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return ai.AnalysisResult{}, fmt.Errorf("%w: http %d: %v", ai.ErrUnavailable, resp.StatusCode, errMap)
	}

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ai.AnalysisResult{}, fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return ai.AnalysisResult{}, fmt.Errorf("%w: no choices returned by model", ai.ErrUnavailable)
	}
	return parseResult(out.Choices[0].Message.Content)
}

// parseResult decodes the model reply. Schema-constrained responses are
// plain JSON, but some providers still wrap output in a fenced block, so a
// best-effort extraction runs before giving up.
func parseResult(raw string) (ai.AnalysisResult, error) {
	raw = strings.TrimSpace(raw)
	var result ai.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		i := strings.Index(raw, "{")
		j := strings.LastIndex(raw, "}")
		if i < 0 || j <= i {
			return ai.AnalysisResult{}, fmt.Errorf("%w: unparseable model reply", ai.ErrUnavailable)
		}
		if err := json.Unmarshal([]byte(raw[i:j+1]), &result); err != nil {
			return ai.AnalysisResult{}, fmt.Errorf("%w: unparseable model reply", ai.ErrUnavailable)
		}
	}
	normalize(&result)
	return result, nil
}

func normalize(r *ai.AnalysisResult) {
	r.SchemaVersion = ai.SchemaVersion
	if r.MatchScore < 0 {
		r.MatchScore = 0
	}
	if r.MatchScore > 100 {
		r.MatchScore = 100
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	if r.InterviewQuestions == nil {
		r.InterviewQuestions = []string{}
	}
	if r.SkillsGap.Missing == nil {
		r.SkillsGap.Missing = []string{}
	}
	if r.SkillsGap.Recommendations == nil {
		r.SkillsGap.Recommendations = []string{}
	}
	if r.JobListings == nil {
		r.JobListings = []ai.JobListing{}
	}
}

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func resultSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"matchScore", "summary", "strengths", "weaknesses", "suggestions",
			"optimizedCv", "coverLetter", "interviewQuestions", "skillsGap",
			"linkedin", "jobListings",
		},
		"properties": map[string]any{
			"matchScore":         map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"summary":            map[string]any{"type": "string"},
			"strengths":          stringArray(),
			"weaknesses":         stringArray(),
			"suggestions":        stringArray(),
			"optimizedCv":        map[string]any{"type": "string"},
			"coverLetter":        map[string]any{"type": "string"},
			"interviewQuestions": stringArray(),
			"skillsGap": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"missing", "recommendations"},
				"properties": map[string]any{
					"missing":         stringArray(),
					"recommendations": stringArray(),
				},
			},
			"linkedin": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"headline", "about"},
				"properties": map[string]any{
					"headline": map[string]any{"type": "string"},
					"about":    map[string]any{"type": "string"},
				},
			},
			"jobListings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"title", "company", "location", "url", "matchReason"},
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"company":     map[string]any{"type": "string"},
						"location":    map[string]any{"type": "string"},
						"url":         map[string]any{"type": "string"},
						"matchReason": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
