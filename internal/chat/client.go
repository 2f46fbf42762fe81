// Package chat forwards conversation turns to a hosted generative-language
// endpoint and relays the text reply. The adapter adds a synthetic leading
// context turn and otherwise passes the conversation through untouched.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ekoseoglu/takip/internal/i18n"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 60 * time.Second
)

// ErrUpstream marks any non-2xx or malformed upstream reply. The API layer
// maps it to the generic localized chat message; details stay in the logs.
var ErrUpstream = errors.New("chat upstream error")

// Turn is one role-tagged conversation message.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Client talks to the generative-language API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a chat client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// SetModel overrides the default model name.
func (c *Client) SetModel(model string) {
	if model != "" {
		c.model = model
	}
}

// Wire types for the generateContent call.
type genRequest struct {
	Contents []genContent `json:"contents"`
}

type genContent struct {
	Role  string    `json:"role"`
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []genPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// contextTurn builds the synthetic leading turn describing the user's
// current tracking state and the expected reply language.
func contextTurn(appCount int, lang i18n.Lang) genContent {
	language := "English"
	if lang == i18n.TR {
		language = "Turkish"
	}
	text := fmt.Sprintf(
		"You are a job-search assistant inside a job-application tracker. "+
			"The user is currently tracking %d applications. Reply in %s, briefly and concretely.",
		appCount, language,
	)
	return genContent{Role: "user", Parts: []genPart{{Text: text}}}
}

// Send forwards the conversation and returns the model's text reply.
// Superseded requests are not cancelled here; the caller simply ignores
// stale results.
func (c *Client) Send(ctx context.Context, turns []Turn, appCount int, lang i18n.Lang) (string, error) {
	req := genRequest{Contents: []genContent{contextTurn(appCount, lang)}}
	for _, t := range turns {
		role := t.Role
		if role != "model" {
			role = "user"
		}
		req.Contents = append(req.Contents, genContent{Role: role, Parts: []genPart{{Text: t.Text}}})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(respBody))
	}

	var gr genResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrUpstream)
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
