package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"tutor-agent/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// generateRequest is the minimal request shape for the generateContent
// endpoint. Every prompt string is sent as one user-role content.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the minimal response shape for generateContent.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware
// context. The retry layer keys on HTTPStatusCode to separate transient
// server failures from everything else.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gemini: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// KeyProvider yields the API key for outbound calls.
type KeyProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a KeyProvider for a key already in hand (e.g. from the
// environment).
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) {
	if strings.TrimSpace(string(k)) == "" {
		return "", errors.New("gemini: API key is empty")
	}
	return string(k), nil
}

// Getter is the parameter-store dependency of ParamKey.
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ParamKey resolves the API key from a parameter store on first use and
// caches it for the process lifetime.
type ParamKey struct {
	getter Getter
	name   string

	once sync.Once
	key  string
	err  error
}

func NewParamKey(getter Getter, name string) (*ParamKey, error) {
	if getter == nil {
		return nil, errors.New("gemini: parameter getter must not be nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("gemini: key parameter name must not be empty")
	}
	return &ParamKey{getter: getter, name: name}, nil
}

func (p *ParamKey) APIKey(ctx context.Context) (string, error) {
	p.once.Do(func() {
		raw, err := p.getter.GetParameter(ctx, p.name)
		if err != nil {
			p.err = fmt.Errorf("gemini: fetch API key: %w", err)
			return
		}
		key := strings.TrimSpace(raw)
		if key == "" {
			p.err = fmt.Errorf("gemini: parameter %q holds an empty key", p.name)
			return
		}
		p.key = key
	})
	return p.key, p.err
}

// Client is a focused client for the Gemini generateContent API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	keys       KeyProvider
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(keys KeyProvider, opts ...Option) (*Client, error) {
	if keys == nil {
		return nil, errors.New("gemini: key provider must not be nil")
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		keys:       keys,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func generateURL(baseURL, model string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base + "/models/" + model + ":generateContent"
}

// Generate sends the ordered prompt contents and returns the first
// candidate's text together with the total token count reported by the API.
func (c *Client) Generate(ctx context.Context, model string, contents []string) (domain.Generation, error) {
	if strings.TrimSpace(model) == "" {
		return domain.Generation{}, errors.New("gemini: model must not be empty")
	}
	if len(contents) == 0 {
		return domain.Generation{}, errors.New("gemini: contents must not be empty")
	}

	apiKey, err := c.keys.APIKey(ctx)
	if err != nil {
		return domain.Generation{}, err
	}

	payload := generateRequest{Contents: make([]content, 0, len(contents))}
	for _, text := range contents {
		payload.Contents = append(payload.Contents, content{
			Role:  "user",
			Parts: []part{{Text: text}},
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := generateURL(c.baseURL, model)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return domain.Generation{}, fmt.Errorf("gemini: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("gemini: request failed: %w", err)
	}

	var parsed generateResponse
	if decErr := json.Unmarshal(raw, &parsed); decErr != nil {
		return domain.Generation{}, fmt.Errorf("gemini: decode response: %w", decErr)
	}
	if len(parsed.Candidates) == 0 {
		return domain.Generation{}, errors.New("gemini: no candidates in response")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return domain.Generation{}, errors.New("gemini: empty candidate text")
	}

	return domain.Generation{
		Text:   text.String(),
		Tokens: parsed.UsageMetadata.TotalTokenCount,
	}, nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
