package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrMissingCredentials is returned when no API key is configured.
	ErrMissingCredentials = errors.New("ai api key not configured")

	// ErrServiceUnavailable is returned on transport or upstream failure.
	ErrServiceUnavailable = errors.New("ai service unavailable")

	// ErrParseFailure is returned when the response lacks a usable name and
	// calorie figure. Nutrition numbers are never fabricated on its behalf.
	ErrParseFailure = errors.New("ai response missing name or calories")
)

// Estimate is the partial food entry an analysis produces. Missing numeric
// fields default to 0.
type Estimate struct {
	Name        string
	Calories    float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
	ServingSize string
}

// Client talks to an OpenAI-compatible chat-completions endpoint for meal
// estimation from text or photos. Failures surface as-is; no retry.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	rateLimiter *rate.Limiter
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:      apiKey,
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

const estimatePrompt = `You are a nutrition estimator. Reply with a single JSON object and nothing else:
{"name": string, "calories": number, "protein": number, "carbs": number, "fat": number, "servingSize": string}
Values are for one serving of the described meal. Use grams for macros.`

// AnalyzeText estimates nutrition from a free-text meal description.
func (c *Client) AnalyzeText(ctx context.Context, description string) (Estimate, error) {
	msg := message{Role: "user", Content: description}
	return c.complete(ctx, []message{systemMessage(), msg})
}

// AnalyzeImage estimates nutrition from an image payload plus an optional
// refinement hint. The payload is inlined as a base64 data URL.
func (c *Client) AnalyzeImage(ctx context.Context, payload []byte, mimeType, refinement string) (Estimate, error) {
	text := "Estimate the nutrition of the meal in this photo."
	if strings.TrimSpace(refinement) != "" {
		text += " " + refinement
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(payload))
	msg := message{Role: "user", Content: []contentPart{
		{Type: "text", Text: text},
		{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
	}}
	return c.complete(ctx, []message{systemMessage(), msg})
}

func systemMessage() message {
	return message{Role: "system", Content: estimatePrompt}
}

func (c *Client) complete(ctx context.Context, messages []message) (Estimate, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return Estimate{}, ErrMissingCredentials
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return Estimate{}, fmt.Errorf("rate limiter: %w", err)
	}

	reqBody, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return Estimate{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return Estimate{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Estimate{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Estimate{}, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Estimate{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Estimate{}, ErrParseFailure
	}
	return parseEstimate(parsed.Choices[0].Message.Content)
}

// parseEstimate extracts the JSON estimate from the model reply, tolerating
// code fences around it. An estimate without a string name and a numeric
// calorie figure is a parse failure.
func parseEstimate(content string) (Estimate, error) {
	text := strings.TrimSpace(content)
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			text = text[i : j+1]
		}
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	name, _ := raw["name"].(string)
	calories, hasCalories := toFloat(raw["calories"])
	if strings.TrimSpace(name) == "" || !hasCalories {
		return Estimate{}, ErrParseFailure
	}

	est := Estimate{Name: strings.TrimSpace(name), Calories: calories}
	est.ProteinG, _ = toFloat(raw["protein"])
	est.CarbsG, _ = toFloat(raw["carbs"])
	est.FatG, _ = toFloat(raw["fat"])
	if s, ok := raw["servingSize"].(string); ok {
		est.ServingSize = strings.TrimSpace(s)
	}
	return est, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

// message content is either a plain string or a list of contentPart.
type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
