package openai

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

	"github.com/artem13815/interviewrally/pkg/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client это минимальный клиент OpenAI для chat completions и синтеза речи.
type Client struct {
	APIKey      string
	BaseURL     string
	Model       string
	SpeechModel string
	Temperature float64
	MaxTokens   int
	httpDo      *http.Client
}

type Option func(*Client)

func WithTemperature(t float64) Option { return func(c *Client) { c.Temperature = t } }

func WithMaxTokens(n int) Option { return func(c *Client) { c.MaxTokens = n } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpDo = h } }

func New(apiKey, baseURL, model, speechModel string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		APIKey:      apiKey,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       model,
		SpeechModel: speechModel,
		Temperature: 0.7,
		MaxTokens:   1000,
		httpDo: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

// Ask отправляет системное и пользовательское сообщение и возвращает текст первого варианта.
func (c *Client) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	reqBody := chatCompletionsRequest{
		Model: model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	resp, err := c.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices returned by model")
	}
	return out.Choices[0].Message.Content, nil
}

// Speak синтезирует речь и возвращает тело ответа с аудио.
func (c *Client) Speak(ctx context.Context, req llm.SpeechRequest) (llm.Speech, error) {
	model := c.SpeechModel
	if model == "" {
		model = "tts-1"
	}
	format := req.Format
	if format == "" {
		format = "mp3"
	}
	resp, err := c.post(ctx, "/audio/speech", speechRequest{
		Model:          model,
		Input:          req.Text,
		Voice:          req.Voice,
		Speed:          req.Speed,
		ResponseFormat: format,
	})
	if err != nil {
		return llm.Speech{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Speech{}, fmt.Errorf("read speech body: %w", err)
	}
	if len(data) == 0 {
		return llm.Speech{}, errors.New("empty audio returned by model")
	}
	return llm.Speech{Data: data, ContentType: llm.ContentType(format)}, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	if c.APIKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return nil, fmt.Errorf("openai http %d: %v", resp.StatusCode, errMap)
	}
	return resp, nil
}
