package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/config"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
)

const (
	apiVersion     = "2023-06-01"
	maxTokens      = 4000
	maxAttempts    = 3
	connectTimeout = 10 * time.Second
	requestTimeout = 2 * time.Minute
)

// mimeTypes is the document allow-list for direct file analysis. Text formats
// go through local extraction instead.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Client talks to an Anthropic-style messages API over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger

	// sleep is swapped out in tests so backoff does not slow them down.
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	if cfg.AnalyzerAPIKey == "" {
		return nil, fmt.Errorf("ANALYZER_API_KEY is not set")
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		MaxConnsPerHost:     10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
		baseURL: strings.TrimRight(cfg.AnalyzerBaseURL, "/"),
		apiKey:  cfg.AnalyzerAPIKey,
		model:   cfg.AnalyzerModel,
		logger:  logger,
		sleep:   time.Sleep,
	}, nil
}

type documentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentPart struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *documentSource `json:"source,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// complete performs one messages call and returns the first text block.
// status is -1 on transport failure so callers can tell rate limiting apart
// from connection trouble.
func (c *Client) complete(ctx context.Context, content any) (string, int, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", -1, errs.Remote("failed to encode analyzer request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", -1, errs.Remote("failed to build analyzer request", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("content-type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", -1, errs.RemoteTimeout("API request timeout", err)
		}
		return "", -1, errs.Remote("error calling analyzer API", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, errs.Remote("failed to read analyzer response", err)
	}
	c.logger.Debug("analyzer request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, errs.Remote("error analyzing text",
			fmt.Errorf("analyzer API error (HTTP %d): %s", resp.StatusCode, raw))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", resp.StatusCode, errs.Remote("failed to decode analyzer response", err)
	}
	var b strings.Builder
	for _, part := range parsed.Content {
		if part.Type == "" || part.Type == "text" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func (c *Client) AnalyzeText(ctx context.Context, text, prompt string) (string, error) {
	c.logger.Info("sending analyzer request", zap.Int("text_length", len(text)))
	out, _, err := c.complete(ctx, prompt+"\n\nText to analyze:\n"+text)
	return out, err
}

// ExtractJSON asks the model for structured data and parses the JSON object
// out of the reply. Parse failures are never retried: replaying the same
// prompt just spends tokens on the same malformed answer.
func (c *Client) ExtractJSON(ctx context.Context, text, prompt string) (map[string]any, error) {
	content, err := c.AnalyzeText(ctx, text, prompt)
	if err != nil {
		return nil, err
	}
	return ParseJSONObject(content)
}

// ParseJSONObject scans from the first brace to the last. Models often wrap
// the object in prose or markdown fences so exact parsing of the full reply
// is hopeless. A second attempt strips control characters that occasionally
// leak into string literals.
func ParseJSONObject(content string) (map[string]any, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errs.Parsing("could not find JSON in analyzer response", nil)
	}
	raw := content[start : end+1]

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, raw)
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, errs.Parsing("could not parse JSON from analyzer response", err)
	}
	return out, nil
}

// AnalyzeFile sends the document itself as a base64 part. Rate limiting,
// timeouts and transport errors are retried with exponential backoff; any
// other upstream failure is terminal.
func (c *Client) AnalyzeFile(ctx context.Context, data []byte, ext, prompt string) (string, error) {
	mimeType, ok := mimeTypes[strings.ToLower(ext)]
	if !ok {
		return "", errs.Validation("unsupported file format: " + ext)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	c.logger.Info("file encoded for analysis", zap.Int("encoded_size", len(encoded)))

	content := []contentPart{
		{Type: "text", Text: prompt},
		{Type: "document", Source: &documentSource{
			Type:      "base64",
			MediaType: mimeType,
			Data:      encoded,
		}},
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, status, err := c.complete(ctx, content)
		if err == nil {
			return out, nil
		}
		lastErr = err

		retryable := status == http.StatusTooManyRequests || status == -1
		if !retryable || attempt == maxAttempts-1 {
			return "", err
		}

		c.logger.Warn("analyzer attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("status", status),
			zap.Error(err))
		c.sleep(time.Duration(1<<attempt) * time.Second)
	}
	return "", lastErr
}

func (c *Client) GenerateCoverLetterContent(ctx context.Context, candidate map[string]any, prompt, contentType string) (string, error) {
	if !models.ContentTypes[contentType] {
		return "", errs.Validation("invalid content type: " + contentType)
	}
	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return "", errs.Remote("failed to encode candidate data", err)
	}

	c.logger.Info("generating cover letter section", zap.String("content_type", contentType))
	out, _, err := c.complete(ctx, fmt.Sprintf(coverLetterSectionPrompt, candidateJSON, contentType, prompt))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errs.Remote("failed to generate text", nil)
	}
	return out, nil
}

func (c *Client) RenderCoverLetter(ctx context.Context, jobDescription string, content models.CoverLetterContent) (string, error) {
	contentJSON, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", errs.Remote("failed to encode cover letter content", err)
	}

	c.logger.Info("rendering cover letter")
	out, _, err := c.complete(ctx, fmt.Sprintf(renderCoverLetterPrompt, jobDescription, contentJSON))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errs.Remote("failed to render text", nil)
	}
	return out, nil
}

func (c *Client) AnalyzeResume(ctx context.Context, candidate map[string]any) (ResumeAnalysis, error) {
	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return ResumeAnalysis{}, errs.Remote("failed to encode candidate data", err)
	}

	doc, err := c.ExtractJSON(ctx,
		fmt.Sprintf(resumeScoringPrompt, candidateJSON),
		"Analyze this resume and provide a detailed scoring based on the following criteria:")
	if err != nil {
		return ResumeAnalysis{}, err
	}

	analysis := ResumeAnalysis{}
	if scoring, ok := doc["scoring"].(map[string]any); ok {
		analysis.Scoring = scoring
	}
	if feedback, ok := doc["feedback"].(map[string]any); ok {
		analysis.Feedback = feedback
	}
	if analysis.Scoring == nil {
		return ResumeAnalysis{}, errs.Parsing("analyzer response is missing scoring", nil)
	}
	return analysis, nil
}

func (c *Client) GenerateJobQueryKeywords(ctx context.Context, candidate map[string]any) (models.JobQueryKeywords, error) {
	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return models.JobQueryKeywords{}, errs.Remote("failed to encode candidate data", err)
	}

	doc, err := c.ExtractJSON(ctx,
		fmt.Sprintf(jobQueryKeywordsPrompt, candidateJSON),
		"Generate job search keywords based on the candidate data")
	if err != nil {
		return models.JobQueryKeywords{}, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return models.JobQueryKeywords{}, errs.Parsing("failed to re-encode keywords", err)
	}
	var keywords models.JobQueryKeywords
	if err := json.Unmarshal(raw, &keywords); err != nil {
		return models.JobQueryKeywords{}, errs.Parsing("failed to parse generated keywords", err)
	}
	if len(keywords.JobTitles) == 0 && len(keywords.RequiredSkills) == 0 {
		return models.JobQueryKeywords{}, errs.Parsing("keyword generation returned no categories", nil)
	}
	return keywords, nil
}

var _ Analyzer = (*Client)(nil)
