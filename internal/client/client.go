package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout  = 150 * time.Second
	maxErrorBodyLen = 512
)

// Analysis mirrors the analysis object returned by the functions.
type Analysis struct {
	ID                string    `json:"id"`
	DocumentID        string    `json:"document_id"`
	SimplifiedContent string    `json:"simplified_content"`
	Summary           string    `json:"summary"`
	KeyPoints         []string  `json:"key_points"`
	CriticalClauses   []string  `json:"critical_clauses"`
	BeneficialClauses []string  `json:"beneficial_clauses"`
	ComplexityScore   int       `json:"complexity_score"`
	RiskScore         int       `json:"risk_score"`
	CreatedAt         time.Time `json:"created_at"`
}

// Document mirrors the stored document returned by the retrieval function.
type Document struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	AnalysisStatus string    `json:"analysis_status"`
	UploadDate     time.Time `json:"upload_date"`
}

// ProcessRequest is the analysis function input.
type ProcessRequest struct {
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileSize int64  `json:"fileSize"`
}

// ProcessResponse is the analysis function output.
type ProcessResponse struct {
	Success    bool     `json:"success"`
	DocumentID string   `json:"document_id"`
	Analysis   Analysis `json:"analysis"`
}

// DocumentAnalysis is the retrieval function output. Analysis is nil until one exists.
type DocumentAnalysis struct {
	Success  bool      `json:"success"`
	Document Document  `json:"document"`
	Analysis *Analysis `json:"analysis"`
}

// APIError is a {success:false} answer or any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the document functions over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAPIKey sends key both as apikey and as a bearer token, as hosted function gateways expect.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		c.headers.Set("apikey", key)
		c.headers.Set("Authorization", "Bearer "+key)
	}
}

// New returns a client for the functions mounted under baseURL, e.g. http://localhost:8080/functions/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers:    http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessDocument submits content for storage and analysis.
func (c *Client) ProcessDocument(ctx context.Context, req ProcessRequest) (ProcessResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ProcessResponse{}, err
	}
	var out ProcessResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/process-document", bytes.NewReader(body), &out); err != nil {
		return ProcessResponse{}, err
	}
	return out, nil
}

// GetDocumentAnalysis fetches a document and its analysis.
func (c *Client) GetDocumentAnalysis(ctx context.Context, documentID string) (DocumentAnalysis, error) {
	q := url.Values{}
	q.Set("document_id", documentID)
	var out DocumentAnalysis
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/get-document-analysis?"+q.Encode(), nil, &out); err != nil {
		return DocumentAnalysis{}, err
	}
	return out, nil
}

type failureBody struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var failure failureBody
	_ = json.Unmarshal(payload, &failure)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || (failure.Success != nil && !*failure.Success) {
		msg := strings.TrimSpace(failure.Error)
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, truncate(string(payload), maxErrorBodyLen))
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
