// Package client is a typed HTTP client for the docrelay API. The CLI and
// the session orchestrator both drive the server through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docrelay/docrelay/internal/types"
)

// APIError is a non-2xx response from the server, carrying the
// server-provided detail message when one was given.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// DriveFile is one entry from the Drive file listing.
type DriveFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is an HTTP client for the docrelay API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// No overall timeout: processing streams stay open for the
			// duration of OCR, which scales with page count.
			Timeout: 0,
		},
	}
}

// ProcessPDF uploads a PDF as multipart form data and returns the progress
// frame stream. The caller must close the returned body.
func (c *Client) ProcessPDF(ctx context.Context, filename string, pdf io.Reader) (io.ReadCloser, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process_pdf_stream", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doStream(req)
}

// ProcessDriveFile asks the server to fetch and process a Drive file,
// returning the progress frame stream. The caller must close the body.
func (c *Client) ProcessDriveFile(ctx context.Context, token, fileID, fileName string) (io.ReadCloser, error) {
	body, err := json.Marshal(map[string]string{"fileId": fileID, "fileName": fileName})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process_drive_file", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.doStream(req)
}

// ListDriveFiles returns the PDFs visible to the given bearer token.
func (c *Client) ListDriveFiles(ctx context.Context, token string) ([]DriveFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/list_drive_files", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var files []DriveFile
	if err := c.handleJSON(resp, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Translate sends a translation prompt and returns the translated text.
func (c *Client) Translate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp.StatusCode, raw)
	}
	return string(raw), nil
}

// CreateDoc creates a Google Doc from the pages and returns its URL.
func (c *Client) CreateDoc(ctx context.Context, token string, pages []types.Page, originalFileName string) (string, error) {
	body, err := json.Marshal(struct {
		Pages            []types.Page `json:"pages"`
		OriginalFileName string       `json:"originalFileName"`
	}{pages, originalFileName})
	if err != nil {
		return "", fmt.Errorf("failed to marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create_google_doc", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		DocumentURL string `json:"documentUrl"`
	}
	if err := c.handleJSON(resp, &result); err != nil {
		return "", err
	}
	return result.DocumentURL, nil
}

// GetJSON performs a GET request and decodes the JSON response.
func (c *Client) GetJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.handleJSON(resp, result)
}

// doStream executes a request whose response body is a progress frame
// stream. Non-2xx responses are drained and returned as an APIError.
func (c *Client) doStream(req *http.Request) (io.ReadCloser, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		return nil, decodeAPIError(resp.StatusCode, raw)
	}
	return resp.Body, nil
}

// handleJSON decodes a JSON response body, mapping error bodies to APIError.
func (c *Client) handleJSON(resp *http.Response, result any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
		return &APIError{StatusCode: status, Detail: detail.Detail}
	}
	return &APIError{StatusCode: status, Detail: string(bytes.TrimSpace(raw))}
}
