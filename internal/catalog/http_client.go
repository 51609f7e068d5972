package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockwell/internal/config"
)

// HTTPDoer describes the HTTP client used by the catalog store.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an HTTP implementation of Service against the tracking site's
// REST API.
type Client struct {
	baseURL    string
	scriptName string
	scriptKey  string
	client     HTTPDoer
}

// NewClient constructs a catalog client from explicit parameters.
func NewClient(baseURL, scriptName, scriptKey string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		scriptName: strings.TrimSpace(scriptName),
		scriptKey:  strings.TrimSpace(scriptKey),
		client:     doer,
	}
}

// NewConfiguredClient builds a client from application config with a
// request timeout applied.
func NewConfiguredClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Catalog.RequestTimeout) * time.Second
	return NewClient(cfg.Catalog.BaseURL, cfg.Catalog.ScriptName, cfg.Catalog.ScriptKey, &http.Client{Timeout: timeout})
}

type entityPayload struct {
	Type       string         `json:"type"`
	ID         int64          `json:"id"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type searchRequest struct {
	Filters [][3]any `json:"filters"`
	Fields  []string `json:"fields,omitempty"`
}

// FindOne implements Service.
func (c *Client) FindOne(ctx context.Context, entityType string, filters []Filter, fields []string) (*Entity, error) {
	body := searchRequest{Fields: fields}
	for _, f := range filters {
		relation := f.Relation
		if relation == "" {
			relation = "is"
		}
		body.Filters = append(body.Filters, [3]any{f.Field, relation, f.Value})
	}

	var resp struct {
		Data *entityPayload `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/api/v1/entity/%s/_search", c.baseURL, entityType)
	if err := c.postJSON(ctx, endpoint, body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}
	return payloadToEntity(entityType, resp.Data), nil
}

// Create implements Service.
func (c *Client) Create(ctx context.Context, entityType string, data Fields) (*Entity, error) {
	var resp struct {
		Data *entityPayload `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/api/v1/entity/%s", c.baseURL, entityType)
	if err := c.postJSON(ctx, endpoint, map[string]any{"data": data}, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.ID == 0 {
		return nil, fmt.Errorf("%w: create %s returned no entity", ErrBadResponse, entityType)
	}
	return payloadToEntity(entityType, resp.Data), nil
}

// Upload implements Service.
func (c *Client) Upload(ctx context.Context, entityType string, id int64, path, fieldName string) error {
	endpoint := fmt.Sprintf("%s/api/v1/entity/%s/%d/%s/_upload", c.baseURL, entityType, id, fieldName)
	return c.uploadFile(ctx, endpoint, path)
}

// UploadThumbnail implements Service.
func (c *Client) UploadThumbnail(ctx context.Context, entityType string, id int64, path string) error {
	endpoint := fmt.Sprintf("%s/api/v1/entity/%s/%d/image/_upload", c.baseURL, entityType, id)
	return c.uploadFile(ctx, endpoint, path)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s returned %d", ErrBadResponse, endpoint, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrBadResponse, err)
	}
	return nil
}

func (c *Client) uploadFile(ctx context.Context, endpoint, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload source: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read upload source: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: upload to %s returned %d", ErrBadResponse, endpoint, resp.StatusCode)
	}
	return nil
}

// authorize attaches script credentials. Session negotiation is the remote
// site's concern; the importer only supplies identity.
func (c *Client) authorize(req *http.Request) {
	req.Header.Set("X-Script-Name", c.scriptName)
	req.Header.Set("Authorization", "Bearer "+c.scriptKey)
}

func payloadToEntity(entityType string, payload *entityPayload) *Entity {
	fields := Fields{}
	for key, value := range payload.Attributes {
		fields[key] = value
	}
	resolved := payload.Type
	if resolved == "" {
		resolved = entityType
	}
	return &Entity{Type: resolved, ID: payload.ID, Fields: fields}
}

var _ Service = (*Client)(nil)
