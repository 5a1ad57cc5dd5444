package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gstrelay/internal/constants"
)

const (
	gstinPlaceholder = "{gstin}"
	maxResponseBytes = 1 << 20
)

// APIProvider queries an HTTP status service.
type APIProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewAPIProvider(baseURL, apiKey string, client *http.Client) *APIProvider {
	if client == nil {
		client = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}
	return &APIProvider{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p *APIProvider) Lookup(ctx context.Context, id string) (*StatusRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(id), nil)
	if err != nil {
		return nil, unavailable(id, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, unavailable(id, fmt.Errorf("api request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, notFound(id)
	}
	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return nil, unavailable(id, fmt.Errorf("api returned status: %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, unavailable(id, fmt.Errorf("failed to read response: %w", err))
	}

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err != nil {
		return nil, unavailable(id, fmt.Errorf("failed to decode response: %w", err))
	}
	if apiErr.Error != "" {
		return nil, notFound(id)
	}

	var record StatusRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, unavailable(id, fmt.Errorf("failed to decode response: %w", err))
	}
	if record.GSTIN == "" {
		record.GSTIN = id
	}
	return &record, nil
}

func (p *APIProvider) requestURL(id string) string {
	escaped := url.PathEscape(id)
	if strings.Contains(p.baseURL, gstinPlaceholder) {
		return strings.ReplaceAll(p.baseURL, gstinPlaceholder, escaped)
	}
	return strings.TrimRight(p.baseURL, "/") + "/" + escaped
}
