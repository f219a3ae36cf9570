package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// APIGateway issues one arbitrary HTTP request per call and decodes the
// response as JSON
type APIGateway struct {
	client *http.Client
}

// APIResponse is the {status_code, body} pair returned to the agent. Body is
// nil when the response had no text.
type APIResponse struct {
	StatusCode int `json:"status_code"`
	Body       any `json:"body"`
}

// NewAPIGateway creates an HTTP adapter. A nil client falls back to
// http.DefaultClient.
func NewAPIGateway(client *http.Client) *APIGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIGateway{client: client}
}

// Execute issues one request with the given method, headers, query params,
// and JSON body. No retry and no timeout beyond the client's own defaults.
func (a *APIGateway) Execute(ctx context.Context, apiURL, method string, headers, params map[string]string, body map[string]any) (*APIResponse, error) {
	if method == "" {
		method = http.MethodGet
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	result := &APIResponse{StatusCode: resp.StatusCode}
	if len(text) > 0 {
		if err := json.Unmarshal(text, &result.Body); err != nil {
			return nil, err
		}
	}
	return result, nil
}
