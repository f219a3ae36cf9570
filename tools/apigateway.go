package tools

import (
	"context"
	"fmt"

	"github.com/rathore/aws-agent/cloud"
)

// APIExecuteTool issues one HTTP request to an API Gateway endpoint
type APIExecuteTool struct {
	API *cloud.APIGateway
}

func (t *APIExecuteTool) Name() string {
	return "api_execute"
}

func (t *APIExecuteTool) Description() string {
	return "Execute an API Gateway endpoint (or any HTTP URL) with the given method, headers, query parameters, and JSON body. Returns the status code and the decoded response body."
}

func (t *APIExecuteTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"api_url": map[string]any{
				"type":        "string",
				"description": "Full URL of the endpoint to call",
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method (default: GET)",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers",
			},
			"params": map[string]any{
				"type":        "object",
				"description": "Query string parameters",
			},
			"body": map[string]any{
				"type":        "object",
				"description": "JSON request body",
			},
		},
		"required": []string{"api_url"},
	}
}

func (t *APIExecuteTool) Call(ctx context.Context, params map[string]any) (string, error) {
	apiURL := stringParam(params, "api_url")
	if apiURL == "" {
		return "", fmt.Errorf("api_url parameter required")
	}

	resp, err := t.API.Execute(ctx, apiURL,
		stringParam(params, "method"),
		stringMapParam(params, "headers"),
		stringMapParam(params, "params"),
		mapParam(params, "body"),
	)
	if err != nil {
		return "", err
	}
	return formatJSON(resp), nil
}
