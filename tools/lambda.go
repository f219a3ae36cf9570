package tools

import (
	"context"
	"fmt"

	"github.com/rathore/aws-agent/cloud"
)

// LambdaInvokeTool runs a deployed Lambda function
type LambdaInvokeTool struct {
	Lambda *cloud.Lambda
}

func (t *LambdaInvokeTool) Name() string {
	return "lambda_invoke"
}

func (t *LambdaInvokeTool) Description() string {
	return "Invoke an AWS Lambda function by name with a JSON payload and return its response. Use when the user asks to run, execute, or test a Lambda function."
}

func (t *LambdaInvokeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"function_name": map[string]any{
				"type":        "string",
				"description": "Name of the deployed Lambda function to invoke",
			},
			"payload": map[string]any{
				"type":        "object",
				"description": "JSON payload to send as the function event",
			},
			"invocation_type": map[string]any{
				"type":        "string",
				"description": "Invocation mode (default: RequestResponse)",
				"enum":        []string{"RequestResponse", "Event", "DryRun"},
			},
		},
		"required": []string{"function_name", "payload"},
	}
}

func (t *LambdaInvokeTool) Call(ctx context.Context, params map[string]any) (string, error) {
	functionName := stringParam(params, "function_name")
	if functionName == "" {
		return "", fmt.Errorf("function_name parameter required")
	}
	payload := mapParam(params, "payload")
	if payload == nil {
		return "", fmt.Errorf("payload parameter required")
	}

	result, err := t.Lambda.Invoke(ctx, functionName, payload, stringParam(params, "invocation_type"))
	if err != nil {
		return "", err
	}
	return formatJSON(result), nil
}

// LambdaGetCodeTool fetches a function's deployed code location
type LambdaGetCodeTool struct {
	Lambda *cloud.Lambda
}

func (t *LambdaGetCodeTool) Name() string {
	return "lambda_get_code"
}

func (t *LambdaGetCodeTool) Description() string {
	return "Get the download URL of a Lambda function's deployed code package. Use when the user asks for a function's source code or code location."
}

func (t *LambdaGetCodeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"function_name": map[string]any{
				"type":        "string",
				"description": "Name of the Lambda function",
			},
		},
		"required": []string{"function_name"},
	}
}

func (t *LambdaGetCodeTool) Call(ctx context.Context, params map[string]any) (string, error) {
	functionName := stringParam(params, "function_name")
	if functionName == "" {
		return "", fmt.Errorf("function_name parameter required")
	}
	return t.Lambda.GetCode(ctx, functionName)
}

// LambdaListTool lists deployed function names
type LambdaListTool struct {
	Lambda *cloud.Lambda
}

func (t *LambdaListTool) Name() string {
	return "lambda_list"
}

func (t *LambdaListTool) Description() string {
	return "List the names of the deployed Lambda functions in the account. Use when the user asks what Lambda functions exist."
}

func (t *LambdaListTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *LambdaListTool) Call(ctx context.Context, params map[string]any) (string, error) {
	names, err := t.Lambda.ListAll(ctx)
	if err != nil {
		return "", err
	}
	return formatJSON(names), nil
}
