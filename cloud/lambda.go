package cloud

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaAPI is the subset of the Lambda client the adapter uses (allows mocking in tests)
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
}

// Lambda performs single Lambda operations against an injected client
type Lambda struct {
	client LambdaAPI
}

// NewLambda creates a Lambda adapter
func NewLambda(client LambdaAPI) *Lambda {
	return &Lambda{client: client}
}

// Invoke calls the named function with payload serialized as JSON and returns
// the decoded response payload. invocationType defaults to RequestResponse and
// is passed through uninterpreted (Event, DryRun).
func (l *Lambda) Invoke(ctx context.Context, functionName string, payload map[string]any, invocationType string) (any, error) {
	if invocationType == "" {
		invocationType = "RequestResponse"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	out, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: types.InvocationType(invocationType),
		Payload:        data,
	})
	if err != nil {
		return nil, err
	}

	var result any
	if err := json.Unmarshal(out.Payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCode returns the code-package download URL for the named function
func (l *Lambda) GetCode(ctx context.Context, functionName string) (string, error) {
	out, err := l.client.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		return "", err
	}
	if out.Code == nil {
		return "", nil
	}
	return aws.ToString(out.Code.Location), nil
}

// ListAll returns the function names from one page of listings.
// It never follows NextMarker.
func (l *Lambda) ListAll(ctx context.Context) ([]string, error) {
	out, err := l.client.ListFunctions(ctx, &lambda.ListFunctionsInput{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.Functions))
	for _, fn := range out.Functions {
		names = append(names, aws.ToString(fn.FunctionName))
	}
	return names, nil
}
