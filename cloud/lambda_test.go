package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// mockLambdaAPI records inputs and plays back canned outputs
type mockLambdaAPI struct {
	invokeIn  *lambda.InvokeInput
	invokeOut *lambda.InvokeOutput
	invokeErr error
	getFnIn   *lambda.GetFunctionInput
	getFnOut  *lambda.GetFunctionOutput
	getFnErr  error
	listIn    *lambda.ListFunctionsInput
	listOut   *lambda.ListFunctionsOutput
	listErr   error
	listCalls int
}

func (m *mockLambdaAPI) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	m.invokeIn = params
	return m.invokeOut, m.invokeErr
}

func (m *mockLambdaAPI) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	m.getFnIn = params
	return m.getFnOut, m.getFnErr
}

func (m *mockLambdaAPI) ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
	m.listCalls++
	m.listIn = params
	return m.listOut, m.listErr
}

func TestLambda_Invoke(t *testing.T) {
	mock := &mockLambdaAPI{
		invokeOut: &lambda.InvokeOutput{Payload: []byte(`{"result": "ok", "count": 2}`)},
	}
	l := NewLambda(mock)

	got, err := l.Invoke(context.Background(), "my-function", map[string]any{"input": "x"}, "")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	result, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Invoke() = %T, want map", got)
	}
	if result["result"] != "ok" {
		t.Errorf("result = %v, want 'ok'", result["result"])
	}

	if aws.ToString(mock.invokeIn.FunctionName) != "my-function" {
		t.Errorf("FunctionName = %v, want 'my-function'", mock.invokeIn.FunctionName)
	}
	if mock.invokeIn.InvocationType != types.InvocationTypeRequestResponse {
		t.Errorf("InvocationType = %v, want RequestResponse default", mock.invokeIn.InvocationType)
	}

	var sent map[string]any
	if err := json.Unmarshal(mock.invokeIn.Payload, &sent); err != nil {
		t.Fatalf("request payload is not JSON: %v", err)
	}
	if sent["input"] != "x" {
		t.Errorf("payload = %v, want input='x'", sent)
	}
}

func TestLambda_Invoke_TypePassthrough(t *testing.T) {
	for _, invType := range []string{"Event", "DryRun"} {
		mock := &mockLambdaAPI{
			invokeOut: &lambda.InvokeOutput{Payload: []byte(`null`)},
		}
		l := NewLambda(mock)

		if _, err := l.Invoke(context.Background(), "fn", nil, invType); err != nil {
			t.Fatalf("Invoke(%s) error = %v", invType, err)
		}
		if string(mock.invokeIn.InvocationType) != invType {
			t.Errorf("InvocationType = %v, want %q", mock.invokeIn.InvocationType, invType)
		}
	}
}

func TestLambda_Invoke_ServiceError(t *testing.T) {
	wantErr := errors.New("ResourceNotFoundException: Function not found")
	l := NewLambda(&mockLambdaAPI{invokeErr: wantErr})

	_, err := l.Invoke(context.Background(), "missing", nil, "")
	if !errors.Is(err, wantErr) {
		t.Errorf("Invoke() error = %v, want the service error unchanged", err)
	}
}

func TestLambda_Invoke_NonJSONPayload(t *testing.T) {
	l := NewLambda(&mockLambdaAPI{
		invokeOut: &lambda.InvokeOutput{Payload: []byte{}},
	})

	if _, err := l.Invoke(context.Background(), "fn", nil, "Event"); err == nil {
		t.Error("Invoke() with empty response payload should return a decode error")
	}
}

func TestLambda_GetCode(t *testing.T) {
	mock := &mockLambdaAPI{
		getFnOut: &lambda.GetFunctionOutput{
			Code: &types.FunctionCodeLocation{
				Location: aws.String("https://awslambda-us-east-1-tasks.s3.amazonaws.com/snapshots/code.zip"),
			},
		},
	}
	l := NewLambda(mock)

	got, err := l.GetCode(context.Background(), "my-function")
	if err != nil {
		t.Fatalf("GetCode() error = %v", err)
	}
	if got != "https://awslambda-us-east-1-tasks.s3.amazonaws.com/snapshots/code.zip" {
		t.Errorf("GetCode() = %q", got)
	}
	if aws.ToString(mock.getFnIn.FunctionName) != "my-function" {
		t.Errorf("FunctionName = %v, want 'my-function'", mock.getFnIn.FunctionName)
	}
}

func TestLambda_GetCode_MissingFunction(t *testing.T) {
	wantErr := errors.New("ResourceNotFoundException")
	l := NewLambda(&mockLambdaAPI{getFnErr: wantErr})

	_, err := l.GetCode(context.Background(), "missing")
	if !errors.Is(err, wantErr) {
		t.Errorf("GetCode() error = %v, want the service error unchanged", err)
	}
}

func TestLambda_ListAll(t *testing.T) {
	mock := &mockLambdaAPI{
		listOut: &lambda.ListFunctionsOutput{
			Functions: []types.FunctionConfiguration{
				{FunctionName: aws.String("alpha"), Runtime: types.RuntimePython312},
				{FunctionName: aws.String("beta"), Runtime: types.RuntimeNodejs20x},
			},
			NextMarker: aws.String("more-pages"),
		},
	}
	l := NewLambda(mock)

	got, err := l.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	// Plain name strings only, never full descriptors
	want := []string{"alpha", "beta"}
	if len(got) != len(want) {
		t.Fatalf("ListAll() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListAll()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLambda_ListAll_SinglePage(t *testing.T) {
	mock := &mockLambdaAPI{
		listOut: &lambda.ListFunctionsOutput{
			Functions:  []types.FunctionConfiguration{{FunctionName: aws.String("alpha")}},
			NextMarker: aws.String("page-2"),
		},
	}
	l := NewLambda(mock)

	if _, err := l.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if mock.listCalls != 1 {
		t.Errorf("ListFunctions calls = %d, want 1 (no pagination)", mock.listCalls)
	}
	if mock.listIn.Marker != nil {
		t.Errorf("Marker = %v, want nil", mock.listIn.Marker)
	}
}

func TestLambda_ListAll_Empty(t *testing.T) {
	l := NewLambda(&mockLambdaAPI{listOut: &lambda.ListFunctionsOutput{}})

	got, err := l.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListAll() = %v, want empty non-nil slice", got)
	}
}
