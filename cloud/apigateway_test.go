package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIGateway_Execute_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET default", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "hello"}`))
	}))
	defer srv.Close()

	a := NewAPIGateway(nil)
	resp, err := a.Execute(context.Background(), srv.URL, "", nil, nil, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	body, ok := resp.Body.(map[string]any)
	if !ok {
		t.Fatalf("Body = %T, want decoded JSON object", resp.Body)
	}
	if body["message"] != "hello" {
		t.Errorf("Body = %v, want message='hello'", body)
	}
}

func TestAPIGateway_Execute_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := NewAPIGateway(nil)
	resp, err := a.Execute(context.Background(), srv.URL, "GET", nil, nil, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil body for empty response", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want 204", resp.StatusCode)
	}
	if resp.Body != nil {
		t.Errorf("Body = %v, want nil", resp.Body)
	}
}

func TestAPIGateway_Execute_PostWithBody(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 7}`))
	}))
	defer srv.Close()

	a := NewAPIGateway(srv.Client())
	resp, err := a.Execute(context.Background(), srv.URL, "POST", nil, nil, map[string]any{"name": "alice"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody["name"] != "alice" {
		t.Errorf("request body = %v, want name='alice'", gotBody)
	}
}

func TestAPIGateway_Execute_HeadersAndParams(t *testing.T) {
	var gotAuth, gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("limit")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := NewAPIGateway(nil)
	resp, err := a.Execute(context.Background(), srv.URL, "GET",
		map[string]string{"Authorization": "Bearer token123"},
		map[string]string{"limit": "10"},
		nil,
	)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if gotAuth != "Bearer token123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotQuery != "10" {
		t.Errorf("limit param = %q, want '10'", gotQuery)
	}

	body, ok := resp.Body.([]any)
	if !ok {
		t.Fatalf("Body = %T, want decoded JSON array", resp.Body)
	}
	if len(body) != 0 {
		t.Errorf("Body = %v, want empty array", body)
	}
}

func TestAPIGateway_Execute_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	a := NewAPIGateway(nil)
	if _, err := a.Execute(context.Background(), srv.URL, "GET", nil, nil, nil); err == nil {
		t.Error("Execute() with non-JSON body should return a decode error")
	}
}

func TestAPIGateway_Execute_ErrorStatusPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "boom"}`))
	}))
	defer srv.Close()

	a := NewAPIGateway(nil)
	resp, err := a.Execute(context.Background(), srv.URL, "GET", nil, nil, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v, want status passthrough without error", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
}
