package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rathore/aws-agent/agent"
)

// defaultPrompt is used when an invocation carries no prompt
const defaultPrompt = "List all Lambda functions"

// AgentFactory builds a fresh agent per invocation so requests never share
// conversation history
type AgentFactory func() (*agent.Agent, error)

type Server struct {
	newAgent AgentFactory
	logger   *slog.Logger
}

// New creates the invocation handler
func New(newAgent AgentFactory, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{newAgent: newAgent, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/invocations", s.handleInvocations)
	mux.HandleFunc("/ping", s.handlePing)
	return mux
}

type invocationRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleInvocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)

	var req invocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	logger.Info("invocation", "prompt", prompt)

	ag, err := s.newAgent()
	if err != nil {
		logger.Error("agent construction failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	start := time.Now()
	result, err := ag.Run(r.Context(), prompt)
	if err != nil {
		logger.Error("agent run failed", "error", err, "duration", time.Since(start))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("invocation complete", "duration", time.Since(start))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
