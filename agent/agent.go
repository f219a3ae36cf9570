package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rathore/aws-agent/llm"
	"github.com/rathore/aws-agent/tools"
)

// Agent runs the autonomous agent loop
type Agent struct {
	client       llm.ChatClient
	tools        map[string]tools.Tool
	toolDefs     []llm.ToolDef
	maxIter      int
	history      []llm.Message
	systemPrompt string
	logger       *slog.Logger
	stream       func(chunk string)
}

// Config holds agent configuration
type Config struct {
	Client  llm.ChatClient
	MaxIter int
	Tools   []tools.Tool
	Logger  *slog.Logger
	Stream  func(chunk string) // Optional: receives response chunks as they arrive
}

// New creates a new agent
func New(cfg Config) (*Agent, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("llm client required")
	}

	a := &Agent{
		client:  cfg.Client,
		tools:   make(map[string]tools.Tool),
		maxIter: cfg.MaxIter,
		logger:  cfg.Logger,
		stream:  cfg.Stream,
	}

	if a.maxIter == 0 {
		a.maxIter = 10
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	// Register tools
	for _, t := range cfg.Tools {
		a.tools[t.Name()] = t
		a.toolDefs = append(a.toolDefs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	a.systemPrompt = llm.BuildSystemPrompt(a.toolDefs)
	return a, nil
}

// Run executes the agent with the given user input
func (a *Agent) Run(ctx context.Context, userInput string) (string, error) {
	// Build messages: system + history + new user input
	messages := []llm.Message{
		{Role: "system", Content: a.systemPrompt},
	}
	messages = append(messages, a.history...)
	messages = append(messages, llm.Message{Role: "user", Content: userInput})

	// Add user message to history
	a.history = append(a.history, llm.Message{Role: "user", Content: userInput})

	// Agent loop
	for i := 0; i < a.maxIter; i++ {
		resp, err := a.chat(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("agent iteration %d: %w", i, err)
		}

		// Check for tool calls
		if len(resp.ToolCalls) > 0 {
			tc := resp.ToolCalls[0] // Handle one tool call at a time
			a.logger.Info("tool call", "tool", tc.Name, "params", tc.Params)

			result, err := a.executeTool(ctx, tc)
			if err != nil {
				result = fmt.Sprintf("Error: %v", err)
			}
			a.logger.Info("tool result", "tool", tc.Name, "result", truncate(result, 500))

			// Add assistant's tool call and tool result to messages
			messages = append(messages, llm.Message{
				Role:    "assistant",
				Content: resp.Content,
			})
			messages = append(messages, llm.Message{
				Role:    "tool",
				Content: fmt.Sprintf("Tool '%s' returned:\n%s", tc.Name, result),
			})
			continue
		}

		// No tool call - this is the final answer
		if resp.IsFinish || !strings.Contains(resp.Content, "{") {
			// Add final response to history
			a.history = append(a.history, llm.Message{
				Role:    "assistant",
				Content: resp.Content,
			})
			return resp.Content, nil
		}

		// Add response to messages and continue
		messages = append(messages, llm.Message{
			Role:    "assistant",
			Content: resp.Content,
		})
	}

	return "", fmt.Errorf("max iterations (%d) reached", a.maxIter)
}

// chat uses the streaming path when both the client and a stream sink support it
func (a *Agent) chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	if sc, ok := a.client.(llm.StreamingChatClient); ok && a.stream != nil {
		return sc.ChatStream(ctx, messages, a.stream)
	}
	return a.client.Chat(ctx, messages)
}

// executeTool runs the specified tool
func (a *Agent) executeTool(ctx context.Context, tc llm.ToolCallParse) (string, error) {
	tool, ok := a.tools[tc.Name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", tc.Name)
	}
	return tool.Call(ctx, tc.Params)
}

// ClearHistory clears the conversation history
func (a *Agent) ClearHistory() {
	a.history = nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
