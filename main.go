package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/rathore/aws-agent/agent"
	"github.com/rathore/aws-agent/cloud"
	"github.com/rathore/aws-agent/llm"
	"github.com/rathore/aws-agent/server"
	"github.com/rathore/aws-agent/tools"
)

// stringSlice implements flag.Value for repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ", ") }
func (s *stringSlice) Set(val string) error {
	*s = append(*s, val)
	return nil
}

// parseMCPSpec parses an MCP spec into a tool name and target command/URL.
// Format: [label:]command-or-url
// If label is provided: tool name is "mcp_<label>"
// If no label: "mcp" for index 0, "mcp2" for index 1, etc.
func parseMCPSpec(spec string, index int) (name, target string) {
	// Only split if the part before ':' doesn't look like a URL scheme.
	if i := strings.Index(spec, ":"); i > 0 {
		prefix := spec[:i]
		if prefix != "http" && prefix != "https" {
			label := prefix
			target = strings.TrimSpace(spec[i+1:])
			return "mcp_" + label, target
		}
	}

	if index == 0 {
		return "mcp", spec
	}
	return fmt.Sprintf("mcp%d", index+1), spec
}

func main() {
	model := flag.String("model", "us.anthropic.claude-sonnet-4-20250514-v1:0", "Bedrock model ID")
	region := flag.String("region", "", "AWS region (default: resolved from environment)")
	maxIter := flag.Int("max-iter", 10, "Maximum agent iterations per query")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	interactive := flag.Bool("i", false, "Run an interactive REPL instead of the HTTP server")
	var mcpSpecs stringSlice
	flag.Var(&mcpSpecs, "mcp", "MCP server (repeatable). Format: [label:]command-or-url")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	var opts []func(*awsconfig.LoadOptions) error
	if *region != "" {
		opts = append(opts, awsconfig.WithRegion(*region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}

	lambdaAdapter := cloud.NewLambda(lambda.NewFromConfig(cfg))
	dynamoAdapter := cloud.NewDynamoDB(dynamodb.NewFromConfig(cfg))
	apiAdapter := cloud.NewAPIGateway(nil)

	toolList := []tools.Tool{
		&tools.LambdaInvokeTool{Lambda: lambdaAdapter},
		&tools.LambdaGetCodeTool{Lambda: lambdaAdapter},
		&tools.LambdaListTool{Lambda: lambdaAdapter},
		&tools.DynamoDBCreateTool{DynamoDB: dynamoAdapter},
		&tools.DynamoDBReadTool{DynamoDB: dynamoAdapter},
		&tools.DynamoDBUpdateTool{DynamoDB: dynamoAdapter},
		&tools.DynamoDBQueryTool{DynamoDB: dynamoAdapter},
		&tools.APIExecuteTool{API: apiAdapter},
	}

	// MCP tools (only when --mcp is provided)
	for i, spec := range mcpSpecs {
		name, target := parseMCPSpec(spec, i)
		var mcpTool *tools.MCPTool
		var err error

		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			mcpTool, err = tools.NewMCPToolFromURL(ctx, name, target)
		} else {
			parts := strings.Fields(target)
			if len(parts) == 0 {
				fmt.Fprintf(os.Stderr, "Invalid --mcp command: %s\n", spec)
				os.Exit(1)
			}
			mcpTool, err = tools.NewMCPTool(ctx, name, parts[0], parts[1:])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to MCP server %q: %v\n", name, err)
			os.Exit(1)
		}
		defer mcpTool.Close()
		toolList = append(toolList, mcpTool)
		logger.Info("MCP server connected", "name", name, "tools", mcpTool.ToolCount())
	}

	client, err := llm.NewClient(cfg, *model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create LLM client: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		runREPL(ctx, client, toolList, *maxIter, logger)
		return
	}

	handler := server.New(func() (*agent.Agent, error) {
		return agent.New(agent.Config{
			Client:  client,
			MaxIter: *maxIter,
			Tools:   toolList,
			Logger:  logger,
		})
	}, logger)

	logger.Info("listening", "addr", *addr, "model", *model, "tools", len(toolList))
	if err := http.ListenAndServe(*addr, handler); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}

func runREPL(ctx context.Context, client llm.ChatClient, toolList []tools.Tool, maxIter int, logger *slog.Logger) {
	ag, err := agent.New(agent.Config{
		Client:  client,
		MaxIter: maxIter,
		Tools:   toolList,
		Logger:  logger,
		Stream:  func(chunk string) { fmt.Print(chunk) },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create agent: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Type /help for commands")
	fmt.Println("---")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "/exit":
			fmt.Println("Goodbye!")
			return
		case "clear", "/clear":
			ag.ClearHistory()
			fmt.Println("History cleared.")
			continue
		case "/help":
			fmt.Println("Commands:")
			fmt.Println("  /help   - Show this help message")
			fmt.Println("  /clear  - Clear conversation history")
			fmt.Println("  /exit   - Exit the agent")
			fmt.Println("")
			fmt.Println("Anything else is sent to the agent as a prompt.")
			continue
		}

		result, err := ag.Run(ctx, input)
		if err != nil {
			fmt.Printf("\n[Error] %v\n", err)
			continue
		}

		fmt.Printf("\n[Answer]\n%s\n", result)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
	}
}
