package cmd

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/uipilot/uipilot/internal/config"
	"github.com/uipilot/uipilot/internal/engine"
	"github.com/uipilot/uipilot/internal/safety"
	"github.com/uipilot/uipilot/internal/version"
)

// mcpServer wraps the MCP server around one long-lived engine. The engine's
// coordinate cache and pending-confirmation slot persist across tool calls,
// so a gated run_command can be resolved by a later confirm call.
type mcpServer struct {
	eng *engine.Engine
	log *zap.Logger
	mcp *mcpserver.MCPServer
}

// MCPConfig holds MCP server transport configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer creates and configures an MCP server with all uipilot tools.
func newMCPServer(cfg config.Config) (*mcpServer, error) {
	eng, log, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	s := &mcpServer{eng: eng, log: log}
	s.mcp = mcpserver.NewMCPServer(
		"uipilot",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// run_command
	s.mcp.AddTool(
		mcp.NewTool("run_command",
			mcp.WithDescription("Execute a natural-language desktop command (e.g. 'click the submit button', 'type hello', 'scroll down'). Destructive commands are not executed; instead the result asks for confirmation, which a later confirm call resolves."),
			mcp.WithString("command", mcp.Description("The natural-language command to execute"), mcp.Required()),
		),
		s.handleRunCommand,
	)

	// confirm
	s.mcp.AddTool(
		mcp.NewTool("confirm",
			mcp.WithDescription("Resolve a pending destructive command. Pass a natural reply ('yes', 'cancel', ...) as response, or set confirmed directly."),
			mcp.WithString("response", mcp.Description("Natural-language reply to the confirmation prompt")),
			mcp.WithBoolean("confirmed", mcp.Description("Explicit confirmation decision; overrides response")),
			mcp.WithString("command", mcp.Description("Command to resolve (default: the pending command)")),
		),
		s.handleConfirm,
	)

	// status
	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report engine status: pending confirmation and cache counters"),
		),
		s.handleStatus,
	)

	// route
	s.mcp.AddTool(
		mcp.NewTool("route",
			mcp.WithDescription("Show which execution tier a command would take (cached, text, or visual) without executing it"),
			mcp.WithString("command", mcp.Description("The natural-language command to route"), mcp.Required()),
			mcp.WithString("app", mcp.Description("App context (default: the frontmost app)")),
		),
		s.handleRoute,
	)

	// screen_context
	s.mcp.AddTool(
		mcp.NewTool("screen_context",
			mcp.WithDescription("Perceive the screen once and return the numbered interactive elements"),
		),
		s.handleScreenContext,
	)

	// cache_stats
	s.mcp.AddTool(
		mcp.NewTool("cache_stats",
			mcp.WithDescription("Return coordinate cache counters: entries, hits, misses, hit rate"),
		),
		s.handleCacheStats,
	)

	// cache_invalidate
	s.mcp.AddTool(
		mcp.NewTool("cache_invalidate",
			mcp.WithDescription("Drop cached coordinates, for one app or all apps"),
			mcp.WithString("app", mcp.Description("App to invalidate (default: all apps)")),
		),
		s.handleCacheInvalidate,
	)
}

// toolText serializes a value to YAML for an MCP response.
func toolText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *mcpServer) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := request.GetString("command", "")
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	result := s.eng.ProcessCommand(ctx, command)
	if !result.Success && !result.NeedsConfirmation {
		return mcp.NewToolResultError(toolText(result)), nil
	}
	return mcp.NewToolResultText(toolText(result)), nil
}

func (s *mcpServer) handleConfirm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := request.GetString("command", "")
	if command == "" {
		pending, ok := s.eng.PendingCommand()
		if !ok {
			return mcp.NewToolResultError("no command is awaiting confirmation"), nil
		}
		command = pending
	}

	confirmed := request.GetBool("confirmed", false)
	if response := request.GetString("response", ""); response != "" {
		switch s.eng.ParseConfirmation(response) {
		case safety.ResponseConfirmed:
			confirmed = true
		case safety.ResponseCancelled:
			confirmed = false
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unclear response %q: say 'confirm' or 'cancel'", response)), nil
		}
	}

	result := s.eng.ProcessWithConfirmation(ctx, command, confirmed)
	if !result.Success && confirmed {
		return mcp.NewToolResultError(toolText(result)), nil
	}
	return mcp.NewToolResultText(toolText(result)), nil
}

func (s *mcpServer) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type statusResult struct {
		Pending        bool   `yaml:"pending"`
		PendingCommand string `yaml:"pending_command,omitempty"`
		CacheEntries   int    `yaml:"cache_entries"`
		CacheHitRate   string `yaml:"cache_hit_rate"`
	}

	stats := s.eng.CacheStats()
	st := statusResult{
		CacheEntries: stats.Entries,
		CacheHitRate: fmt.Sprintf("%.1f%%", stats.HitRate),
	}
	if pending, ok := s.eng.PendingCommand(); ok {
		st.Pending = true
		st.PendingCommand = pending
	}
	return mcp.NewToolResultText(toolText(st)), nil
}

func (s *mcpServer) handleRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := request.GetString("command", "")
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	app := request.GetString("app", "")
	var result RouteResult
	if app != "" {
		result = RouteResult{App: app, Plan: s.eng.RouteFor(command, app)}
	} else {
		plan, activeApp := s.eng.Route(ctx, command)
		result = RouteResult{App: activeApp, Plan: plan}
	}
	return mcp.NewToolResultText(toolText(result)), nil
}

func (s *mcpServer) handleScreenContext(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sctx, err := s.eng.ScreenContext(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toolText(contextResult(sctx))), nil
}

func (s *mcpServer) handleCacheStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toolText(s.eng.CacheStats())), nil
}

func (s *mcpServer) handleCacheInvalidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app := request.GetString("app", "")
	removed := s.eng.InvalidateCache(app)

	scope := "all apps"
	if app != "" {
		scope = app
	}
	s.log.Info("cache invalidated", zap.String("scope", scope), zap.Int("removed", removed))
	return mcp.NewToolResultText(fmt.Sprintf("removed: %d\nscope: %s\n", removed, scope)), nil
}
