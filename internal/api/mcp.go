package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekoseoglu/takip/internal/analytics"
	"github.com/ekoseoglu/takip/internal/store"

	"golang.org/x/text/language"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *store.Store
}

// NewMCPServer creates an MCP server with the tracker tools and resources
// registered, so an LLM client can read and mutate the application list.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"takip",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("takip — local job application tracker: records, pipeline stats, and notes."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("add_application",
			mcp.WithDescription("Record a new job application."),
			mcp.WithString("company", mcp.Description("Company name"), mcp.Required()),
			mcp.WithString("position", mcp.Description("Position title"), mcp.Required()),
			mcp.WithString("platform", mcp.Description("Where the application was submitted (LinkedIn, Kariyer.net, ...)")),
			mcp.WithString("appliedAt", mcp.Description("Application date, RFC 3339 or YYYY-MM-DD")),
			mcp.WithString("status", mcp.Description("Initial status label; defaults to In Process")),
		),
		mcpAddApplication(deps),
	)

	s.AddTool(
		mcp.NewTool("list_applications",
			mcp.WithDescription("List tracked applications, optionally filtered."),
			mcp.WithString("query", mcp.Description("Substring match over company and position")),
			mcp.WithString("status", mcp.Description("Exact status filter")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
		),
		mcpListApplications(deps),
	)

	s.AddTool(
		mcp.NewTool("update_status",
			mcp.WithDescription("Change the status of one application."),
			mcp.WithString("id", mcp.Description("Application identifier"), mcp.Required()),
			mcp.WithString("status", mcp.Description("New status label"), mcp.Required()),
		),
		mcpUpdateStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("stats_summary",
			mcp.WithDescription("Compute the aggregated pipeline statistics over all tracked applications."),
		),
		mcpStatsSummary(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"takip://applications",
			"Tracked Applications",
			mcp.WithResourceDescription("The full application list as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceApplications(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"takip://stats",
			"Pipeline Statistics",
			mcp.WithResourceDescription("Aggregated pipeline statistics as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStats(deps),
	)

	return s
}

func mcpAddApplication(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		company, err := req.RequireString("company")
		if err != nil {
			return mcpError("company is required"), nil
		}
		position, err := req.RequireString("position")
		if err != nil {
			return mcpError("position is required"), nil
		}

		f := store.Fields{
			Company:  company,
			Position: position,
			Platform: req.GetString("platform", ""),
			Status:   req.GetString("status", store.StatusInProcess),
		}
		if raw := req.GetString("appliedAt", ""); raw != "" {
			t, err := parseDate(raw)
			if err != nil {
				return mcpError(fmt.Sprintf("invalid appliedAt: %v", err)), nil
			}
			f.AppliedAt = t
		}

		app, err := deps.Store.Add(f)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to save: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Recorded application #%d (%s) with id %s", app.No, app.Company, app.ID)), nil
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func mcpListApplications(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		q := analytics.ListQuery{
			Search: req.GetString("query", ""),
			Status: req.GetString("status", ""),
			Sort:   analytics.SortByDate,
			Desc:   true,
		}
		apps := analytics.View(deps.Store.Applications(), q, language.English)
		if len(apps) > limit {
			apps = apps[:limit]
		}

		type appSummary struct {
			ID       string `json:"id"`
			No       int    `json:"no"`
			Company  string `json:"company"`
			Position string `json:"position"`
			Status   string `json:"status"`
			Applied  string `json:"appliedAt,omitempty"`
		}

		summaries := make([]appSummary, len(apps))
		for i, a := range apps {
			s := appSummary{
				ID:       a.ID,
				No:       a.No,
				Company:  a.Company,
				Position: a.Position,
				Status:   a.Status,
			}
			if !a.AppliedAt.IsZero() {
				s.Applied = a.AppliedAt.Format("2006-01-02")
			}
			summaries[i] = s
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpUpdateStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		status, err := req.RequireString("status")
		if err != nil {
			return mcpError("status is required"), nil
		}

		found, err := deps.Store.Update(id, store.Patch{Status: &status})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to update: %v", err)), nil
		}
		if !found {
			return mcpError(fmt.Sprintf("no application with id %s", id)), nil
		}

		return mcpText(fmt.Sprintf("Set %s to %s", id, status)), nil
	}
}

func mcpStatsSummary(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := BuildStats(deps.Store.Applications(), time.Now())

		b, err := json.Marshal(stats)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceApplications(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		apps := deps.Store.Applications()

		b, err := json.Marshal(apps)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal applications: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceStats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		stats := BuildStats(deps.Store.Applications(), time.Now())

		b, err := json.Marshal(stats)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
