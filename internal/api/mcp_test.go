package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekoseoglu/takip/internal/storage"
	"github.com/ekoseoglu/takip/internal/store"
)

func newTestMCPDeps(t *testing.T) (MCPDeps, *store.Store) {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(storage.NewMirror(db), store.Snapshot{})
	return MCPDeps{Store: st}, st
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_AddApplication(t *testing.T) {
	deps, st := newTestMCPDeps(t)
	handler := mcpAddApplication(deps)

	req := makeCallToolRequest("add_application", map[string]interface{}{
		"company":  "Getir",
		"position": "Backend Engineer",
		"platform": "LinkedIn",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	apps := st.Applications()
	if len(apps) != 1 {
		t.Fatalf("stored records = %d, want 1", len(apps))
	}
	if apps[0].Position != "Backend Engineer" {
		t.Errorf("Position = %q, want Backend Engineer", apps[0].Position)
	}
	if apps[0].Status != store.StatusInProcess {
		t.Errorf("Status = %q, want default %q", apps[0].Status, store.StatusInProcess)
	}
}

func TestMCPTool_AddApplication_RequiredFields(t *testing.T) {
	deps, st := newTestMCPDeps(t)
	handler := mcpAddApplication(deps)

	for _, args := range []map[string]interface{}{
		{"position": "Backend Engineer"},
		{"company": "Getir"},
	} {
		result, err := handler(context.Background(), makeCallToolRequest("add_application", args))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Errorf("args %v: expected tool error, got success", args)
		}
	}
	if got := len(st.Applications()); got != 0 {
		t.Errorf("stored records = %d, want 0", got)
	}
}

func TestMCPResource_Stats(t *testing.T) {
	deps, st := newTestMCPDeps(t)
	st.Add(store.Fields{Company: "Getir", Position: "Backend Engineer", Status: store.StatusInterviewPending})

	handler := mcpResourceStats(deps)
	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "takip://stats"},
	}

	contents, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if !strings.Contains(tc.Text, `"total":1`) {
		t.Errorf("stats payload missing total: %s", tc.Text)
	}

	var stats StatsResponse
	if err := json.Unmarshal([]byte(tc.Text), &stats); err != nil {
		t.Fatalf("failed to parse stats payload: %v", err)
	}
	if stats.InterviewRate != 100 {
		t.Errorf("InterviewRate = %d, want 100", stats.InterviewRate)
	}
}
