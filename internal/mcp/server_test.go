package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vault-md/launchdeck/internal/detail"
	"github.com/vault-md/launchdeck/internal/spacex"
	"github.com/vault-md/launchdeck/internal/spacex/spacextest"
	"github.com/vault-md/launchdeck/internal/usecase"
)

func connectInMemory(t *testing.T, ctx context.Context) (*sdkmcp.ClientSession, *spacextest.Server) {
	t.Helper()
	api := spacextest.NewServer(t)
	client, err := spacex.New(api.BaseURL(), spacex.WithHTTPClient(api.Client()))
	if err != nil {
		t.Fatalf("spacex.New: %v", err)
	}
	dashboard, err := usecase.NewDashboard(client, usecase.Options{PageSize: 2})
	if err != nil {
		t.Fatalf("NewDashboard: %v", err)
	}
	srv := NewServer(dashboard, "test", nil)

	t1, t2 := sdkmcp.NewInMemoryTransports()
	if _, err := srv.Connect(ctx, t1); err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	mcpClient := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := mcpClient.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session, api
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		t.Fatalf("CallTool(%s) returned error: %s", name, toolText(res))
	}
	if err := json.Unmarshal([]byte(toolText(res)), out); err != nil {
		t.Fatalf("unmarshal %s result: %v", name, err)
	}
}

func callToolExpectError(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return err.Error()
	}
	if !res.IsError {
		t.Fatalf("CallTool(%s): expected error but got success", name)
	}
	return toolText(res)
}

func toolText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolsAreRegistered(t *testing.T) {
	ctx := context.Background()
	session, _ := connectInMemory(t, ctx)

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"launches_list", "launch_detail", "rockets_list", "payloads_list"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}
}

func TestLaunchesList(t *testing.T) {
	ctx := context.Background()
	session, _ := connectInMemory(t, ctx)

	var out LaunchesListOutput
	callTool(t, ctx, session, "launches_list", map[string]any{"sort": "name", "page": 2}, &out)

	if out.Page != 2 || out.TotalPages != 2 || out.Total != 3 {
		t.Fatalf("unexpected paging: %+v", out)
	}
	if len(out.Launches) != 1 || out.Launches[0].Name != "RatSat" {
		t.Fatalf("unexpected launches: %+v", out.Launches)
	}
	if out.Launches[0].Rocket != "Falcon 1" || out.Launches[0].Status != "success" {
		t.Fatalf("unexpected entry: %+v", out.Launches[0])
	}
}

func TestLaunchesListWarnsOnRocketFailure(t *testing.T) {
	ctx := context.Background()
	session, api := connectInMemory(t, ctx)
	api.Fail("/v4/rockets/r1")

	var out LaunchesListOutput
	callTool(t, ctx, session, "launches_list", map[string]any{}, &out)
	if out.Warning != "Failed to load rockets" {
		t.Fatalf("expected rockets warning, got %q", out.Warning)
	}
	if len(out.Launches) != 2 {
		t.Fatalf("expected launches to be listed, got %d", len(out.Launches))
	}
}

func TestLaunchesListFailure(t *testing.T) {
	ctx := context.Background()
	session, api := connectInMemory(t, ctx)
	api.Fail("/v4/launches/upcoming")

	msg := callToolExpectError(t, ctx, session, "launches_list", map[string]any{"upcoming": true})
	if !strings.Contains(msg, "Failed to load launches") {
		t.Fatalf("unexpected error: %s", msg)
	}

	msg = callToolExpectError(t, ctx, session, "launches_list", map[string]any{"status": "partial"})
	if !strings.Contains(msg, "unknown status") {
		t.Fatalf("unexpected error: %s", msg)
	}
}

func TestLaunchDetail(t *testing.T) {
	ctx := context.Background()
	session, _ := connectInMemory(t, ctx)

	var out detail.Detail
	callTool(t, ctx, session, "launch_detail", map[string]any{"id": "l1"}, &out)
	if out.Launch.Name != "FalconSat" || out.Rocket.Name != "Falcon 1" || len(out.Payloads) != 1 {
		t.Fatalf("unexpected detail: %+v", out)
	}

	msg := callToolExpectError(t, ctx, session, "launch_detail", map[string]any{"id": "nope"})
	if !strings.Contains(msg, "launch not found") {
		t.Fatalf("unexpected error: %s", msg)
	}
}

func TestLaunchDetailFailure(t *testing.T) {
	ctx := context.Background()
	session, api := connectInMemory(t, ctx)
	api.Fail("/v4/payloads/p2")

	msg := callToolExpectError(t, ctx, session, "launch_detail", map[string]any{"id": "l3"})
	if !strings.Contains(msg, "failed to load launch l3") {
		t.Fatalf("unexpected error: %s", msg)
	}
}

func TestCatalogTools(t *testing.T) {
	ctx := context.Background()
	session, api := connectInMemory(t, ctx)

	var rockets RocketsListOutput
	callTool(t, ctx, session, "rockets_list", map[string]any{}, &rockets)
	if len(rockets.Rockets) != 2 {
		t.Fatalf("expected 2 rockets, got %d", len(rockets.Rockets))
	}

	api.Fail("/v4/payloads")
	msg := callToolExpectError(t, ctx, session, "payloads_list", map[string]any{})
	if !strings.Contains(msg, "Failed to load payloads") {
		t.Fatalf("unexpected error: %s", msg)
	}
}
