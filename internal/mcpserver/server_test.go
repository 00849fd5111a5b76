package mcpserver_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vinpuli/archscribe/internal/mcpserver"
)

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	t.Cleanup(func() {
		<-serverDone
	})

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
	})

	return session
}

func TestMCPServer_ListsAllEighteenTools(t *testing.T) {
	t.Parallel()

	srv := mcpserver.NewServer(mcpserver.ServerDeps{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.Len(t, toolNames, 18)
	assert.Contains(t, toolNames, "detect_language")
	assert.Contains(t, toolNames, "generate_change_plan")
	assert.Contains(t, toolNames, "infer_architecture")
	assert.Contains(t, toolNames, "scan_directory")

	cancel()
}

func TestMCPServer_CallDetectLanguage(t *testing.T) {
	t.Parallel()

	srv := mcpserver.NewServer(mcpserver.ServerDeps{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "detect_language",
		Arguments: map[string]any{
			"path":           "main.py",
			"content_base64": base64.StdEncoding.EncodeToString([]byte("print(1)")),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.NotEmpty(t, result.Content)

	cancel()
}

func TestMCPServer_CallDetectLanguage_MissingRequiredField(t *testing.T) {
	t.Parallel()

	srv := mcpserver.NewServer(mcpserver.ServerDeps{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "detect_language",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	cancel()
}

func TestMCPServer_CallAggregateRisk_OverSampleRepo(t *testing.T) {
	t.Parallel()

	srv := mcpserver.NewServer(mcpserver.ServerDeps{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)

	root := t.TempDir()
	requireGit(t)
	initSampleRepo(t, root)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "aggregate_risk",
		Arguments: map[string]any{
			"directory_path": root,
			"base_ref":       "HEAD~1",
			"target_ref":     "HEAD",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.NotEmpty(t, result.Content)

	cancel()
}
