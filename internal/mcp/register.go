package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools wires the tool catalog to the SDK server, dispatching every
// call through the handler.
func registerTools(server *sdkmcp.Server, services Services) {
	handler := NewHandler(services)

	for _, def := range buildToolCatalog() {
		def := def

		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: toSchema(def.InputSchema),
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			args, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}

			result, err := handler.Handle(ctx, getWorkspaceID(ctx), getSessionID(ctx), def.Name, args)
			if err != nil {
				return toolError(errorPayload(err)), nil
			}

			data, err := json.Marshal(result)
			if err != nil {
				return toolError(fmt.Sprintf("encoding result: %v", err)), nil
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			}, nil
		})
	}
}

// toSchema converts a catalog schema map into the SDK's schema type.
func toSchema(schema map[string]any) *jsonschema.Schema {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var out jsonschema.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}

func toolError(message string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: message}},
	}
}

func errorPayload(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		if data, jsonErr := json.Marshal(apiErr); jsonErr == nil {
			return string(data)
		}
	}
	return err.Error()
}
