package mcpbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	figmasync "github.com/kataras/figma-ds-sync"
	"github.com/kataras/figma-ds-sync/pkg/component"
	"github.com/kataras/figma-ds-sync/pkg/styledict"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

var errNoSyncer = errors.New("figma credentials not configured: set FIGMA_PAT and FIGMA_FILE_ID")

func jsonResult(v any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(strings.TrimSuffix(buf.String(), "\n")), nil
}

// tokensArg decodes the "tokens" argument. A problem with the document is
// returned as a tool error result rather than a Go error.
func tokensArg(req mcp.CallToolRequest) (map[string]any, *mcp.CallToolResult) {
	doc, err := req.RequireString("tokens")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	raw, err := tokens.Decode([]byte(doc))
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return raw, nil
}

func tokenSetArg(req mcp.CallToolRequest) (tokens.Set, *mcp.CallToolResult) {
	raw, res := tokensArg(req)
	if res != nil {
		return nil, res
	}
	set, err := tokens.FromRaw(raw)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return set, nil
}

func (s *Server) handlePull(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.syncer == nil {
		return mcp.NewToolResultError(errNoSyncer.Error()), nil
	}

	result, err := s.syncer.Pull(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tokens.Export(result.Tokens))
}

func (s *Server) handlePush(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.syncer == nil {
		return mcp.NewToolResultError(errNoSyncer.Error()), nil
	}

	set, res := tokenSetArg(req)
	if res != nil {
		return res, nil
	}
	opts := figmasync.PushOptions{
		Merge:  req.GetBool("merge", true),
		DryRun: req.GetBool("dry_run", false),
	}

	result, err := s.syncer.Push(ctx, set, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"applied": result.Applied,
		"dry_run": opts.DryRun,
		"created": result.Plan.Created,
		"updated": result.Plan.Updated,
		"deleted": result.Plan.Deleted,
		"skipped": result.Plan.Skipped,
		"changes": result.Plan.Changes(),
	})
}

func (s *Server) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, res := tokensArg(req)
	if res != nil {
		return res, nil
	}

	errs := tokens.Validate(raw)
	if errs == nil {
		errs = []string{}
	}
	return jsonResult(map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

func (s *Server) handleBuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set, res := tokenSetArg(req)
	if res != nil {
		return res, nil
	}
	platform := req.GetString("platform", styledict.PlatformWeb)

	return jsonResult(styledict.Build(set, platform))
}

func (s *Server) handleComponentSpec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := req.GetString("path", "Component.tsx")

	rec, err := component.Extract(source, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rec.Props) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no props found in %s", path)), nil
	}

	spec, err := component.ToComponentSpec(rec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(spec)
}
