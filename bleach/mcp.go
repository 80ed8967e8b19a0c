// CLAUDE:SUMMARY MCP tools: bleach_sanitize, bleach_supports and bleach_formats, registered through kit endpoints.
// CLAUDE:DEPENDS kit/transport_mcp.go, kit/endpoint.go, horosafe/horosafe.go
package bleach

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/docbleach/horosafe"
	"github.com/hazyhaar/docbleach/kit"
)

// MCPOption configures RegisterMCP.
type MCPOption func(*mcpTools)

// WithRoot confines every tool path below root. Paths are then resolved
// relative to root and ".." elements are refused.
func WithRoot(root string) MCPOption {
	return func(t *mcpTools) { t.root = root }
}

type mcpTools struct {
	p    *Pipeline
	root string
}

// resolve maps a tool path argument to a filesystem path.
func (t *mcpTools) resolve(path string) (string, error) {
	if t.root == "" {
		return path, nil
	}
	return horosafe.SafePath(t.root, path)
}

// RegisterMCP registers the sanitizer tools on an MCP server. Every tool
// runs through mw (may be nil). Without WithRoot, tool paths are used as
// given and a warning is logged.
func (p *Pipeline) RegisterMCP(srv *mcp.Server, mw kit.Middleware, opts ...MCPOption) {
	if mw == nil {
		mw = func(next kit.Endpoint) kit.Endpoint { return next }
	}
	t := &mcpTools{p: p}
	for _, o := range opts {
		o(t)
	}
	if t.root == "" {
		p.logger.Warn("mcp tools are not confined to a root: any host path can be read and written")
	}
	t.registerSanitizeTool(srv, mw)
	t.registerSupportsTool(srv, mw)
	t.registerFormatsTool(srv, mw)
}

// --- sanitize ---

type sanitizeReq struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Password   string `json:"password,omitempty"`
}

func (t *mcpTools) registerSanitizeTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "bleach_sanitize",
		Description: "Remove active content (scripts, auto-run and launch actions) from a document and write the cleaned copy.",
		InputSchema: kit.Schema(map[string]any{
			"input_path":  map[string]any{"type": "string", "description": "Document to sanitize"},
			"output_path": map[string]any{"type": "string", "description": "Where to write the cleaned document"},
			"password":    map[string]any{"type": "string", "description": "Password of a protected document"},
		}, "input_path", "output_path"),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*sanitizeReq)
		if r.InputPath == "" || r.OutputPath == "" {
			return nil, errors.New("input_path and output_path are required")
		}
		in, err := t.resolve(r.InputPath)
		if err != nil {
			return nil, err
		}
		out, err := t.resolve(r.OutputPath)
		if err != nil {
			return nil, err
		}
		var cred *Credentials
		if r.Password != "" {
			cred = &Credentials{Secret: r.Password}
		}
		return t.p.SanitizeFile(ctx, in, out, cred)
	}

	kit.RegisterMCPTool[sanitizeReq](srv, tool, mw(endpoint))
}

// --- supports ---

type supportsReq struct {
	Path string `json:"path"`
}

func (t *mcpTools) registerSupportsTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "bleach_supports",
		Description: "Check whether a document format is recognised by the sanitizer.",
		InputSchema: kit.Schema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to probe"},
		}, "path"),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		path, err := t.resolve(req.(*supportsReq).Path)
		if err != nil {
			return nil, err
		}
		ok, err := t.p.SupportsFile(path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"supported": ok}, nil
	}

	kit.RegisterMCPTool[supportsReq](srv, tool, mw(endpoint))
}

// --- formats ---

func (t *mcpTools) registerFormatsTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "bleach_formats",
		Description: "List the scanners registered in probe order.",
		InputSchema: kit.Schema(map[string]any{}),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return map[string]any{"scanners": t.p.Scanners()}, nil
	}

	kit.RegisterMCPTool[struct{}](srv, tool, mw(endpoint))
}
