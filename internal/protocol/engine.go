package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/szaher/chronos/internal/tools"
)

// Protocol versions this server speaks, newest first. An initialize request
// naming one of these gets it echoed back; anything else negotiates down to
// DefaultProtocolVersion.
var SupportedProtocolVersions = []string{"2025-06-18", "2025-03-26", "2024-11-05"}

const DefaultProtocolVersion = "2025-03-26"

// ToolCallRecorder receives tool invocation outcomes, typically for metrics.
type ToolCallRecorder interface {
	RecordToolCall(tool, status string)
}

// Engine dispatches MCP methods for a single session. Each session owns its
// own Engine and tool registry; nothing here is shared across sessions.
type Engine struct {
	registry *tools.Registry
	logger   *slog.Logger
	recorder ToolCallRecorder

	serverName    string
	serverVersion string
}

// NewEngine creates a per-session dispatch engine. recorder may be nil.
func NewEngine(registry *tools.Registry, logger *slog.Logger, recorder ToolCallRecorder, serverName, serverVersion string) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry:      registry,
		logger:        logger,
		recorder:      recorder,
		serverName:    serverName,
		serverVersion: serverVersion,
	}
}

// Handle processes one inbound JSON-RPC payload and returns the serialized
// response. Notifications produce no response (nil, false).
func (e *Engine) Handle(raw []byte) ([]byte, bool) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return marshal(NewError(nil, CodeParseError, "Parse error: invalid JSON"))
	}

	// No id means notification: process (there is nothing to process for
	// this server) and stay silent.
	if req.ID == nil {
		e.logger.Debug("notification received", "method", req.Method)
		return nil, false
	}

	e.logger.Debug("request received", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return marshal(NewResult(req.ID, e.initialize(req.Params)))
	case "ping":
		return marshal(NewResult(req.ID, map[string]any{}))
	case "tools/list":
		return marshal(NewResult(req.ID, map[string]any{"tools": e.registry.Definitions()}))
	case "tools/call":
		return marshal(e.callTool(req))
	default:
		return marshal(NewError(req.ID, CodeMethodNotFound, "Method not found: "+req.Method))
	}
}

type initializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
	ClientInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
}

func (e *Engine) initialize(params json.RawMessage) map[string]any {
	var p initializeParams
	_ = json.Unmarshal(params, &p)

	version := DefaultProtocolVersion
	for _, v := range SupportedProtocolVersions {
		if p.ProtocolVersion == v {
			version = v
			break
		}
	}

	e.logger.Info("session initialized",
		"client", p.ClientInfo.Name,
		"client_version", p.ClientInfo.Version,
		"protocol_version", version)

	return map[string]any{
		"protocolVersion": version,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    e.serverName,
			"version": e.serverVersion,
		},
	}
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (e *Engine) callTool(req Request) *Response {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return NewError(req.ID, CodeInvalidParams, "Invalid params")
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result, err := e.registry.Call(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, tools.ErrUnknownTool) {
			return NewError(req.ID, CodeInvalidParams, err.Error())
		}
		return NewError(req.ID, CodeInternalError, err.Error())
	}

	status := "ok"
	if result.IsError {
		status = "error"
	}
	if e.recorder != nil {
		e.recorder.RecordToolCall(params.Name, status)
	}
	e.logger.Debug("tool call completed", "tool", params.Name, "status", status)
	return NewResult(req.ID, result)
}

func marshal(resp *Response) ([]byte, bool) {
	data, err := json.Marshal(resp)
	if err != nil {
		// Responses are built from marshal-safe values; this is unreachable
		// short of a programming error.
		data = fmt.Appendf(nil,
			`{"jsonrpc":"2.0","id":null,"error":{"code":%d,"message":"Internal error"}}`,
			CodeInternalError)
	}
	return data, true
}
