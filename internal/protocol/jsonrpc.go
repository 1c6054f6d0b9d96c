// Package protocol implements the JSON-RPC 2.0 framing and MCP method
// dispatch that runs inside every session.
package protocol

import "encoding/json"

// JSON-RPC 2.0 error codes, plus the MCP server-error code used for
// transport-level rejections.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeBadRequest     = -32000
)

// Request is a JSON-RPC 2.0 request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResult builds a successful response for id.
func NewResult(id, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

// NewError builds an error response for id.
func NewError(id any, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}

// IsInitialize reports whether raw is a well-formed initialize request: the
// only payload that may open a new session on the streamable transport.
func IsInitialize(raw []byte) bool {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return false
	}
	return req.Method == "initialize" && req.ID != nil
}
