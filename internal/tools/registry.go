// Package tools implements the tool registry: the two time tools, their
// input schemas, and the dispatch from tool calls to the time engine.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/szaher/chronos/internal/timezone"
)

// Tool names exposed over MCP.
const (
	ToolGetCurrentTime = "get_current_time"
	ToolConvertTime    = "convert_time"
)

// ErrUnknownTool marks a call to a tool name that is not registered. Unlike
// tool-argument failures it surfaces as a protocol error, not a result.
var ErrUnknownTool = errors.New("unknown tool")

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Definition describes one tool for tools/list.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Content is one content block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the tool-call result envelope. Failures of the time engine are
// encoded here as text with IsError set; they are never protocol faults.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Registry binds the two time tools to an engine. Each session holds its own
// Registry instance; the default zone is injected at construction and shared
// by value, never read from global state.
type Registry struct {
	defaultZone string
	engine      *timezone.Engine
	defs        []Definition
}

// NewRegistry creates a registry with both tools bound. defaultZone is used
// when a caller omits an optional timezone argument.
func NewRegistry(defaultZone string, engine *timezone.Engine) *Registry {
	return &Registry{
		defaultZone: defaultZone,
		engine:      engine,
		defs: []Definition{
			{
				Name:        ToolGetCurrentTime,
				Description: "Get current time in a specific timezone",
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"timezone": map[string]any{
							"type": "string",
							"description": fmt.Sprintf(
								"IANA timezone name (e.g., 'America/New_York', 'Europe/London'). Defaults to %q.",
								defaultZone),
						},
					},
				},
			},
			{
				Name:        ToolConvertTime,
				Description: "Convert time between timezones",
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"source_timezone": map[string]any{
							"type": "string",
							"description": fmt.Sprintf(
								"Source IANA timezone name. Defaults to %q.", defaultZone),
						},
						"time": map[string]any{
							"type":        "string",
							"description": "Time to convert in 24-hour format (HH:MM)",
							"pattern":     clockPattern.String(),
						},
						"target_timezone": map[string]any{
							"type": "string",
							"description": fmt.Sprintf(
								"Target IANA timezone name. Defaults to %q.", defaultZone),
						},
					},
					"required": []string{"time"},
				},
			},
		},
	}
}

// DefaultZone returns the zone used for omitted timezone arguments.
func (r *Registry) DefaultZone() string { return r.defaultZone }

// Definitions returns the tool definitions for tools/list.
func (r *Registry) Definitions() []Definition { return r.defs }

// Call dispatches a tool invocation. The returned error is non-nil only for
// an unregistered tool name; every other failure is re-encoded as a Result
// whose text names what was wrong with the input.
func (r *Registry) Call(name string, args map[string]any) (*Result, error) {
	switch name {
	case ToolGetCurrentTime:
		return r.getCurrentTime(args), nil
	case ToolConvertTime:
		return r.convertTime(args), nil
	default:
		return nil, fmt.Errorf("tool %q: %w", name, ErrUnknownTool)
	}
}

func (r *Registry) getCurrentTime(args map[string]any) *Result {
	zone, errRes := r.zoneArg(args, "timezone")
	if errRes != nil {
		return errRes
	}
	res, err := r.engine.CurrentTime(zone)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

func (r *Registry) convertTime(args map[string]any) *Result {
	source, errRes := r.zoneArg(args, "source_timezone")
	if errRes != nil {
		return errRes
	}
	target, errRes := r.zoneArg(args, "target_timezone")
	if errRes != nil {
		return errRes
	}

	raw, ok := args["time"]
	if !ok {
		return textError(`missing required argument "time"`)
	}
	timeStr, ok := raw.(string)
	if !ok {
		return textError(`argument "time" must be a string`)
	}
	// Schema-level pattern gate; the engine re-validates the ranges.
	if !clockPattern.MatchString(timeStr) {
		return errorResult(&timezone.InvalidTimeFormatError{Input: timeStr})
	}

	res, err := r.engine.Convert(source, timeStr, target)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// zoneArg resolves an optional timezone argument, falling back to the
// registry default when absent or empty.
func (r *Registry) zoneArg(args map[string]any, key string) (string, *Result) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return r.defaultZone, nil
	}
	zone, ok := raw.(string)
	if !ok {
		return "", textError(fmt.Sprintf("argument %q must be a string", key))
	}
	if zone == "" {
		return r.defaultZone, nil
	}
	return zone, nil
}

func jsonResult(v any) *Result {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return textError(fmt.Sprintf("encoding result: %v", err))
	}
	return &Result{Content: []Content{{Type: "text", Text: string(data)}}}
}

func errorResult(err error) *Result { return textError("Error: " + err.Error()) }

func textError(msg string) *Result {
	return &Result{
		Content: []Content{{Type: "text", Text: msg}},
		IsError: true,
	}
}
