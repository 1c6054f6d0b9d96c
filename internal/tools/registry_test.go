package tools

import (
	"errors"
	"strings"
	"testing"

	"github.com/szaher/chronos/internal/testutil"
	"github.com/szaher/chronos/internal/timezone"
)

func newTestRegistry(defaultZone string) *Registry {
	return NewRegistry(defaultZone, timezone.NewEngine())
}

func TestDefinitions(t *testing.T) {
	reg := newTestRegistry("UTC")
	defs := reg.Definitions()
	if len(defs) != 2 {
		t.Fatalf("Definitions returned %d tools, want 2", len(defs))
	}

	if defs[0].Name != ToolGetCurrentTime {
		t.Errorf("first tool = %q, want %q", defs[0].Name, ToolGetCurrentTime)
	}
	if defs[1].Name != ToolConvertTime {
		t.Errorf("second tool = %q, want %q", defs[1].Name, ToolConvertTime)
	}

	schema := defs[1].InputSchema
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "time" {
		t.Errorf("convert_time required = %v, want [time]", schema["required"])
	}

	props := schema["properties"].(map[string]any)
	timeProp := props["time"].(map[string]any)
	if timeProp["pattern"] != `^\d{2}:\d{2}$` {
		t.Errorf("time pattern = %v", timeProp["pattern"])
	}
}

func TestGetCurrentTimeDefaultZone(t *testing.T) {
	reg := newTestRegistry("Asia/Tokyo")

	res, err := reg.Call(ToolGetCurrentTime, map[string]any{})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content[0].Text)
	}

	var out timezone.Result
	testutil.MustUnmarshalJSON(t, []byte(res.Content[0].Text), &out)
	if out.Timezone != "Asia/Tokyo" {
		t.Errorf("timezone = %q, want the registry default", out.Timezone)
	}

	// Payload is pretty-printed JSON, not a compact blob.
	if !strings.Contains(res.Content[0].Text, "\n  \"timezone\"") {
		t.Errorf("payload is not indented: %q", res.Content[0].Text)
	}
}

func TestGetCurrentTimeExplicitZone(t *testing.T) {
	reg := newTestRegistry("UTC")

	res, err := reg.Call(ToolGetCurrentTime, map[string]any{"timezone": "Europe/London"})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}

	var out timezone.Result
	testutil.MustUnmarshalJSON(t, []byte(res.Content[0].Text), &out)
	if out.Timezone != "Europe/London" {
		t.Errorf("timezone = %q, want %q", out.Timezone, "Europe/London")
	}
}

func TestGetCurrentTimeInvalidZone(t *testing.T) {
	reg := newTestRegistry("UTC")

	res, err := reg.Call(ToolGetCurrentTime, map[string]any{"timezone": "Mars/Gale_Crater"})
	if err != nil {
		t.Fatalf("engine failures must not surface as call errors, got %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error-flagged result")
	}
	testutil.AssertContains(t, res.Content[0].Text, "Mars/Gale_Crater")
}

func TestConvertTimeTool(t *testing.T) {
	reg := newTestRegistry("UTC")

	res, err := reg.Call(ToolConvertTime, map[string]any{
		"source_timezone": "UTC",
		"time":            "14:30",
		"target_timezone": "Asia/Kathmandu",
	})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content[0].Text)
	}

	var out timezone.Conversion
	testutil.MustUnmarshalJSON(t, []byte(res.Content[0].Text), &out)
	if out.Source.Timezone != "UTC" || out.Target.Timezone != "Asia/Kathmandu" {
		t.Errorf("zones = %q -> %q", out.Source.Timezone, out.Target.Timezone)
	}
	// Neither zone observes DST, so the delta is stable year-round.
	if out.TimeDifference != "+5.75h" {
		t.Errorf("time_difference = %q, want %q", out.TimeDifference, "+5.75h")
	}
}

func TestConvertTimeDefaultsBothZones(t *testing.T) {
	reg := newTestRegistry("Europe/London")

	res, err := reg.Call(ToolConvertTime, map[string]any{"time": "09:00"})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content[0].Text)
	}

	var out timezone.Conversion
	testutil.MustUnmarshalJSON(t, []byte(res.Content[0].Text), &out)
	if out.Source.Timezone != "Europe/London" || out.Target.Timezone != "Europe/London" {
		t.Errorf("zones = %q -> %q, want default on both sides", out.Source.Timezone, out.Target.Timezone)
	}
	if out.TimeDifference != "+0h" {
		t.Errorf("time_difference = %q, want %q", out.TimeDifference, "+0h")
	}
}

func TestConvertTimeMissingTime(t *testing.T) {
	reg := newTestRegistry("UTC")

	res, err := reg.Call(ToolConvertTime, map[string]any{"source_timezone": "UTC"})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error-flagged result")
	}
	testutil.AssertContains(t, res.Content[0].Text, `"time"`)
}

func TestConvertTimeBadPattern(t *testing.T) {
	reg := newTestRegistry("UTC")

	for _, input := range []string{"9:30", "25:00", "09:30:00", "noon"} {
		res, err := reg.Call(ToolConvertTime, map[string]any{"time": input})
		if err != nil {
			t.Fatalf("Call(%q) returned unexpected error: %v", input, err)
		}
		if !res.IsError {
			t.Errorf("Call(%q): expected an error-flagged result", input)
			continue
		}
		testutil.AssertContains(t, res.Content[0].Text, input)
		testutil.AssertContains(t, res.Content[0].Text, "HH:MM")
	}
}

func TestConvertTimeInvalidSourceBeforeTarget(t *testing.T) {
	reg := newTestRegistry("UTC")

	res, err := reg.Call(ToolConvertTime, map[string]any{
		"source_timezone": "Not/AZone",
		"time":            "12:00",
		"target_timezone": "Also/NotAZone",
	})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error-flagged result")
	}
	testutil.AssertContains(t, res.Content[0].Text, "source")
	testutil.AssertContains(t, res.Content[0].Text, "Not/AZone")
}

func TestNonStringArguments(t *testing.T) {
	reg := newTestRegistry("UTC")

	res, err := reg.Call(ToolGetCurrentTime, map[string]any{"timezone": 5})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error-flagged result")
	}
	testutil.AssertContains(t, res.Content[0].Text, "must be a string")

	res, err = reg.Call(ToolConvertTime, map[string]any{"time": 930.0})
	if err != nil {
		t.Fatalf("Call returned unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error-flagged result")
	}
}

func TestUnknownTool(t *testing.T) {
	reg := newTestRegistry("UTC")

	_, err := reg.Call("get_weather", map[string]any{})
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	testutil.AssertErrorContains(t, err, "get_weather")
}
