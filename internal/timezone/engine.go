package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Result is the projection of one instant into one zone.
type Result struct {
	Timezone string `json:"timezone"`
	Datetime string `json:"datetime"`
}

// Conversion is the outcome of re-expressing a wall-clock time in another
// zone, including the offset delta between the two zones at that instant.
type Conversion struct {
	Source         Result `json:"source"`
	Target         Result `json:"target"`
	TimeDifference string `json:"time_difference"`
}

// Engine performs the time computations. The clock is injectable so tests
// can pin the anchor instant.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine backed by the system clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// CurrentTime returns the current instant expressed in zone.
func (e *Engine) CurrentTime(zone string) (*Result, error) {
	loc, err := e.load(zone, RoleNone)
	if err != nil {
		return nil, err
	}
	return &Result{
		Timezone: zone,
		Datetime: e.now().In(loc).Format(ISOFormat),
	}, nil
}

// Convert parses timeStr as a 24-hour wall-clock time, anchors it to today's
// date in sourceZone, and re-expresses that same instant in targetZone. The
// source zone is validated before the target zone.
func (e *Engine) Convert(sourceZone, timeStr, targetZone string) (*Conversion, error) {
	src, err := e.load(sourceZone, RoleSource)
	if err != nil {
		return nil, err
	}
	dst, err := e.load(targetZone, RoleTarget)
	if err != nil {
		return nil, err
	}

	hour, minute, err := parseClock(timeStr)
	if err != nil {
		return nil, err
	}

	y, m, d := e.now().In(src).Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, src)
	there := at.In(dst)

	_, srcOffset := at.Zone()
	_, dstOffset := there.Zone()

	return &Conversion{
		Source:         Result{Timezone: sourceZone, Datetime: at.Format(ISOFormat)},
		Target:         Result{Timezone: targetZone, Datetime: there.Format(ISOFormat)},
		TimeDifference: formatDelta((dstOffset - srcOffset) / 60),
	}, nil
}

func (e *Engine) load(zone string, role Role) (*time.Location, error) {
	if !IsValid(zone) {
		return nil, &InvalidTimezoneError{Role: role, Name: zone}
	}
	return time.LoadLocation(zone)
}

// parseClock accepts exactly two digits, a colon, and two digits, with the
// hour in 00-23 and the minute in 00-59.
func parseClock(s string) (hour, minute int, err error) {
	bad := &InvalidTimeFormatError{Input: s}
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, bad
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, bad
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, bad
	}
	return hour, minute, nil
}

// formatDelta renders an offset delta in minutes as signed hours: integral
// values without a decimal point ("+8h", "-5h", "+0h"), fractional values
// with up to two decimals and trailing zeros stripped ("+5.75h", "+5.5h").
func formatDelta(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%+dh", minutes/60)
	}
	s := strconv.FormatFloat(float64(minutes)/60, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if minutes > 0 {
		s = "+" + s
	}
	return s + "h"
}
