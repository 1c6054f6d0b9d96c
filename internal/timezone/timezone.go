// Package timezone implements the time computation core: zone validation,
// current-time lookup, and cross-zone wall-clock conversion.
package timezone

import (
	"fmt"
	"os"
	"time"
)

// ISOFormat renders a timestamp as ISO-8601 with an explicit UTC offset and
// second precision, e.g. "2025-03-14T09:26:53-04:00".
const ISOFormat = "2006-01-02T15:04:05-07:00"

// IsValid reports whether name is a recognized IANA zone identifier in the
// platform zone database. The empty string and Go's "Local" pseudo-zone are
// rejected: they resolve to a location but are not geographic zone names.
func IsValid(name string) bool {
	if name == "" || name == "Local" || name == "local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// LocalZone returns the IANA name of the host's local zone, preferring the
// TZ environment variable. Falls back to UTC when the local zone cannot be
// named (time.Local often reports the opaque name "Local").
func LocalZone() string {
	if tz := os.Getenv("TZ"); tz != "" && IsValid(tz) {
		return tz
	}
	if name := time.Local.String(); IsValid(name) {
		return name
	}
	return "UTC"
}

// Role tags which argument of a conversion carried an invalid zone name.
type Role string

const (
	RoleNone   Role = ""
	RoleSource Role = "source"
	RoleTarget Role = "target"
)

// InvalidTimezoneError reports an unrecognized zone identifier.
type InvalidTimezoneError struct {
	Role Role
	Name string
}

func (e *InvalidTimezoneError) Error() string {
	if e.Role == RoleNone {
		return fmt.Sprintf("invalid timezone: %q is not a recognized IANA timezone", e.Name)
	}
	return fmt.Sprintf("invalid %s timezone: %q is not a recognized IANA timezone", e.Role, e.Name)
}

// InvalidTimeFormatError reports a time string that is not strict 24-hour HH:MM.
type InvalidTimeFormatError struct {
	Input string
}

func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time %q: expected 24-hour format HH:MM", e.Input)
}
