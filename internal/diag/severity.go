package diag

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic. Higher is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

// String is the upper-case form used in pretty and JSON output.
func (s Severity) String() string {
	return strings.ToUpper(s.Label())
}

// Label is the lower-case form used by the short format and flags.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// ParseSeverity accepts the Label spelling, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range severityNames {
		if v == name {
			return Severity(i), nil
		}
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected info|warning|error)", s)
}
