package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a graph node identifier.
// IDs arrive from arbitrary query backends, so the rules are intentionally
// conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id contains invalid control characters")
		}
	}

	return nil
}

// presetNameRegex matches valid layout preset names: lowercase words
// separated by single dashes, e.g. "compact" or "detailed-dense".
var presetNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidatePresetName validates a layout preset name from config or flags.
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}

	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPreset, "invalid preset name: %q", name)
	}

	return nil
}

// ValidateListenAddr validates a server listen address of the form
// "host:port" or ":port". Full resolution is left to net.Listen; this
// rejects the obviously malformed values early so config errors surface
// before the server starts.
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "listen address cannot be empty")
	}

	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return New(ErrCodeInvalidConfig, "listen address must contain a port: %q", addr)
	}

	port := addr[idx+1:]
	if port == "" {
		return New(ErrCodeInvalidConfig, "listen address has empty port: %q", addr)
	}

	for _, r := range port {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidConfig, "listen address has non-numeric port: %q", addr)
		}
	}

	return nil
}
