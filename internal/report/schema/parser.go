package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// parser probes the decoded payload with typed accessors, collecting issues
// instead of failing. Every accessor trims strings before any length check;
// lengths are counted in characters, not bytes.
type parser struct {
	raw    map[string]any
	issues Issues
}

func (p *parser) add(path, message string) {
	p.issues = append(p.issues, Issue{Path: path, Message: message})
}

// peekString returns the trimmed string value if the field is present and a
// string, without recording issues. Used for fields with soft handling.
func (p *parser) peekString(key string) (string, bool) {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// requiredString enforces presence, type, and length. missingMsg doubles as
// the too-short message, matching the public form's phrasing.
func (p *parser) requiredString(key string, min, max int, missingMsg string) string {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		p.add(key, missingMsg)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		p.add(key, "Must be a string.")
		return ""
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min {
		p.add(key, missingMsg)
		return ""
	}
	if utf8.RuneCountInString(s) > max {
		p.add(key, fmt.Sprintf("Must be at most %d characters.", max))
		return ""
	}
	return s
}

// optionalString returns "" when absent. min applies only to present values;
// shortMsg falls back to a generic message when empty.
func (p *parser) optionalString(key string, min, max int, shortMsg string) string {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		p.add(key, "Must be a string.")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) < min {
		if shortMsg == "" {
			shortMsg = fmt.Sprintf("Must be at least %d characters.", min)
		}
		p.add(key, shortMsg)
		return ""
	}
	if utf8.RuneCountInString(s) > max {
		p.add(key, fmt.Sprintf("Must be at most %d characters.", max))
		return ""
	}
	return s
}

// literalTrue enforces that a consent flag is the boolean true. Absence,
// false, or a non-boolean all fail with the same message.
func (p *parser) literalTrue(key, msg string) bool {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		p.add(key, msg)
		return false
	}
	b, ok := raw.(bool)
	if !ok || !b {
		p.add(key, msg)
		return false
	}
	return true
}

// optionalBool returns def when absent.
func (p *parser) optionalBool(key string, def bool) bool {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return def
	}
	b, ok := raw.(bool)
	if !ok {
		p.add(key, "Must be a boolean.")
		return def
	}
	return b
}

// optionalInt accepts any JSON number holding an integral value in
// [min, max]. Returns nil when absent.
func (p *parser) optionalInt(key string, min, max int) *int {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return nil
	}
	n, ok := asInt(raw)
	if !ok {
		p.add(key, "Must be a whole number.")
		return nil
	}
	if n < min || n > max {
		p.add(key, fmt.Sprintf("Must be between %d and %d.", min, max))
		return nil
	}
	return &n
}

// enumDefault restricts a field to a closed set, applying def when absent.
func (p *parser) enumDefault(key string, allowed []string, def string) string {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return def
	}
	s, ok := raw.(string)
	if !ok {
		p.add(key, "Must be a string.")
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if !contains(allowed, s) {
		p.add(key, "Invalid value.")
		return def
	}
	return s
}

// enumOptional restricts a field to a closed set, returning "" when absent.
func (p *parser) enumOptional(key string, allowed []string) string {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		p.add(key, "Must be a string.")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !contains(allowed, s) {
		p.add(key, "Invalid value.")
		return ""
	}
	return s
}

// stringArray returns the trimmed string elements of an optional array.
// Elements shorter than elemMin fail. Returns nil when absent.
func (p *parser) stringArray(key string, elemMin int) []string {
	raw, ok := p.raw[key]
	if !ok || raw == nil {
		return nil
	}
	elems, ok := asSlice(raw)
	if !ok {
		p.add(key, "Must be an array of strings.")
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		s, ok := e.(string)
		if !ok {
			p.add(key, "Must be an array of strings.")
			return nil
		}
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) < elemMin {
			p.add(key, fmt.Sprintf("Entries must be at least %d characters.", elemMin))
			return nil
		}
		out = append(out, s)
	}
	return out
}

// enumArray is stringArray restricted to a closed set of variants.
func (p *parser) enumArray(key string, allowed []string) []string {
	values := p.stringArray(key, 1)
	if values == nil {
		return nil
	}
	for _, v := range values {
		if !contains(allowed, v) {
			p.add(key, "Invalid value: "+v)
			return nil
		}
	}
	return values
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// asInt accepts the numeric shapes a decoded payload or a test literal may
// carry and requires an integral value.
func asInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// asSlice accepts both decoded []any and test-constructed []string values.
func asSlice(raw any) ([]any, bool) {
	switch s := raw.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out, true
	default:
		return nil, false
	}
}
