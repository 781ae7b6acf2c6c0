package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Date layouts Grocy accepts.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Args are the decoded arguments of one tool call.
type Args map[string]any

// present reports whether name was supplied with a usable value.
func (a Args) present(name string) bool {
	v, ok := a[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// truthy mirrors how optional Grocy fields are dropped: absent, empty, zero
// and false values are left out of request bodies.
func (a Args) truthy(name string) bool {
	return truthy(a[name])
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// or returns the argument or def when it was not supplied.
func (a Args) or(name string, def any) any {
	if a.present(name) {
		return a[name]
	}
	return def
}

func (a Args) str(name string) string {
	if !a.present(name) {
		return ""
	}
	return formatValue(a[name])
}

func (a Args) boolean(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// setIf copies an argument into body under key when it is truthy.
func (a Args) setIf(body map[string]any, key, name string) {
	if a.truthy(name) {
		body[key] = a[name]
	}
}

// formatValue renders a scalar for use in a URL path or query.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// expandPath substitutes {name} placeholders with escaped argument values.
func expandPath(template string, args Args) string {
	out := template
	for {
		start := strings.IndexByte(out, '{')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(out[start:], '}')
		if end < 0 {
			return out
		}
		name := out[start+1 : start+end]
		out = out[:start] + url.PathEscape(args.str(name)) + out[start+end+1:]
	}
}

func today(now time.Time) string {
	return now.UTC().Format(dateLayout)
}

func nextYear(now time.Time) string {
	return now.UTC().AddDate(1, 0, 0).Format(dateLayout)
}

func timestamp(now time.Time) string {
	return now.UTC().Format(dateTimeLayout)
}
