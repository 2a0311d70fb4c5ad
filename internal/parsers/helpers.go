// Package parsers holds small header/value parsing helpers shared by the
// probe layer.
package parsers

import (
	"net/http"
	"strconv"
	"strings"
)

// ParseCount parses a non-negative integer header value. Absent or garbage
// values yield nil — never zero, so "no header" stays distinguishable from
// "limit of 0".
func ParseCount(val string) *int {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// HeaderCount reads an integer header from a response, nil when absent.
func HeaderCount(h http.Header, name string) *int {
	return ParseCount(h.Get(name))
}

// RedactHeaders flattens response headers into a map, masking credential
// material so the dump is safe to log or store alongside results.
func RedactHeaders(headers http.Header, sensitiveKeys ...string) map[string]string {
	sensitive := map[string]bool{
		"authorization": true,
		"x-api-key":     true,
		"cookie":        true,
		"set-cookie":    true,
	}
	for _, k := range sensitiveKeys {
		sensitive[strings.ToLower(k)] = true
	}

	out := make(map[string]string)
	for k, vals := range headers {
		key := strings.ToLower(k)
		val := strings.Join(vals, ", ")
		if sensitive[key] {
			if len(val) > 8 {
				val = val[:4] + "..." + val[len(val)-4:]
			} else {
				val = "****"
			}
		}
		out[k] = val
	}
	return out
}
