package config

import (
	"strings"
)

// Method is the HTTP verb a run uses.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodHead   Method = "HEAD"
	MethodPatch  Method = "PATCH"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod upper-cases s and matches it against the supported verbs.
// Anything unknown falls back to GET.
func ParseMethod(s string) Method {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodHead, MethodPatch, MethodPut, MethodDelete:
		return m
	default:
		return MethodGet
	}
}

// ParseTarget splits a target of the form "URL" or "METHOD URL".
// Tokens after the URL are ignored.
func ParseTarget(target string) (Method, string) {
	fields := strings.Fields(target)
	switch len(fields) {
	case 0:
		return MethodGet, strings.TrimSpace(target)
	case 1:
		return MethodGet, fields[0]
	default:
		return ParseMethod(fields[0]), fields[1]
	}
}

// ParseHeader parses a "Key:Value" definition, splitting on the first colon.
func ParseHeader(raw string) (Header, error) {
	key, value, ok := strings.Cut(raw, ":")
	if !ok {
		return Header{}, configErrorf("--headers", "header %q must be in Key:Value form", raw)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Header{}, configErrorf("--headers", "header %q has an empty key", raw)
	}
	return Header{Key: key, Value: strings.TrimSpace(value)}, nil
}

// ParseHeaders parses every definition, preserving order and duplicates.
func ParseHeaders(raw []string) ([]Header, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make([]Header, 0, len(raw))
	for _, r := range raw {
		h, err := ParseHeader(r)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, nil
}
