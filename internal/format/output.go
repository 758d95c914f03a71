// Package format encodes command results for stdout.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Kind names an output encoding.
type Kind string

const (
	JSON Kind = "json"
	EDN  Kind = "edn"
	// Text is rendered by the caller; Write rejects it.
	Text Kind = "text"
)

// ParseKind maps a --format value to a Kind. The empty string is JSON.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	case Text:
		return Text, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, edn or text)", s)
}

// Envelope is the shape of every successful structured result.
type Envelope struct {
	Data any `json:"data"`
}

// Write encodes v as kind.
func Write(w io.Writer, v any, kind Kind, pretty bool) error {
	switch kind {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("format %q has no structured encoder", kind)
	}
}

// WriteJSON writes v followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
