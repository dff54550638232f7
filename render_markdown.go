// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"bytes"
	"html"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// Join concatenates rendered fragments into final document text.
func Join(parts []string) string {
	return strings.Join(parts, "")
}

// headingMarker returns markdown heading prefix for level; negative levels yield empty marker.
func headingMarker(level int) string {
	if level <= 0 {
		return ""
	}

	return strings.Repeat("#", level)
}

// headerGap returns blank paragraph emitted before headings deeper than level one.
func headerGap(level int) string {
	if level > 1 {
		return "\n\n"
	}

	return ""
}

// trimTrailingNewlines strips line feeds only, other trailing whitespace stays.
func trimTrailingNewlines(text string) string {
	return strings.TrimRight(text, "\n")
}

// stripHTML removes markup from scalar text and unescapes entities left by sanitizer.
func stripHTML(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	return html.UnescapeString(htmlStripPolicy().Sanitize(text))
}

// htmlStripPolicy lazily builds shared strict policy; bluemonday policies are safe for concurrent use.
func htmlStripPolicy() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})

	return stripPolicy
}

// textForm renders node as compact single-line JSON preserving mapping order.
func textForm(node Node) (string, error) {
	var out bytes.Buffer
	if err := writeJSON(&out, node); err != nil {
		return "", err
	}

	return out.String(), nil
}

// writeJSON writes node as compact JSON.
func writeJSON(out *bytes.Buffer, node Node) error {
	switch node.kind {
	case KindScalar:
		if node.scalarType == ScalarString {
			return writeJSONString(out, node.text)
		}

		out.WriteString(node.text)

	case KindSequence:
		out.WriteByte('[')
		for index, item := range node.items {
			if index > 0 {
				out.WriteByte(',')
			}

			if err := writeJSON(out, item); err != nil {
				return err
			}
		}
		out.WriteByte(']')

	case KindMapping:
		out.WriteByte('{')
		for index, key := range node.keys {
			if index > 0 {
				out.WriteByte(',')
			}

			if err := writeJSONString(out, key); err != nil {
				return err
			}

			out.WriteByte(':')
			if err := writeJSON(out, node.fields[key]); err != nil {
				return err
			}
		}
		out.WriteByte('}')

	default:
		out.WriteString("null")
	}

	return nil
}

// writeJSONString writes quoted JSON string without HTML escaping.
func writeJSONString(out *bytes.Buffer, value string) error {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return err
	}

	if data := out.Bytes(); len(data) > 0 && data[len(data)-1] == '\n' {
		out.Truncate(len(data) - 1)
	}

	return nil
}
