// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
)

// Kind is the shape of a data node.
type Kind uint8

const (
	// KindAbsent marks a missing key or an explicit null.
	KindAbsent Kind = iota
	// KindScalar marks a string, number or boolean.
	KindScalar
	// KindSequence marks an ordered list of nodes.
	KindSequence
	// KindMapping marks a string-keyed map of nodes.
	KindMapping
)

// String returns lower-case kind name.
func (kind Kind) String() string {
	switch kind {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(kind)) + ")"
	}
}

// ScalarType distinguishes scalar flavors for text form encoding.
type ScalarType uint8

const (
	// ScalarString is a plain text scalar.
	ScalarString ScalarType = iota
	// ScalarNumber is a numeric literal kept as written in source.
	ScalarNumber
	// ScalarBool is a boolean rendered as true or false.
	ScalarBool
)

// Node is one immutable value of the data tree being rendered.
// The zero value is an absent node.
type Node struct {
	fields     map[string]Node
	text       string
	items      []Node
	keys       []string
	kind       Kind
	scalarType ScalarType
}

// Field is one key/value pair used to build mapping nodes.
type Field struct {
	Key   string
	Value Node
}

// Absent returns an absent node.
func Absent() Node {
	return Node{}
}

// String returns a string scalar node.
func String(value string) Node {
	return Node{kind: KindScalar, scalarType: ScalarString, text: value}
}

// Number returns a numeric scalar node holding literal as its text form.
func Number(literal string) Node {
	return Node{kind: KindScalar, scalarType: ScalarNumber, text: literal}
}

// Bool returns a boolean scalar node.
func Bool(value bool) Node {
	return Node{kind: KindScalar, scalarType: ScalarBool, text: strconv.FormatBool(value)}
}

// Sequence returns a sequence node with copied items.
func Sequence(items ...Node) Node {
	return Node{kind: KindSequence, items: slices.Clone(items)}
}

// Mapping returns a mapping node preserving field order.
// Repeated keys keep first position and last value.
func Mapping(fields ...Field) Node {
	node := Node{
		kind:   KindMapping,
		keys:   make([]string, 0, len(fields)),
		fields: make(map[string]Node, len(fields)),
	}

	for _, field := range fields {
		if _, ok := node.fields[field.Key]; !ok {
			node.keys = append(node.keys, field.Key)
		}

		node.fields[field.Key] = field.Value
	}

	return node
}

// Kind returns node shape.
func (node Node) Kind() Kind {
	return node.kind
}

// ScalarType returns scalar flavor; meaningful only for scalar nodes.
func (node Node) ScalarType() ScalarType {
	return node.scalarType
}

// Text returns scalar text form, or empty string for non-scalar nodes.
func (node Node) Text() string {
	if node.kind != KindScalar {
		return ""
	}

	return node.text
}

// Len returns item count for sequences and field count for mappings.
func (node Node) Len() int {
	switch node.kind {
	case KindSequence:
		return len(node.items)
	case KindMapping:
		return len(node.keys)
	default:
		return 0
	}
}

// Items returns a copy of sequence items.
func (node Node) Items() []Node {
	return slices.Clone(node.items)
}

// Keys returns a copy of mapping keys in source order.
func (node Node) Keys() []string {
	return slices.Clone(node.keys)
}

// Get returns mapping value for key. Missing keys and non-mapping nodes
// yield an absent node and false.
func (node Node) Get(key string) (Node, bool) {
	if node.kind != KindMapping {
		return Node{}, false
	}

	value, ok := node.fields[key]
	return value, ok
}

// MarshalJSON encodes node as compact JSON preserving mapping key order.
func (node Node) MarshalJSON() ([]byte, error) {
	text, err := textForm(node)
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

// isStructured reports whether node is a sequence or mapping.
func (node Node) isStructured() bool {
	return node.kind == KindSequence || node.kind == KindMapping
}

// isEmptySequence reports whether node is a sequence without items.
func (node Node) isEmptySequence() bool {
	return node.kind == KindSequence && len(node.items) == 0
}

// isNone reports whether node is absent or the literal "None" sentinel string.
func (node Node) isNone() bool {
	if node.kind == KindAbsent {
		return true
	}

	return node.kind == KindScalar && node.scalarType == ScalarString && node.text == "None"
}

// NodeFromValue converts JSON-like Go value into a node tree.
// Map keys are sorted since Go maps carry no order.
func NodeFromValue(value any) (Node, error) {
	switch typed := value.(type) {
	case nil:
		return Absent(), nil

	case Node:
		return typed, nil

	case bool:
		return Bool(typed), nil

	case string:
		return String(typed), nil

	case json.Number:
		return Number(typed.String()), nil

	case int:
		return Number(strconv.Itoa(typed)), nil

	case int8:
		return Number(strconv.FormatInt(int64(typed), 10)), nil

	case int16:
		return Number(strconv.FormatInt(int64(typed), 10)), nil

	case int32:
		return Number(strconv.FormatInt(int64(typed), 10)), nil

	case int64:
		return Number(strconv.FormatInt(typed, 10)), nil

	case uint:
		return Number(strconv.FormatUint(uint64(typed), 10)), nil

	case uint8:
		return Number(strconv.FormatUint(uint64(typed), 10)), nil

	case uint16:
		return Number(strconv.FormatUint(uint64(typed), 10)), nil

	case uint32:
		return Number(strconv.FormatUint(uint64(typed), 10)), nil

	case uint64:
		return Number(strconv.FormatUint(typed, 10)), nil

	case float32:
		return numberFromFloat(float64(typed), 32)

	case float64:
		return numberFromFloat(typed, 64)

	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}

		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, key := range keys {
			child, err := NodeFromValue(typed[key])
			if err != nil {
				return Node{}, fmt.Errorf("key %q: %w", key, err)
			}

			fields = append(fields, Field{Key: key, Value: child})
		}

		return Mapping(fields...), nil

	case []any:
		items := make([]Node, 0, len(typed))
		for index, item := range typed {
			child, err := NodeFromValue(item)
			if err != nil {
				return Node{}, fmt.Errorf("item %d: %w", index, err)
			}

			items = append(items, child)
		}

		return Node{kind: KindSequence, items: items}, nil

	default:
		return Node{}, fmt.Errorf("%w %T", ErrUnsupportedValue, value)
	}
}

// numberFromFloat formats float the way JSON encoders do.
func numberFromFloat(value float64, bits int) (Node, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Node{}, fmt.Errorf("%w: non-finite number %v", ErrUnsupportedValue, value)
	}

	return Number(formatFloat(value, bits)), nil
}

// formatFloat uses plain notation except for very small or very large magnitudes.
func formatFloat(value float64, bits int) string {
	format := byte('f')
	if abs := math.Abs(value); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	return strconv.FormatFloat(value, format, -1, bits)
}
