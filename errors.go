// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import "errors"

var (
	// ErrReadSchemaFile is returned when schema file loading fails.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrDecodeSchema is returned when schema text is not valid YAML or JSON.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrSchemaRootType is returned when schema root is not a sequence of rules.
	ErrSchemaRootType = errors.New("schema root must be a sequence of rules")
	// ErrRuleListType is returned when a rule list (root or children) is not a sequence.
	ErrRuleListType = errors.New("rule list must be a sequence")
	// ErrRuleType is returned when a rule list item is not a mapping.
	ErrRuleType = errors.New("rule must be a mapping")
	// ErrRuleField is returned when a rule field holds a value of the wrong type.
	ErrRuleField = errors.New("invalid rule field")
	// ErrMissingFragment is returned when append runs before any fragment was emitted.
	ErrMissingFragment = errors.New("append without preceding fragment")
	// ErrScalarNode is returned when a keyed rule is applied to a scalar node.
	ErrScalarNode = errors.New("keyed rule applied to scalar node")
	// ErrReadDataFile is returned when data file loading fails.
	ErrReadDataFile = errors.New("read data file")
	// ErrDecodeData is returned when data document decoding fails.
	ErrDecodeData = errors.New("decode data")
	// ErrUnsupportedValue is returned when a Go value has no node representation.
	ErrUnsupportedValue = errors.New("unsupported value type")
	// ErrUnknownBuiltinSchema is returned when requested built-in schema name is not registered.
	ErrUnknownBuiltinSchema = errors.New("unknown built-in schema")
	// ErrReadBuiltinSchema is returned when built-in schema file loading fails.
	ErrReadBuiltinSchema = errors.New("read built-in schema")
	// ErrScaffoldRoot is returned when scaffold input is not a mapping or a sequence of mappings.
	ErrScaffoldRoot = errors.New("scaffold root must be mapping or sequence of mappings")
	// ErrEncodeRulesYAML is returned when generated rule schema YAML encoding fails.
	ErrEncodeRulesYAML = errors.New("encode rules yaml")
)
