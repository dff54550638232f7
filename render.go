// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"log/slog"
)

// defaultLevel is heading level used when caller does not provide one.
const defaultLevel = 1

// Options configures one render call. The zero value renders from level one
// and skips null values, empty sequences and structured values reached by
// rules without children.
type Options struct {
	// Logger receives skip decisions at debug level and rule diagnostics at
	// warning level. Nil uses slog.Default().
	Logger *slog.Logger
	// Level is the starting heading level; values below one mean one.
	Level int
	// KeepNone renders absent and "None" values instead of skipping their rules.
	KeepNone bool
	// KeepEmptySequences renders empty sequences as "[]".
	KeepEmptySequences bool
	// KeepNonScalarValues renders structured values without children as inline JSON.
	KeepNonScalarValues bool
	// StripHTML removes markup from scalar values before formatting.
	StripHTML bool
}

// RenderFile reads data and schema files and renders markdown document.
func RenderFile(dataPath, schemaPath string, opt Options) (string, error) {
	data, err := LoadDataFile(dataPath)
	if err != nil {
		return "", err
	}

	rules, err := LoadRulesFile(schemaPath)
	if err != nil {
		return "", err
	}

	parts, err := Render(data, rules, opt)
	if err != nil {
		return "", err
	}

	return Join(parts), nil
}

// RenderDocument decodes schema text, renders data and joins fragments.
func RenderDocument(data Node, schemaText []byte, opt Options) (string, error) {
	rules, err := LoadRules(schemaText)
	if err != nil {
		return "", err
	}

	parts, err := Render(data, rules, opt)
	if err != nil {
		return "", err
	}

	return Join(parts), nil
}

// Render walks data node with rule list and returns ordered markdown fragments.
func Render(data Node, rules RuleList, opt Options) ([]string, error) {
	parts, err := renderNode(data, rules, newRenderContext(opt))
	if err != nil {
		return nil, err
	}

	if parts == nil {
		parts = []string{}
	}

	return parts, nil
}

// normalizeLevel validates heading level and falls back to default.
func normalizeLevel(level int) int {
	if level < 1 {
		return defaultLevel
	}

	return level
}
