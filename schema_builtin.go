// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

const schemaRecipeName = "recipe"

// schemaFS stores built-in rule schemas embedded into the package.
//
//go:embed schemas/*.yaml
var schemaFS embed.FS

// builtInSchemaFiles maps schema aliases to embedded file paths.
var builtInSchemaFiles = map[string]string{
	schemaRecipeName: "schemas/recipe.yaml",
}

// BuiltinSchemaNames returns all available built-in schema names.
func BuiltinSchemaNames() []string {
	names := make([]string, 0, len(builtInSchemaFiles))
	for name := range builtInSchemaFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinSchema returns one built-in schema text by name.
func BuiltinSchema(name string) (string, error) {
	name = normalizeSchemaName(name)
	path, ok := builtInSchemaFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinSchema, name)
	}

	data, err := schemaFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinSchema, err)
	}

	return string(data), nil
}

// BuiltinRules returns decoded rule list of one built-in schema.
func BuiltinRules(name string) (RuleList, error) {
	text, err := BuiltinSchema(name)
	if err != nil {
		return nil, err
	}

	return LoadRules([]byte(text))
}

// normalizeSchemaName normalizes built-in schema identifiers.
func normalizeSchemaName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
