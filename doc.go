// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

/*
Package fractalmd renders tree-shaped data into Markdown by following a
declarative rule schema.

A schema is an ordered YAML (or JSON) sequence of rules. Each rule names a key
to select from the current mapping and tells how to format its value; a rule
with children recurses into the selected value with its own rule list. The same
engine renders any data shape given a matching schema.

Rule fields:

	key        key to select from current mapping (keyless rules emit structure only)
	addlevel   heading level delta for this rule and its children
	header     render scalar value, or key name of structured value, as heading
	prepend    text emitted before value
	insert     text emitted after value, before children
	append     text emitted last; trailing line breaks of previous fragment are removed
	children   nested rule list applied to selected value
	separator  true for horizontal rule, or literal text
	newlines   count of line breaks emitted at the end
	printkey   emit "key: " before value
	enumerate  number items when this rule list is applied to a sequence
	islist     bullet items when this rule list is applied to a sequence

Render a document from data and schema files:

	md, err := fractalmd.RenderFile("brownies.json", "recipe.yaml", fractalmd.Options{})
	if err != nil {
		return err
	}

	fmt.Print(md)

Render decoded data with inline schema:

	data, err := fractalmd.DecodeJSON(strings.NewReader(`{"title":"Brownies"}`))
	if err != nil {
		return err
	}

	md, err := fractalmd.RenderDocument(data, []byte("- key: title\n  header: true\n"), fractalmd.Options{})
	if err != nil {
		return err
	}

Work with fragments directly:

	rules, err := fractalmd.LoadRules(schemaText)
	if err != nil {
		return err
	}

	parts, err := fractalmd.Render(data, rules, fractalmd.Options{Level: 2})
	if err != nil {
		return err
	}

	fmt.Print(fractalmd.Join(parts))

Use built-in schemas:

	names := fractalmd.BuiltinSchemaNames()
	fmt.Println(strings.Join(names, ", "))

	schemaText, err := fractalmd.BuiltinSchema("recipe")
	if err != nil {
		return err
	}

Generate a starting schema from sample data:

	schemaYAML, err := fractalmd.GenerateRulesYAML(data)
	if err != nil {
		return err
	}

	fmt.Print(string(schemaYAML))
*/
package fractalmd
