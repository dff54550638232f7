// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"strings"
)

// GenerateRules derives a starting rule list from sample data.
//
// Scalar keys become bare rules, mapping keys become headings with children,
// keys holding sequences of mappings become headings with bulleted children,
// other non-empty sequences become headings only. Keys of sibling mappings
// are merged in first-seen order.
func GenerateRules(data Node) (RuleList, error) {
	switch data.kind {
	case KindMapping:
		return scaffoldMappings([]Node{data}), nil

	case KindSequence:
		mappings, ok := collectMappings(data.items)
		if !ok || len(mappings) == 0 {
			return nil, ErrScaffoldRoot
		}

		return append(RuleList{{IsList: Opt(true)}}, scaffoldMappings(mappings)...), nil

	default:
		return nil, ErrScaffoldRoot
	}
}

// GenerateRulesYAML derives a starting rule schema and encodes it as YAML.
// Nested rules carry a head comment with their data path.
func GenerateRulesYAML(data Node) ([]byte, error) {
	rules, err := GenerateRules(data)
	if err != nil {
		return nil, err
	}

	return marshalRulesYAMLNode(rulesYAMLNode(rules, scaffoldComment))
}

// scaffoldComment names data path of nested or structured keyed rules.
func scaffoldComment(path []string, rule Rule) string {
	if rule.Key == nil {
		return ""
	}

	if len(path) == 0 && !rule.hasChildren() {
		return ""
	}

	return strings.Join(append(append([]string(nil), path...), *rule.Key), ".")
}

// collectMappings returns mapping items; absent items are skipped, other kinds fail.
func collectMappings(items []Node) ([]Node, bool) {
	mappings := make([]Node, 0, len(items))
	for _, item := range items {
		switch item.kind {
		case KindMapping:
			mappings = append(mappings, item)
		case KindAbsent:
			continue
		default:
			return nil, false
		}
	}

	return mappings, true
}

// scaffoldMappings merges keys of all mappings into one rule list.
func scaffoldMappings(mappings []Node) RuleList {
	keys := make([]string, 0)
	values := make(map[string][]Node)
	for _, mapping := range mappings {
		for _, key := range mapping.keys {
			if _, seen := values[key]; !seen {
				keys = append(keys, key)
			}

			values[key] = append(values[key], mapping.fields[key])
		}
	}

	rules := make(RuleList, 0, len(keys))
	for _, key := range keys {
		rules = append(rules, scaffoldRule(key, values[key]))
	}

	return rules
}

// scaffoldRule picks rule shape from every sample value seen for key.
func scaffoldRule(key string, values []Node) Rule {
	var nested, listed []Node
	hasItems := false
	for _, value := range values {
		switch value.kind {
		case KindMapping:
			nested = append(nested, value)
		case KindSequence:
			hasItems = hasItems || len(value.items) > 0
			for _, item := range value.items {
				if item.kind == KindMapping {
					listed = append(listed, item)
				}
			}
		}
	}

	rule := Rule{Key: Opt(key)}
	switch {
	case len(nested) > 0:
		rule.Header = Opt(true)
		rule.Children = scaffoldMappings(nested)
		rule.HasChildren = true
	case len(listed) > 0:
		rule.Header = Opt(true)
		rule.Children = append(RuleList{{IsList: Opt(true)}}, scaffoldMappings(listed)...)
		rule.HasChildren = true
	case hasItems:
		rule.Header = Opt(true)
	}

	return rule
}
