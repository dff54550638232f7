// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// renderContext is threaded through recursion; only level changes between calls.
type renderContext struct {
	logger               *slog.Logger
	level                int
	ignoreNone           bool
	ignoreEmptySequence  bool
	ignoreNonScalarValue bool
	stripHTML            bool
}

// newRenderContext builds initial context from caller options.
func newRenderContext(opt Options) renderContext {
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return renderContext{
		logger:               logger,
		level:                normalizeLevel(opt.Level),
		ignoreNone:           !opt.KeepNone,
		ignoreEmptySequence:  !opt.KeepEmptySequences,
		ignoreNonScalarValue: !opt.KeepNonScalarValues,
		stripHTML:            opt.StripHTML,
	}
}

// withLevel returns copy of context at another heading level.
func (ctx renderContext) withLevel(level int) renderContext {
	ctx.level = level
	return ctx
}

// scalarText returns display text of scalar value.
func (ctx renderContext) scalarText(value Node) string {
	if ctx.stripHTML && value.scalarType == ScalarString {
		return stripHTML(value.text)
	}

	return value.text
}

// renderNode dispatches on node shape.
func renderNode(node Node, rules RuleList, ctx renderContext) ([]string, error) {
	switch node.kind {
	case KindAbsent:
		return nil, nil
	case KindSequence:
		return renderSequence(node, rules, ctx)
	default:
		return renderRules(node, rules, ctx)
	}
}

// renderSequence applies the same rule list to every item at the same level.
// An ordinal or bullet is emitted before each item even when the item renders
// nothing; the line break after the item is emitted only when it produced output.
func renderSequence(node Node, rules RuleList, ctx renderContext) ([]string, error) {
	hasEnumerate := rules.HasEnumerate()
	hasIsList := rules.HasIsList()

	var parts []string
	for index, item := range node.items {
		switch {
		case hasEnumerate:
			parts = append(parts, strconv.Itoa(index+1)+". ")
		case hasIsList:
			parts = append(parts, "- ")
		}

		itemParts, err := renderNode(item, rules, ctx)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", index, err)
		}

		if len(itemParts) == 0 {
			continue
		}

		parts = append(parts, itemParts...)
		if hasEnumerate || hasIsList {
			parts = append(parts, "\n")
		}
	}

	return parts, nil
}

// renderRules evaluates rule list left to right against one mapping or scalar node.
func renderRules(node Node, rules RuleList, ctx renderContext) ([]string, error) {
	listed := rules.HasEnumerate() || rules.HasIsList()

	var parts []string
	for _, rule := range rules {
		if !rule.keyed() {
			parts = renderKeylessRule(parts, rule, listed)
			continue
		}

		var err error
		parts, err = renderKeyedRule(parts, node, rule, ctx, listed)
		if err != nil {
			return nil, err
		}
	}

	return parts, nil
}

// renderKeylessRule emits structural fragments only.
func renderKeylessRule(parts []string, rule Rule, listed bool) []string {
	parts = appendNewlines(parts, rule.Newlines)
	parts = appendSeparator(parts, rule.Separator, listed)
	if rule.Insert != nil {
		parts = append(parts, *rule.Insert)
	}

	return parts
}

// renderKeyedRule looks up rule key in mapping node and emits its fragments.
func renderKeyedRule(parts []string, node Node, rule Rule, ctx renderContext, listed bool) ([]string, error) {
	key := *rule.Key
	if node.kind != KindMapping {
		return nil, fmt.Errorf("%w: key %q", ErrScalarNode, key)
	}

	value, _ := node.Get(key)
	if ctx.ignoreNone && value.isNone() {
		ctx.logger.Debug("skip empty value", "key", key)
		return parts, nil
	}

	level := ctx.level + intOrZero(rule.AddLevel)
	header := isSet(rule.Header)
	if header {
		parts = append(parts, headerGap(level))
	}

	if rule.bare() {
		switch {
		case value.kind == KindScalar:
			return append(parts, ctx.scalarText(value)+" "), nil
		case value.isEmptySequence():
			if ctx.ignoreEmptySequence {
				ctx.logger.Debug("skip empty sequence", "key", key)
				return parts, nil
			}
		case value.isStructured():
			if ctx.ignoreNonScalarValue {
				ctx.logger.Debug("skip structured value", "key", key, "kind", value.kind.String())
				return parts, nil
			}
		}
	}

	if rule.Prepend != nil {
		parts = append(parts, *rule.Prepend)
	}

	var err error
	if header {
		parts, err = appendHeading(parts, key, value, rule, ctx, level)
	} else {
		parts, err = appendValue(parts, key, value, rule, ctx)
	}
	if err != nil {
		return nil, err
	}

	if rule.Insert != nil {
		parts = append(parts, *rule.Insert)
	}

	if rule.hasChildren() {
		childParts, err := renderNode(value, rule.Children, ctx.withLevel(level+1))
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		parts = append(parts, childParts...)
	}

	if rule.Append != nil {
		if len(parts) == 0 {
			return nil, fmt.Errorf("%w: key %q", ErrMissingFragment, key)
		}

		parts[len(parts)-1] = trimTrailingNewlines(parts[len(parts)-1])
		parts = append(parts, *rule.Append)
	}

	parts = appendSeparator(parts, rule.Separator, listed)
	return appendNewlines(parts, rule.Newlines), nil
}

// appendHeading emits heading line; structured values are titled by key name.
func appendHeading(parts []string, key string, value Node, rule Rule, ctx renderContext, level int) ([]string, error) {
	marker := headingMarker(level)
	if value.kind == KindScalar {
		return append(parts, marker+" "+ctx.scalarText(value)+"\n"), nil
	}

	parts = append(parts, marker+" "+key+"\n")
	if ctx.ignoreNonScalarValue || !value.isStructured() || value.isEmptySequence() || rule.hasChildren() {
		return parts, nil
	}

	text, err := textForm(value)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", key, err)
	}

	return append(parts, text+"\n"), nil
}

// appendValue emits non-heading value line.
func appendValue(parts []string, key string, value Node, rule Rule, ctx renderContext) ([]string, error) {
	if isSet(rule.PrintKey) {
		parts = append(parts, key+": ")
	}

	switch {
	case value.kind == KindScalar:
		return append(parts, ctx.scalarText(value)+"\n"), nil

	case value.isEmptySequence() && !ctx.ignoreEmptySequence,
		value.isStructured() && !ctx.ignoreNonScalarValue:
		text, err := textForm(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		return append(parts, text+"\n"), nil

	case !rule.hasChildren():
		ctx.logger.Warn("rule has no applicable formatting",
			"key", key,
			"kind", value.kind.String(),
			"level", ctx.level,
		)
	}

	return parts, nil
}

// appendSeparator emits rule separator; true means horizontal rule, padded
// with a line break unless the rule list renders enumerated or bulleted items.
func appendSeparator(parts []string, separator *Separator, listed bool) []string {
	switch {
	case separator == nil:
		return parts
	case separator.HorizontalRule:
		if !listed {
			parts = append(parts, "\n")
		}

		return append(parts, "---\n")
	case separator.Text != "":
		return append(parts, separator.Text)
	default:
		return parts
	}
}

// appendNewlines emits count line breaks as one fragment.
func appendNewlines(parts []string, count *int) []string {
	if count == nil || *count <= 0 {
		return parts
	}

	return append(parts, strings.Repeat("\n", *count))
}
