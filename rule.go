// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

// Rule is one declarative rendering instruction.
// Nil pointer fields are absent; a rule without Key is keyless.
type Rule struct {
	// Key selects a child of the current mapping node.
	Key *string
	// AddLevel shifts heading level for this rule and its children.
	AddLevel *int
	// Header renders scalar value (or key name for structured value) as heading.
	Header *bool
	// Prepend is emitted before the value.
	Prepend *string
	// Append replaces trailing line breaks of the last fragment.
	Append *string
	// Insert is emitted after the value and before children.
	Insert *string
	// Separator is emitted after the rule output.
	Separator *Separator
	// Newlines is the count of line breaks emitted last.
	Newlines *int
	// PrintKey emits "key: " before non-heading value.
	PrintKey *bool
	// Enumerate prefixes sequence items with ordinal when set on any rule of the list.
	Enumerate *bool
	// IsList prefixes sequence items with bullet when set on any rule of the list.
	IsList *bool

	// Children is nested rule list applied to the selected value.
	Children RuleList
	// HasChildren marks children as present even when the list is empty.
	HasChildren bool

	// Extra lists unrecognized schema field names.
	Extra []string
}

// Separator is a horizontal rule (schema value true) or literal text.
type Separator struct {
	Text           string
	HorizontalRule bool
}

// RuleList is an ordered rule sequence applied to one node.
type RuleList []Rule

// Opt returns pointer to value, for building rules in code.
func Opt[T any](value T) *T {
	return &value
}

// HasEnumerate reports whether any rule in list sets enumerate.
func (rules RuleList) HasEnumerate() bool {
	for _, rule := range rules {
		if isSet(rule.Enumerate) {
			return true
		}
	}

	return false
}

// HasIsList reports whether any rule in list sets islist.
func (rules RuleList) HasIsList() bool {
	for _, rule := range rules {
		if isSet(rule.IsList) {
			return true
		}
	}

	return false
}

// keyed reports whether rule selects a mapping key.
func (rule Rule) keyed() bool {
	return rule.Key != nil
}

// hasChildren reports whether nested rule list is present.
func (rule Rule) hasChildren() bool {
	return rule.HasChildren || len(rule.Children) > 0
}

// bare reports whether rule carries key and nothing else.
func (rule Rule) bare() bool {
	return rule.Key != nil &&
		rule.AddLevel == nil &&
		rule.Header == nil &&
		rule.Prepend == nil &&
		rule.Append == nil &&
		rule.Insert == nil &&
		rule.Separator == nil &&
		rule.Newlines == nil &&
		rule.PrintKey == nil &&
		rule.Enumerate == nil &&
		rule.IsList == nil &&
		!rule.hasChildren() &&
		len(rule.Extra) == 0
}

// isSet reports whether optional flag is present and true.
func isSet(value *bool) bool {
	return value != nil && *value
}

// intOrZero returns optional integer value or zero.
func intOrZero(value *int) int {
	if value == nil {
		return 0
	}

	return *value
}
