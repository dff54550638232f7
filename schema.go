// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule field names as written in schema documents, matched case-insensitively.
const (
	fieldKey       = "key"
	fieldAddLevel  = "addlevel"
	fieldHeader    = "header"
	fieldPrepend   = "prepend"
	fieldAppend    = "append"
	fieldInsert    = "insert"
	fieldChildren  = "children"
	fieldSeparator = "separator"
	fieldNewlines  = "newlines"
	fieldPrintKey  = "printkey"
	fieldEnumerate = "enumerate"
	fieldIsList    = "islist"
)

// LoadRulesFile reads schema from file and decodes rule list.
func LoadRulesFile(path string) (RuleList, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSchemaFile, err)
	}

	return LoadRules(text)
}

// LoadRules decodes YAML (or JSON) schema text into rule list.
func LoadRules(text []byte) (RuleList, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(text, &document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	root := resolveYAMLAlias(yamlDocumentRoot(&document))
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrSchemaRootType)
	}

	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: line %d: got %s", ErrSchemaRootType, root.Line, yamlKindName(root))
	}

	return decodeRuleList(root, yamlPath{})
}

// RulesFromValue converts generically decoded schema ([]any of map[string]any) into rule list.
func RulesFromValue(value any) (RuleList, error) {
	if _, ok := value.([]any); !ok {
		return nil, fmt.Errorf("%w: got %T", ErrRuleListType, value)
	}

	var encoded yaml.Node
	if err := encoded.Encode(value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	return decodeRuleList(&encoded, yamlPath{})
}

// decodeRuleList decodes every item of a sequence node.
func decodeRuleList(source *yaml.Node, path yamlPath) (RuleList, error) {
	source, err := path.enter(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuleListType, err)
	}
	defer path.leave(source)

	if source.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: line %d: got %s", ErrRuleListType, source.Line, yamlKindName(source))
	}

	rules := make(RuleList, 0, len(source.Content))
	for _, item := range source.Content {
		rule, err := decodeRule(item, path)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

// decodeRule decodes one mapping node into rule.
func decodeRule(source *yaml.Node, path yamlPath) (Rule, error) {
	source, err := path.enter(source)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %w", ErrRuleListType, err)
	}
	defer path.leave(source)

	if source.Kind != yaml.MappingNode {
		return Rule{}, fmt.Errorf("%w: line %d: got %s", ErrRuleType, source.Line, yamlKindName(source))
	}

	var rule Rule
	for index := 0; index+1 < len(source.Content); index += 2 {
		nameNode := source.Content[index]
		valueNode := resolveYAMLAlias(source.Content[index+1])

		var err error
		switch strings.ToLower(strings.TrimSpace(nameNode.Value)) {
		case fieldKey:
			rule.Key, err = decodeKeyField(valueNode)
		case fieldAddLevel:
			rule.AddLevel, err = decodeIntField(fieldAddLevel, valueNode)
		case fieldHeader:
			rule.Header, err = decodeBoolField(fieldHeader, valueNode)
		case fieldPrepend:
			rule.Prepend, err = decodeTextField(fieldPrepend, valueNode)
		case fieldAppend:
			rule.Append, err = decodeTextField(fieldAppend, valueNode)
		case fieldInsert:
			rule.Insert, err = decodeTextField(fieldInsert, valueNode)
		case fieldChildren:
			rule.Children, err = decodeRuleList(source.Content[index+1], path)
			rule.HasChildren = err == nil
		case fieldSeparator:
			rule.Separator, err = decodeSeparatorField(valueNode)
		case fieldNewlines:
			rule.Newlines, err = decodeIntField(fieldNewlines, valueNode)
		case fieldPrintKey:
			rule.PrintKey, err = decodeBoolField(fieldPrintKey, valueNode)
		case fieldEnumerate:
			rule.Enumerate, err = decodeBoolField(fieldEnumerate, valueNode)
		case fieldIsList:
			rule.IsList, err = decodeBoolField(fieldIsList, valueNode)
		default:
			rule.Extra = append(rule.Extra, nameNode.Value)
		}

		if err != nil {
			return Rule{}, err
		}
	}

	return rule, nil
}

// decodeKeyField accepts any non-null scalar as key text.
func decodeKeyField(source *yaml.Node) (*string, error) {
	if source.Kind != yaml.ScalarNode || source.ShortTag() == "!!null" {
		return nil, fieldError(fieldKey, "scalar", source)
	}

	return Opt(source.Value), nil
}

// decodeTextField accepts any scalar; null becomes empty text.
func decodeTextField(name string, source *yaml.Node) (*string, error) {
	if source.Kind != yaml.ScalarNode {
		return nil, fieldError(name, "scalar", source)
	}

	if source.ShortTag() == "!!null" {
		return Opt(""), nil
	}

	return Opt(source.Value), nil
}

// decodeIntField accepts integer scalars.
func decodeIntField(name string, source *yaml.Node) (*int, error) {
	if source.Kind != yaml.ScalarNode || source.ShortTag() != "!!int" {
		return nil, fieldError(name, "integer", source)
	}

	var value int
	if err := source.Decode(&value); err != nil {
		return nil, fieldError(name, "integer", source)
	}

	return &value, nil
}

// decodeBoolField accepts boolean scalars.
func decodeBoolField(name string, source *yaml.Node) (*bool, error) {
	if source.Kind != yaml.ScalarNode || source.ShortTag() != "!!bool" {
		return nil, fieldError(name, "boolean", source)
	}

	var value bool
	if err := source.Decode(&value); err != nil {
		return nil, fieldError(name, "boolean", source)
	}

	return &value, nil
}

// decodeSeparatorField accepts boolean or text separator.
func decodeSeparatorField(source *yaml.Node) (*Separator, error) {
	if source.Kind != yaml.ScalarNode {
		return nil, fieldError(fieldSeparator, "boolean or scalar", source)
	}

	switch source.ShortTag() {
	case "!!bool":
		flag, err := decodeBoolField(fieldSeparator, source)
		if err != nil {
			return nil, err
		}

		return &Separator{HorizontalRule: *flag}, nil
	case "!!null":
		return &Separator{}, nil
	default:
		return &Separator{Text: source.Value}, nil
	}
}

// fieldError builds line-aware rule field error.
func fieldError(name, want string, source *yaml.Node) error {
	return fmt.Errorf("%w: line %d: %s must be %s, got %s", ErrRuleField, source.Line, name, want, yamlKindName(source))
}

// yamlKindName describes yaml node for error messages.
func yamlKindName(source *yaml.Node) string {
	if source == nil {
		return "nothing"
	}

	switch source.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar " + source.ShortTag()
	case yaml.AliasNode:
		return "alias"
	default:
		return "kind " + strconv.Itoa(int(source.Kind))
	}
}

// EncodeRules serializes rule list as YAML schema text.
func EncodeRules(rules RuleList) ([]byte, error) {
	return marshalRulesYAMLNode(rulesYAMLNode(rules, nil))
}

// ruleComment returns optional head comment for a keyed rule; path is key chain from root.
type ruleComment func(path []string, rule Rule) string

// rulesYAMLNode builds sequence node for rule list with optional per-rule comments.
func rulesYAMLNode(rules RuleList, comment ruleComment) *yaml.Node {
	return rulesYAMLNodeAt(rules, nil, comment)
}

// rulesYAMLNodeAt builds sequence node for rules nested under path.
func rulesYAMLNodeAt(rules RuleList, path []string, comment ruleComment) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, rule := range rules {
		node.Content = append(node.Content, ruleYAMLNode(rule, path, comment))
	}

	return node
}

// ruleYAMLNode builds mapping node for one rule in stable field order.
func ruleYAMLNode(rule Rule, path []string, comment ruleComment) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(name string, value *yaml.Node) {
		node.Content = append(node.Content, yamlScalarNode("!!str", name), value)
	}

	if rule.Key != nil {
		add(fieldKey, yamlScalarNode("!!str", *rule.Key))
	}
	if rule.AddLevel != nil {
		add(fieldAddLevel, yamlScalarNode("!!int", strconv.Itoa(*rule.AddLevel)))
	}
	if rule.Header != nil {
		add(fieldHeader, yamlScalarNode("!!bool", strconv.FormatBool(*rule.Header)))
	}
	if rule.PrintKey != nil {
		add(fieldPrintKey, yamlScalarNode("!!bool", strconv.FormatBool(*rule.PrintKey)))
	}
	if rule.Enumerate != nil {
		add(fieldEnumerate, yamlScalarNode("!!bool", strconv.FormatBool(*rule.Enumerate)))
	}
	if rule.IsList != nil {
		add(fieldIsList, yamlScalarNode("!!bool", strconv.FormatBool(*rule.IsList)))
	}
	if rule.Prepend != nil {
		add(fieldPrepend, yamlScalarNode("!!str", *rule.Prepend))
	}
	if rule.Insert != nil {
		add(fieldInsert, yamlScalarNode("!!str", *rule.Insert))
	}
	if rule.Append != nil {
		add(fieldAppend, yamlScalarNode("!!str", *rule.Append))
	}
	if rule.hasChildren() {
		childPath := path
		if rule.Key != nil {
			childPath = append(append([]string(nil), path...), *rule.Key)
			if rule.Children.HasEnumerate() || rule.Children.HasIsList() {
				childPath[len(childPath)-1] += "[]"
			}
		}

		add(fieldChildren, rulesYAMLNodeAt(rule.Children, childPath, comment))
	}
	if rule.Separator != nil {
		if rule.Separator.HorizontalRule || rule.Separator.Text == "" {
			add(fieldSeparator, yamlScalarNode("!!bool", strconv.FormatBool(rule.Separator.HorizontalRule)))
		} else {
			add(fieldSeparator, yamlScalarNode("!!str", rule.Separator.Text))
		}
	}
	if rule.Newlines != nil {
		add(fieldNewlines, yamlScalarNode("!!int", strconv.Itoa(*rule.Newlines)))
	}

	if comment != nil {
		node.HeadComment = comment(path, rule)
	}

	return node
}

// marshalRulesYAMLNode serializes rule sequence node as YAML document.
func marshalRulesYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeRulesYAML, err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeRulesYAML, err)
	}

	return out.Bytes(), nil
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}
