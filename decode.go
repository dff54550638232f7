// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fractalmd

package fractalmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	// DataFormatJSON selects JSON data decoding.
	DataFormatJSON DataFormat = "json"
	// DataFormatYAML selects YAML data decoding.
	DataFormatYAML DataFormat = "yaml"
)

// DataFormat names an input data document encoding.
type DataFormat string

// DataFormatForPath guesses data format from file extension; JSON is the fallback.
func DataFormatForPath(path string) DataFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DataFormatYAML
	default:
		return DataFormatJSON
	}
}

// LoadDataFile reads and decodes data document selecting format by extension.
func LoadDataFile(path string) (Node, error) {
	return LoadDataFileFormat(path, "")
}

// LoadDataFileFormat reads and decodes data document in format; empty format
// is picked by extension.
func LoadDataFileFormat(path string, format DataFormat) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %w", ErrReadDataFile, err)
	}

	if strings.TrimSpace(string(format)) == "" {
		format = DataFormatForPath(path)
	}

	return DecodeData(data, format)
}

// DecodeData decodes data document bytes in selected format.
func DecodeData(data []byte, format DataFormat) (Node, error) {
	switch DataFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case DataFormatYAML:
		return DecodeYAML(data)
	case DataFormatJSON, "":
		return DecodeJSON(bytes.NewReader(data))
	default:
		return Node{}, fmt.Errorf("%w: unknown data format %q", ErrDecodeData, format)
	}
}

// DecodeJSON decodes one JSON document keeping object key order and number literals.
func DecodeJSON(r io.Reader) (Node, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	node, err := decodeJSONValue(decoder)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %w", ErrDecodeData, err)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}

		return Node{}, fmt.Errorf("%w: %w", ErrDecodeData, err)
	}

	return node, nil
}

// decodeJSONValue reads next complete value from token stream.
func decodeJSONValue(decoder *json.Decoder) (Node, error) {
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Node{}, io.ErrUnexpectedEOF
		}

		return Node{}, err
	}

	switch value := token.(type) {
	case json.Delim:
		switch value {
		case '{':
			return decodeJSONObject(decoder)
		case '[':
			return decodeJSONArray(decoder)
		default:
			return Node{}, fmt.Errorf("unexpected delimiter %q", rune(value))
		}
	case string:
		return String(value), nil
	case json.Number:
		// literal may alias decoder buffer
		return Number(strings.Clone(string(value))), nil
	case float64:
		return Number(formatFloat(value, 64)), nil
	case bool:
		return Bool(value), nil
	case nil:
		return Absent(), nil
	default:
		return Node{}, fmt.Errorf("unexpected token %T", token)
	}
}

// decodeJSONObject reads object members up to the closing brace.
func decodeJSONObject(decoder *json.Decoder) (Node, error) {
	fields := make([]Field, 0, 4)
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return Node{}, err
		}

		key, ok := token.(string)
		if !ok {
			return Node{}, fmt.Errorf("object key must be string, got %T", token)
		}

		value, err := decodeJSONValue(decoder)
		if err != nil {
			return Node{}, fmt.Errorf("key %q: %w", key, err)
		}

		fields = append(fields, Field{Key: key, Value: value})
	}

	if _, err := decoder.Token(); err != nil {
		return Node{}, err
	}

	return Mapping(fields...), nil
}

// decodeJSONArray reads array items up to the closing bracket.
func decodeJSONArray(decoder *json.Decoder) (Node, error) {
	items := make([]Node, 0, 4)
	for decoder.More() {
		item, err := decodeJSONValue(decoder)
		if err != nil {
			return Node{}, fmt.Errorf("item %d: %w", len(items), err)
		}

		items = append(items, item)
	}

	if _, err := decoder.Token(); err != nil {
		return Node{}, err
	}

	return Node{kind: KindSequence, items: items}, nil
}

// DecodeYAML decodes one YAML document keeping mapping key order.
func DecodeYAML(data []byte) (Node, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return Node{}, fmt.Errorf("%w: %w", ErrDecodeData, err)
	}

	root := yamlDocumentRoot(&document)
	if root == nil {
		return Node{}, fmt.Errorf("%w: empty document", ErrDecodeData)
	}

	node, err := nodeFromYAML(root, yamlPath{})
	if err != nil {
		return Node{}, fmt.Errorf("%w: %w", ErrDecodeData, err)
	}

	return node, nil
}

// nodeFromYAML converts one yaml.Node subtree; aliases back into an enclosing node fail.
func nodeFromYAML(source *yaml.Node, path yamlPath) (Node, error) {
	source, err := path.enter(source)
	if err != nil {
		return Node{}, err
	}
	defer path.leave(source)

	switch source.Kind {
	case yaml.ScalarNode:
		switch source.ShortTag() {
		case "!!null":
			return Absent(), nil
		case "!!bool":
			var value bool
			if err := source.Decode(&value); err != nil {
				return Node{}, fmt.Errorf("line %d: %w", source.Line, err)
			}

			return Bool(value), nil
		case "!!int", "!!float":
			return Number(source.Value), nil
		default:
			return String(source.Value), nil
		}

	case yaml.SequenceNode:
		items := make([]Node, 0, len(source.Content))
		for _, child := range source.Content {
			item, err := nodeFromYAML(child, path)
			if err != nil {
				return Node{}, err
			}

			items = append(items, item)
		}

		return Node{kind: KindSequence, items: items}, nil

	case yaml.MappingNode:
		fields := make([]Field, 0, len(source.Content)/2)
		for index := 0; index+1 < len(source.Content); index += 2 {
			keyNode := resolveYAMLAlias(source.Content[index])
			if keyNode.Kind != yaml.ScalarNode {
				return Node{}, fmt.Errorf("line %d: mapping key must be scalar", keyNode.Line)
			}

			value, err := nodeFromYAML(source.Content[index+1], path)
			if err != nil {
				return Node{}, err
			}

			fields = append(fields, Field{Key: keyNode.Value, Value: value})
		}

		return Mapping(fields...), nil

	default:
		return Node{}, fmt.Errorf("line %d: unsupported yaml node kind %s", source.Line, strconv.Itoa(int(source.Kind)))
	}
}

// yamlDocumentRoot unwraps document node; returns nil for empty input.
func yamlDocumentRoot(document *yaml.Node) *yaml.Node {
	if document.Kind == yaml.DocumentNode {
		if len(document.Content) == 0 {
			return nil
		}

		return document.Content[0]
	}

	if document.Kind == 0 {
		return nil
	}

	return document
}

// yamlPath holds nodes on the current walk path from the document root.
type yamlPath map[*yaml.Node]bool

// enter resolves aliases and marks the target as being walked. An alias that
// points at a node already on the path would recurse forever and is rejected.
func (path yamlPath) enter(source *yaml.Node) (*yaml.Node, error) {
	target := resolveYAMLAlias(source)
	if path[target] {
		return nil, fmt.Errorf("line %d: alias cycle", source.Line)
	}

	path[target] = true
	return target, nil
}

// leave unmarks node after its subtree is walked.
func (path yamlPath) leave(node *yaml.Node) {
	delete(path, node)
}

// resolveYAMLAlias follows alias chain to the anchored node.
func resolveYAMLAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}
