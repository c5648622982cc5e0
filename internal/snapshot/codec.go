// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrInvalidJSON is returned by ParseJSON for malformed documents.
var ErrInvalidJSON = errors.New("invalid JSON document")

// ParseJSON decodes a JSON document into snapshot values. Object keys keep
// their document order, which encoding/json cannot do for map targets.
func ParseJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		b := NewBuilder(0)
		r.ForEach(func(k, v gjson.Result) bool {
			b.Add(k.String(), fromResult(v))
			return true
		})
		return b.Tree()
	case r.IsArray():
		list := []any{}
		r.ForEach(func(_, v gjson.Result) bool {
			list = append(list, fromResult(v))
			return true
		})
		return list
	}

	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	default:
		return nil
	}
}

// MarshalJSON encodes the tree as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(t.vals[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseYAML decodes a YAML document into snapshot values. Mapping keys keep
// their document order. An empty document decodes to an empty tree.
func ParseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return Empty(), nil
	}
	return fromNode(&doc)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Empty(), nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		b := NewBuilder(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			b.Add(n.Content[i].Value, v)
		}
		return b.Tree(), nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Normalize(v)
	}
}

// MarshalYAML encodes the tree as an ordered YAML mapping.
func (t *Tree) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range t.All() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		val := &yaml.Node{}
		if err := val.Encode(v); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}
