// Package yml provides read-side helpers over yaml.v3 nodes used by the
// manifest loaders.
package yml

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// Node aliases yaml.Node with traversal helpers.
	Node yaml.Node
)

// Lookup returns the value node paired with the supplied mapping key, or nil.
func (n *Node) Lookup(name string) *Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, name) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Items iterates a sequence node.
func (n *Node) Items(callback func(index int, node *Node) error) error {
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates a mapping node.
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Interface converts the node subtree to plain Go values.
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!bool":
			return strings.ToLower(n.Value) == "true"
		case "!!null":
			return nil
		case "!!float":
			value, _ := strconv.ParseFloat(n.Value, 64)
			return value
		case "!!int":
			value, _ := strconv.ParseInt(n.Value, 0, 64)
			return value
		default:
			return n.Value
		}
	case yaml.MappingNode:
		aMap := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			aMap[n.Content[i].Value] = (*Node)(n.Content[i+1]).Interface()
		}
		return aMap
	case yaml.SequenceNode:
		aSlice := make([]interface{}, 0, len(n.Content))
		for i := 0; i < len(n.Content); i++ {
			aSlice = append(aSlice, (*Node)(n.Content[i]).Interface())
		}
		return aSlice
	case yaml.DocumentNode:
		if len(n.Content) > 0 {
			return (*Node)(n.Content[0]).Interface()
		}
	}
	return nil
}

// Root unwraps a document node.
func (n *Node) Root() *Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// Text returns the scalar text of the node, or "".
func (n *Node) Text() string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// Int returns the scalar value parsed as integer (base auto-detected), or 0.
func (n *Node) Int() int64 {
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0
	}
	value, _ := strconv.ParseInt(n.Value, 0, 64)
	return value
}

// Uint returns the scalar value parsed as unsigned integer, or 0.
func (n *Node) Uint() uint64 {
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0
	}
	value, _ := strconv.ParseUint(n.Value, 0, 64)
	return value
}
