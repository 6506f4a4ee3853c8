package transform

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Edit pairs a Path with the value to write there
type Edit struct {
	Path  Path
	Value Value
}

// Apply runs edits against doc in order and stops at the first failure.
// Changes for the edits that succeeded are returned alongside the error.
func Apply(doc *yaml.Node, edits []Edit) ([]Change, error) {
	changes := make([]Change, 0, len(edits))
	for _, e := range edits {
		c, err := Set(doc, e.Path, e.Value)
		if err != nil {
			return changes, err
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// Parse decodes a file holding exactly one YAML document into a node tree.
// A second document is an error, since Encode would drop it.
func Parse(data []byte) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !emptyDocument(&doc) {
			docs = append(docs, &doc)
		}
	}
	switch {
	case len(docs) == 0:
		return nil, ErrEmptyDocument
	case len(docs) > 1:
		return nil, fmt.Errorf("%w: expected a single document, found %d", ErrMultipleDocuments, len(docs))
	}
	return docs[0], nil
}

// Encode renders doc in block style with a 2-space indent.
func Encode(doc *yaml.Node) ([]byte, error) {
	BlockStyle(doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// BlockStyle clears flow style from every mapping and sequence under n,
// so inline collections such as `args: ["a"]` are written as block collections.
func BlockStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		BlockStyle(c)
	}
}

// emptyDocument reports whether doc holds no data, as for a trailing "---".
func emptyDocument(doc *yaml.Node) bool {
	if len(doc.Content) == 0 {
		return true
	}
	n := doc.Content[0]
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null" && n.Value == ""
}
