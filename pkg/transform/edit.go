package transform

import (
	"gopkg.in/yaml.v3"
)

// Lookup walks node along p and returns the node found there.
// Aliases are followed; a DocumentNode is unwrapped to its root.
func Lookup(node *yaml.Node, p Path) (*yaml.Node, error) {
	n, err := walk(node, p)
	if err != nil {
		return nil, err
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n, nil
}

// walk is Lookup without resolving an alias at the end of p.
func walk(node *yaml.Node, p Path) (*yaml.Node, error) {
	cur, err := root(node, p)
	if err != nil {
		return nil, err
	}

	for _, seg := range p {
		if cur.Kind == yaml.AliasNode && cur.Alias != nil {
			cur = cur.Alias
		}

		if seg.IsIndex {
			if cur.Kind != yaml.SequenceNode {
				return nil, &PathError{Path: p.String(), Segment: seg.String(), Err: ErrNotSequence}
			}
			if seg.Index >= len(cur.Content) {
				return nil, &PathError{Path: p.String(), Segment: seg.String(), Err: ErrIndexOutOfRange}
			}
			cur = cur.Content[seg.Index]
			continue
		}

		if cur.Kind != yaml.MappingNode {
			return nil, &PathError{Path: p.String(), Segment: seg.String(), Err: ErrNotMapping}
		}
		next := mappingValue(cur, seg.Key)
		if next == nil {
			return nil, &PathError{Path: p.String(), Segment: seg.String(), Err: ErrPathNotFound}
		}
		cur = next
	}

	return cur, nil
}

// Set overwrites the node at p with the scalar v and reports the change.
// Every segment of p must already exist: Set never creates keys or list items.
// A path ending on an alias replaces the alias, not its anchor.
func Set(node *yaml.Node, p Path, v Value) (Change, error) {
	target, err := walk(node, p)
	if err != nil {
		return Change{}, err
	}

	change := Change{Path: p.String(), Old: scalarValue(target), New: v}

	// Aliases of an anchored target keep the old value.
	if target.Anchor != "" {
		old := *target
		old.Anchor = ""
		unalias(node, target, &old)
	}

	// Keep comments attached to the old value.
	head, line, foot := target.HeadComment, target.LineComment, target.FootComment
	*target = yaml.Node{
		Kind:        yaml.ScalarNode,
		HeadComment: head,
		LineComment: line,
		FootComment: foot,
		Line:        target.Line,
		Column:      target.Column,
	}
	if v.Null {
		target.Tag = "!!null"
		target.Value = "null"
	} else {
		target.Tag = "!!str"
		target.Value = v.S
	}

	return change, nil
}

// mappingValue returns the value node for key in a mapping, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func root(node *yaml.Node, p Path) (*yaml.Node, error) {
	if node == nil {
		return nil, &PathError{Path: p.String(), Segment: "", Err: ErrEmptyDocument}
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, &PathError{Path: p.String(), Segment: "", Err: ErrEmptyDocument}
		}
		return node.Content[0], nil
	}
	return node, nil
}

// unalias replaces every alias of target under n with a copy of old.
func unalias(n, target, old *yaml.Node) {
	if n == nil {
		return
	}
	for _, c := range n.Content {
		if c.Kind == yaml.AliasNode && c.Alias == target {
			cp := *old
			cp.HeadComment, cp.LineComment, cp.FootComment = c.HeadComment, c.LineComment, c.FootComment
			*c = cp
			continue
		}
		unalias(c, target, old)
	}
}

func scalarValue(n *yaml.Node) Value {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return Value{}
	}
	if n.Tag == "!!null" || (n.Tag == "" && (n.Value == "" || n.Value == "~" || n.Value == "null")) {
		return Null()
	}
	return String(n.Value)
}
