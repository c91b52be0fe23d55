package scene

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

// ErrNotChild is returned when a reference node is not a child of the
// receiver.
var ErrNotChild = errors.New("scene: node is not a child")

type attr struct {
	key, value string
}

// Node is a retained scene element.
type Node struct {
	Tag  string
	Text string

	attrs    []attr
	style    []attr
	parent   *Node
	children []*Node
}

// New creates a detached node.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// SetAttr sets an attribute, keeping the position of an existing key.
func (n *Node) SetAttr(key, value string) *Node {
	n.attrs = set(n.attrs, key, value)
	return n
}

// SetAttrf sets a numeric attribute.
func (n *Node) SetAttrf(key string, v float64) *Node {
	return n.SetAttr(key, FormatFloat(v))
}

// Attr returns an attribute value.
func (n *Node) Attr(key string) (string, bool) {
	return get(n.attrs, key)
}

// AttrFloat returns a numeric attribute, or 0 when missing or malformed.
func (n *Node) AttrFloat(key string) float64 {
	v, ok := n.Attr(key)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// DelAttr removes an attribute.
func (n *Node) DelAttr(key string) *Node {
	n.attrs = del(n.attrs, key)
	return n
}

// Attrs returns the attributes in insertion order as key/value pairs.
func (n *Node) Attrs() [][2]string {
	out := make([][2]string, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = [2]string{a.key, a.value}
	}
	return out
}

// SetStyle sets an inline style property. An empty value removes it.
func (n *Node) SetStyle(key, value string) *Node {
	if value == "" {
		n.style = del(n.style, key)
		return n
	}
	n.style = set(n.style, key, value)
	return n
}

// Style returns an inline style property.
func (n *Node) Style(key string) string {
	v, _ := get(n.style, key)
	return v
}

// ReplaceStyle drops all inline style and applies props in sorted key order.
func (n *Node) ReplaceStyle(props map[string]string) *Node {
	n.style = nil
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		n.SetStyle(k, props[k])
	}
	return n
}

// StyleString renders inline style as "k:v;k:v".
func (n *Node) StyleString() string {
	parts := make([]string, len(n.style))
	for i, a := range n.style {
		parts[i] = a.key + ":" + a.value
	}
	return strings.Join(parts, ";")
}

// HasClass reports whether the class attribute contains class.
func (n *Node) HasClass(class string) bool {
	v, _ := n.Attr("class")
	return slices.Contains(strings.Fields(v), class)
}

// Parent returns the parent node, nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Index returns the position of child, or -1.
func (n *Node) Index(child *Node) int {
	return slices.Index(n.children, child)
}

// Append adds child as the last child, detaching it from any previous parent.
// It returns child.
func (n *Node) Append(child *Node) *Node {
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		n.Append(child)
		return nil
	}
	if ref.parent != n {
		return ErrNotChild
	}
	child.Remove()
	i := n.Index(ref)
	child.parent = n
	n.children = slices.Insert(n.children, i, child)
	return nil
}

// Replace puts newChild at old's position and detaches old.
func (n *Node) Replace(newChild, old *Node) error {
	if old.parent != n {
		return ErrNotChild
	}
	if newChild == old {
		return nil
	}
	newChild.Remove()
	i := n.Index(old)
	newChild.parent = n
	n.children[i] = newChild
	old.parent = nil
	return nil
}

// RemoveChild detaches child.
func (n *Node) RemoveChild(child *Node) error {
	if child.parent != n {
		return ErrNotChild
	}
	child.Remove()
	return nil
}

// Remove detaches n from its parent. It is a no-op on detached nodes.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.Index(n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// Clear detaches all children.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// FindClass returns all descendants (and n itself) carrying class.
func (n *Node) FindClass(class string) []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.HasClass(class) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// FindTag returns all descendants (and n itself) with the given tag.
func (n *Node) FindTag(tag string) []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.Tag == tag {
			out = append(out, node)
		}
		return true
	})
	return out
}

// FormatFloat formats coordinates compactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Translate returns an SVG translate transform.
func Translate(x, y float64) string {
	return "translate(" + FormatFloat(x) + ", " + FormatFloat(y) + ")"
}

func set(list []attr, key, value string) []attr {
	for i := range list {
		if list[i].key == key {
			list[i].value = value
			return list
		}
	}
	return append(list, attr{key, value})
}

func get(list []attr, key string) (string, bool) {
	for _, a := range list {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

func del(list []attr, key string) []attr {
	return slices.DeleteFunc(list, func(a attr) bool { return a.key == key })
}
