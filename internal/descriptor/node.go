package descriptor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n\n"

// Attr is a single element attribute. Namespaces are not used by .jucer
// files, so only the local name is kept.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a decoded descriptor. Attribute and child order is
// preserved so a decode/encode round trip only changes what was edited.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the named attribute in place, or appends it when absent.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Child returns the first direct child with the given element name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Descendants returns every element below n with the given name, in
// document order.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
		out = append(out, c.Descendants(name)...)
	}
	return out
}

// decodeTree reads a single root element. Comments, processing
// instructions and whitespace-only text are dropped.
func decodeTree(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements (%s after %s)", n.Name, root.Name)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if s := strings.TrimSpace(string(t)); s != "" {
				stack[len(stack)-1].Text += s
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// encodeTree writes n with a fixed header and two-space indentation. The
// output depends only on the tree, so equal trees encode to equal bytes.
func encodeTree(n *Node) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	writeNode(&buf, n, 0)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')
	if len(n.Children) == 0 {
		_ = xml.EscapeText(buf, []byte(n.Text))
		buf.WriteString("</")
		buf.WriteString(n.Name)
		buf.WriteString(">\n")
		return
	}
	buf.WriteByte('\n')
	if n.Text != "" {
		buf.WriteString(indent + "  ")
		_ = xml.EscapeText(buf, []byte(n.Text))
		buf.WriteByte('\n')
	}
	for _, c := range n.Children {
		writeNode(buf, c, depth+1)
	}
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(n.Name)
	buf.WriteString(">\n")
}
