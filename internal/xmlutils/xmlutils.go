// Package xmlutils wraps XML parsing and XPath selection for bank statement
// documents. The inbound camt.053-style XML is inconsistently populated across
// source banks, so every selection helper treats absence as data: an empty
// selection yields an empty result, never an error.
package xmlutils

import (
	"bytes"
	"fmt"

	"github.com/atworth/bankfeed/internal/apperrors"
	"gopkg.in/xmlpath.v2"
)

// Document is the parsed XML tree for one statement file. It is owned by the
// processing of that file and discarded once all entries are mapped.
type Document struct {
	root *xmlpath.Node
}

// Node is one element within a Document; a view into the tree, not a copy.
type Node = xmlpath.Node

// NodeList is an ordered selection of nodes.
type NodeList []*Node

// Parse builds a Document from raw file bytes.
func Parse(data []byte) (*Document, error) {
	root, err := xmlpath.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrParse, err)
	}
	return &Document{root: root}, nil
}

// Select applies a compiled path to the whole document.
func (d *Document) Select(p *xmlpath.Path) NodeList {
	return selectFrom(d.root, p)
}

// FirstText returns the text content of the first document-level match, or ""
// when the path matches nothing.
func (d *Document) FirstText(p *xmlpath.Path) string {
	return d.Select(p).TextAt(0)
}

// Descendants returns every element named tag anywhere under n, in document
// order. A tag that never occurs yields an empty list.
func Descendants(n *Node, tag string) NodeList {
	p, err := xmlpath.Compile(".//" + tag)
	if err != nil {
		return nil
	}
	return selectFrom(n, p)
}

// TextAt returns the text content of the element at index, or "" when the
// list is empty or index is out of range. Absence is not a failure.
func (l NodeList) TextAt(index int) string {
	if index < 0 || index >= len(l) {
		return ""
	}
	return l[index].String()
}

// MustCompile compiles an XPath expression known at build time.
func MustCompile(expr string) *xmlpath.Path {
	return xmlpath.MustCompile(expr)
}

func selectFrom(n *Node, p *xmlpath.Path) NodeList {
	var out NodeList
	it := p.Iter(n)
	for it.Next() {
		out = append(out, it.Node())
	}
	return out
}
