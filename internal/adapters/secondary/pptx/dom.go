package pptx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Element lookups match on local names. PresentationML parts nest elements of
// a single vocabulary at each level, so the prefix carries no information and
// ignoring it keeps documents with unusual prefixes readable.

func firstChild(e *etree.Element, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

func childrenNamed(e *etree.Element, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
		}
	}
	return out
}

// descendants returns every element below e with the given local name,
// in document order
func descendants(e *etree.Element, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
		}
		out = append(out, descendants(c, local)...)
	}
	return out
}

// qualified returns local with the prefix of e, for creating siblings and
// children in e's vocabulary
func qualified(e *etree.Element, local string) string {
	if e.Space == "" {
		return local
	}
	return e.Space + ":" + local
}

// descend follows a chain of local names from e
func descend(e *etree.Element, path ...string) *etree.Element {
	for _, local := range path {
		e = firstChild(e, local)
		if e == nil {
			return nil
		}
	}
	return e
}

// plainAttr returns an unprefixed attribute
func plainAttr(e *etree.Element, key string) (string, bool) {
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// relAttr returns a prefixed attribute such as r:id or r:embed
func relAttr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Space != "" && a.Space != "xmlns" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

func intAttr(e *etree.Element, key string, dflt int) int {
	v, ok := plainAttr(e, key)
	if !ok {
		return dflt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return dflt
	}
	return n
}

func int64Attr(e *etree.Element, key string) (int64, bool) {
	v, ok := plainAttr(e, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func removePlainAttr(e *etree.Element, key string) {
	for i, a := range e.Attr {
		if a.Space == "" && a.Key == key {
			e.Attr = append(e.Attr[:i], e.Attr[i+1:]...)
			return
		}
	}
}

func removeChildren(e *etree.Element, locals ...string) {
	for _, c := range e.ChildElements() {
		for _, local := range locals {
			if c.Tag == local {
				e.RemoveChild(c)
				break
			}
		}
	}
}

// insertOrdered adds child to parent ahead of the first sibling that the
// schema sequence places after it.
func insertOrdered(parent, child *etree.Element, sequence []string) {
	rank := make(map[string]int, len(sequence))
	for i, local := range sequence {
		rank[local] = i
	}
	want, known := rank[child.Tag]
	if known {
		for _, sibling := range parent.ChildElements() {
			if r, ok := rank[sibling.Tag]; ok && r > want {
				parent.InsertChildAt(sibling.Index(), child)
				return
			}
		}
	}
	parent.AddChild(child)
}

// ensureNamespace declares prefix on root when it is missing
func ensureNamespace(root *etree.Element, prefix, uri string) {
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Key == prefix {
			return
		}
	}
	root.CreateAttr("xmlns:"+prefix, uri)
}

// newDocument parses a part template
func newDocument(xml string) *etree.Document {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		panic("pptx: invalid built-in part template: " + err.Error())
	}
	return doc
}
