package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
)

// Serialize writes the package as a zip container. Parts no longer reachable
// through relationships are dropped first, and every empty text body gets the
// single paragraph the schema requires.
func (p *Package) Serialize(w io.Writer) error {
	p.prune()
	p.fillEmptyTextBodies()
	p.contentTypes.ensureDefault("rels", ctRels)
	p.contentTypes.ensureDefault("xml", "application/xml")

	zw := zip.NewWriter(w)

	ct, err := p.contentTypes.marshal()
	if err != nil {
		return fmt.Errorf("encoding content types: %w", err)
	}
	if err := writeEntry(zw, contentTypesName, ct); err != nil {
		return err
	}

	rootRels, err := p.rootRels.marshal()
	if err != nil {
		return fmt.Errorf("encoding package relationships: %w", err)
	}
	if err := writeEntry(zw, relsName(""), rootRels); err != nil {
		return err
	}

	for _, name := range p.partNames() {
		pt := p.parts[name]
		data, err := pt.bytes()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		if err := writeEntry(zw, name, data); err != nil {
			return err
		}
		if pt.rels == nil || len(pt.rels.Items) == 0 {
			continue
		}
		rels, err := pt.rels.marshal()
		if err != nil {
			return fmt.Errorf("encoding relationships of %s: %w", name, err)
		}
		if err := writeEntry(zw, relsName(name), rels); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// partNames returns live parts in load order followed by any stragglers sorted by name
func (p *Package) partNames() []string {
	seen := make(map[string]bool, len(p.parts))
	names := make([]string, 0, len(p.parts))
	for _, name := range p.order {
		if _, ok := p.parts[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range p.parts {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	p.order = append(names, rest...)
	return p.order
}

// prune drops every part not reachable from the package relationships
func (p *Package) prune() {
	reachable := make(map[string]bool, len(p.parts))
	var queue []string

	visit := func(source string, rels *relationships) {
		if rels == nil {
			return
		}
		for _, rel := range rels.Items {
			if rel.external() {
				continue
			}
			name := resolveTarget(source, rel.Target)
			if _, ok := p.parts[name]; ok && !reachable[name] {
				reachable[name] = true
				queue = append(queue, name)
			}
		}
	}

	visit("", p.rootRels)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visit(name, p.parts[name].rels)
	}

	for name := range p.parts {
		if !reachable[name] {
			delete(p.parts, name)
			p.contentTypes.removeOverride(name)
		}
	}
}

func (p *Package) fillEmptyTextBodies() {
	for _, s := range p.slides {
		for _, pt := range []*part{s.part, s.notes} {
			if pt == nil || pt.doc == nil {
				continue
			}
			for _, txBody := range pt.root().FindElements(".//txBody") {
				if firstChild(txBody, "p") == nil {
					txBody.CreateElement("a:p")
				}
			}
		}
	}
}
