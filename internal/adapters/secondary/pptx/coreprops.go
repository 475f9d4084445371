package pptx

import (
	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

const nsDC = "http://purl.org/dc/elements/1.1/"

// SetCoreProperties writes each metadata key that is present to
// docProps/core.xml, creating the part when the package has none.
func (p *Package) SetCoreProperties(meta *entities.DocumentMetadata) error {
	if meta.IsEmpty() {
		return nil
	}

	core, err := p.coreProperties()
	if err != nil {
		return err
	}
	root := core.root()
	ensureNamespace(root, "dc", nsDC)

	set := func(local string, value *string) {
		if value == nil {
			return
		}
		el := firstChild(root, local)
		if el == nil {
			el = root.CreateElement("dc:" + local)
		}
		el.SetText(cleanText(*value))
	}
	set("creator", meta.Author)
	set("title", meta.Title)
	set("subject", meta.Subject)
	return nil
}

// CoreProperty returns the text of a dc: element of the core properties
func (p *Package) CoreProperty(local string) (string, bool) {
	core := p.relatedRootPart(relCoreProps)
	if core == nil || core.parseXML() != nil {
		return "", false
	}
	el := firstChild(core.root(), local)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

func (p *Package) coreProperties() (*part, error) {
	if core := p.relatedRootPart(relCoreProps); core != nil {
		if err := core.parseXML(); err != nil {
			return nil, err
		}
		return core, nil
	}

	core := p.addPart("docProps/core.xml", ctCoreProps, newDocument(corePropsXML))
	p.rootRels.add(relCoreProps, core.name)
	return core, nil
}

func (p *Package) relatedRootPart(relType string) *part {
	rel := p.rootRels.firstOfType(relType)
	if rel == nil || rel.external() {
		return nil
	}
	return p.parts[resolveTarget("", rel.Target)]
}
