package parse

import (
	"patch-tracker/feature/patch/models"
)

// defaultAbility labels base-stat changes listed before the first ability
// heading of a champion entry.
const defaultAbility = "Base Stats"

// LolParser handles the LoL patch-note layout. Champion sections nest
// h3 entity headings over h4 ability headings; item and system sections use
// h4 headings as entities directly, occasionally with an emphasis element
// overriding a generic heading name.
type LolParser struct {
	classifier *Classifier
}

// NewLolParser creates a parser with the default classifier.
func NewLolParser() *LolParser {
	return &LolParser{classifier: NewClassifier()}
}

// entityBuilder accumulates one entity while the walk is inside its region.
type entityBuilder struct {
	name     string
	category string
	champion bool
	ability  string
	attrs    []models.ParsedAttribute
}

// build emits the entity, or reports false when it collected no changes.
// Entities without changes never leave the parser.
func (b *entityBuilder) build() (models.ParsedItem, bool) {
	if b.name == "" || len(b.attrs) == 0 {
		return models.ParsedItem{}, false
	}
	types := make([]models.ChangeType, len(b.attrs))
	for i, a := range b.attrs {
		types[i] = a.ChangeType
	}
	return models.ParsedItem{
		Name:       b.name,
		Category:   b.category,
		ChangeType: Overall(types),
		Attributes: b.attrs,
	}, true
}

// genericEntryName reports heading texts that are placeholders rather than
// names; the Arena-style layout puts the real name in a following emphasis
// element.
func genericEntryName(name string) bool {
	return name == "" || name == "아이템" || name == "Item"
}

// Parse walks the flattened document and emits one item per entity that
// collected at least one change line.
func (p *LolParser) Parse(html string) ([]models.ParsedItem, error) {
	nodes, err := flatten(html)
	if err != nil {
		return nil, err
	}

	var items []models.ParsedItem
	section := ""
	var cur *entityBuilder
	awaitOverride := false

	flush := func() {
		if cur != nil {
			if item, ok := cur.build(); ok {
				items = append(items, item)
			}
			cur = nil
		}
		awaitOverride = false
	}

	for _, n := range nodes {
		switch n.Kind {
		case nodeSection:
			flush()
			section = n.Text

		case nodeEntry:
			flush()
			cur = &entityBuilder{
				name:     n.Text,
				category: SectionCategories.Match(section),
				champion: true,
				ability:  defaultAbility,
			}

		case nodeSub:
			// Inside a champion entry any h4 is an ability context for the
			// lines beneath it, not an entity boundary.
			if cur != nil && cur.champion {
				cur.ability = n.Text
				continue
			}
			flush()
			if !championSection(section) && n.DetailTitle {
				cur = &entityBuilder{
					name:     n.Text,
					category: SectionCategories.Match(section),
				}
				awaitOverride = genericEntryName(n.Text)
			}

		case nodeEmphasis:
			// Secondary match, attempted only right after a generic entity
			// heading.
			if cur != nil && awaitOverride && n.Text != "" {
				cur.name = n.Text
			}
			awaitOverride = false

		case nodeList:
			awaitOverride = false
			if cur == nil {
				continue
			}
			for _, line := range n.Items {
				cl, ok := ParseChangeLine(line)
				if !ok {
					continue
				}
				name := cl.Attribute
				if cur.champion {
					name = cur.ability + " - " + cl.Attribute
				}
				cur.attrs = append(cur.attrs, models.ParsedAttribute{
					Name:       name,
					ChangeType: p.classifier.Classify(cl.Attribute, cl.Before, cl.After),
					Before:     cl.Before,
					After:      cl.After,
				})
			}
		}
	}
	flush()

	return items, nil
}
