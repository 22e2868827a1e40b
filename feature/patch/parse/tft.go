package parse

import (
	"strings"

	"patch-tracker/feature/patch/models"
)

// TftParser handles the TFT patch-note layout: h4 group headings (특성, 유닛,
// 아이템, 증강) whose text decides the category, with entity names inferred
// from the change lines themselves since this layout has no heading per
// entity.
type TftParser struct {
	classifier *Classifier
}

// NewTftParser creates a parser with the default classifier.
func NewTftParser() *TftParser {
	return &TftParser{classifier: NewClassifier()}
}

// Parse walks the flattened document, collects the change lines of every
// category group, and regroups them by inferred entity name.
func (p *TftParser) Parse(html string) ([]models.ParsedItem, error) {
	nodes, err := flatten(html)
	if err != nil {
		return nil, err
	}

	var items []models.ParsedItem
	var category string
	var attrs []models.ParsedAttribute
	open := false

	flush := func() {
		if open {
			items = append(items, regroupByName(category, attrs)...)
		}
		open = false
		attrs = nil
	}

	for _, n := range nodes {
		switch n.Kind {
		case nodeSection:
			flush()

		case nodeSub:
			flush()
			if n.DetailTitle {
				category = TftCategories.Match(n.Text)
				open = true
			}

		case nodeList:
			if !open {
				continue
			}
			for _, line := range n.Items {
				text := CleanText(line)
				if cl, ok := ParseChangeLine(text); ok {
					attrs = append(attrs, models.ParsedAttribute{
						Name:       cl.Attribute,
						ChangeType: p.classifier.Classify(cl.Attribute, cl.Before, cl.After),
						Before:     cl.Before,
						After:      cl.After,
					})
					continue
				}
				// Looser fallback: a plain "label: description" line becomes
				// a neutral change carrying the description as its value.
				if label, desc, ok := ParseLabelLine(text); ok {
					attrs = append(attrs, models.ParsedAttribute{
						Name:       label,
						ChangeType: models.ChangeAdjust,
						Before:     desc,
						After:      "",
					})
				}
			}
		}
	}
	flush()

	return items, nil
}

// regroupByName splits a category group's changes into one item per inferred
// entity, preserving first-seen order.
func regroupByName(category string, attrs []models.ParsedAttribute) []models.ParsedItem {
	var order []string
	grouped := make(map[string][]models.ParsedAttribute)

	for _, a := range attrs {
		name := inferEntityName(a.Name, category)
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], a)
	}

	items := make([]models.ParsedItem, 0, len(order))
	for _, name := range order {
		group := grouped[name]
		types := make([]models.ChangeType, len(group))
		for i, a := range group {
			types[i] = a.ChangeType
		}
		items = append(items, models.ParsedItem{
			Name:       name,
			Category:   category,
			ChangeType: Overall(types),
			Attributes: group,
		})
	}
	return items
}

// inferEntityName extracts the entity a change line belongs to. Unit lines
// lead with the unit name; trait and augment lines may carry it before a
// colon; everything else falls back to the first token.
func inferEntityName(attribute, category string) string {
	trimmed := CleanText(attribute)

	switch category {
	case models.CategoryUnit:
		return firstToken(trimmed)
	case models.CategoryTrait, models.CategoryAugment:
		if colon := strings.Index(trimmed, ":"); colon > 0 {
			return strings.TrimSpace(trimmed[:colon])
		}
		return trimmed
	default:
		return firstToken(trimmed)
	}
}

func firstToken(s string) string {
	if space := strings.Index(s, " "); space > 0 {
		return s[:space]
	}
	return s
}
