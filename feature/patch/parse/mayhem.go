package parse

import (
	"regexp"

	"patch-tracker/feature/patch/models"
)

// The Mayhem game mode has no patch documents of its own; its notes live as
// one section inside the LoL document, recognized by a fixed heading id or
// heading text.
const mayhemSectionID = "patch-aram-mayhem"

var (
	mayhemSectionPattern = regexp.MustCompile(`무작위 총력전: 아수라장`)
	mayhemHeadingPattern = regexp.MustCompile(`무작위 총력전.*아수라장|아수라장.*진척도|아수라장.*세트|아수라장.*버그|증강 세트|증강 밸런스|편의성 개선`)
)

// mayhemKeyLen bounds the dedup key for seen sub-section headings.
const mayhemKeyLen = 50

// rawDescriptionLimit bounds the attribute name synthesized from an
// unparseable list line.
const rawDescriptionLimit = 60

// MayhemParser extracts the embedded Mayhem section from a LoL document and
// re-labels its entries under the mode's own taxonomy.
type MayhemParser struct {
	classifier *Classifier
}

// NewMayhemParser creates a parser with the default classifier.
func NewMayhemParser() *MayhemParser {
	return &MayhemParser{classifier: NewClassifier()}
}

// Parse returns the Mayhem entries of a LoL document. found reports whether
// the section heading was present at all: a found section with zero entries
// usually means the source markup changed, and callers log it instead of
// letting the condition pass silently.
func (p *MayhemParser) Parse(html string) (items []models.ParsedItem, found bool, err error) {
	nodes, err := flatten(html)
	if err != nil {
		return nil, false, err
	}

	inside := false
	seen := make(map[string]struct{})
	var cur *entityBuilder

	flush := func() {
		if cur != nil {
			if item, ok := cur.build(); ok {
				items = append(items, item)
			}
			cur = nil
		}
	}

walk:
	for _, n := range nodes {
		switch n.Kind {
		case nodeSection:
			flush()
			if n.ID == mayhemSectionID || mayhemSectionPattern.MatchString(n.Text) {
				inside = true
				found = true
				continue
			}
			if inside {
				// The section ended; nothing after it belongs to Mayhem.
				break walk
			}

		case nodeSub:
			if !n.DetailTitle {
				continue
			}
			flush()
			if !mayhemHeadingPattern.MatchString(n.Text) && !(inside && n.Text != "") {
				continue
			}
			key := truncateRunes(n.Text, mayhemKeyLen)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			cur = &entityBuilder{
				name:     n.Text,
				category: MayhemCategories.Match(n.Text),
			}

		case nodeList:
			if cur == nil {
				continue
			}
			for _, line := range n.Items {
				if cl, ok := ParseChangeLine(line); ok {
					cur.attrs = append(cur.attrs, models.ParsedAttribute{
						Name:       cl.Attribute,
						ChangeType: p.classifier.Classify(cl.Attribute, cl.Before, cl.After),
						Before:     cl.Before,
						After:      cl.After,
					})
					continue
				}
				// Prose lines (set swaps, bugfixes) are kept as neutral
				// changes with the full text as the value.
				desc := CleanText(line)
				if desc == "" {
					continue
				}
				name := desc
				if len([]rune(desc)) > rawDescriptionLimit {
					name = truncateRunes(desc, rawDescriptionLimit) + "…"
				}
				cur.attrs = append(cur.attrs, models.ParsedAttribute{
					Name:       name,
					ChangeType: models.ChangeAdjust,
					Before:     "",
					After:      desc,
				})
			}
		}
	}
	flush()

	return items, found, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
