package parse

import (
	"regexp"

	"patch-tracker/feature/patch/models"
)

// CategoryRule maps a heading-text pattern to a category.
type CategoryRule struct {
	Pattern  *regexp.Regexp
	Category string
}

// CategoryTable is an ordered rule list; the first matching rule wins.
type CategoryTable struct {
	Rules    []CategoryRule
	Fallback string
}

// Match categorizes a cleaned heading text.
func (t CategoryTable) Match(text string) string {
	for _, rule := range t.Rules {
		if rule.Pattern.MatchString(text) {
			return rule.Category
		}
	}
	return t.Fallback
}

// SectionCategories maps LoL h2 section headings to categories. Supports
// Korean and English headings.
var SectionCategories = CategoryTable{
	Rules: []CategoryRule{
		{regexp.MustCompile(`(?i)챔피언|champion`), models.CategoryChampion},
		{regexp.MustCompile(`(?i)아이템|item`), models.CategoryItem},
	},
	Fallback: models.CategorySystem,
}

// TftCategories maps TFT h4 group headings to categories. The heading itself
// decides the category since this layout has no per-entity headings.
var TftCategories = CategoryTable{
	Rules: []CategoryRule{
		{regexp.MustCompile(`(?i)특성|trait`), models.CategoryTrait},
		{regexp.MustCompile(`(?i)유닛|unit`), models.CategoryUnit},
		{regexp.MustCompile(`(?i)아이템|item|핵심 아이템|유물|찬란한`), models.CategoryItem},
		{regexp.MustCompile(`(?i)증강|augment`), models.CategoryAugment},
	},
	Fallback: models.CategorySystem,
}

// MayhemCategories maps the embedded Mayhem sub-section headings to their own
// taxonomy.
var MayhemCategories = CategoryTable{
	Rules: []CategoryRule{
		{regexp.MustCompile(`증강.*세트|세트.*변경`), models.CategoryAugmentSet},
		{regexp.MustCompile(`진척도|트랙`), models.CategoryProgressTrack},
		{regexp.MustCompile(`밸런스`), models.CategoryAugment},
		{regexp.MustCompile(`버그|수정`), models.CategoryBugfix},
		{regexp.MustCompile(`편의성`), models.CategorySystem},
	},
	Fallback: models.CategoryAugment,
}

// championSection reports whether a section holds champion-style entries
// (h3 entity headings with h4 ability sub-headings). Every other section uses
// h4 headings as entities directly.
func championSection(sectionText string) bool {
	return SectionCategories.Match(sectionText) == models.CategoryChampion
}
