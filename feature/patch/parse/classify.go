package parse

import (
	"regexp"
	"strconv"
	"strings"

	"patch-tracker/feature/patch/models"
)

// PolarityTable lists attribute-name substrings whose numeric increase is
// unfavorable (costs, cooldowns, charge times). For everything else an
// increase is assumed favorable.
type PolarityTable []string

// DefaultPolarityTable is the curated Korean table. It is deliberately small:
// context-dependent attributes (a slow applied to enemies vs. to self) are
// left out rather than guessed at.
var DefaultPolarityTable = PolarityTable{
	"재사용 대기시간", // cooldown
	"마나 소모량",      // mana cost
	"기력 소모량",      // energy cost
	"체력 소모량",      // health cost
	"비용",             // cost
	"충전 시간",        // charge time
}

// Inverted reports whether the attribute matches any inverted-polarity entry.
func (t PolarityTable) Inverted(attribute string) bool {
	for _, neg := range t {
		if strings.Contains(attribute, neg) {
			return true
		}
	}
	return false
}

// Classifier assigns direction labels to attribute changes. The polarity
// table is injected so it can be swapped per locale and in tests.
type Classifier struct {
	polarity PolarityTable
}

// NewClassifier creates a classifier with the default polarity table.
func NewClassifier() *Classifier {
	return NewClassifierWithPolarity(DefaultPolarityTable)
}

// NewClassifierWithPolarity creates a classifier with a custom polarity table.
func NewClassifierWithPolarity(table PolarityTable) *Classifier {
	return &Classifier{polarity: table}
}

// Classify labels one before/after pair. Values that fail to compare
// numerically, change structure (different slash-list lengths) or move in
// mixed directions come back as ADJUST.
func (c *Classifier) Classify(attribute, before, after string) models.ChangeType {
	// Slash-separated lists (e.g. per-rank values 10/20/30) compare
	// element-wise.
	if strings.Contains(before, "/") || strings.Contains(after, "/") {
		return c.classifyList(attribute, before, after)
	}

	beforeNum, okB := leadingNumber(before)
	afterNum, okA := leadingNumber(after)
	if !okB || !okA {
		return models.ChangeAdjust
	}

	switch {
	case afterNum > beforeNum:
		return c.applyPolarity(attribute, true)
	case afterNum < beforeNum:
		return c.applyPolarity(attribute, false)
	default:
		return models.ChangeAdjust
	}
}

func (c *Classifier) classifyList(attribute, before, after string) models.ChangeType {
	beforeParts := strings.Split(before, "/")
	afterParts := strings.Split(after, "/")

	// A different number of ranks is a structural change, not a magnitude
	// shift.
	if len(beforeParts) != len(afterParts) {
		return models.ChangeAdjust
	}

	allIncrease := true
	allDecrease := true
	for i := range beforeParts {
		b, okB := leadingNumber(beforeParts[i])
		a, okA := leadingNumber(afterParts[i])
		if !okB || !okA {
			return models.ChangeAdjust
		}
		if a <= b {
			allIncrease = false
		}
		if a >= b {
			allDecrease = false
		}
	}

	switch {
	case allIncrease:
		return c.applyPolarity(attribute, true)
	case allDecrease:
		return c.applyPolarity(attribute, false)
	default:
		return models.ChangeAdjust
	}
}

func (c *Classifier) applyPolarity(attribute string, increase bool) models.ChangeType {
	if c.polarity.Inverted(attribute) {
		increase = !increase
	}
	if increase {
		return models.ChangeBuff
	}
	return models.ChangeNerf
}

var (
	nonNumericPattern  = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumberToken = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)`)
)

// leadingNumber strips everything but digits, dots and minus signs, then
// parses the leading numeric token ("60%" -> 60, "+1.5초" -> 1.5).
func leadingNumber(value string) (float64, bool) {
	stripped := nonNumericPattern.ReplaceAllString(value, "")
	token := leadingNumberToken.FindString(stripped)
	if token == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Overall aggregates attribute labels to an entity label. Any ADJUST, or a
// mix of BUFF and NERF, keeps the entity at ADJUST; only uniform sets earn
// the directional label.
func Overall(types []models.ChangeType) models.ChangeType {
	if len(types) == 0 {
		return models.ChangeAdjust
	}

	hasBuff, hasNerf, hasAdjust := false, false, false
	for _, t := range types {
		switch t {
		case models.ChangeBuff:
			hasBuff = true
		case models.ChangeNerf:
			hasNerf = true
		default:
			hasAdjust = true
		}
	}

	switch {
	case hasAdjust, hasBuff && hasNerf:
		return models.ChangeAdjust
	case hasBuff:
		return models.ChangeBuff
	case hasNerf:
		return models.ChangeNerf
	default:
		return models.ChangeAdjust
	}
}
