package discover

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// BaseURL is the news site hosting the LoL patch note documents.
	BaseURL = "https://www.leagueoflegends.com"
	// TftBaseURL hosts the TFT patch note documents.
	TftBaseURL = "https://teamfighttactics.leagueoflegends.com"
	// GameUpdatesURL is the index page listing patch note links for both games.
	GameUpdatesURL = BaseURL + "/ko-kr/news/game-updates/"
)

// kstPublishHourUTC is the UTC hour of the evening release that the index
// displays as the next local calendar date in KST.
const kstPublishHourUTC = 19

var (
	tftLinkPattern = regexp.MustCompile(`/ko-kr/news/game-updates/teamfight-tactics-patch-(\d+)-(\d+)`)
	lolLinkPattern = regexp.MustCompile(`/ko-kr/news/game-updates/(?:league-of-legends-)?patch-(\d+)-(\d+)-notes`)
	tftExclusion   = regexp.MustCompile(`teamfight-tactics|tft`)

	videoLinkPattern = regexp.MustCompile(`youtube\.com|youtu\.be`)
	offTopicPattern  = regexp.MustCompile(`(?i)lunar|revel|시네마틱|트레일러|설맞이|대잔치|야수의 축제`)

	isoDatePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z`)
	koreanDatePattern = regexp.MustCompile(`(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.`)

	titlePattern = regexp.MustCompile(`\d+\.\d+\s*패치\s*노트`)
)

// PatchLink is one discovered patch note reference.
type PatchLink struct {
	Version string
	URL     string
	Title   string
	Date    *time.Time
}

// PatchLinks groups discovered references per game.
type PatchLinks struct {
	Lol []PatchLink
	Tft []PatchLink
}

// ParsePatchLinks scans every anchor of the index markup and routes each to
// its game by URL pattern. References are deduplicated by version, keeping the
// last occurrence, and sorted newest first.
func ParsePatchLinks(html string) (PatchLinks, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PatchLinks{}, fmt.Errorf("parse index markup: %w", err)
	}

	var lol, tft []PatchLink
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if videoLinkPattern.MatchString(href) {
			return
		}
		text := cleanText(s.Text())
		if offTopicPattern.MatchString(text) {
			return
		}

		if m := tftLinkPattern.FindStringSubmatch(href); m != nil {
			tft = append(tft, toPatchLink(s, href, TftBaseURL, m[1], m[2]))
			return
		}
		if m := lolLinkPattern.FindStringSubmatch(href); m != nil && !tftExclusion.MatchString(href) {
			lol = append(lol, toPatchLink(s, href, BaseURL, m[1], m[2]))
		}
	})

	return PatchLinks{
		Lol: sortByVersion(lol),
		Tft: sortByVersion(tft),
	}, nil
}

func toPatchLink(s *goquery.Selection, href, base, major, minor string) PatchLink {
	version := major + "." + minor
	return PatchLink{
		Version: version,
		URL:     absoluteURL(href, base),
		Title:   extractTitle(s, version),
		Date:    extractDate(s),
	}
}

func absoluteURL(href, base string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return base + href
}

// extractTitle prefers the patch-note phrase found in the anchor text and
// synthesizes one from the version otherwise.
func extractTitle(s *goquery.Selection, version string) string {
	text := cleanText(s.Text())
	if m := titlePattern.FindString(text); m != "" {
		return cleanText(m)
	}
	return version + " 패치 노트"
}

// extractDate looks for a machine-readable timestamp inside the anchor first,
// then a displayed Korean calendar date. The displayed date is the KST day
// after the actual UTC evening release, so it maps to the previous UTC day at
// the fixed publish hour.
func extractDate(s *goquery.Selection) *time.Time {
	block, err := goquery.OuterHtml(s)
	if err != nil {
		block = s.Text()
	}

	if m := isoDatePattern.FindString(block); m != "" {
		if t, err := time.Parse(time.RFC3339, m); err == nil {
			t = t.UTC()
			return &t
		}
	}

	if m := koreanDatePattern.FindStringSubmatch(s.Text()); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day-1, kstPublishHourUTC, 0, 0, 0, time.UTC)
		return &t
	}

	return nil
}

// sortByVersion deduplicates by version, keeping the last occurrence, and
// orders the result numerically by (major, minor) descending.
func sortByVersion(links []PatchLink) []PatchLink {
	byVersion := make(map[string]PatchLink, len(links))
	for _, l := range links {
		byVersion[l.Version] = l
	}

	out := make([]PatchLink, 0, len(byVersion))
	for _, l := range byVersion {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		iMajor, iMinor := versionKey(out[i].Version)
		jMajor, jMinor := versionKey(out[j].Version)
		if iMajor != jMajor {
			return iMajor > jMajor
		}
		return iMinor > jMinor
	})
	return out
}

func versionKey(version string) (major, minor int) {
	parts := strings.SplitN(version, ".", 2)
	major, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
