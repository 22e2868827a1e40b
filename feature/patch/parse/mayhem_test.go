package parse

import (
	"strings"
	"testing"

	"patch-tracker/feature/patch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMayhemParser_ExtractsEmbeddedSection(t *testing.T) {
	html := `
	<div id="patch-notes-container">
		<h2>챔피언</h2>
		<h3 class="change-title">가렌</h3>
		<ul><li>피해량: 60 -> 65</li></ul>
		<h2 id="patch-aram-mayhem">무작위 총력전: 아수라장</h2>
		<h4 class="change-detail-title">증강 밸런스 조정</h4>
		<ul>
			<li>실명 사격 피해량: 20 -> 25</li>
		</ul>
		<h4 class="change-detail-title">버그 수정</h4>
		<ul>
			<li>특정 증강이 적용되지 않던 문제를 수정했습니다.</li>
		</ul>
		<h2>다음 섹션</h2>
		<h4 class="change-detail-title">아이템</h4>
		<ul><li>가격: 100 -> 90</li></ul>
	</div>`

	items, found, err := NewMayhemParser().Parse(html)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, items, 2)

	balance := items[0]
	assert.Equal(t, "증강 밸런스 조정", balance.Name)
	assert.Equal(t, models.CategoryAugment, balance.Category)
	assert.Equal(t, models.ChangeBuff, balance.ChangeType)

	bugfix := items[1]
	assert.Equal(t, "버그 수정", bugfix.Name)
	assert.Equal(t, models.CategoryBugfix, bugfix.Category)
	assert.Equal(t, models.ChangeAdjust, bugfix.ChangeType)
	require.Len(t, bugfix.Attributes, 1)
	assert.Equal(t, "특정 증강이 적용되지 않던 문제를 수정했습니다.", bugfix.Attributes[0].After)
}

func TestMayhemParser_SectionBoundary(t *testing.T) {
	// Entries after the section's closing h2 never leak into the result.
	html := `
	<h2 id="patch-aram-mayhem">무작위 총력전: 아수라장</h2>
	<h4 class="change-detail-title">증강 세트 변경</h4>
	<ul><li>2세트가 3세트로 교체되었습니다</li></ul>
	<h2>아이템</h2>
	<h4 class="change-detail-title">장화</h4>
	<ul><li>이동속도: 25 -> 30</li></ul>`

	items, found, err := NewMayhemParser().Parse(html)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, "증강 세트 변경", items[0].Name)
	assert.Equal(t, models.CategoryAugmentSet, items[0].Category)
}

func TestMayhemParser_AbsentSection(t *testing.T) {
	html := `
	<h2>챔피언</h2>
	<h3 class="change-title">가렌</h3>
	<ul><li>피해량: 60 -> 65</li></ul>`

	items, found, err := NewMayhemParser().Parse(html)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, items)
}

func TestMayhemParser_SectionFoundButEmpty(t *testing.T) {
	// A present heading with no extractable entries is the observable signal
	// that the source markup drifted.
	html := `
	<h2 id="patch-aram-mayhem">무작위 총력전: 아수라장</h2>
	<h2>아이템</h2>`

	items, found, err := NewMayhemParser().Parse(html)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, items)
}

func TestMayhemParser_MatchingHeadingOutsideRegion(t *testing.T) {
	// Known Mayhem headings are accepted even before the section h2, since
	// some documents lead with them.
	html := `
	<h4 class="change-detail-title">증강 밸런스 조정</h4>
	<ul><li>전투 의지 회복량: 10 -> 12</li></ul>`

	items, found, err := NewMayhemParser().Parse(html)
	require.NoError(t, err)
	assert.False(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, models.CategoryAugment, items[0].Category)
}

func TestMayhemParser_LongProseLineTruncatedName(t *testing.T) {
	long := strings.Repeat("가", 80)
	html := `
	<h2 id="patch-aram-mayhem">무작위 총력전: 아수라장</h2>
	<h4 class="change-detail-title">편의성 개선</h4>
	<ul><li>` + long + `</li></ul>`

	items, found, err := NewMayhemParser().Parse(html)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, items, 1)
	require.Len(t, items[0].Attributes, 1)
	attr := items[0].Attributes[0]
	assert.Equal(t, strings.Repeat("가", 60)+"…", attr.Name)
	assert.Equal(t, long, attr.After)
	assert.Equal(t, models.CategorySystem, items[0].Category)
}
