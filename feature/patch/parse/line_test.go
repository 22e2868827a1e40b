package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChangeLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   ChangeLine
		wantOk bool
	}{
		{
			name:   "AsciiArrow",
			line:   "공격력: 60 -> 65",
			want:   ChangeLine{Attribute: "공격력", Before: "60", After: "65"},
			wantOk: true,
		},
		{
			name:   "DoubleArrowMultiValue",
			line:   "체력: 500/550/600 ⇒ 520/570/620",
			want:   ChangeLine{Attribute: "체력", Before: "500/550/600", After: "520/570/620"},
			wantOk: true,
		},
		{
			name:   "UnicodeArrow",
			line:   "이동 속도: 340 → 345",
			want:   ChangeLine{Attribute: "이동 속도", Before: "340", After: "345"},
			wantOk: true,
		},
		{
			name:   "FatArrowDigraph",
			line:   "마나 소모량: 80 => 70",
			want:   ChangeLine{Attribute: "마나 소모량", Before: "80", After: "70"},
			wantOk: true,
		},
		{
			name:   "WhitespaceCollapsed",
			line:   "  주문력   계수 :  0.6   ->   0.75 ",
			want:   ChangeLine{Attribute: "주문력 계수", Before: "0.6", After: "0.75"},
			wantOk: true,
		},
		{
			name:   "RatioSplitsOnFirstColon",
			line:   "피해 비율: 1:2 -> 1:3",
			want:   ChangeLine{Attribute: "피해 비율", Before: "1:2", After: "1:3"},
			wantOk: true,
		},
		{
			name:   "NoColon",
			line:   "툴팁이 업데이트되었습니다",
			wantOk: false,
		},
		{
			name:   "NoArrow",
			line:   "신규 효과: 처치 시 이동 속도 증가",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseChangeLine(tt.line)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseLabelLine(t *testing.T) {
	t.Run("LabelAndDescription", func(t *testing.T) {
		label, desc, ok := ParseLabelLine("요새: 피해 감소량이 재설계되었습니다")
		assert.True(t, ok)
		assert.Equal(t, "요새", label)
		assert.Equal(t, "피해 감소량이 재설계되었습니다", desc)
	})

	t.Run("EmptyDescription", func(t *testing.T) {
		_, _, ok := ParseLabelLine("요새:")
		assert.False(t, ok)
	})

	t.Run("LeadingColon", func(t *testing.T) {
		_, _, ok := ParseLabelLine(": 설명만 있음")
		assert.False(t, ok)
	})
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "가렌 Q 피해량", CleanText("  가렌\n  Q\t피해량  "))
	assert.Equal(t, "", CleanText("   \n\t "))
}
