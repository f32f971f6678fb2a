package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackSummaryNeverEmpty(t *testing.T) {
	texts := []string{
		"One lonely sentence that should survive the fallback path untouched by truncation limits.",
		strings.TrimSpace(strings.Repeat("Budget meetings ran long this quarter. ", 40)),
		strings.Repeat("unbrokenword", 30),
	}
	for _, style := range []Style{StyleBrief, StyleDetailed, StyleBullets} {
		for _, text := range texts {
			got := fallbackSummary(text, style)
			require.NotEmpty(t, got, "style %s must never yield an empty fallback", style)
		}
	}
}

func TestFallbackSummaryCompresses(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Budget meetings ran long this quarter. ", 40))
	got := fallbackSummary(text, StyleDetailed)
	require.Less(t, len(got), len(text))
}

func TestFallbackSummaryBulletsPrefixed(t *testing.T) {
	text := "Schools receive new funding. Buses run more often. Parking fees stay flat. " +
		"The mayor credited regional grants. Opponents questioned the timeline. A vote follows next month."
	got := fallbackSummary(text, StyleBullets)
	require.NotEmpty(t, got)
	for _, line := range strings.Split(got, "\n") {
		require.True(t, strings.HasPrefix(line, "- "), "bullet line %q lacks the list marker", line)
	}
}

func TestFallbackSummaryNeverEchoesShortInput(t *testing.T) {
	texts := []string{
		"Threatened wetlands need urgent protection now.",
		"Rain fell. Rivers rose quickly.",
		"supercalifragilisticexpialidocious",
	}
	for _, style := range []Style{StyleBrief, StyleDetailed, StyleBullets} {
		for _, text := range texts {
			got := fallbackSummary(text, style)
			require.NotEmpty(t, got)
			require.NotEqual(t, collapseWhitespace(text), collapseWhitespace(got),
				"style %s must not return the input verbatim", style)
		}
	}
}

func TestShortenToken(t *testing.T) {
	require.Equal(t, "unbrok...", shortenToken("unbrokenword"))
	require.Equal(t, "x", shortenToken("x"))
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "terminal punctuation",
			in:   "One. Two! Three?",
			want: []string{"One.", "Two!", "Three?"},
		},
		{
			name: "newline ends a sentence",
			in:   "A heading\nBody text follows.",
			want: []string{"A heading", "Body text follows."},
		},
		{
			name: "decimal point not a boundary",
			in:   "Version 2.5 shipped today.",
			want: []string{"Version 2.5 shipped today."},
		},
		{
			name: "trailing fragment kept",
			in:   "Complete sentence. trailing fragment",
			want: []string{"Complete sentence.", "trailing fragment"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, splitSentences(tt.in))
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "under limit unchanged", text: "three short words", limit: 5, want: "three short words"},
		{name: "over limit truncated", text: "one two three four five", limit: 3, want: "one two three..."},
		{name: "zero limit unchanged", text: "keep it", limit: 0, want: "keep it"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, truncateWords(tt.text, tt.limit))
		})
	}
}

func TestFormatBullets(t *testing.T) {
	got := formatBullets([]string{"First point.", "- Already marked.", "  ", "Last one."}, "- ")
	require.Equal(t, "- First point.\n- Already marked.\n- Last one.", got)
}
