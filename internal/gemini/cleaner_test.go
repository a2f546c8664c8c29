package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduforge/assetgen/internal/gemini"
)

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	cleaner := gemini.NewCleaner()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare json untouched",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json code fence stripped",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "anonymous fence stripped",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n{\"a\":1}\n  ",
			want:  `{"a":1}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, testCase.want, cleaner.Clean(testCase.input))
		})
	}
}

func TestCleaner_NormalizeNarration(t *testing.T) {
	t.Parallel()

	cleaner := gemini.NewCleaner()

	got := cleaner.NormalizeNarration("“Water”  boils… at  100°C — always.")
	require.Equal(t, `"Water" boils... at 100°C -- always.`, got)
}
