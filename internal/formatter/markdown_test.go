package formatter

import (
	"strings"
	"testing"
)

func TestNormalizeTables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "Basic table formatting",
			input: `
| Header 1 | Header 2 |
| --- | --- |
| val 1 | val 2 |
`,
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name: "Fix excessive dashes",
			input: `
| Col A | Col B |
| ---------------------- | ---------------------------------- |
| A | B |
`,
			expected: `
| Col A | Col B |
| ----- | ----- |
| A     | B     |
`,
		},
		{
			name: "Mixed content",
			input: `
# Title

| H1 | H2 |
| -- | -- |
| v1 | v2 |

Text after table.
`,
			expected: `
# Title

| H1  | H2  |
| --- | --- |
| v1  | v2  |

Text after table.
`,
		},
		{
			name: "Mixed CJK and ASCII",
			input: `
| 参数 | 说明 |
| --- | --- |
| access_token | 调用接口凭证 |
| userid | 成员ID |
`,
			// CJK cells are padded by display width, not rune count.
			expected: `
| 参数         | 说明         |
| ------------ | ------------ |
| access_token | 调用接口凭证 |
| userid       | 成员ID       |
`,
		},
		{
			name:     "Lone row passes through",
			input:    `| not a table |`,
			expected: `| not a table |`,
		},
		{
			name:     "Plain text untouched",
			input:    "First line.\nSecond line.",
			expected: "First line.\nSecond line.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTables(strings.TrimSpace(tt.input))

			if strings.TrimSpace(got) != strings.TrimSpace(tt.expected) {
				t.Errorf("NormalizeTables() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}
