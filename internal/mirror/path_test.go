package mirror

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeComponent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Clean title", input: "Auth", expected: "Auth"},
		{name: "Illegal characters stripped", input: `a<b>c:d"e/f\g|h?i*j`, expected: "abcdefghij"},
		{name: "Surrounding whitespace trimmed", input: "  Getting Started  ", expected: "Getting Started"},
		{name: "CJK preserved", input: "企业微信API", expected: "企业微信API"},
		{name: "Empty becomes placeholder", input: "", expected: "_"},
		{name: "Only illegal characters becomes placeholder", input: `<>:"/\|?*`, expected: "_"},
		{name: "Dot-only title cannot traverse", input: "..", expected: "_"},
		{name: "Slash-built traversal is stripped", input: "../../etc", expected: "....etc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeComponent(tt.input); got != tt.expected {
				t.Errorf("SanitizeComponent(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	got := ArtifactPath("out", []string{"API", "Messages"}, "Send", "mdx")
	want := filepath.Join("out", "API", "Messages", "Send.mdx")

	if got != want {
		t.Errorf("ArtifactPath = %q, want %q", got, want)
	}
}

func TestArtifactPath_SanitizesEveryComponent(t *testing.T) {
	got := ArtifactPath("out", []string{" A/B "}, `C:D?`, "mdx")
	want := filepath.Join("out", "AB", "CD.mdx")

	if got != want {
		t.Errorf("ArtifactPath = %q, want %q", got, want)
	}
}

func TestArtifactPath_StaysUnderRoot(t *testing.T) {
	root := filepath.Join("some", "root")
	got := ArtifactPath(root, []string{"..", "../.."}, "..", "mdx")

	if !strings.HasPrefix(got, root+string(filepath.Separator)) {
		t.Errorf("ArtifactPath escaped output root: %q", got)
	}
}
