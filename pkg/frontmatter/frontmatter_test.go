package frontmatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempArtifact(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "artifact.mdx")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp artifact: %v", err)
	}

	return path
}

func TestRenderExtract_RoundTrip(t *testing.T) {
	meta := Meta{
		Title:       "接收消息",
		GeneratedAt: time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
		UpdateTime:  1700000000,
		Source:      "https://developer.work.weixin.qq.com/document/path/123",
	}
	body := "# 接收消息\n\nSome body text.\n"

	content := Render(meta, body)

	got, gotBody, err := Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if got.Title != meta.Title {
		t.Errorf("Title = %q, want %q", got.Title, meta.Title)
	}

	if !got.GeneratedAt.Equal(meta.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, meta.GeneratedAt)
	}

	if got.UpdateTime != meta.UpdateTime {
		t.Errorf("UpdateTime = %d, want %d", got.UpdateTime, meta.UpdateTime)
	}

	if got.Source != meta.Source {
		t.Errorf("Source = %q, want %q", got.Source, meta.Source)
	}

	if gotBody != body {
		t.Errorf("Body = %q, want %q", gotBody, body)
	}
}

func TestExtract_NoHeader(t *testing.T) {
	content := "# Just a document\n\nNo header here.\n"

	meta, body, err := Extract(content)
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("Expected ErrNoHeader, got %v", err)
	}

	if meta != nil {
		t.Error("Expected nil meta without header")
	}

	if body != content {
		t.Errorf("Expected content returned unchanged, got %q", body)
	}
}

func TestExtract_TitleWithQuotes(t *testing.T) {
	meta := Meta{Title: `The "quoted" title`, GeneratedAt: time.Now(), UpdateTime: 1}

	got, _, err := Extract(Render(meta, "body"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if got.Title != meta.Title {
		t.Errorf("Title = %q, want %q", got.Title, meta.Title)
	}
}

func TestReadUpdateTime_RoundTrip(t *testing.T) {
	content := Render(Meta{Title: "Auth", GeneratedAt: time.Now(), UpdateTime: 100}, "body")
	path := writeTempArtifact(t, content)

	got, ok := ReadUpdateTime(path)
	if !ok {
		t.Fatal("Expected update_time to be present")
	}

	if got != 100 {
		t.Errorf("ReadUpdateTime = %d, want 100", got)
	}
}

func TestReadUpdateTime_ZeroIsPresent(t *testing.T) {
	content := Render(Meta{Title: "Auth", GeneratedAt: time.Now(), UpdateTime: 0}, "body")
	path := writeTempArtifact(t, content)

	got, ok := ReadUpdateTime(path)
	if !ok {
		t.Fatal("Expected update_time 0 to count as present")
	}

	if got != 0 {
		t.Errorf("ReadUpdateTime = %d, want 0", got)
	}
}

func TestReadUpdateTime_Absent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "No header", content: "plain body\n"},
		{name: "Header without update_time", content: "---\ntitle: \"x\"\n---\n\nbody\n"},
		{name: "Malformed update_time", content: "---\nupdate_time: soon\n---\n\nbody\n"},
		{name: "Unterminated header", content: "---\ntitle: \"x\"\nupdate_time: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempArtifact(t, tt.content)

			if _, ok := ReadUpdateTime(path); ok {
				t.Error("Expected update_time to be absent")
			}
		})
	}
}

func TestReadUpdateTime_MissingFile(t *testing.T) {
	if _, ok := ReadUpdateTime(filepath.Join(t.TempDir(), "nope.mdx")); ok {
		t.Error("Expected absent for missing file")
	}
}

func TestRender_HeaderShape(t *testing.T) {
	content := Render(Meta{Title: "Auth", GeneratedAt: time.Now(), UpdateTime: 7, Source: "s"}, "body")

	if !strings.HasPrefix(content, "---\n") {
		t.Error("Expected content to start with the header delimiter")
	}

	if !strings.Contains(content, "\n---\n\nbody") {
		t.Error("Expected a blank separator between header and body")
	}

	if !strings.Contains(content, "update_time: 7\n") {
		t.Error("Expected update_time field in header")
	}
}
