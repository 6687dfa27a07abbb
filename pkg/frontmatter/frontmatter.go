// Package frontmatter encodes and decodes the metadata header carried by every
// mirrored artifact. The header is the durable record of a document's remote
// update_time, so it must survive a round trip through this package exactly.
package frontmatter

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Delimiter opens and closes the header block.
const Delimiter = "---"

// GeneratedAtLayout is the wall-clock format used for the informational
// generated_at field.
const GeneratedAtLayout = "2006-01-02 15:04:05"

// Header decoding errors.
var (
	ErrNoHeader = errors.New("no frontmatter header found")
)

// Meta holds the header fields of an artifact.
type Meta struct {
	Title       string
	GeneratedAt time.Time
	UpdateTime  int64
	Source      string
}

// headerRegex matches a header block at the start of the content.
var headerRegex = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n?`)

// updateTimeRegex extracts the update_time field from a header block.
var updateTimeRegex = regexp.MustCompile(`(?m)^update_time:\s*(\d+)\s*$`)

// Render serializes the header followed by a blank separator and the body.
func Render(meta Meta, body string) string {
	var sb strings.Builder

	sb.WriteString(Delimiter)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "title: %q\n", meta.Title)
	fmt.Fprintf(&sb, "generated_at: %q\n", meta.GeneratedAt.Format(GeneratedAtLayout))
	fmt.Fprintf(&sb, "update_time: %d\n", meta.UpdateTime)
	fmt.Fprintf(&sb, "source: %q\n", meta.Source)
	sb.WriteString(Delimiter)
	sb.WriteString("\n\n")
	sb.WriteString(body)

	return sb.String()
}

// Extract parses the header block and returns the metadata together with the
// remaining body. If no header is present, it returns ErrNoHeader and the
// content unchanged.
func Extract(content string) (*Meta, string, error) {
	match := headerRegex.FindStringSubmatch(content)
	if len(match) < 2 {
		return nil, content, ErrNoHeader
	}

	body := content[len(match[0]):]
	meta := &Meta{}

	for _, line := range strings.Split(match[1], "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "title":
			meta.Title = unquote(val)
		case "generated_at":
			if t, err := time.Parse(GeneratedAtLayout, unquote(val)); err == nil {
				meta.GeneratedAt = t
			}
		case "update_time":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				meta.UpdateTime = n
			}
		case "source":
			meta.Source = unquote(val)
		}
	}

	return meta, body, nil
}

// ReadUpdateTime reads the artifact at path and extracts its recorded
// update_time. The second return value is false when the file does not exist,
// has no header, or the header carries no parseable update_time. Callers treat
// that as "absent" and refetch.
func ReadUpdateTime(path string) (int64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	match := headerRegex.FindStringSubmatch(string(data))
	if len(match) < 2 {
		return 0, false
	}

	tm := updateTimeRegex.FindStringSubmatch(match[1])
	if len(tm) < 2 {
		return 0, false
	}

	n, err := strconv.ParseInt(tm[1], 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// unquote strips surrounding double quotes if present.
func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}

	return s
}
