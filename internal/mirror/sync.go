package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"wwmirror/internal/formatter"
	"wwmirror/internal/logger"
	"wwmirror/internal/models"
	"wwmirror/internal/source"
	"wwmirror/internal/tree"
	"wwmirror/pkg/frontmatter"
)

// Fetcher retrieves document content by document id.
type Fetcher interface {
	FetchDocument(docID int64) (*source.Document, error)
}

// Options configures a sync run.
type Options struct {
	// OutputRoot is the directory the mirrored tree is written under.
	OutputRoot string
	// Extension is the artifact file extension, without the dot.
	Extension string
	// BaseURL is the site base URL used to build canonical source references.
	BaseURL string
	// Delay is the pacing delay applied after every fetch.
	Delay time.Duration
	// FormatTables enables markdown table normalization of fetched bodies.
	FormatTables bool
}

// Stats summarizes what a sync run did.
type Stats struct {
	Fetched       int
	Skipped       int
	WriteFailures int
}

// Syncer walks the category tree and brings the local artifact tree up to
// date. A document is fetched only when its remote update_time is newer than
// the one recorded in the local artifact's header.
type Syncer struct {
	fetcher Fetcher
	log     *logger.Logger
	opts    Options
	stats   Stats

	now   func() time.Time
	sleep func(time.Duration)
}

// NewSyncer creates a syncer over the given document fetcher.
func NewSyncer(fetcher Fetcher, log *logger.Logger, opts Options) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		log:     log,
		opts:    opts,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Sync performs one depth-first pass over the forest. It returns the stats
// accumulated so far even on error. Any fetch failure aborts the run: a
// mirror with silently missing documents is worse than a failed run that can
// be re-invoked cheaply thanks to the freshness check.
func (s *Syncer) Sync(forest tree.Forest) (Stats, error) {
	s.stats = Stats{}

	for _, node := range forest.Roots() {
		if err := s.syncNode(node, nil); err != nil {
			return s.stats, err
		}
	}

	return s.stats, nil
}

func (s *Syncer) syncNode(node *tree.Node, ancestors []string) error {
	cat := node.Category

	if cat.IsLeaf() {
		if err := s.syncLeaf(cat, ancestors); err != nil {
			return err
		}
	}

	// Grouping nodes can still have document children; recurse regardless.
	childAncestors := append(ancestors[:len(ancestors):len(ancestors)], cat.Title)

	for _, child := range node.SortedChildren() {
		if err := s.syncNode(child, childAncestors); err != nil {
			return err
		}
	}

	return nil
}

func (s *Syncer) syncLeaf(cat models.CategoryRecord, ancestors []string) error {
	path := ArtifactPath(s.opts.OutputRoot, ancestors, cat.Title, s.opts.Extension)

	if local, ok := frontmatter.ReadUpdateTime(path); ok && local >= cat.UpdateTime {
		s.stats.Skipped++
		s.log.Info("skipping document, already up to date",
			"title", cat.Title, "path", path, "local", local, "remote", cat.UpdateTime)

		return nil
	}

	s.log.Info("fetching document", "title", cat.Title, "doc_id", cat.DocID, "remote", cat.UpdateTime)

	doc, err := s.fetcher.FetchDocument(cat.DocID)
	if err != nil {
		return fmt.Errorf("fetch failed for %q (doc %d): %w", cat.Title, cat.DocID, err)
	}

	s.stats.Fetched++

	title := doc.Title
	if title == "" {
		title = cat.Title
	}

	body := doc.Body
	if s.opts.FormatTables {
		body = formatter.NormalizeTables(body)
	}

	meta := frontmatter.Meta{
		Title:       title,
		GeneratedAt: s.now(),
		UpdateTime:  cat.UpdateTime,
		Source:      s.opts.BaseURL + "/document/path/" + strconv.FormatInt(cat.CategoryID, 10),
	}

	if err := writeArtifact(path, frontmatter.Render(meta, body)); err != nil {
		// Write failures are soft: log and continue with the rest of the tree.
		s.stats.WriteFailures++
		s.log.Error("failed to save artifact", "path", path, "error", err)
	} else {
		s.log.Info("saved artifact", "path", path, "update_time", cat.UpdateTime)
	}

	s.sleep(s.opts.Delay)

	return nil
}

// writeArtifact writes content to path, creating missing parent directories.
func writeArtifact(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}
