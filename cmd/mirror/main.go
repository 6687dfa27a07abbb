// Package main provides the wwmirror command-line tool that mirrors the
// remote documentation tree into a local directory of MDX artifacts.
package main

import (
	"fmt"
	"os"
	"strings"

	"wwmirror/internal/config"
	"wwmirror/internal/logger"
	"wwmirror/internal/mirror"
	"wwmirror/internal/source"
	"wwmirror/internal/tree"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	flagOutput  string
	flagBaseURL string
	flagEntry   string
	flagDelayMs int
)

var rootCmd = &cobra.Command{
	Use:   "wwmirror",
	Short: "Mirror the WeWork developer documentation into a local MDX tree",
	Long: `wwmirror rebuilds the remote documentation hierarchy from the site's
category listing and mirrors every document into a local file tree.
Documents whose local copy already records the remote update_time are
skipped, so re-running the tool is cheap.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync()
	},
}

var treeCmd = &cobra.Command{
	Use:          "tree",
	Short:        "Print the reconstructed category tree without fetching any documents",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTree()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "output directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "documentation site base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagEntry, "entry", "", "listing page path id (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagDelayMs, "delay-ms", -1, "pacing delay between fetches in ms (overrides config)")

	rootCmd.AddCommand(treeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the YAML config (or the defaults) and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	var err error

	if cfgFile != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", cfgFile)

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if flagOutput != "" {
		cfg.Mirror.Output.Dir = flagOutput
	}

	if flagBaseURL != "" {
		cfg.Mirror.Source.BaseURL = flagBaseURL
	}

	if flagEntry != "" {
		cfg.Mirror.Source.EntryPath = flagEntry
	}

	if flagDelayMs >= 0 {
		cfg.Mirror.Pacing.DelayMs = flagDelayMs
	}

	return cfg, nil
}

// buildForest fetches the listing page and reconstructs the category forest,
// logging any records whose parent is missing from the listing.
func buildForest(client *source.Client, cfg *config.Config, log *logger.Logger) (tree.Forest, error) {
	fmt.Printf("⏳ Fetching category listing from %s\n", client.DocumentURL(cfg.Mirror.Source.EntryPath))

	categories, err := client.ListCategories(cfg.Mirror.Source.EntryPath)
	if err != nil {
		return nil, err
	}

	fmt.Printf("✅ Found %d categories\n", len(categories))

	forest, orphans := tree.Build(categories)
	for _, o := range orphans {
		log.Warn("skipping category with missing parent",
			"category_id", o.CategoryID, "parent_id", o.ParentID, "title", o.Title)
	}

	return forest, nil
}

func runSync() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	runID := uuid.NewString()[:8]
	log := logger.New(cfg.Mirror.Logging.Level).With("run", runID)

	fmt.Println("🪞 wwmirror documentation sync")
	fmt.Printf("Source: %s (entry %s)\n", cfg.Mirror.Source.BaseURL, cfg.Mirror.Source.EntryPath)
	fmt.Printf("Output: %s (.%s files)\n", cfg.Mirror.Output.Dir, cfg.Mirror.Output.Extension)
	fmt.Println()

	client := source.NewClient(cfg.Mirror.Source, &cfg.Mirror.Retry, cfg.Advanced.BufferSizeKb)

	forest, err := buildForest(client, cfg, log)
	if err != nil {
		return fmt.Errorf("source unavailable: %w", err)
	}

	syncer := mirror.NewSyncer(client, log, mirror.Options{
		OutputRoot:   cfg.Mirror.Output.Dir,
		Extension:    cfg.Mirror.Output.Extension,
		BaseURL:      client.BaseURL(),
		Delay:        cfg.PacingDelay(),
		FormatTables: cfg.Features.FormatTables,
	})

	stats, err := syncer.Sync(forest)
	if err != nil {
		fmt.Printf("\n❌ Sync aborted: %v\n", err)

		return err
	}

	fmt.Printf("\n✨ Sync complete: %d fetched, %d skipped, %d write failures\n",
		stats.Fetched, stats.Skipped, stats.WriteFailures)

	return nil
}

func runTree() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Mirror.Logging.Level)
	client := source.NewClient(cfg.Mirror.Source, &cfg.Mirror.Retry, cfg.Advanced.BufferSizeKb)

	forest, err := buildForest(client, cfg, log)
	if err != nil {
		return fmt.Errorf("source unavailable: %w", err)
	}

	fmt.Println()

	for _, root := range forest.Roots() {
		printNode(root, 0)
	}

	return nil
}

func printNode(node *tree.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	if node.Category.IsLeaf() {
		fmt.Printf("%s📄 %s (doc %d)\n", indent, node.Category.Title, node.Category.DocID)
	} else {
		fmt.Printf("%s📁 %s\n", indent, node.Category.Title)
	}

	for _, child := range node.SortedChildren() {
		printNode(child, depth+1)
	}
}
