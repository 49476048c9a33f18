// Package cmd wires the malwatch CLI: flag/env/settings resolution, client
// construction, and the mapping from run outcome to process exit code.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/vulnmgt/malwatch/api"
	"github.com/vulnmgt/malwatch/feed"
	"github.com/vulnmgt/malwatch/inventory"
	"github.com/vulnmgt/malwatch/scan"
	"github.com/vulnmgt/malwatch/util"
)

var (
	settingsFile string
	feedURL      string
	inventoryURL string
	outDir       string
	feedToken    string
	userKey      string
	orgToken     string
	debug        bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "malwatch",
	Short: "Cross-reference a malicious-package feed against your inventory",
	Long: `malwatch is a one-shot CI job that downloads the full vendor feed of
known-malicious open-source packages, flattens the organization's software
composition inventory, and reports every dependency in use that exactly
matches a flagged (name, version).`,
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one cross-reference pass and write the report files",
	Long: `Drains the threat feed and the workspace/project/library inventory,
performs the exact-match join, and writes summary.txt and
new-malicious-packages.txt. Exits 0 when clean, 1 when matches are found.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Path to optional YAML settings file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	scanCmd.Flags().StringVar(&feedURL, "feed-url", "", "Threat feed base URL")
	scanCmd.Flags().StringVar(&inventoryURL, "inventory-url", "", "Inventory API base URL")
	scanCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory for the report files")
	scanCmd.Flags().StringVar(&feedToken, "feed-token", "", "Threat feed API key")
	scanCmd.Flags().StringVar(&userKey, "user-key", "", "Inventory user key")
	scanCmd.Flags().StringVar(&orgToken, "org-token", "", "Inventory organization token")
}

// Execute runs the root command. Fatal errors exit 2; a run that finds
// matches exits 1 from runScan.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// settings is the optional non-secret YAML settings file
type settings struct {
	FeedURL      string `yaml:"feed_url"`
	InventoryURL string `yaml:"inventory_url"`
	OutDir       string `yaml:"out_dir"`
}

// resolveConfig merges the configuration sources. Precedence, lowest first:
// built-in defaults, settings file, environment (including .env), flags.
// Secrets are accepted only from the environment or flags.
func resolveConfig(cmd *cobra.Command) (scan.Config, error) {
	// Hosting CI systems commonly provide a .env; absence is fine.
	_ = godotenv.Load()

	cfg := scan.NewConfig()

	if settingsFile != "" {
		content, err := os.ReadFile(settingsFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to read settings file: %w", err)
		}

		var s settings
		if err := yaml.Unmarshal(content, &s); err != nil {
			return cfg, fmt.Errorf("failed to parse settings file: %w", err)
		}

		cfg.FeedURL = util.GetStringOrDefault(s.FeedURL, cfg.FeedURL)
		cfg.InventoryURL = util.GetStringOrDefault(s.InventoryURL, cfg.InventoryURL)
		cfg.OutDir = util.GetStringOrDefault(s.OutDir, cfg.OutDir)
	}

	cfg.FeedURL = util.GetStringOrDefault(util.GetEnvDefault("MALWATCH_FEED_URL", ""), cfg.FeedURL)
	cfg.InventoryURL = util.GetStringOrDefault(util.GetEnvDefault("MALWATCH_INVENTORY_URL", ""), cfg.InventoryURL)
	cfg.OutDir = util.GetStringOrDefault(util.GetEnvDefault("MALWATCH_OUT_DIR", ""), cfg.OutDir)
	cfg.FeedToken = util.GetEnvDefault("MALWATCH_FEED_TOKEN", "")
	cfg.UserKey = util.GetEnvDefault("MALWATCH_USER_KEY", "")
	cfg.OrgToken = util.GetEnvDefault("MALWATCH_ORG_TOKEN", "")
	cfg.Debug = util.GetEnvDefault("MALWATCH_DEBUG", "") == "true"

	if cmd.Flags().Changed("feed-url") {
		cfg.FeedURL = feedURL
	}
	if cmd.Flags().Changed("inventory-url") {
		cfg.InventoryURL = inventoryURL
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = outDir
	}
	if cmd.Flags().Changed("feed-token") {
		cfg.FeedToken = feedToken
	}
	if cmd.Flags().Changed("user-key") {
		cfg.UserKey = userKey
	}
	if cmd.Flags().Changed("org-token") {
		cfg.OrgToken = orgToken
	}
	if cmd.Flags().Changed("debug") || rootCmd.PersistentFlags().Changed("debug") {
		cfg.Debug = debug
	}

	return cfg, nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Credentials are checked before any network activity.
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := api.InitLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	feedClient := feed.NewClient(cfg.FeedURL, cfg.FeedToken, logger)
	inventoryClient := inventory.NewClient(cfg.InventoryURL, cfg.UserKey, cfg.OrgToken, logger)

	ctx := context.Background()

	if err := feedClient.Ping(ctx); err != nil {
		return err
	}
	if err := inventoryClient.Ping(ctx); err != nil {
		return err
	}

	runner := &scan.Runner{
		Feed:      feedClient,
		Inventory: inventoryClient,
		OutDir:    cfg.OutDir,
		Logger:    logger,
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	// Report the outcome to the invoking pipeline.
	fmt.Printf("Matches found: %d\n", result.Matches)
	fmt.Printf("Summary report: %s\n", result.SummaryFile)
	fmt.Printf("Threat table:   %s\n", result.TableFile)

	if result.Matches > 0 {
		fmt.Printf("✗ %d known-malicious package version(s) are in use\n", result.Matches)
		os.Exit(1)
	}

	fmt.Println("✓ No known-malicious packages found in the inventory")
	return nil
}
