package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-avatar-booth/pkg/catalog"
	"github.com/shouni/gemini-avatar-booth/pkg/config"
)

var (
	configPath string
	logLevel   string

	appConfig  *config.Config
	appCatalog *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "ggsnap",
	Short: "Gemini avatar photo booth",
	Long: styleTitle.Render("ggsnap") + " - Gemini avatar photo booth\n\n" +
		"Pick a hero, snap a photo and get a chibi avatar printed into the gallery.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ggsnap.yaml", "設定ファイルのパス")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ログレベル (debug, info, warn, error)")

	rootCmd.AddCommand(heroesCmd)
	rootCmd.AddCommand(snapCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(versionCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	appCatalog = cat
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
