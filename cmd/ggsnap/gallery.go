package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-avatar-booth/pkg/gallery"
)

var galleryExportDir string

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "デモギャラリーを表示します",
	Long:  "起動時のデモギャラリーを新しい順に表示します。--export を指定すると画像を書き出します。",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := gallery.NewStore(appCatalog.SeedItems(time.Now())...)
		if err != nil {
			return err
		}

		var exporter *gallery.Exporter
		if galleryExportDir != "" {
			fetcher, cleanup, err := newAssetFetcher(cmd.Context(), newHTTPClient(appConfig), appCatalog)
			if err != nil {
				return err
			}
			defer cleanup()
			exporter = gallery.NewExporter(fetcher)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styleHeader.Render("Gallery"))
		for _, item := range store.List() {
			name := item.CharacterID
			if ch, ok := appCatalog.ByID(item.CharacterID); ok {
				name = swatch(ch.Name, ch.Color)
			}
			fmt.Fprintf(out, "  %-8s %s  %s\n", item.ID, name, styleMuted.Render(item.CreatedAt.Format(time.Kitchen)))

			if exporter == nil {
				continue
			}
			path, err := exporter.Export(cmd.Context(), item, galleryExportDir)
			if err != nil {
				fmt.Fprintf(out, "    %s %v\n", styleError.Render("✘"), err)
				continue
			}
			fmt.Fprintf(out, "    %s %s\n", styleSuccess.Render("✔"), path)
		}
		return nil
	},
}

func init() {
	galleryCmd.Flags().StringVar(&galleryExportDir, "export", "", "画像の書き出し先ディレクトリ")
}
