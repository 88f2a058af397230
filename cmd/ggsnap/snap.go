package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-avatar-booth/pkg/booth"
	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"github.com/shouni/gemini-avatar-booth/pkg/gallery"
)

var (
	snapHero      string
	snapPhoto     string
	snapCameraURL string
	snapOutDir    string
	snapJPEG      int
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "写真を撮ってアバターを生成します",
	Long: "アップロード写真 (--photo) またはネットワークカメラ (--camera-url) から撮影し、\n" +
		"選択したキャラクターのスタイルでアバターを生成して書き出します。",
	Args: cobra.NoArgs,
	RunE: runSnap,
}

func init() {
	snapCmd.Flags().StringVar(&snapHero, "hero", "", "キャラクターID (必須)")
	snapCmd.Flags().StringVar(&snapPhoto, "photo", "", "アップロードする写真のパス")
	snapCmd.Flags().StringVar(&snapCameraURL, "camera-url", "", "カメラのスナップショットURL")
	snapCmd.Flags().StringVarP(&snapOutDir, "out", "o", "", "出力ディレクトリ")
	snapCmd.Flags().IntVar(&snapJPEG, "jpeg", 0, "JPEG品質 (1-100)。指定すると JPEG で書き出します")
	_ = snapCmd.MarkFlagRequired("hero")
}

func runSnap(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hero, ok := appCatalog.ByID(snapHero)
	if !ok {
		return fmt.Errorf("unknown hero %q (ggsnap heroes で一覧を確認してください)", snapHero)
	}
	cameraURL := snapCameraURL
	if cameraURL == "" {
		cameraURL = appConfig.Capture.SnapshotURL
	}
	if snapPhoto == "" && cameraURL == "" {
		return fmt.Errorf("--photo か --camera-url のどちらかを指定してください")
	}
	outDir := snapOutDir
	if outDir == "" {
		outDir = appConfig.OutputDir
	}

	httpClient := newHTTPClient(appConfig)
	gateway, err := newGateway(ctx, appConfig)
	if err != nil {
		return err
	}
	source, err := newCaptureSource(appConfig, httpClient, cameraURL)
	if err != nil {
		return err
	}
	store, err := gallery.NewStore(appCatalog.SeedItems(time.Now())...)
	if err != nil {
		return err
	}

	events := make(chan booth.Event, 64)
	done := make(chan struct{})
	ctrl, err := booth.NewController(source, gateway, store,
		booth.WithTiming(boothTiming(appConfig)),
		booth.WithEventHandler(func(e booth.Event) {
			select {
			case events <- e:
			case <-done:
			}
		}),
	)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	defer close(done)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", styleTitle.Render("Hero:"), swatch(hero.Name, hero.Color))
	ctrl.SelectCharacter(hero)

	if snapPhoto != "" {
		data, err := os.ReadFile(snapPhoto)
		if err != nil {
			return fmt.Errorf("写真の読み込みに失敗しました: %w", err)
		}
		if err := ctrl.Upload(data); err != nil {
			return err
		}
	} else {
		// 1回目でカメラを起動し、準備ができたらもう一度押す
		ctrl.Shutter()
	}

	item, err := waitForPrint(ctx, out, ctrl, events)
	if err != nil {
		return err
	}

	fetcher, cleanup, err := newAssetFetcher(ctx, httpClient, appCatalog)
	if err != nil {
		return err
	}
	defer cleanup()
	path, err := gallery.NewExporter(fetcher, gallery.WithJPEGQuality(snapJPEG)).Export(ctx, *item, outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", styleSuccess.Render("✔ saved"), path)
	return nil
}

// waitForPrint はイベントを表示しながらギャラリーへの登録を待ちます。
func waitForPrint(ctx context.Context, out io.Writer, ctrl *booth.Controller, events <-chan booth.Event) (*domain.GalleryItem, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case e := <-events:
			switch e.Kind {
			case booth.EventCameraActivated:
				fmt.Fprintln(out, styleMuted.Render("camera ready"))
				ctrl.Shutter()
			case booth.EventCountdownTick:
				fmt.Fprintf(out, "%s\a\n", styleWarning.Render(fmt.Sprintf("%d...", e.Countdown)))
			case booth.EventShutter:
				fmt.Fprintln(out, styleTitle.Render("📸 snap!"))
			case booth.EventGenerated:
				fmt.Fprintln(out, styleSuccess.Render("✨ developing..."))
			case booth.EventSettled:
				fmt.Fprintln(out, styleMuted.Render("printing..."))
			case booth.EventCommitted:
				return e.Item, nil
			case booth.EventFailureNotice:
				fmt.Fprintln(out, styleError.Render("生成に失敗しました。もう一度お試しください"))
				return nil, e.Err
			case booth.EventDeviceError, booth.EventCaptureError, booth.EventDecodeError:
				return nil, e.Err
			}
		}
	}
}
