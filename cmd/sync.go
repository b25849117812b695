package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"picklr/core/provider"
	"picklr/feature/gallery"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncUser string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run or inspect gallery syncs",
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync one user's gallery from the terminal",
	Long: `Fetches the next delta for the user's linked account and applies every
queued change, exactly like POST /sync.`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many sync tasks are still queued for a user",
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.PersistentFlags().StringVar(&syncUser, "user", "", "User id to sync")
	_ = syncCmd.MarkPersistentFlagRequired("user")

	syncCmd.AddCommand(syncRunCmd)
	syncCmd.AddCommand(syncStatusCmd)
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	store, err := newThumbStore(ctx, cfg)
	if err != nil {
		return err
	}
	svc := gallery.NewService(galleryDeps(cfg, l, db, store, provider.NewFactory(cfg.Provider)))

	l.Info("Starting sync", zap.String("user_id", syncUser))
	report, err := svc.Sync(ctx, syncUser)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	l.Info("Sync complete",
		zap.Int("added", report.Added),
		zap.Int("deleted", report.Deleted),
		zap.Int64("total_files", report.TotalFiles),
		zap.Int("total_pages", report.TotalPages),
	)
	if report.HasMore {
		l.Info("More changes are waiting, run sync again")
	}
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	cfg, l, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	svc := gallery.NewService(gallery.Deps{DB: db, Gallery: cfg.Gallery, Logger: l})
	pending, err := svc.Progress(cmd.Context(), syncUser)
	if err != nil {
		return err
	}
	l.Info("Sync queue", zap.String("user_id", syncUser), zap.Int64("pending", pending))
	return nil
}
