package cmd

import (
	"fmt"

	"picklr/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag       bool
	integrityUser string
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the catalog",
	Long:  `Checks the catalog schema and that every file has a stored thumbnail.`,
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check catalog tables and columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService(cmd)
		if err != nil {
			return err
		}
		defer l.Sync()

		report, err := svc.CheckSchema()
		if err != nil {
			return err
		}
		for _, issue := range report.Issues {
			l.Warn("Schema drift", zap.String("issue", issue))
		}
		l.Info("Schema check complete", zap.String("status", report.Status))
		return nil
	},
}

// thumbnailsCmd represents the integrity thumbnails command
var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Check and fix missing thumbnails for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if integrityUser == "" {
			return fmt.Errorf("--user is required")
		}
		svc, l, err := integrityService(cmd)
		if err != nil {
			return err
		}
		defer l.Sync()

		missing, err := svc.CheckThumbnails(cmd.Context(), integrityUser)
		if err != nil {
			return err
		}
		l.Info("Thumbnail check complete", zap.String("user_id", integrityUser), zap.Int("missing", len(missing)))

		if len(missing) > 0 && fixFlag {
			if err := svc.FixThumbnails(cmd.Context(), missing); err != nil {
				return err
			}
			l.Info("Placeholders written", zap.Int("count", len(missing)))
		}
		return nil
	},
}

func integrityService(cmd *cobra.Command) (*integrity.Service, *zap.Logger, error) {
	cfg, l, db, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	store, err := newThumbStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return integrity.NewService(db, store, catalogModels(), l), l, nil
}

func init() {
	thumbnailsCmd.Flags().BoolVar(&fixFlag, "fix", false, "Write placeholders for missing thumbnails")
	thumbnailsCmd.Flags().StringVar(&integrityUser, "user", "", "User id to check")

	integrityCmd.AddCommand(schemaCmd)
	integrityCmd.AddCommand(thumbnailsCmd)
	RootCmd.AddCommand(integrityCmd)
}
