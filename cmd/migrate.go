package cmd

import (
	"fmt"

	"picklr/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCheck bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		if migrateCheck {
			issues, err := database.CheckSchema(db, catalogModels()...)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				l.Warn("Schema drift", zap.String("issue", issue.String()))
			}
			if len(issues) > 0 {
				return fmt.Errorf("schema has %d issue(s), run migrate", len(issues))
			}
			l.Info("Schema is up to date")
			return nil
		}

		if err := database.Migrate(db, catalogModels()...); err != nil {
			return err
		}
		l.Info("Migration complete")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCheck, "check", false, "Only report missing tables and columns")
	RootCmd.AddCommand(migrateCmd)
}
