package cmd

import (
	"github.com/erlandv/writenex/internal/config"
	"github.com/erlandv/writenex/internal/store"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(migrateCmd())
}

func migrateCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "create missing tables and run pending schema migrations",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := config.GetDb(loadConfig())
			if err != nil {
				logrus.Error(err)
				return
			}

			st, err := store.Open(db)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer st.Close()

			color.Green("database migrated")
		},
	}

	return command
}
