package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erlandv/writenex/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "writenex"
	configDirName  = ".writenex"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context selects which database file the CLI operates on, so the same
// binary can inspect several stores without re-exporting env vars.
type Context struct {
	Database string `json:"database"`
}

func setContextCommand() *cobra.Command {
	var database string

	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if database == "" {
				color.Red("missing: --database")
				return
			}

			writeContext(Context{Database: database})
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&database, "database", "D", "", "database file path")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			if ctx.Database == "" {
				fmt.Println("no context set, using defaults")
				return
			}
			fmt.Println("database:", ctx.Database)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

// loadConfig merges the CLI context file into the environment config.
func loadConfig() config.Config {
	cfg := config.Load()
	if ctx := readContext(); ctx.Database != "" {
		cfg.DBDriver = "sqlite"
		cfg.DBPath = ctx.Database
	}
	return cfg
}

func writeContext(context Context) {
	if err := os.MkdirAll(configDirName, os.ModePerm); err != nil {
		fmt.Println("error creating config directory: ", err)
		return
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath(configDirName)
	viper.SetConfigType("yml")
	viper.Set("context", context)

	if err := viper.WriteConfigAs(filepath.Join(configDirName, configFileName + ".yml")); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func readContext() Context {
	var ctx Context

	if _, err := os.Stat(filepath.Join(configDirName, configFileName + ".yml")); os.IsNotExist(err) {
		return ctx
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath(configDirName)
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}
