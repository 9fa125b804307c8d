package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "writenex",
	Short: "local markdown document store",
	Example: `writenex doc new -t <title>
writenex doc list
writenex doc show -d <doc-id>
writenex doc rename -d <doc-id> -t <title>
writenex doc delete -d <doc-id>
writenex version list -d <doc-id>
writenex version save -d <doc-id>
writenex version restore -d <doc-id> -v <version-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
