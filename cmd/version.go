package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/erlandv/writenex/internal/autosave"
	"github.com/erlandv/writenex/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version history commands",
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	versionCmd.AddCommand(listVersionsCmd())
	versionCmd.AddCommand(showVersionCmd())
	versionCmd.AddCommand(saveVersionCmd())
	versionCmd.AddCommand(deleteVersionCmd())
	versionCmd.AddCommand(clearVersionsCmd())
	versionCmd.AddCommand(restoreVersionCmd())
}

func listVersionsCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list a document's versions, newest first",
		Example: "writenex version list -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if docID == "" {
				logrus.Error("missing: --doc-id")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			versions, err := client.Versions.GetVersions(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Timestamp", "Label", "Preview"})
			for _, version := range versions {
				table.Append([]string{
					strconv.FormatUint(uint64(version.ID), 10),
					version.Timestamp.Format("2006-01-02 15:04:05"),
					version.Label,
					version.Preview,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func showVersionCmd() *cobra.Command {
	var versionID uint

	command := &cobra.Command{
		Use:     "show",
		Short:   "print a version's content",
		Example: "writenex version show -v <version-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if versionID == 0 {
				logrus.Error("missing: --version-id")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			version, err := client.Versions.GetVersion(context.Background(), versionID)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Println(version.Content)
		},
	}

	command.Flags().UintVarP(&versionID, "version-id", "v", 0, "version id")

	return command
}

func saveVersionCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "save",
		Short:   "snapshot a document's current content",
		Example: "writenex version save -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if docID == "" {
				logrus.Error("missing: --doc-id")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx := context.Background()
			doc, err := client.Documents.GetDocument(ctx, docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			id, err := client.Versions.SaveVersion(ctx, doc.ID, doc.Content, autosave.LabelManualSave)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("saved version %d for document %s", id, doc.ID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func deleteVersionCmd() *cobra.Command {
	var versionID uint

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a version",
		Example: "writenex version delete -v <version-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if versionID == 0 {
				logrus.Error("missing: --version-id")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			if err := client.Versions.DeleteVersion(context.Background(), versionID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("version %d deleted", versionID)
		},
	}

	command.Flags().UintVarP(&versionID, "version-id", "v", 0, "version id")

	return command
}

func clearVersionsCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "clear",
		Short:   "delete every version of a document, keeping one safety snapshot",
		Example: "writenex version clear -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if docID == "" {
				logrus.Error("missing: --doc-id")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx := context.Background()
			doc, err := client.Documents.GetDocument(ctx, docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if err := client.Versions.ClearAllVersions(ctx, doc.ID); err != nil {
				logrus.Error(err)
				return
			}
			if _, err := client.Versions.SaveVersion(ctx, doc.ID, doc.Content, autosave.LabelBeforeClear); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("versions of document %s cleared", doc.ID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func restoreVersionCmd() *cobra.Command {
	var docID string
	var versionID uint

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore a document's content from a version",
		Example: "writenex version restore -d <doc-id> -v <version-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if docID == "" || versionID == 0 {
				logrus.Error("missing: --doc-id and --version-id")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx := context.Background()
			doc, err := client.Documents.GetDocument(ctx, docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			version, err := client.Versions.GetVersion(ctx, versionID)
			if err != nil {
				logrus.Error(err)
				return
			}
			if version.DocumentID != doc.ID {
				logrus.Errorf("version %d does not belong to document %s", versionID, doc.ID)
				return
			}

			// keep the pre-restore content recoverable
			if _, err := client.Versions.SaveVersion(ctx, doc.ID, doc.Content, "Before Restore"); err != nil {
				logrus.Error(err)
				return
			}

			update := service.DocumentUpdate{Content: &version.Content}
			if err := client.Documents.UpdateDocument(ctx, doc.ID, update); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s restored to version %d", doc.ID, versionID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().UintVarP(&versionID, "version-id", "v", 0, "version id")

	return command
}
