package cmd

import (
	"context"
	"fmt"
	"os"

	writenex "github.com/erlandv/writenex"
	"github.com/erlandv/writenex/internal/service"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "document commands",
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	docCmd.AddCommand(newDocCmd())
	docCmd.AddCommand(listDocCmd())
	docCmd.AddCommand(showDocCmd())
	docCmd.AddCommand(renameDocCmd())
	docCmd.AddCommand(deleteDocCmd())
}

// openClient opens the engine over the configured store. Every command
// runs against a fresh client and closes it on the way out.
func openClient() (*writenex.Client, error) {
	return writenex.Open(loadConfig())
}

func documentTitleUpdate(title string) service.DocumentUpdate {
	return service.DocumentUpdate{Title: &title}
}

func newDocCmd() *cobra.Command {
	var title string
	var content string

	command := &cobra.Command{
		Use:     "new",
		Short:   "create a document",
		Example: "writenex doc new -t <title> -c <content>",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			doc, err := client.Documents.CreateDocument(context.Background(), title, content)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document created with id: %s", doc.ID)
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "document title")
	command.Flags().StringVarP(&content, "content", "c", "", "document content")

	return command
}

func listDocCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "list",
		Short:   "list documents, most recently edited first",
		Example: "writenex doc list",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx := context.Background()
			docs, err := client.Documents.GetAllDocuments(ctx)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Updated", "Versions"})
			for _, doc := range docs {
				versions, err := client.Versions.GetVersions(ctx, doc.ID)
				if err != nil {
					logrus.Error(err)
					return
				}
				table.Append([]string{
					doc.ID,
					doc.Title,
					doc.UpdatedAt.Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%d", len(versions)),
				})
			}
			table.Render()
		},
	}

	return command
}

func showDocCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "show",
		Short:   "print a document's content",
		Example: "writenex doc show -d <doc-id>",
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

			doc, err := client.Documents.GetDocument(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Println("#", doc.Title)
			fmt.Println(doc.Content)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}

func renameDocCmd() *cobra.Command {
	var docID string
	var title string

	command := &cobra.Command{
		Use:     "rename",
		Short:   "rename a document",
		Example: "writenex doc rename -d <doc-id> -t <title>",
		Run: func(cmd *cobra.Command, args []string) {
			if docID == "" || title == "" {
				logrus.Error("missing: --doc-id and --title")
				return
			}

			client, err := openClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			err = client.Documents.UpdateDocument(context.Background(), docID, documentTitleUpdate(title))
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s renamed to %q", docID, title)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&title, "title", "t", "", "new title")

	return command
}

func deleteDocCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a document and its versions",
		Example: "writenex doc delete -d <doc-id>",
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

			if err := client.DeleteDocument(context.Background(), docID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s deleted", docID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}
