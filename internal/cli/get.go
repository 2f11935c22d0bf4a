package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"legalsim-backend/internal/upload"
)

func newGetCmd(s *settings, deps Deps) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get [document-id]",
		Short: "Show a stored document and its analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier := upload.NotifierFunc(func(n upload.Notification) {
				printNotification(cmd.ErrOrStderr(), n)
			})
			out, err := deps.uploader(s, notifier).Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			doc := out.Document
			fmt.Fprintf(w, "Document: %s\n", doc.ID)
			fmt.Fprintf(w, "Status: %s\n", doc.AnalysisStatus)
			fmt.Fprintf(w, "Type: %s (%d bytes)\n\n", doc.FileType, doc.FileSize)
			if out.Analysis == nil {
				fmt.Fprintln(w, "No analysis yet.")
				return nil
			}
			printAnalysis(w, doc.Title, *out.Analysis)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw function response")
	return cmd
}
