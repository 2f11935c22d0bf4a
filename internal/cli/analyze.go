package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"legalsim-backend/internal/client"
	"legalsim-backend/internal/extract"
	"legalsim-backend/internal/simulator"
	"legalsim-backend/internal/upload"
)

var errNoOutcome = errors.New("analysis finished without a result")

func newAnalyzeCmd(s *settings, deps Deps) *cobra.Command {
	var (
		file   string
		sample string
		title  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Simplify and analyze a document",
		Long: `Submit a local file (PDF, DOCX or TXT up to 10MB) or a bundled sample
contract. Progress is an estimate; the call settles when the analysis is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildRequest(cmd.Context(), deps, file, sample, title)
			if err != nil {
				return err
			}
			notifier := upload.NotifierFunc(func(n upload.Notification) {
				printNotification(cmd.ErrOrStderr(), n)
			})
			task := deps.uploader(s, notifier).Start(cmd.Context(), req)
			outcome, err := awaitOutcome(cmd.Context(), cmd.ErrOrStderr(), task)
			if err != nil {
				return err
			}
			if outcome.Err != nil {
				return outcome.Err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), outcome.Result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document: %s\n", outcome.Result.DocumentID)
			printAnalysis(cmd.OutOrStdout(), req.Title, outcome.Result.Analysis)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a PDF, DOCX or TXT file")
	cmd.Flags().StringVarP(&sample, "sample", "s", "", "bundled sample id (see `legalsim samples`)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "document title (defaults to the file or sample name)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw function response")
	cmd.MarkFlagsMutuallyExclusive("file", "sample")
	cmd.MarkFlagsOneRequired("file", "sample")
	return cmd
}

func buildRequest(ctx context.Context, deps Deps, file, sample, title string) (client.ProcessRequest, error) {
	var req client.ProcessRequest
	if sample != "" {
		sm, ok := simulator.SampleByID(sample)
		if !ok {
			return req, fmt.Errorf("%w: %s", simulator.ErrUnknownSample, sample)
		}
		req = client.ProcessRequest{
			Content:  sm.Content,
			Title:    sm.Title,
			FileType: extract.MimeText,
			FileSize: int64(len(sm.Content)),
		}
	} else {
		f, err := deps.LoadFile(ctx, file)
		if err != nil {
			return req, err
		}
		req = client.ProcessRequest{
			Content:  f.Content,
			Title:    f.Title,
			FileType: f.FileType,
			FileSize: f.Size,
		}
	}
	if t := strings.TrimSpace(title); t != "" {
		req.Title = t
	}
	return req, nil
}

// awaitOutcome renders estimated progress on w until the task settles.
func awaitOutcome(ctx context.Context, w io.Writer, task *upload.Task) (upload.Outcome, error) {
	progress := task.Progress()
	for {
		select {
		case <-ctx.Done():
			task.Discard()
			fmt.Fprintln(w)
			return upload.Outcome{}, ctx.Err()
		case e, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			fmt.Fprintf(w, "\rAnalyzing... %3.0f%% (estimated)", e.Percent)
		case out, ok := <-task.Done():
			fmt.Fprintf(w, "\rAnalyzing... %3.0f%% (estimated)\n", 100.0)
			if !ok {
				return upload.Outcome{}, errNoOutcome
			}
			return out, nil
		}
	}
}

func printNotification(w io.Writer, n upload.Notification) {
	prefix := "ok"
	if n.Destructive {
		prefix = "error"
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", prefix, n.Title, n.Description)
}

func printAnalysis(w io.Writer, title string, a client.Analysis) {
	d := simulator.BuildDashboard(title, a)
	o := d.Overview
	if d.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", d.Title)
	}
	fmt.Fprintf(w, "Risk: %d/100 (%s)  Complexity: %d/100 (%s comprehension)\n",
		o.RiskScore, o.RiskLevel, o.ComplexityScore, o.ComprehensionLevel)
	fmt.Fprintf(w, "Clauses: %d total, %d critical, %d beneficial\n\n",
		o.TotalClauses, o.CriticalClauses, o.BeneficialClauses)

	fmt.Fprintf(w, "Summary\n  %s\n\n", d.Summary)
	printList(w, "Key points", d.KeyPoints)
	printList(w, "Critical clauses", d.CriticalClauses)
	printList(w, "Beneficial clauses", d.BeneficialClauses)
	fmt.Fprintf(w, "In plain English\n  %s\n", d.SimplifiedContent)
}

func printList(w io.Writer, heading string, items []string) {
	fmt.Fprintln(w, heading)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
