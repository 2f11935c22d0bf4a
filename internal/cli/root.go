// Package cli is the legalsim command line: analyze contracts, fetch stored
// analyses, and launch the interactive simulator.
package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"legalsim-backend/internal/client"
	"legalsim-backend/internal/extract"
	"legalsim-backend/internal/upload"
)

const defaultBaseURL = "http://localhost:8080/functions/v1"

// Deps lets callers swap the functions client and loaders.
type Deps struct {
	NewAPI     func(baseURL, apiKey string) upload.API
	LoadFile   func(ctx context.Context, path string) (extract.File, error)
	Tick       time.Duration
	ResetDelay time.Duration
}

type settings struct {
	baseURL string
	apiKey  string
}

// NewRootCmd builds the legalsim command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.NewAPI == nil {
		deps.NewAPI = func(baseURL, apiKey string) upload.API {
			return client.New(baseURL, client.WithAPIKey(apiKey))
		}
	}
	if deps.LoadFile == nil {
		deps.LoadFile = extract.ReadFile
	}

	s := &settings{}
	root := &cobra.Command{
		Use:           "legalsim",
		Short:         "Simplify and analyze legal documents",
		Long:          `LegalSim turns contracts into plain English, flags critical and beneficial clauses, and lets you explore the results interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&s.baseURL, "base-url", envOr("LEGALSIM_BASE_URL", defaultBaseURL), "functions base URL")
	root.PersistentFlags().StringVar(&s.apiKey, "api-key", os.Getenv("LEGALSIM_API_KEY"), "API key sent as apikey and bearer token")

	root.AddCommand(
		newAnalyzeCmd(s, deps),
		newGetCmd(s, deps),
		newSamplesCmd(),
		newSimulateCmd(s, deps),
	)
	return root
}

func (d Deps) uploader(s *settings, notifier upload.Notifier) *upload.Uploader {
	return &upload.Uploader{
		API:        d.NewAPI(s.baseURL, s.apiKey),
		Notifier:   notifier,
		Tick:       d.Tick,
		ResetDelay: d.ResetDelay,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
