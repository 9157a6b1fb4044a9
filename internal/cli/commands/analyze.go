package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/clsview/pkg/analyzer"
	"github.com/ccollicutt/clsview/pkg/config"
	"github.com/ccollicutt/clsview/pkg/detector"
	"github.com/ccollicutt/clsview/pkg/output"
	"github.com/ccollicutt/clsview/pkg/parser"
	"github.com/ccollicutt/clsview/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output      string
	Severity    string
	Search      string
	ContentType string
	Workers     int
	Verbose     bool
	Quiet       bool
	OnlyDumps   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file|glob|dir>...",
		Short: "List console entries in log dumps",
		Long: `Analyze Unity console log dumps and report their console entries.

Each entry is classified as info, warning or error from its console mode.
The report also summarizes the Unity version, build target and packages
recorded in the dump header.

Exit codes:
  0 - No error entries found
  1 - At least one dump has error entries
  2 - Configuration, parse or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|yaml|markdown|html)")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity to show (info|warning|error)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Only show entries containing this text")
	cmd.Flags().StringVar(&opts.ContentType, "content-type", "", "Section content type holding console entries")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Number of files parsed in parallel")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show full messages and modes")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.OnlyDumps, "only-dumps", false, "Skip files that are not log dumps instead of failing")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnErrors), "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	analyzerOpts, err := buildAnalyzerOptions(cfg, opts)
	if err != nil {
		return err
	}

	formatter, err := createFormatter(cfg, opts)
	if err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no log dumps matched: %v", args)
	}

	if opts.OnlyDumps {
		var skipped []*detector.DetectionResult
		files, skipped = detector.New().FilterDumps(ctx, files)
		for _, r := range skipped {
			log.Info().Str("file", r.Path).Str("encoding", string(r.Encoding)).Msg("Skipping file that is not a log dump")
		}
		if len(files) == 0 {
			return fmt.Errorf("no log dumps found in: %v", args)
		}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = cfg.Workers
	}

	log.Debug().Int("files", len(files)).Int("workers", workers).Msg("Parsing log dumps")
	results := parser.ParseFiles(ctx, files, workers)

	a := analyzer.NewAnalyzer(analyzerOpts...)
	out := cmd.OutOrStdout()
	failed := 0

	for _, fr := range results {
		if fr.Err != nil {
			log.Error().Err(fr.Err).Str("file", fr.Path).Msg("Failed to parse log dump")
			failed++
			continue
		}

		report, err := analyzeDocument(ctx, a, fr)
		if err != nil {
			return err
		}

		if err := formatter.Format(ctx, report, out); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
		if len(results) > 1 {
			_, _ = io.WriteString(out, "\n")
		}

		// Webhook failures are logged and never fail the analysis.
		sendWebhooks(ctx, cfg, opts, report)

		if report.HasErrors() {
			ExitCode = 1
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d log dump(s) could not be parsed", failed, len(results))
	}

	return nil
}

func analyzeDocument(ctx context.Context, a *analyzer.Analyzer, fr parser.FileResult) (*output.Report, error) {
	result, err := a.Analyze(ctx, fr.Document)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", fr.Path, err)
	}

	log.Debug().
		Str("file", fr.Path).
		Int("sections", result.Stats.Sections).
		Int("entries", result.Stats.Entries).
		Int("errors", result.Stats.Errors).
		Msg("Analyzed log dump")

	return output.NewReport(result, fr.Path), nil
}

// buildAnalyzerOptions merges command-line flags over the configuration.
func buildAnalyzerOptions(cfg *config.Config, opts *AnalyzeOptions) ([]analyzer.AnalyzerOption, error) {
	severity := cfg.Severity()
	if opts.Severity != "" {
		s, err := analyzer.ParseSeverity(opts.Severity)
		if err != nil {
			return nil, err
		}
		severity = s
	}

	contentType := cfg.ContentType
	if opts.ContentType != "" {
		contentType = opts.ContentType
	}

	return []analyzer.AnalyzerOption{
		analyzer.WithContentType(contentType),
		analyzer.WithMinSeverity(severity),
		analyzer.WithSearch(opts.Search),
		analyzer.WithVerbose(opts.Verbose),
	}, nil
}

func createFormatter(cfg *config.Config, opts *AnalyzeOptions) (output.Formatter, error) {
	name := opts.Output
	if name == "" {
		name = cfg.Output
	}

	return output.New(name, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
}

// sendWebhooks sends the report to all configured webhooks.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasErrors()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:        wh.URL,
			Token:      wh.Token,
			Timeout:    wh.Timeout,
			MaxEntries: wh.MaxEntries,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			log.Info().
				Str("webhook", name).
				Int("status", resp.StatusCode).
				Dur("duration", resp.Duration).
				Msg("Webhook sent")
		} else {
			log.Warn().Err(resp.Error).Str("webhook", name).Msg("Webhook failed")
		}
	}
}

// collectWebhooks merges config file webhooks with the command-line webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnErrors
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and errors.
func shouldFireWebhook(trigger config.WebhookTrigger, hasErrors bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasErrors
	}
}
