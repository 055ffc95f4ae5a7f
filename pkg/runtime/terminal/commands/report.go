package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/speed-report/pkg/models/api"
	"github.com/de-tools/speed-report/pkg/runtime/terminal/export"
	"github.com/de-tools/speed-report/pkg/services/config"
	"github.com/de-tools/speed-report/pkg/services/report"
	"github.com/de-tools/speed-report/pkg/store/archive"
	"github.com/de-tools/speed-report/pkg/store/client"
)

// Analyzer fetches a PageSpeed analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req client.Request) (*api.Analysis, error)
}

type ReportCmd struct {
	configPath string
	verbose    bool
	analyzer   Analyzer
	archive    report.Archive
	output     io.Writer
	errOut     io.Writer
}

func NewReportCmd(analyzer Analyzer, store report.Archive, output, errOut io.Writer) *cobra.Command {
	rc := &ReportCmd{analyzer: analyzer, archive: store, output: output, errOut: errOut}
	cmd := &cobra.Command{
		Use:   "report <url>",
		Short: "Analyze a page and print its PageSpeed report",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	// Define flags
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Path to a configuration file")
	cmd.Flags().BoolVarP(&rc.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().String("format", "cli", fmt.Sprintf("Output format (%s)", strings.Join(export.FormatNames(), ", ")))
	cmd.Flags().String("strategy", "mobile", "Analysis strategy (mobile or desktop)")
	cmd.Flags().Float64("threshold", report.DefaultThreshold, "Minimum speed score required to pass")
	cmd.Flags().Bool("optimized", false, "Print a link to the optimized resources")
	cmd.Flags().Bool("download", false, "Download the optimized resources to ./"+archive.FileName)
	cmd.Flags().String("locale", "en_US", "Locale of the analysis results")
	cmd.Flags().String("key", "", "Google API key")
	cmd.Flags().Duration("timeout", 60*time.Second, "Timeout for the analysis and download")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	if rc.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: rc.errOut}).
		Level(level).
		With().
		Timestamp().
		Logger()

	cfg, err := config.LoadConfig(rc.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	ctx := logger.WithContext(cmd.Context())
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	target := PrependScheme(args[0])
	analysis, err := rc.analyzer.Analyze(ctx, client.Request{
		URL:      target,
		Strategy: cfg.Strategy,
		Locale:   cfg.Locale,
		APIKey:   cfg.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", target, err)
	}

	svc := report.NewService(rc.output, rc.archive)
	return svc.Generate(ctx, report.Params{
		Format:    cfg.Format,
		Strategy:  cfg.Strategy,
		Threshold: cfg.Threshold,
		Optimized: cfg.Optimized,
		Download:  cfg.Download,
	}, analysis)
}

// PrependScheme adds http:// to URLs given without a scheme.
func PrependScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "//") {
		return "http:" + raw
	}
	if strings.Contains(raw, "://") {
		return raw
	}
	return "http://" + raw
}
