package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/address"
	"github.com/sells-group/roster-cli/internal/classify"
	"github.com/sells-group/roster-cli/internal/document"
	"github.com/sells-group/roster-cli/internal/ingest"
	"github.com/sells-group/roster-cli/internal/metrics"
	"github.com/sells-group/roster-cli/internal/pipeline"
	"github.com/sells-group/roster-cli/internal/report"
	"github.com/sells-group/roster-cli/internal/rules"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/pkg/viacep"
)

var (
	validateInput       string
	validateReference   string
	validateInvalidOut  string
	validateJSONOut     string
	validateColumns     string
	validateMetricsFile string
	validateOffline     bool
	validateConcurrency int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a roster and write the rejected rows and upload document",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyValidateFlags()
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runValidate(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateInput, "input", "", "roster spreadsheet (.xlsx or .csv)")
	f.StringVar(&validateReference, "reference", "", "reference system export with the known CPFs")
	f.StringVar(&validateInvalidOut, "invalid-out", "", "destination for rejected rows")
	f.StringVar(&validateJSONOut, "json-out", "", "destination for the upload document")
	f.StringVar(&validateColumns, "columns", "", "YAML file overriding the roster column headers")
	f.StringVar(&validateMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	f.BoolVar(&validateOffline, "offline", false, "skip ViaCEP lookups; every record fails the CEP rule")
	f.IntVar(&validateConcurrency, "concurrency", 0, "max concurrent ViaCEP lookups (0 uses config)")
	rootCmd.AddCommand(validateCmd)
}

// applyValidateFlags overlays explicitly set flags on the loaded config.
func applyValidateFlags() {
	if validateInput != "" {
		cfg.Input.Path = validateInput
	}
	if validateReference != "" {
		cfg.Reference.Path = validateReference
	}
	if validateInvalidOut != "" {
		cfg.Output.InvalidPath = validateInvalidOut
	}
	if validateJSONOut != "" {
		cfg.Output.JSONPath = validateJSONOut
	}
	if validateColumns != "" {
		cfg.Input.ColumnsFile = validateColumns
	}
	if validateMetricsFile != "" {
		cfg.Output.MetricsPath = validateMetricsFile
	}
	if validateConcurrency > 0 {
		cfg.Batch.MaxConcurrentLookups = validateConcurrency
	}
}

// offlineClient fails every lookup.
type offlineClient struct{}

func (offlineClient) Lookup(_ context.Context, cep string) (*viacep.Address, error) {
	return nil, eris.Errorf("viacep: offline, lookup of %s skipped", cep)
}

func newLookupClient() viacep.Client {
	if validateOffline {
		return offlineClient{}
	}
	policy := viacep.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.ViaCEP.MaxAttempts
	return viacep.NewCachedClient(viacep.NewRetryingClient(viacep.NewClient(
		viacep.WithBaseURL(cfg.ViaCEP.BaseURL),
		viacep.WithTimeout(time.Duration(cfg.ViaCEP.TimeoutSecs)*time.Second),
		viacep.WithRateLimit(cfg.ViaCEP.RateLimit),
	), policy))
}

// runValidate reads every input up front so a missing file or column aborts
// before any output is written.
func runValidate(ctx context.Context, out io.Writer) error {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	layout := ingest.DefaultLayout()
	if cfg.Input.ColumnsFile != "" {
		l, err := ingest.LoadLayout(cfg.Input.ColumnsFile)
		if err != nil {
			return err
		}
		layout = l
	}

	rows, err := sheet.Read(cfg.Input.Path, sheet.Options{SheetName: cfg.Input.Sheet})
	if err != nil {
		return eris.Wrap(err, "validate: read input")
	}
	raws, err := ingest.Records(cfg.Input.Path, rows, layout)
	if err != nil {
		return eris.Wrap(err, "validate: parse input")
	}

	refRows, err := sheet.Read(cfg.Reference.Path, sheet.Options{SheetName: cfg.Reference.Sheet})
	if err != nil {
		return eris.Wrap(err, "validate: read reference")
	}
	cpfs, err := ingest.ReferenceCPFs(cfg.Reference.Path, refRows, cfg.Reference.Column)
	if err != nil {
		return eris.Wrap(err, "validate: parse reference")
	}
	ref := classify.NewReferenceSet(cpfs)

	log.Info("validate: inputs loaded",
		zap.String("input", cfg.Input.Path),
		zap.Int("records", len(raws)),
		zap.Int("reference_cpfs", ref.Len()),
		zap.Bool("offline", validateOffline),
	)

	m := metrics.New()
	reconciler := address.NewReconciler(newLookupClient(),
		address.WithFoldAccents(cfg.Address.FoldAccents),
		address.WithObserver(m),
	)
	engine := rules.New(rules.WithMinAge(cfg.Rules.MinAge))
	p := pipeline.New(reconciler, engine,
		pipeline.WithConcurrency(cfg.Batch.MaxConcurrentLookups),
		pipeline.WithMetrics(m),
	)

	res, err := p.Run(ctx, raws, ingest.DataRows(rows), ref)
	if err != nil {
		return eris.Wrap(err, "validate: run pipeline")
	}

	if err := sheet.Write(cfg.Output.InvalidPath, ingest.InvalidHeader(layout), ingest.InvalidRows(res.Invalid)); err != nil {
		return eris.Wrap(err, "validate: write invalid rows")
	}

	if len(res.Customers) == 0 {
		log.Warn("validate: no valid records, upload document not written",
			zap.String("path", cfg.Output.JSONPath))
	} else if err := document.WriteJSON(cfg.Output.JSONPath, res.Customers); err != nil {
		return err
	}

	if cfg.Output.MetricsPath != "" {
		if err := m.WriteTextfile(cfg.Output.MetricsPath); err != nil {
			return err
		}
	}

	log.Info("validate: run complete",
		zap.Int("total", res.Summary.Total),
		zap.Int("unique", res.Normalized),
		zap.Int("valid", res.Summary.Valid),
		zap.Int("invalid", res.Summary.Invalid),
		zap.Int("neither", res.Summary.Neither),
		zap.Int("new", res.Summary.New),
		zap.Int("existing", res.Summary.Existing),
		zap.Duration("duration", res.Duration),
	)

	if err := report.WriteSummary(out, res.Summary); err != nil {
		return eris.Wrap(err, "validate: write summary")
	}
	if len(res.Customers) == 0 {
		_, _ = fmt.Fprintf(out, "\nNenhum registro válido; %s não foi gerado.\n", cfg.Output.JSONPath)
	}
	return nil
}
