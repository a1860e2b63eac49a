package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/engine"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/health"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/metrics"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/output"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

// inventory loads the policy and every stored resource.
func (a *app) inventory(ctx context.Context) ([]models.Resource, *policy.PolicyConfig, error) {
	pol, err := a.loadPolicy()
	if err != nil {
		return nil, nil, err
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	resources, err := s.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, pol, nil
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		format      string
		outputPath  string
		metricsPath string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Analyze all tracked resources and list cost optimization recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			resources, pol, err := a.inventory(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			report := models.AnalysisReport{
				ReportID:    uuid.NewString(),
				GeneratedAt: now,
				Source:      a.cfg.Store.Driver,
				Summary:     a.engine(pol).Analyze(resources),
			}
			a.logger.Debug().
				Str("report_id", report.ReportID).
				Int("resources", report.Summary.TotalResources).
				Int("recommendations", len(report.Summary.Recommendations)).
				Msg("analysis complete")

			if outputPath != "" {
				if err := writeReportToFile(outputPath, report); err != nil {
					return err
				}
			}

			if metricsPath == "" {
				metricsPath = a.cfg.Metrics.TextfilePath
			}
			if metricsPath != "" {
				if err := writeMetrics(metricsPath, resources, report.Summary, pol, now); err != nil {
					return err
				}
			}

			if f == engine.ReportFormatJSON {
				if err := output.WriteJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				output.RenderRecommendations(cmd.OutOrStdout(), report.Summary, output.TableOptions{})
			}

			if fail, reason := policy.ShouldFail(report.Summary, pol); fail {
				return fmt.Errorf("policy enforcement failed: %s", reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.Flags().StringVar(&outputPath, "output", "", "Also write the full JSON report to this file")
	cmd.Flags().StringVar(&metricsPath, "metrics-file", "", "Write Prometheus gauges to this textfile-collector path")
	return cmd
}

// writeReportToFile serialises report as indented JSON to path, creating or
// overwriting the file.
func writeReportToFile(path string, report models.AnalysisReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file %q: %w", path, err)
	}
	if err := output.WriteJSON(f, report); err != nil {
		f.Close()
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return f.Close()
}

func writeMetrics(path string, resources []models.Resource, summary models.OptimizationSummary, pol *policy.PolicyConfig, at time.Time) error {
	rec := metrics.NewRecorder()
	rec.RecordAnalysis(resources, summary, at)

	scores := make([]models.ResourceHealth, 0, len(resources))
	for _, r := range resources {
		scores = append(scores, health.ForResource(r, pol))
	}
	rec.RecordHealth(scores)

	return rec.WriteTextfile(path)
}

func newHealthCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "health <id>",
		Short: "Score how well a resource's capacity matches its load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			pol, err := a.loadPolicy()
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := getResource(cmd, s, args[0])
			if err != nil {
				return err
			}

			h := health.ForResource(*res, pol)
			if f == engine.ReportFormatJSON {
				return output.WriteJSON(cmd.OutOrStdout(), h)
			}
			output.RenderHealth(cmd.OutOrStdout(), h, output.TableOptions{})
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func newCostSummaryCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "cost-summary",
		Short: "Break monthly spend down by resource type and provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			resources, pol, err := a.inventory(cmd.Context())
			if err != nil {
				return err
			}

			ca := a.engine(pol).CostAnalytics(resources)
			if f == engine.ReportFormatJSON {
				return output.WriteJSON(cmd.OutOrStdout(), ca)
			}
			output.RenderCostAnalytics(cmd.OutOrStdout(), ca)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}
