package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/ingest"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/output"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/aws/inventory"
	kube "github.com/pankaj-dahiya-devops/cloud-optimizer/internal/providers/kubernetes"
)

func newCollectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Discover resources from a cloud account or cluster and import them",
	}
	cmd.AddCommand(newCollectAWSCmd(a), newCollectKubernetesCmd(a))
	return cmd
}

// awsCollectOptions are the flags of collect aws.
type awsCollectOptions struct {
	profile string
	regions []string
	days    int
	dryRun  bool
}

func newCollectAWSCmd(a *app) *cobra.Command {
	var opts awsCollectOptions

	cmd := &cobra.Command{
		Use:   "aws",
		Short: "Collect EC2, RDS, EBS and S3 resources with utilization and cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollectAWS(
				cmd.Context(),
				a,
				common.NewDefaultAWSClientProvider(),
				inventory.NewDefaultCollector(a.logger),
				opts,
				cmd.OutOrStdout(),
			)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", "", "AWS profile name (default: config aws.default_profile, then the credential chain)")
	cmd.Flags().StringSliceVar(&opts.regions, "region", nil, "AWS region(s) to collect (default: all active regions)")
	cmd.Flags().IntVar(&opts.days, "days", 0, "Lookback window in days for metrics and cost (default: config aws.days_back)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the collected resources without importing them")
	return cmd
}

func runCollectAWS(
	ctx context.Context,
	a *app,
	provider common.AWSClientProvider,
	collector inventory.Collector,
	opts awsCollectOptions,
	w io.Writer,
) error {
	profileName := opts.profile
	if profileName == "" {
		profileName = a.cfg.AWS.DefaultProfile
	}
	days := opts.days
	if days <= 0 {
		days = a.cfg.AWS.DaysBack
	}

	profile, err := provider.LoadProfile(ctx, profileName, a.cfg.AWS.DefaultRegion)
	if err != nil {
		return err
	}
	a.logger.Info().
		Str("profile", profile.ProfileName).
		Str("account", profile.AccountID).
		Strs("regions", opts.regions).
		Int("days", days).
		Msg("collecting AWS inventory")

	inv, err := collector.Collect(ctx, profile, provider, inventory.CollectOptions{
		Regions:  opts.regions,
		DaysBack: days,
	})
	if err != nil {
		return fmt.Errorf("collect AWS inventory: %w", err)
	}

	fmt.Fprintf(w, "Account: %s  Regions: %d  Resources: %d\n", inv.AccountID, len(inv.Regions), len(inv.Resources))
	return finishCollect(ctx, a, inv.Resources, inv.Skipped, opts.dryRun, w)
}

// kubeCollectOptions are the flags of collect kubernetes.
type kubeCollectOptions struct {
	context string
	dryRun  bool
}

func newCollectKubernetesCmd(a *app) *cobra.Command {
	var opts kubeCollectOptions

	cmd := &cobra.Command{
		Use:     "kubernetes",
		Aliases: []string{"k8s"},
		Short:   "Collect cluster nodes as compute resources priced from the policy",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollectKubernetes(cmd.Context(), a, kube.NewDefaultKubeClientProvider(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.context, "context", "", "Kubeconfig context (default: config kubernetes.context, then current context)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the collected resources without importing them")
	return cmd
}

func runCollectKubernetes(ctx context.Context, a *app, provider kube.KubeClientProvider, opts kubeCollectOptions, w io.Writer) error {
	pol, err := a.loadPolicy()
	if err != nil {
		return err
	}

	contextName := opts.context
	if contextName == "" {
		contextName = a.cfg.Kubernetes.Context
	}
	clientset, info, err := provider.ClientsetForContext(contextName)
	if err != nil {
		return err
	}
	a.logger.Info().Str("context", info.ContextName).Str("server", info.Server).Msg("collecting cluster nodes")

	inv, err := kube.CollectNodes(ctx, clientset, info, pol)
	if err != nil {
		return fmt.Errorf("collect cluster %q: %w", info.ContextName, err)
	}

	fmt.Fprintf(w, "Context: %s  Nodes: %d\n", info.ContextName, len(inv.Resources)+len(inv.Skipped))
	return finishCollect(ctx, a, inv.Resources, inv.Skipped, opts.dryRun, w)
}

// finishCollect prints or imports collected resources and lists the ones
// the collector could not use.
func finishCollect(ctx context.Context, a *app, resources []models.Resource, skipped []ingest.Skipped, dryRun bool, w io.Writer) error {
	if dryRun {
		output.RenderResources(w, resources)
		if len(skipped) > 0 {
			fmt.Fprintf(w, "Skipped: %d\n", len(skipped))
			printSkipped(w, skipped)
		}
		return nil
	}

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := ingest.Import(ctx, s, resources, a.logger)
	if err != nil {
		return err
	}
	result.Skipped = append(skipped, result.Skipped...)
	printImportResult(w, result)
	return nil
}
