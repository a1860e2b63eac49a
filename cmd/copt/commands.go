package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/version"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "copt",
		Short:         "Cloud cost optimizer: rightsizing recommendations and resource health",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Config file (default: ~/.config/cloud-optimizer/config.yaml)")
	pf.StringVar(&a.flags.policyPath, "policy", "", "Policy file with rule overrides, downsizing table and pricing")
	pf.StringVar(&a.flags.storeDriver, "store", "", "Resource store: file, memory or postgres")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	root.AddCommand(
		newResourcesCmd(a),
		newRecommendCmd(a),
		newHealthCmd(a),
		newCostSummaryCmd(a),
		newCollectCmd(a),
		newPolicyCmd(),
		newDoctorCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.Info())
			return err
		},
	}
}
