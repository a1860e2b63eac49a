package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/policy"
)

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Policy file utilities",
	}
	cmd.AddCommand(newPolicyValidateCmd())
	return cmd
}

func newPolicyValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <file>",
		Short:       "Check a policy file and report every problem found",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := policy.LoadPolicy(args[0])
			if err != nil {
				return err
			}

			errs := policy.Validate(cfg, knownRuleIDs())
			w := cmd.OutOrStdout()
			if len(errs) == 0 {
				fmt.Fprintf(w, "%s: valid\n", args[0])
				return nil
			}
			for _, e := range errs {
				fmt.Fprintf(w, "  - %s\n", e)
			}
			return fmt.Errorf("%s: %d validation error(s)", args[0], len(errs))
		},
	}
}
