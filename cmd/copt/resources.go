package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/engine"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/ingest"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/output"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/store"
)

func newResourcesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Manage the tracked resource inventory",
	}
	cmd.AddCommand(
		newResourcesListCmd(a),
		newResourcesShowCmd(a),
		newResourcesImportCmd(a),
		newResourcesSeedCmd(a),
		newResourcesDeleteCmd(a),
	)
	return cmd
}

func newResourcesListCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			resources, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list resources: %w", err)
			}
			if f == engine.ReportFormatJSON {
				if resources == nil {
					resources = []models.Resource{}
				}
				return output.WriteJSON(cmd.OutOrStdout(), resources)
			}
			output.RenderResources(cmd.OutOrStdout(), resources)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func newResourcesShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
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
			if f == engine.ReportFormatJSON {
				return output.WriteJSON(cmd.OutOrStdout(), res)
			}
			output.RenderResources(cmd.OutOrStdout(), []models.Resource{*res})
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func newResourcesImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import resources from a YAML or JSON file (upsert by name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := ingest.LoadFile(args[0])
			if err != nil {
				return err
			}
			return importResources(cmd, a, resources)
		},
	}
}

func newResourcesSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in sample fleet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := ingest.Sample()
			if err != nil {
				return err
			}
			return importResources(cmd, a, resources)
		},
	}
}

func newResourcesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Stop tracking a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("resource %d not found", id)
				}
				return fmt.Errorf("delete resource %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted resource %d.\n", id)
			return nil
		},
	}
}

// importResources upserts resources into the configured store and prints
// the outcome.
func importResources(cmd *cobra.Command, a *app, resources []models.Resource) error {
	s, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := ingest.Import(cmd.Context(), s, resources, a.logger)
	if err != nil {
		return err
	}
	printImportResult(cmd.OutOrStdout(), result)
	return nil
}

func printImportResult(w io.Writer, r ingest.Result) {
	fmt.Fprintf(w, "Imported: %d created, %d updated, %d skipped\n", r.Created, r.Updated, len(r.Skipped))
	printSkipped(w, r.Skipped)
}

func printSkipped(w io.Writer, skipped []ingest.Skipped) {
	for _, s := range skipped {
		fmt.Fprintf(w, "  skipped %s: %s\n", s.Name, s.Reason)
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid resource id %q", arg)
	}
	return id, nil
}

// getResource resolves a CLI id argument, mapping store.ErrNotFound to a
// user-facing message.
func getResource(cmd *cobra.Command, s store.Store, arg string) (*models.Resource, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	res, err := s.Get(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("resource %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource %d: %w", id, err)
	}
	return res, nil
}
