package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/store"
)

// Skipped records a collected resource that could not be ingested.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result summarises an ingestion run.
type Result struct {
	Created int       `json:"created"`
	Updated int       `json:"updated"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Import validates resources and upserts them by name into s. Invalid
// resources are skipped and reported rather than aborting the run, so a
// single malformed record from a collector cannot block the rest.
func Import(ctx context.Context, s store.Store, resources []models.Resource, logger zerolog.Logger) (Result, error) {
	var res Result
	for i := range resources {
		r := resources[i]
		if err := r.Validate(); err != nil {
			logger.Warn().Err(err).Str("resource", r.Name).Msg("skipping invalid resource")
			res.Skipped = append(res.Skipped, Skipped{Name: r.Name, Reason: err.Error()})
			continue
		}

		created, err := s.Upsert(ctx, &r)
		if err != nil {
			return res, fmt.Errorf("import %q: %w", r.Name, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		logger.Debug().Int64("id", r.ID).Str("resource", r.Name).Bool("created", created).Msg("resource stored")
	}

	logger.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("skipped", len(res.Skipped)).
		Msg("import complete")
	return res, nil
}
