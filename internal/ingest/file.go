// Package ingest loads resources from files, the embedded sample dataset and
// provider collectors, validates them and writes them to a store.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

// LoadFile reads a list of resources from a .yaml, .yml or .json file and
// validates every record. On any violation nothing is returned and the error
// lists all offending records.
func LoadFile(path string) ([]models.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var resources []models.Resource
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &resources)
	case ".json":
		err = json.Unmarshal(data, &resources)
	default:
		return nil, fmt.Errorf("%s: unsupported file type; use .yaml, .yml or .json", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := Validate(resources); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resources, nil
}

// Validate checks every resource against the ingestion invariants and
// rejects duplicate names within the batch.
func Validate(resources []models.Resource) error {
	var errs []error
	seen := make(map[string]int, len(resources))
	for i, r := range resources {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
		}
		if first, dup := seen[r.Name]; dup && r.Name != "" {
			errs = append(errs, fmt.Errorf("record %d: name %q duplicates record %d", i+1, r.Name, first))
			continue
		}
		seen[r.Name] = i + 1
	}
	return errors.Join(errs...)
}
