package ingest

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/cloud-optimizer/internal/models"
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in sample dataset used by "copt resources seed".
func Sample() ([]models.Resource, error) {
	var resources []models.Resource
	if err := yaml.Unmarshal(sampleYAML, &resources); err != nil {
		return nil, fmt.Errorf("parse sample dataset: %w", err)
	}
	if err := Validate(resources); err != nil {
		return nil, fmt.Errorf("sample dataset: %w", err)
	}
	return resources, nil
}
