package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/recipecost/backend/internal/domain"
)

// Dataset is the file representation of a catalog: the products on offer and
// the recipes to price against them.
type Dataset struct {
	Products []domain.Product `json:"products" yaml:"products"`
	Recipes  []domain.Recipe  `json:"recipes" yaml:"recipes"`
}

// Validate checks every product and recipe and rejects duplicate recipe names
func (d *Dataset) Validate() error {
	for _, product := range d.Products {
		if err := product.Validate(); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(d.Recipes))
	for _, recipe := range d.Recipes {
		if err := recipe.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(recipe.RecipeName)
		if seen[key] {
			return fmt.Errorf("%w: duplicate recipe %q", domain.ErrInvalidRequest, recipe.RecipeName)
		}
		seen[key] = true
	}
	return nil
}

// Supported dataset formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadDataset reads and validates a dataset file. The format follows the
// file extension: .json, .yaml or .yml.
func LoadDataset(path string) (*Dataset, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	dataset, err := DecodeDataset(file, format)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return dataset, nil
}

// DecodeDataset decodes and validates a dataset in the given format
func DecodeDataset(r io.Reader, format string) (*Dataset, error) {
	var dataset Dataset

	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&dataset); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&dataset); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}

	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}
