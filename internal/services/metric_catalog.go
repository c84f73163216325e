package services

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/healx-backend/internal/domain"
)

//go:embed catalog/metrics.yaml
var DefaultMetricCatalog []byte

type metricCatalog struct {
	Metrics []catalogEntry `yaml:"metrics"`
}

type catalogEntry struct {
	Code        string  `yaml:"code"`
	DisplayName string  `yaml:"display_name"`
	Category    string  `yaml:"category"`
	Unit        string  `yaml:"unit"`
	Description string  `yaml:"description"`
	RefMin      *string `yaml:"ref_min"`
	RefMax      *string `yaml:"ref_max"`
}

// ParseMetricCatalog decodes a YAML catalog. Unknown fields are rejected so a
// typo cannot silently drop a reference bound.
func ParseMetricCatalog(raw []byte) ([]*types.MetricDefinition, error) {
	var cat metricCatalog
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("parse metric catalog: %w", err)
	}
	out := make([]*types.MetricDefinition, 0, len(cat.Metrics))
	seen := map[string]struct{}{}
	for i, e := range cat.Metrics {
		def := &types.MetricDefinition{
			Code:        strings.TrimSpace(e.Code),
			DisplayName: strings.TrimSpace(e.DisplayName),
			Category:    types.MetricCategory(strings.TrimSpace(e.Category)),
			Unit:        strings.TrimSpace(e.Unit),
			Description: strings.TrimSpace(e.Description),
		}
		var err error
		if def.RefMin, err = parseBound(e.RefMin); err != nil {
			return nil, fmt.Errorf("metric catalog entry %d (%s): ref_min: %w", i, def.Code, err)
		}
		if def.RefMax, err = parseBound(e.RefMax); err != nil {
			return nil, fmt.Errorf("metric catalog entry %d (%s): ref_max: %w", i, def.Code, err)
		}
		if problem := def.Problem(); problem != "" {
			return nil, fmt.Errorf("metric catalog entry %d (%s): %s", i, def.Code, problem)
		}
		if _, dup := seen[def.Code]; dup {
			return nil, fmt.Errorf("metric catalog: duplicate code %s", def.Code)
		}
		seen[def.Code] = struct{}{}
		out = append(out, def)
	}
	return out, nil
}

func parseBound(raw *string) (decimal.NullDecimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

type SeedResult struct {
	Created   int
	Unchanged int
}

// SeedMetricCatalog registers every definition in raw. It is idempotent; a
// definition whose category or unit drifted from the stored one fails the seed.
func SeedMetricCatalog(ctx context.Context, registry MetricRegistry, raw []byte) (SeedResult, error) {
	defs, err := ParseMetricCatalog(raw)
	if err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	for _, def := range defs {
		_, created, err := registry.Register(ctx, def)
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", def.Code, err)
		}
		if created {
			res.Created++
		} else {
			res.Unchanged++
		}
	}
	return res, nil
}
