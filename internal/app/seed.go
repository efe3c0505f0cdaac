package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"fedcat/internal/domain"
	"fedcat/internal/service/catalog"
)

// Seed declares integrations and projects to register at startup.
type Seed struct {
	Integrations []domain.CreateIntegrationRequest `yaml:"integrations"`
	Projects     []SeedProject                     `yaml:"projects"`
}

// SeedProject is one project of a seed file.
type SeedProject struct {
	Name    string                              `yaml:"name"`
	Comment string                              `yaml:"comment,omitempty"`
	Objects []domain.CreateProjectObjectRequest `yaml:"objects,omitempty"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed document. Unknown keys are rejected.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, domain.ErrValidation("invalid seed: %v", err)
	}
	return &s, nil
}

// ApplySeed registers everything the seed declares. Entries that already
// exist are left untouched, so applying the same seed twice is a no-op.
func ApplySeed(ctx context.Context, svc *catalog.Service, seed *Seed, logger *slog.Logger) error {
	var added int
	for _, req := range seed.Integrations {
		_, err := svc.AddIntegration(ctx, req)
		switch {
		case err == nil:
			added++
		case domain.IsConflict(err):
			logger.Debug("seed integration exists", "integration", req.Name)
		default:
			return fmt.Errorf("seed integration %q: %w", req.Name, err)
		}
	}

	for _, p := range seed.Projects {
		_, err := svc.CreateProject(ctx, p.Name, p.Comment)
		switch {
		case err == nil:
			added++
		case domain.IsConflict(err):
			logger.Debug("seed project exists", "project", p.Name)
		default:
			return fmt.Errorf("seed project %q: %w", p.Name, err)
		}

		for _, o := range p.Objects {
			_, err := svc.AddProjectObject(ctx, p.Name, o)
			switch {
			case err == nil:
				added++
			case domain.IsConflict(err):
			default:
				return fmt.Errorf("seed object %s.%s: %w", p.Name, o.Name, err)
			}
		}
	}

	if added > 0 {
		logger.Info("seed applied", "added", added)
	}
	return nil
}
