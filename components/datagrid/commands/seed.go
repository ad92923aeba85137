package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	datagrid "github.com/goliatone/go-datagrid/components/datagrid"
)

// SeedTablesInput controls which tables get registered.
type SeedTablesInput struct {
	// Defaults registers the built-in analytics tables and demo sources.
	Defaults bool
	// Manifests lists YAML/JSON manifest files to load.
	Manifests []string
}

// ManifestLoader registers manifest files against a registry.
type ManifestLoader interface {
	LoadManifestFile(path string) (*datagrid.TableManifestDocument, error)
}

type seedRegistry interface {
	datagrid.TableRegistry
	ManifestLoader
}

// SeedTablesCommand registers default tables and manifest-declared tables.
type SeedTablesCommand struct {
	registry  seedRegistry
	telemetry Telemetry
}

// NewSeedTablesCommand wires dependencies.
func NewSeedTablesCommand(registry seedRegistry, telemetry Telemetry) *SeedTablesCommand {
	return &SeedTablesCommand{registry: registry, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedTablesInput] = (*SeedTablesCommand)(nil)

// Execute runs the registration pipeline.
func (c *SeedTablesCommand) Execute(ctx context.Context, msg SeedTablesInput) error {
	if c.registry == nil {
		return errors.New("seed command requires registry")
	}
	registered := 0
	if msg.Defaults {
		sources := datagrid.DefaultSources()
		for _, def := range datagrid.DefaultTableDefinitions() {
			if err := c.registry.RegisterDefinition(def); err != nil {
				return err
			}
			if source, ok := sources[def.Code]; ok {
				if err := c.registry.RegisterSource(def.Code, source); err != nil {
					return err
				}
			}
			registered++
		}
	}
	for _, path := range msg.Manifests {
		doc, err := c.registry.LoadManifestFile(path)
		if err != nil {
			return fmt.Errorf("seed manifest %s: %w", path, err)
		}
		registered += len(doc.Tables)
	}
	c.telemetry.Record(ctx, "datagrid.seed", map[string]any{
		"defaults":  msg.Defaults,
		"manifests": len(msg.Manifests),
		"tables":    registered,
	})
	return nil
}
