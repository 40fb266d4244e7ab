package commands

import (
	"context"

	"go.uber.org/zap"

	"docbridge/internal/domain"
	"docbridge/internal/ports"
)

// GCCommand removes identity mappings that no longer correspond to an
// existing vault file and a configured sync target, along with any
// entries whose key fails to parse.
type GCCommand struct {
	vault    ports.VaultRepository
	mappings ports.MappingStore
	targets  []domain.SyncTarget
	log      *zap.Logger
}

// NewGCCommand creates a new GCCommand.
func NewGCCommand(vault ports.VaultRepository, mappings ports.MappingStore, targets []domain.SyncTarget, log *zap.Logger) *GCCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &GCCommand{vault: vault, mappings: mappings, targets: targets, log: log}
}

// Execute runs the collection and returns the number of entries removed.
func (c *GCCommand) Execute(ctx context.Context) (int, error) {
	entries, err := c.vault.List()
	if err != nil {
		return 0, err
	}
	existing := make(map[string]bool)
	for _, e := range entries {
		if e.Kind == ports.EntryFile {
			existing[e.Path] = true
		}
	}
	valid := make(map[string]bool)
	for _, t := range c.targets {
		if t.Actionable() {
			valid[t.DocID] = true
		}
	}
	removed, err := c.mappings.GarbageCollect(existing, valid)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.log.Info("garbage-collected stale mappings", zap.Int("removed", removed))
	}
	return removed, nil
}
