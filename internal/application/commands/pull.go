package commands

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docbridge/internal/application"
	"docbridge/internal/domain"
	"docbridge/internal/ports"
)

// PullCommand mirrors a remote doc (or one page subtree) into the local
// folder of a sync target. Files are created or overwritten, subfolders
// mirror pages with children, and every written file is recorded in the
// identity mapping.
type PullCommand struct {
	vault    ports.VaultRepository
	api      ports.RemoteDocAPI
	mappings ports.MappingStore
	creds    application.Credentials
	log      *zap.Logger

	Target domain.SyncTarget
	// ParentPageID optionally scopes the download to the children of one
	// page instead of the whole doc.
	ParentPageID string
}

// NewPullCommand creates a new PullCommand.
func NewPullCommand(vault ports.VaultRepository, api ports.RemoteDocAPI, mappings ports.MappingStore, creds application.Credentials, target domain.SyncTarget, parentPageID string, log *zap.Logger) *PullCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &PullCommand{
		vault:        vault,
		api:          api,
		mappings:     mappings,
		creds:        creds,
		log:          log,
		Target:       target,
		ParentPageID: parentPageID,
	}
}

// Validate checks workspace configuration and the target doc id.
func (c *PullCommand) Validate() error {
	if !c.creds.Complete() || !c.Target.Actionable() {
		return application.ErrNotConfigured
	}
	return nil
}

// Execute downloads the doc. The returned stats count one entry per page
// attempted (self plus all descendants).
func (c *PullCommand) Execute(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	if err := c.Validate(); err != nil {
		return stats, err
	}

	pages, err := c.api.ListPages(ctx, c.Target.DocID)
	if err != nil {
		return stats, err
	}
	forest, orphans := domain.BuildForest(pages)
	for _, id := range orphans {
		c.log.Warn("page references a parent missing from the doc, treating as root",
			zap.String("doc", c.Target.DocID), zap.String("page", id))
	}

	roots := forest
	if c.ParentPageID != "" {
		node := domain.FindByID(c.ParentPageID, forest)
		if node == nil {
			return stats, fmt.Errorf("%w: %s", application.ErrPageNotFound, c.ParentPageID)
		}
		if len(node.Children) == 0 {
			return stats, fmt.Errorf("%w: %s", application.ErrNoChildren, c.ParentPageID)
		}
		roots = node.Children
	}

	base := c.Target.NormalizedFolder()
	if base != "" {
		if err := c.vault.CreateFolder(strings.TrimSuffix(base, "/")); err != nil {
			return stats, err
		}
	}

	seen := make(map[string]bool)
	for _, root := range roots {
		stats.Add(c.downloadPage(ctx, root, base, "", seen))
	}
	c.log.Info("pull finished",
		zap.String("doc", c.Target.DocID),
		zap.Int("success", stats.Success),
		zap.Int("errors", stats.Errors))
	return stats, nil
}

// downloadPage materializes one page and recurses into its children. A
// content-fetch or write failure is an error for this page only; the
// subtree below it is still processed.
func (c *PullCommand) downloadPage(ctx context.Context, node *domain.PageNode, base, rel string, seen map[string]bool) domain.Stats {
	var stats domain.Stats
	docID := c.Target.DocID

	content, cerr := c.api.PageContent(ctx, docID, node.ID)
	fileName := domain.UniqueFileName(node.Name, node.ID, seen)

	if cerr != nil {
		c.log.Error("failed to fetch page content",
			zap.String("page", node.ID), zap.Error(cerr))
		stats.Errors++
	} else if written, err := c.writePage(base, rel, fileName, content); err != nil {
		c.log.Error("failed to write file",
			zap.String("page", node.ID), zap.String("file", fileName), zap.Error(err))
		stats.Errors++
	} else {
		if err := c.mappings.Set(docID, written, node.ID); err != nil {
			c.log.Error("failed to persist mapping",
				zap.String("file", written), zap.Error(err))
			stats.Errors++
		} else {
			c.log.Debug("page downloaded",
				zap.String("page", node.ID), zap.String("file", written))
			stats.Success++
		}
	}

	if len(node.Children) > 0 {
		folderName := domain.SanitizeName(node.Name)
		if folderName == "" {
			folderName = "Untitled"
		}
		folderPath := base + rel + folderName
		if ok, _ := c.vault.Exists(folderPath); !ok {
			if err := c.vault.CreateFolder(folderPath); err != nil {
				c.log.Error("failed to create folder",
					zap.String("folder", folderPath), zap.Error(err))
				stats.Errors++
			}
		}
		childRel := rel + folderName + "/"
		for _, child := range node.Children {
			stats.Add(c.downloadPage(ctx, child, base, childRel, seen))
		}
	}
	return stats
}

// writePage writes content to the right local path and returns the path
// actually written. A file with the same base name directly under the
// target folder is overwritten in place; so is a previous download at the
// nested path. Otherwise the file is created fresh.
func (c *PullCommand) writePage(base, rel, fileName, content string) (string, error) {
	topPath := base + fileName
	if ok, _ := c.vault.Exists(topPath); ok {
		return topPath, c.vault.Modify(topPath, content)
	}
	fullPath := base + rel + fileName
	if ok, _ := c.vault.Exists(fullPath); ok {
		return fullPath, c.vault.Modify(fullPath, content)
	}
	return fullPath, c.vault.Create(fullPath, content)
}
