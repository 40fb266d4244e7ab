package commands

import (
	"context"
	"errors"
	"path"
	"strings"

	"go.uber.org/zap"

	"docbridge/internal/application"
	"docbridge/internal/domain"
	"docbridge/internal/ports"
)

// pusher holds the collaborators shared by the upload commands.
type pusher struct {
	vault    ports.VaultRepository
	api      ports.RemoteDocAPI
	mappings ports.MappingStore
	creds    application.Credentials
	log      *zap.Logger
}

// uploadFile reconciles one local file against one sync target. It
// resolves the target page id (mapping, then name fallback), attempts an
// update, and falls back to create when the update is rejected. Failures
// are logged and reported as false; nothing propagates to the caller, so
// one bad file never stops a batch.
func (p *pusher) uploadFile(ctx context.Context, target domain.SyncTarget, forest []*domain.PageNode, filePath string) bool {
	if !p.creds.Complete() || !target.Actionable() {
		p.log.Error("upload skipped, sync not configured", zap.String("file", filePath))
		return false
	}
	docID := target.DocID
	base := fileBaseName(filePath)

	pageID, known := p.mappings.Get(docID, filePath)
	if !known {
		// Name-based identity recovery. The discovery is persisted before
		// any further action so a crash afterward does not lose it.
		if n := domain.FindByName(base, forest); n != nil {
			pageID = n.ID
			if err := p.mappings.Set(docID, filePath, pageID); err != nil {
				p.log.Error("failed to persist discovered mapping",
					zap.String("file", filePath), zap.Error(err))
				return false
			}
		}
	}

	content, err := p.vault.Read(filePath)
	if err != nil {
		p.log.Error("failed to read file", zap.String("file", filePath), zap.Error(err))
		return false
	}

	if pageID != "" {
		err := p.api.UpdatePage(ctx, docID, pageID, ports.UpdatePageRequest{
			Name:    base,
			Content: content,
		})
		if err == nil {
			p.log.Debug("page updated",
				zap.String("file", filePath), zap.String("page", pageID))
			return true
		}
		var se *application.StatusError
		if !errors.As(err, &se) {
			p.log.Error("transport failure updating page",
				zap.String("file", filePath), zap.String("page", pageID), zap.Error(err))
			return false
		}
		// The recorded page may have been deleted out-of-band. Drop the
		// stale mapping and recreate so the sync still converges.
		p.log.Warn("update rejected, falling back to create",
			zap.String("file", filePath), zap.String("page", pageID),
			zap.Int("status", se.Code))
		if derr := p.mappings.Delete(docID, filePath); derr != nil {
			p.log.Error("failed to drop stale mapping",
				zap.String("file", filePath), zap.Error(derr))
		}
		pageID = ""
	}

	parent := ResolveParent(target.RelativeSegments(filePath), forest, target.ParentPageID)
	newID, err := p.api.CreatePage(ctx, docID, ports.CreatePageRequest{
		Name:         base,
		Content:      content,
		ParentPageID: parent,
	})
	if err != nil {
		p.log.Error("failed to create page", zap.String("file", filePath), zap.Error(err))
		return false
	}
	if err := p.mappings.Set(docID, filePath, newID); err != nil {
		p.log.Error("failed to persist mapping for created page",
			zap.String("file", filePath), zap.String("page", newID), zap.Error(err))
		return false
	}
	p.log.Debug("page created",
		zap.String("file", filePath), zap.String("page", newID),
		zap.String("parent", parent))
	return true
}

// fileBaseName returns the remote page name for a vault file: the base
// name without the markdown extension, matched case-insensitively like
// everywhere else the extension is checked.
func fileBaseName(filePath string) string {
	base := path.Base(filePath)
	if strings.HasSuffix(strings.ToLower(base), domain.MarkdownExt) {
		return base[:len(base)-len(domain.MarkdownExt)]
	}
	return base
}

// TargetReport is the outcome of syncing one target.
type TargetReport struct {
	Target domain.SyncTarget
	Stats  domain.Stats
	// Err is set when the target aborted before any file was attempted
	// (page list fetch failed).
	Err error
}

// PushReport aggregates outcomes across all targets of a run.
type PushReport struct {
	Targets []TargetReport
	Total   domain.Stats
}

// PushAllCommand uploads every markdown file under every configured sync
// target. A single file's failure never stops processing of subsequent
// files or targets.
type PushAllCommand struct {
	pusher
	targets []domain.SyncTarget
}

// NewPushAllCommand creates a new PushAllCommand.
func NewPushAllCommand(vault ports.VaultRepository, api ports.RemoteDocAPI, mappings ports.MappingStore, creds application.Credentials, targets []domain.SyncTarget, log *zap.Logger) *PushAllCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &PushAllCommand{
		pusher:  pusher{vault: vault, api: api, mappings: mappings, creds: creds, log: log},
		targets: targets,
	}
}

// Validate checks that the remote workspace is configured.
func (c *PushAllCommand) Validate() error {
	if !c.creds.Complete() {
		return application.ErrNotConfigured
	}
	return nil
}

// Execute runs the upload pass over all targets in configuration order.
func (c *PushAllCommand) Execute(ctx context.Context) (*PushReport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	entries, err := c.vault.List()
	if err != nil {
		return nil, err
	}
	files := markdownFiles(entries)

	report := &PushReport{}
	for _, target := range c.targets {
		if !target.Actionable() {
			c.log.Debug("skipping target without doc id",
				zap.String("folder", target.Folder))
			continue
		}
		tr := TargetReport{Target: target}
		pages, err := c.api.ListPages(ctx, target.DocID)
		if err != nil {
			// Proceeding as if the doc were empty would mass-create
			// duplicates, so the target aborts instead.
			c.log.Error("failed to fetch page list, skipping target",
				zap.String("doc", target.DocID), zap.Error(err))
			tr.Err = err
			tr.Stats.Errors++
			report.Targets = append(report.Targets, tr)
			report.Total.Add(tr.Stats)
			continue
		}
		forest := c.buildForest(target.DocID, pages)

		for _, f := range files {
			if !target.Contains(f) {
				continue
			}
			if c.uploadFile(ctx, target, forest, f) {
				tr.Stats.Success++
			} else {
				tr.Stats.Errors++
			}
		}
		report.Targets = append(report.Targets, tr)
		report.Total.Add(tr.Stats)
	}
	c.log.Info("push finished",
		zap.Int("success", report.Total.Success),
		zap.Int("errors", report.Total.Errors))
	return report, nil
}

// PushFileCommand uploads a single vault file to the first configured
// target whose folder contains it. This is the sync-on-save entry point.
type PushFileCommand struct {
	pusher
	targets []domain.SyncTarget

	Path string
}

// NewPushFileCommand creates a new PushFileCommand.
func NewPushFileCommand(vault ports.VaultRepository, api ports.RemoteDocAPI, mappings ports.MappingStore, creds application.Credentials, targets []domain.SyncTarget, filePath string, log *zap.Logger) *PushFileCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &PushFileCommand{
		pusher:  pusher{vault: vault, api: api, mappings: mappings, creds: creds, log: log},
		targets: targets,
		Path:    filePath,
	}
}

// Validate checks the input path and workspace configuration.
func (c *PushFileCommand) Validate() error {
	if c.Path == "" {
		return &application.ValidationError{Field: "path", Message: "file path is required"}
	}
	if !strings.HasSuffix(strings.ToLower(c.Path), domain.MarkdownExt) {
		return &application.ValidationError{Field: "path", Message: "only markdown files are synced"}
	}
	if !c.creds.Complete() {
		return application.ErrNotConfigured
	}
	return nil
}

// Execute uploads the file. The boolean reports per-file success; the
// error covers everything that precedes the upload itself (no matching
// target, page list fetch failure).
func (c *PushFileCommand) Execute(ctx context.Context) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	var target domain.SyncTarget
	found := false
	for _, t := range c.targets {
		if t.Actionable() && t.Contains(c.Path) {
			target = t
			found = true
			break
		}
	}
	if !found {
		return false, &application.ValidationError{
			Field:   "path",
			Message: "no sync target covers " + c.Path,
		}
	}
	pages, err := c.api.ListPages(ctx, target.DocID)
	if err != nil {
		return false, err
	}
	forest := c.buildForest(target.DocID, pages)
	return c.uploadFile(ctx, target, forest, c.Path), nil
}

// buildForest derives the page forest and surfaces orphaned pages, which
// are demoted to roots rather than dropped.
func (p *pusher) buildForest(docID string, pages []domain.RemotePage) []*domain.PageNode {
	forest, orphans := domain.BuildForest(pages)
	for _, id := range orphans {
		p.log.Warn("page references a parent missing from the doc, treating as root",
			zap.String("doc", docID), zap.String("page", id))
	}
	return forest
}

// markdownFiles filters a vault listing down to markdown file paths.
func markdownFiles(entries []ports.Entry) []string {
	var files []string
	for _, e := range entries {
		if e.Kind != ports.EntryFile {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Path), domain.MarkdownExt) {
			files = append(files, e.Path)
		}
	}
	return files
}
