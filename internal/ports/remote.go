package ports

import (
	"context"

	"docbridge/internal/domain"
)

// CreatePageRequest carries the fields for creating a remote page.
// ParentPageID may be empty for a root page.
type CreatePageRequest struct {
	Name         string
	Content      string
	ParentPageID string
}

// UpdatePageRequest carries the fields for updating a remote page.
type UpdatePageRequest struct {
	Name    string
	Content string
}

// RemoteDocAPI defines the interface to the remote document service.
//
// Implementations surface HTTP-level failures as *application.StatusError
// so callers can tell a rejected request (page deleted out-of-band, bad
// id) apart from a transport failure; only the former triggers the
// update-then-create fallback during upload.
type RemoteDocAPI interface {
	// ListPages returns the flat page list of a doc. An error means the
	// fetch failed; it is never conflated with an empty doc.
	ListPages(ctx context.Context, docID string) ([]domain.RemotePage, error)

	// PageContent returns the markdown content of a page, issuing a
	// secondary content request when the page metadata lacks a body.
	PageContent(ctx context.Context, docID, pageID string) (string, error)

	// CreatePage creates a page and returns its id. A success status with
	// no parsable id in the response body is an error.
	CreatePage(ctx context.Context, docID string, req CreatePageRequest) (string, error)

	// UpdatePage replaces a page's name and content.
	UpdatePage(ctx context.Context, docID, pageID string, req UpdatePageRequest) error
}
