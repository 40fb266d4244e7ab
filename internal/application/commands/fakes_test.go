package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"docbridge/internal/application"
	"docbridge/internal/domain"
	"docbridge/internal/ports"
)

// memVault is an in-memory ports.VaultRepository.
type memVault struct {
	files   map[string]string
	folders map[string]bool
}

func newMemVault() *memVault {
	return &memVault{
		files:   make(map[string]string),
		folders: make(map[string]bool),
	}
}

func (v *memVault) Read(path string) (string, error) {
	content, ok := v.files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return content, nil
}

func (v *memVault) Create(path, content string) error {
	if _, ok := v.files[path]; ok {
		return fmt.Errorf("already exists: %s", path)
	}
	v.files[path] = content
	v.addParents(path)
	return nil
}

func (v *memVault) Modify(path, content string) error {
	if _, ok := v.files[path]; !ok {
		return fmt.Errorf("no such file: %s", path)
	}
	v.files[path] = content
	return nil
}

func (v *memVault) CreateFolder(path string) error {
	v.folders[path] = true
	v.addParents(path + "/x")
	return nil
}

func (v *memVault) Exists(path string) (bool, error) {
	if _, ok := v.files[path]; ok {
		return true, nil
	}
	return v.folders[path], nil
}

func (v *memVault) List() ([]ports.Entry, error) {
	var entries []ports.Entry
	for p := range v.files {
		entries = append(entries, ports.Entry{Path: p, Kind: ports.EntryFile})
	}
	for p := range v.folders {
		entries = append(entries, ports.Entry{Path: p, Kind: ports.EntryFolder})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (v *memVault) addParents(path string) {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		v.folders[strings.Join(parts[:i], "/")] = true
	}
}

// memMappings is an in-memory ports.MappingStore.
type memMappings struct {
	m map[string]string
}

func newMemMappings() *memMappings {
	return &memMappings{m: make(map[string]string)}
}

func (s *memMappings) Get(docID, path string) (string, bool) {
	id, ok := s.m[domain.MappingKey(docID, path)]
	return id, ok
}

func (s *memMappings) Set(docID, path, pageID string) error {
	s.m[domain.MappingKey(docID, path)] = pageID
	return nil
}

func (s *memMappings) Delete(docID, path string) error {
	delete(s.m, domain.MappingKey(docID, path))
	return nil
}

func (s *memMappings) GarbageCollect(existingPaths map[string]bool, validDocIDs map[string]bool) (int, error) {
	removed := 0
	for key := range s.m {
		docID, path, ok := domain.ParseMappingKey(key)
		if !ok || !existingPaths[path] || !validDocIDs[docID] {
			delete(s.m, key)
			removed++
		}
	}
	return removed, nil
}

// fakeAPI is an in-memory ports.RemoteDocAPI. Created pages are appended
// to the doc's page list so repeated passes behave like a live service.
// Updating a page id absent from the doc answers with a 404 StatusError.
type fakeAPI struct {
	pages      map[string][]domain.RemotePage
	content    map[string]string
	contentErr map[string]error
	listErr    map[string]error

	nextID    int
	createErr error
	creates   []ports.CreatePageRequest

	updatedIDs         []string
	updateTransportErr error
	onUpdate           func(docID, pageID string)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:      make(map[string][]domain.RemotePage),
		content:    make(map[string]string),
		contentErr: make(map[string]error),
		listErr:    make(map[string]error),
	}
}

func (f *fakeAPI) ListPages(ctx context.Context, docID string) ([]domain.RemotePage, error) {
	if err := f.listErr[docID]; err != nil {
		return nil, err
	}
	return f.pages[docID], nil
}

func (f *fakeAPI) PageContent(ctx context.Context, docID, pageID string) (string, error) {
	if err := f.contentErr[pageID]; err != nil {
		return "", err
	}
	return f.content[pageID], nil
}

func (f *fakeAPI) CreatePage(ctx context.Context, docID string, req ports.CreatePageRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("new-%d", f.nextID)
	f.pages[docID] = append(f.pages[docID], domain.RemotePage{
		ID:       id,
		Name:     req.Name,
		ParentID: req.ParentPageID,
	})
	f.content[id] = req.Content
	f.creates = append(f.creates, req)
	return id, nil
}

func (f *fakeAPI) UpdatePage(ctx context.Context, docID, pageID string, req ports.UpdatePageRequest) error {
	if f.onUpdate != nil {
		f.onUpdate(docID, pageID)
	}
	if f.updateTransportErr != nil {
		return f.updateTransportErr
	}
	for _, p := range f.pages[docID] {
		if p.ID == pageID {
			f.content[pageID] = req.Content
			f.updatedIDs = append(f.updatedIDs, pageID)
			return nil
		}
	}
	return &application.StatusError{Code: 404}
}

var testCreds = application.Credentials{APIKey: "key", WorkspaceID: "ws"}
