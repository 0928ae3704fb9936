// Package local implements the file store port on a plain directory tree.
// Folders are directories under a configured root; relocation is a rename.
// Production deployments may substitute a host-provided store behind the
// same port.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
)

// Store is a filesystem-backed file store. File ids are paths relative to
// the root, so an id goes stale once the file is moved. This matches the
// consume-once contract of FileRef.
type Store struct {
	root string
}

// NewStore creates a Store over root, creating it if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating file store root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

var _ ports.FileStore = (*Store)(nil)

// List returns the files directly inside folderID, ordered by name
// ascending. A missing folder lists as empty: an operator may not have
// uploaded anything yet.
func (s *Store) List(ctx context.Context, folderID string) ([]domain.FileRef, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, folderID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing folder %s: %w", folderID, err)
	}

	refs := make([]domain.FileRef, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("reading entry %s: %w", entry.Name(), err)
		}
		refs = append(refs, domain.FileRef{
			ID:     filepath.Join(folderID, entry.Name()),
			Name:   entry.Name(),
			Folder: folderID,
			Size:   info.Size(),
			Type:   declaredType(entry.Name()),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// LoadBytes returns the contents of one file.
func (s *Store) LoadBytes(ctx context.Context, fileID string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, fileID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file %s", apperrors.ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("loading file %s: %w", fileID, err)
	}
	return data, nil
}

// Move relocates a file into folderID, keeping its name.
func (s *Store) Move(ctx context.Context, fileID, folderID string) error {
	target := filepath.Join(s.root, folderID)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("%w: creating folder %s: %v", apperrors.ErrRelocation, folderID, err)
	}
	dest := filepath.Join(target, filepath.Base(fileID))
	if err := os.Rename(filepath.Join(s.root, fileID), dest); err != nil {
		return fmt.Errorf("%w: moving %s to %s: %v", apperrors.ErrRelocation, fileID, folderID, err)
	}
	return nil
}

// Save stores a new file into folderID. An existing file with the same name
// is overwritten, so callers should name uploads distinctly.
func (s *Store) Save(ctx context.Context, folderID, name string, data []byte) (domain.FileRef, error) {
	dir := filepath.Join(s.root, folderID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.FileRef{}, fmt.Errorf("creating folder %s: %w", folderID, err)
	}
	name = filepath.Base(name) // never let an upload name escape the folder
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return domain.FileRef{}, fmt.Errorf("saving file %s: %w", name, err)
	}
	return domain.FileRef{
		ID:     filepath.Join(folderID, name),
		Name:   name,
		Folder: folderID,
		Size:   int64(len(data)),
		Type:   declaredType(name),
	}, nil
}

func declaredType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml":
		return "XMLDOC"
	case ".csv":
		return "CSV"
	default:
		return "PLAINTEXT"
	}
}
