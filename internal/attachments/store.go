package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
)

// Store persists attachment blobs and their rows. Row mutations go
// through the store's gorm handle, so WithTx lets the caller run them
// inside an enclosing transaction. Blob files on disk live outside the
// transaction: a rollback after a successful create leaves an orphaned
// file behind (cleaned up out of band, never referenced by any row), and
// Delete only removes the row — the caller calls RemoveBlob after commit,
// so a rollback never leaves a restored row pointing at a missing blob.
type Store interface {
	Create(ctx context.Context, taskID uint, d Descriptor) (*model.Attachment, error)
	Delete(ctx context.Context, uuid string) (*model.Attachment, error)
	RemoveBlob(att *model.Attachment)
	ListByTask(ctx context.Context, taskID uint) ([]model.Attachment, error)
	WithTx(tx *gorm.DB) Store
}

type DiskStore struct {
	db        *gorm.DB
	dir       string
	publicURL string
	client    *http.Client
}

func NewDiskStore(db *gorm.DB, dir, publicURL string) *DiskStore {
	return &DiskStore{
		db:        db,
		dir:       dir,
		publicURL: publicURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *DiskStore) WithTx(tx *gorm.DB) Store {
	return &DiskStore{db: tx, dir: s.dir, publicURL: s.publicURL, client: s.client}
}

func (s *DiskStore) Create(ctx context.Context, taskID uint, d Descriptor) (*model.Attachment, error) {
	if d.IsKeep() {
		return nil, exceptions.ErrInvalidAttachmentDescriptor
	}

	var name string
	var content []byte
	if f := d.File(); f != nil {
		name = safeFileName(f.Name)
		if name == "" {
			return nil, exceptions.ErrInvalidAttachmentDescriptor
		}
		content = f.Content
	} else {
		fetched, fetchedName, err := s.fetch(ctx, d.SourceURL())
		if err != nil {
			return nil, err
		}
		content = fetched
		name = fetchedName
	}

	id := uuid.NewString()
	diskPath := filepath.Join(s.dir, id, name)

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return nil, fmt.Errorf("store attachment %s: %w", id, err)
	}
	if err := os.WriteFile(diskPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("store attachment %s: %w", id, err)
	}

	att := &model.Attachment{
		UUID:     id,
		TaskID:   taskID,
		FileName: name,
		DiskPath: diskPath,
		URL:      fmt.Sprintf("%s/storage/attachments/%s/%s", s.publicURL, id, url.PathEscape(name)),
		Order:    d.Order(),
	}

	if err := s.db.WithContext(ctx).Create(att).Error; err != nil {
		return nil, err
	}

	return att, nil
}

// Delete removes the attachment row and returns it. The blob stays on
// disk until the caller's transaction commits and RemoveBlob runs.
func (s *DiskStore) Delete(ctx context.Context, id string) (*model.Attachment, error) {
	var att model.Attachment
	if err := s.db.WithContext(ctx).First(&att, "uuid = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.ErrAttachmentNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&att).Error; err != nil {
		return nil, err
	}

	return &att, nil
}

func (s *DiskStore) RemoveBlob(att *model.Attachment) {
	if err := os.RemoveAll(filepath.Dir(att.DiskPath)); err != nil {
		log.Printf("failed to remove attachment blob %s: %v", att.UUID, err)
	}
}

func (s *DiskStore) ListByTask(ctx context.Context, taskID uint) ([]model.Attachment, error) {
	var list []model.Attachment
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("sort_order asc, id asc").
		Find(&list).Error
	return list, err
}

func (s *DiskStore) fetch(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", exceptions.ErrAttachmentSourceUnreachable
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", exceptions.ErrAttachmentSourceUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", exceptions.ErrAttachmentSourceUnreachable
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", exceptions.ErrAttachmentSourceUnreachable
	}

	name := "attachment"
	if parsed, perr := url.Parse(sourceURL); perr == nil {
		if base := safeFileName(path.Base(parsed.Path)); base != "" {
			name = base
		}
	}

	return content, name, nil
}

// safeFileName strips any directory components from a client-supplied
// name. Names that reduce to nothing, "." or ".." come back empty, so a
// crafted name can never address a path outside the storage directory.
func safeFileName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
