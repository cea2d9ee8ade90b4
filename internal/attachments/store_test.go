package attachments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
)

func setupStoreDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.Attachment{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	return NewDiskStore(setupStoreDB(t), t.TempDir(), "http://localhost:8080")
}

func TestDiskStore_CreateFromFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d, err := NewCreate(&FilePayload{Name: "photo.jpg", Content: []byte("image-bytes")}, "", 2)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	att, err := store.Create(ctx, 7, d)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if att.UUID == "" {
		t.Error("expected uuid to be assigned")
	}
	if att.TaskID != 7 {
		t.Errorf("expected task id 7, got %d", att.TaskID)
	}
	if att.Order != 2 {
		t.Errorf("expected order 2, got %d", att.Order)
	}
	if att.FileName != "photo.jpg" {
		t.Errorf("expected file name photo.jpg, got %s", att.FileName)
	}

	content, err := os.ReadFile(att.DiskPath)
	if err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	if string(content) != "image-bytes" {
		t.Errorf("unexpected blob content %q", content)
	}
}

func TestDiskStore_CreateStripsDirectoryComponents(t *testing.T) {
	db := setupStoreDB(t)
	dir := t.TempDir()
	store := NewDiskStore(db, dir, "http://localhost:8080")
	ctx := context.Background()

	d, err := NewCreate(&FilePayload{Name: "../../outside.txt", Content: []byte("pwned")}, "", 1)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	att, err := store.Create(ctx, 1, d)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if att.FileName != "outside.txt" {
		t.Errorf("expected file name outside.txt, got %s", att.FileName)
	}
	if !strings.HasPrefix(att.DiskPath, dir+string(filepath.Separator)) {
		t.Fatalf("blob path %s escaped storage dir %s", att.DiskPath, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "..", "..", "outside.txt")); !os.IsNotExist(err) {
		t.Error("expected no file to be written outside the storage dir")
	}
	if _, err := os.Stat(att.DiskPath); err != nil {
		t.Errorf("blob not written inside storage dir: %v", err)
	}
}

func TestDiskStore_CreateRejectsEmptyFileName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"..", ".", "/", "a/.."} {
		d, err := NewCreate(&FilePayload{Name: name, Content: []byte("x")}, "", 1)
		if err != nil {
			t.Fatalf("descriptor for %q: %v", name, err)
		}

		if _, err := store.Create(ctx, 1, d); !errors.Is(err, exceptions.ErrInvalidAttachmentDescriptor) {
			t.Errorf("name %q: expected ErrInvalidAttachmentDescriptor, got %v", name, err)
		}
	}
}

func TestDiskStore_CreateFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer server.Close()

	store := newTestStore(t)
	ctx := context.Background()

	d, err := NewCreate(nil, server.URL+"/img.png", 1)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	att, err := store.Create(ctx, 1, d)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if att.FileName != "img.png" {
		t.Errorf("expected file name img.png, got %s", att.FileName)
	}

	content, err := os.ReadFile(att.DiskPath)
	if err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	if string(content) != "remote-bytes" {
		t.Errorf("unexpected blob content %q", content)
	}
}

func TestDiskStore_CreateFromURL_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := newTestStore(t)

	d, err := NewCreate(nil, server.URL+"/img.png", 1)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	if _, err := store.Create(context.Background(), 1, d); !errors.Is(err, exceptions.ErrAttachmentSourceUnreachable) {
		t.Errorf("expected ErrAttachmentSourceUnreachable, got %v", err)
	}
}

func TestDiskStore_CreateRejectsKeep(t *testing.T) {
	store := newTestStore(t)

	d, err := NewKeep("some-uuid", 1)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	if _, err := store.Create(context.Background(), 1, d); !errors.Is(err, exceptions.ErrInvalidAttachmentDescriptor) {
		t.Errorf("expected ErrInvalidAttachmentDescriptor, got %v", err)
	}
}

func TestDiskStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d, _ := NewCreate(&FilePayload{Name: "a.txt", Content: []byte("x")}, "", 1)
	att, err := store.Create(ctx, 1, d)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	removed, err := store.Delete(ctx, att.UUID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	list, err := store.ListByTask(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no attachments, got %d", len(list))
	}

	if _, err := os.Stat(att.DiskPath); err != nil {
		t.Error("expected blob to stay on disk until RemoveBlob")
	}

	store.RemoveBlob(removed)

	if _, err := os.Stat(att.DiskPath); !os.IsNotExist(err) {
		t.Error("expected blob to be removed from disk")
	}
}

func TestDiskStore_DeleteUnknown(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Delete(context.Background(), "missing"); !errors.Is(err, exceptions.ErrAttachmentNotFound) {
		t.Errorf("expected ErrAttachmentNotFound, got %v", err)
	}
}

func TestDiskStore_DeleteInRolledBackTransactionKeepsBlob(t *testing.T) {
	db := setupStoreDB(t)
	store := NewDiskStore(db, t.TempDir(), "http://localhost:8080")
	ctx := context.Background()

	d, _ := NewCreate(&FilePayload{Name: "a.txt", Content: []byte("x")}, "", 1)
	att, err := store.Create(ctx, 1, d)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tx := db.Begin()
	if _, err := store.WithTx(tx).Delete(ctx, att.UUID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	tx.Rollback()

	list, err := store.ListByTask(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected row to be restored by rollback, got %d rows", len(list))
	}

	if _, err := os.Stat(att.DiskPath); err != nil {
		t.Error("expected blob to survive the rolled-back delete")
	}
}

func TestDiskStore_ListByTaskOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := NewCreate(&FilePayload{Name: "a", Content: []byte("a")}, "", 3)
	second, _ := NewCreate(&FilePayload{Name: "b", Content: []byte("b")}, "", 1)
	third, _ := NewCreate(&FilePayload{Name: "c", Content: []byte("c")}, "", 3)

	for _, d := range []Descriptor{first, second, third} {
		if _, err := store.Create(ctx, 9, d); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, 8, second); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := store.ListByTask(ctx, 9)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(list) != 3 {
		t.Fatalf("expected 3 attachments for task 9, got %d", len(list))
	}

	want := []string{"b", "a", "c"}
	for i, name := range want {
		if list[i].FileName != name {
			t.Errorf("position %d: expected %s, got %s", i, name, list[i].FileName)
		}
	}
}
