package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.Attachment{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Name: "Employee", Email: email, PasswordHash: "hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedTask(t *testing.T, repo *TaskRepository, employeeID uint, status constants.TaskStatus, estimate *time.Time) *model.Task {
	t.Helper()

	task := &model.Task{
		Title:         "Title",
		Description:   "Description",
		Status:        status,
		EmployeeID:    employeeID,
		EstimateUntil: estimate,
	}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return task
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestTaskRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	user := seedUser(t, db, "a@example.com")

	task := seedTask(t, repo, user.ID, constants.StatusPlanned, nil)

	found, err := repo.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Employee == nil || found.Employee.ID != user.ID {
		t.Error("expected employee to be preloaded")
	}
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)

	if _, err := repo.FindByID(context.Background(), 999); !errors.Is(err, exceptions.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskRepository_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	user := seedUser(t, db, "a@example.com")
	task := seedTask(t, repo, user.ID, constants.StatusPlanned, nil)

	if err := repo.SoftDelete(context.Background(), task.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	if _, err := repo.FindByID(context.Background(), task.ID); !errors.Is(err, exceptions.ErrTaskNotFound) {
		t.Errorf("expected soft-deleted task to be not found, got %v", err)
	}

	var count int64
	if err := db.Unscoped().Model(&model.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Error("expected soft-deleted row to be retained")
	}
}

func TestTaskRepository_UpdateFields_ClearsEstimate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	user := seedUser(t, db, "a@example.com")
	task := seedTask(t, repo, user.ID, constants.StatusPlanned, ptrTime(time.Now().Add(24*time.Hour)))

	err := repo.UpdateFields(context.Background(), task.ID, map[string]interface{}{
		"title":          "Updated",
		"estimate_until": nil,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	found, err := repo.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Title != "Updated" {
		t.Errorf("expected title Updated, got %s", found.Title)
	}
	if found.EstimateUntil != nil {
		t.Error("expected estimate_until to be cleared")
	}
	if found.Description != "Description" {
		t.Error("expected description to be unchanged")
	}
}

func TestTaskRepository_Filter_StatusAndEmployee(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	first := seedUser(t, db, "a@example.com")
	second := seedUser(t, db, "b@example.com")

	seedTask(t, repo, first.ID, constants.StatusPlanned, nil)
	seedTask(t, repo, first.ID, constants.StatusDone, nil)
	seedTask(t, repo, second.ID, constants.StatusPlanned, nil)

	status := constants.StatusPlanned
	tasks, total, err := repo.Filter(context.Background(), TaskFilter{Status: &status, EmployeeID: &first.ID})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Fatalf("expected exactly one match, got total=%d len=%d", total, len(tasks))
	}
	if tasks[0].Status != constants.StatusPlanned || tasks[0].EmployeeID != first.ID {
		t.Error("filter returned the wrong task")
	}
}

func TestTaskRepository_Filter_EstimateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	user := seedUser(t, db, "a@example.com")

	now := time.Now().UTC().Truncate(time.Second)

	inRange := seedTask(t, repo, user.ID, constants.StatusPlanned, ptrTime(now.Add(72*time.Hour)))
	seedTask(t, repo, user.ID, constants.StatusPlanned, ptrTime(now.Add(24*time.Hour)))
	seedTask(t, repo, user.ID, constants.StatusPlanned, ptrTime(now.Add(240*time.Hour)))
	seedTask(t, repo, user.ID, constants.StatusPlanned, nil)

	at := now.Add(48 * time.Hour)
	until := now.Add(120 * time.Hour)

	tasks, total, err := repo.Filter(context.Background(), TaskFilter{EstimateAt: &at, EstimateUntil: &until})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Fatalf("expected one task in range, got total=%d len=%d", total, len(tasks))
	}
	if tasks[0].ID != inRange.ID {
		t.Errorf("expected task %d, got %d", inRange.ID, tasks[0].ID)
	}
}

func TestTaskRepository_Filter_EstimateBoundsInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	user := seedUser(t, db, "a@example.com")

	estimate := time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour)
	seedTask(t, repo, user.ID, constants.StatusPlanned, &estimate)

	_, total, err := repo.Filter(context.Background(), TaskFilter{EstimateAt: &estimate, EstimateUntil: &estimate})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected inclusive bounds to match, got total=%d", total)
	}
}

func TestTaskRepository_Filter_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 5)
	user := seedUser(t, db, "a@example.com")

	for i := 0; i < 12; i++ {
		seedTask(t, repo, user.ID, constants.StatusPlanned, nil)
	}

	firstPage, total, err := repo.Filter(context.Background(), TaskFilter{Page: 1})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if total != 12 {
		t.Errorf("expected total 12, got %d", total)
	}
	if len(firstPage) != 5 {
		t.Errorf("expected 5 tasks on page 1, got %d", len(firstPage))
	}

	lastPage, _, err := repo.Filter(context.Background(), TaskFilter{Page: 3})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(lastPage) != 2 {
		t.Errorf("expected 2 tasks on page 3, got %d", len(lastPage))
	}
}

func TestTaskRepository_Filter_ExcludesSoftDeleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, 15)
	user := seedUser(t, db, "a@example.com")

	kept := seedTask(t, repo, user.ID, constants.StatusPlanned, nil)
	deleted := seedTask(t, repo, user.ID, constants.StatusPlanned, nil)

	if err := repo.SoftDelete(context.Background(), deleted.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	tasks, total, err := repo.Filter(context.Background(), TaskFilter{})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if total != 1 || len(tasks) != 1 || tasks[0].ID != kept.ID {
		t.Errorf("expected only the non-deleted task, got total=%d", total)
	}
}
