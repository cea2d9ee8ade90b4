package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
)

type TaskRepository struct {
	db       *gorm.DB
	pageSize int
}

// TaskFilter composes optional exact and range filters with logical AND.
// EstimateAt and EstimateUntil bound a non-null estimate_until from below
// and above respectively, both inclusive.
type TaskFilter struct {
	Status        *constants.TaskStatus
	EmployeeID    *uint
	EstimateAt    *time.Time
	EstimateUntil *time.Time
	Page          int
}

func NewTaskRepository(db *gorm.DB, pageSize int) *TaskRepository {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &TaskRepository{db: db, pageSize: pageSize}
}

func (r *TaskRepository) PageSize() int {
	return r.pageSize
}

func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx, pageSize: r.pageSize}
}

func (r *TaskRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID returns the task with its employee preloaded. Soft-deleted
// tasks are not found.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Employee").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// UpdateFields applies a partial column update. A nil map value sets the
// column to NULL.
func (r *TaskRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return exceptions.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return exceptions.ErrTaskNotFound
	}
	return nil
}

// Filter returns one page of non-deleted tasks plus the total count of
// the filtered set.
func (r *TaskRepository) Filter(ctx context.Context, f TaskFilter) ([]model.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})

	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.EmployeeID != nil {
		query = query.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.EstimateAt != nil {
		query = query.Where("estimate_until IS NOT NULL AND estimate_until >= ?", *f.EstimateAt)
	}
	if f.EstimateUntil != nil {
		query = query.Where("estimate_until IS NOT NULL AND estimate_until <= ?", *f.EstimateUntil)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}

	var tasks []model.Task
	err := query.Preload("Employee").
		Order("created_at desc, id desc").
		Limit(r.pageSize).
		Offset((page - 1) * r.pageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}
