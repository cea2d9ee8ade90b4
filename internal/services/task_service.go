package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/attachments"
	"task-manager.com/task-manager/internal/constants"
	"task-manager.com/task-manager/internal/dto"
	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/notify"
	repository "task-manager.com/task-manager/internal/repositories"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	store    attachments.Store
	notifier *notify.Notifier
}

func NewTaskService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	store attachments.Store,
	notifier *notify.Notifier,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		store:    store,
		notifier: notifier,
	}
}

type CreateTaskInput struct {
	Title         string
	Description   string
	EmployeeID    uint
	Status        constants.TaskStatus
	EstimateUntil *time.Time
	Attachments   []attachments.Descriptor
}

// UpdateTaskInput carries a partial update. Scalar fields are tri-state
// via dto.Optional; present-with-null only clears estimate_until.
// ReplaceAttachments distinguishes "no attachment change requested" from
// an explicit desired list (which may be empty, meaning remove all).
type UpdateTaskInput struct {
	Title              dto.Optional[string]
	Description        dto.Optional[string]
	Status             dto.Optional[constants.TaskStatus]
	EmployeeID         dto.Optional[uint]
	EstimateUntil      dto.Optional[time.Time]
	Attachments        []attachments.Descriptor
	ReplaceAttachments bool
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*model.Task, []model.Attachment, error) {
	if _, err := s.users.FindByID(ctx, in.EmployeeID); err != nil {
		return nil, nil, err
	}

	for _, d := range in.Attachments {
		if d.IsKeep() {
			return nil, nil, exceptions.ErrInvalidAttachmentDescriptor
		}
	}

	status := in.Status
	if status == "" {
		status = constants.StatusPlanned
	}

	task := &model.Task{
		Title:         in.Title,
		Description:   in.Description,
		Status:        status,
		EmployeeID:    in.EmployeeID,
		EstimateUntil: in.EstimateUntil,
	}

	err := s.tasks.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
			return err
		}

		txStore := s.store.WithTx(tx)
		for _, d := range in.Attachments {
			if _, err := txStore.Create(ctx, task.ID, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	task, atts, err := s.loadWithAttachments(ctx, task.ID)
	if err != nil {
		return nil, nil, err
	}

	if s.notifier != nil {
		go s.notifier.TaskCreated(task)
	}

	return task, atts, nil
}

// Update applies partial scalar changes and reconciles the attachment
// collection in a single transaction. The plan is computed before any
// mutation, so reference and descriptor errors never leave partial state
// behind.
func (s *TaskService) Update(ctx context.Context, id uint, in UpdateTaskInput) (*model.Task, []model.Attachment, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if in.EmployeeID.Present && in.EmployeeID.Valid {
		if _, err := s.users.FindByID(ctx, in.EmployeeID.Value); err != nil {
			return nil, nil, err
		}
	}

	var plan attachments.Plan
	if in.ReplaceAttachments {
		existing, err := s.store.ListByTask(ctx, task.ID)
		if err != nil {
			return nil, nil, err
		}
		plan, err = attachments.BuildPlan(existing, in.Attachments)
		if err != nil {
			return nil, nil, err
		}
	}

	fields := buildFieldUpdates(in)

	var removed []*model.Attachment
	err = s.tasks.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.tasks.WithTx(tx).UpdateFields(ctx, task.ID, fields); err != nil {
			return err
		}

		if !in.ReplaceAttachments {
			return nil
		}

		txStore := s.store.WithTx(tx)
		for _, d := range plan.Create {
			if _, err := txStore.Create(ctx, task.ID, d); err != nil {
				return err
			}
		}
		for _, uuid := range plan.Delete {
			att, err := txStore.Delete(ctx, uuid)
			if err != nil {
				return err
			}
			removed = append(removed, att)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Blobs go only after commit; a rollback must not orphan a kept row.
	for _, att := range removed {
		s.store.RemoveBlob(att)
	}

	return s.loadWithAttachments(ctx, task.ID)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, []model.Attachment, error) {
	return s.loadWithAttachments(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, int64, int, error) {
	tasks, total, err := s.tasks.Filter(ctx, filter)
	return tasks, total, s.tasks.PageSize(), err
}

// Delete soft-deletes the task. Attachment rows and blobs stay in place.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return err
	}
	return s.tasks.SoftDelete(ctx, id)
}

func (s *TaskService) loadWithAttachments(ctx context.Context, id uint) (*model.Task, []model.Attachment, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	atts, err := s.store.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, nil, err
	}
	attachments.SortForDisplay(atts)

	return task, atts, nil
}

func buildFieldUpdates(in UpdateTaskInput) map[string]interface{} {
	fields := map[string]interface{}{}

	if in.Title.Present && in.Title.Valid {
		fields["title"] = in.Title.Value
	}
	if in.Description.Present && in.Description.Valid {
		fields["description"] = in.Description.Value
	}
	if in.Status.Present && in.Status.Valid {
		fields["status"] = in.Status.Value
	}
	if in.EmployeeID.Present && in.EmployeeID.Valid {
		fields["employee_id"] = in.EmployeeID.Value
	}
	if in.EstimateUntil.Present {
		if in.EstimateUntil.Valid {
			fields["estimate_until"] = in.EstimateUntil.Value
		} else {
			fields["estimate_until"] = nil
		}
	}

	return fields
}
