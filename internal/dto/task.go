package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

type FileInput struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// AttachmentInput is the wire shape of one attachment descriptor: uuid
// keeps an existing attachment, file or url adds a new one.
type AttachmentInput struct {
	UUID  string     `json:"uuid,omitempty"`
	File  *FileInput `json:"file,omitempty"`
	URL   string     `json:"url,omitempty"`
	Order int        `json:"order,omitempty"`
}

type CreateTaskRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	EmployeeID    uint              `json:"employee_id"`
	Status        string            `json:"status,omitempty"`
	EstimateUntil *time.Time        `json:"estimate_until,omitempty"`
	Attachments   []AttachmentInput `json:"attachments,omitempty"`
}

// UpdateTaskRequest fields are independently optional. Attachments keeps
// the absent / empty-list distinction via the pointer: nil means no
// change, an empty list removes every attachment.
type UpdateTaskRequest struct {
	Title         Optional[string]    `json:"title"`
	Description   Optional[string]    `json:"description"`
	Status        Optional[string]    `json:"status"`
	EmployeeID    Optional[uint]      `json:"employee_id"`
	EstimateUntil Optional[time.Time] `json:"estimate_until"`
	Attachments   *[]AttachmentInput  `json:"attachments"`
}

type FilterTaskRequest struct {
	Status        string `query:"status"`
	EmployeeID    string `query:"employee_id"`
	EstimateAt    string `query:"estimate_at"`
	EstimateUntil string `query:"estimate_until"`
	Page          int    `query:"page"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AttachmentMap marshals to a JSON object of uuid to URL, preserving the
// presentation order of its entries.
type AttachmentMap []AttachmentEntry

type AttachmentEntry struct {
	UUID string
	URL  string
}

func (m AttachmentMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.UUID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type TaskResponse struct {
	ID            uint                 `json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     *time.Time           `json:"deleted_at"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        constants.TaskStatus `json:"status"`
	Employee      *UserResponse        `json:"employee,omitempty"`
	EstimateUntil *time.Time           `json:"estimate_until"`
	Attachments   *AttachmentMap       `json:"attachments,omitempty"`
}

func NewUserResponse(user *model.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

// NewTaskResponse shapes a task for the API. Pass attachments in
// presentation order; a nil slice omits the attachments key entirely
// (list responses), an empty non-nil slice renders {}.
func NewTaskResponse(task *model.Task, attachments []model.Attachment) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Employee:      NewUserResponse(task.Employee),
		EstimateUntil: task.EstimateUntil,
	}

	if task.DeletedAt.Valid {
		t := task.DeletedAt.Time
		resp.DeletedAt = &t
	}

	if attachments != nil {
		m := make(AttachmentMap, 0, len(attachments))
		for _, att := range attachments {
			m = append(m, AttachmentEntry{UUID: att.UUID, URL: att.URL})
		}
		resp.Attachments = &m
	}

	return resp
}

type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}

func NewTaskListResponse(tasks []model.Task, total int64, page, perPage int) TaskListResponse {
	data := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		data = append(data, NewTaskResponse(&tasks[i], nil))
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return TaskListResponse{
		Data: data,
		Meta: PageMeta{Total: total, Page: page, PerPage: perPage, LastPage: lastPage},
	}
}
