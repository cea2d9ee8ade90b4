package model

import (
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
)

type Task struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	Title         string               `gorm:"not null" json:"title"`
	Description   string               `gorm:"not null" json:"description"`
	Status        constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	EmployeeID    uint                 `gorm:"not null;index" json:"employee_id"`
	EstimateUntil *time.Time           `json:"estimate_until"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`

	Employee *User `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
