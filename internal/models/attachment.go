package model

import "time"

// Attachment rows are never soft-deleted and are not cascaded when their
// task is: a soft-deleted task keeps its attachment rows.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UUID      string    `gorm:"size:36;not null;uniqueIndex" json:"uuid"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	FileName  string    `gorm:"not null" json:"file_name"`
	DiskPath  string    `gorm:"not null" json:"-"`
	URL       string    `gorm:"not null" json:"url"`
	Order     int       `gorm:"column:sort_order;not null;default:1" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
