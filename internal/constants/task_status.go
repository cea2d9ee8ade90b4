package constants

import "fmt"

type TaskStatus string

const (
	StatusPlanned    TaskStatus = "planned"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPlanned, StatusInProgress, StatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}
