package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	model "task-manager.com/task-manager/internal/models"
)

// Notifier sends the task-created mail to the task's employee. The locale
// is an explicit configuration value, not process-global state.
type Notifier struct {
	mailer Mailer
	locale string
}

func NewNotifier(mailer Mailer, locale string) *Notifier {
	return &Notifier{mailer: mailer, locale: locale}
}

var taskCreatedSubjects = map[string]string{
	"en": "New Task",
	"ru": "Новая задача",
}

func (n *Notifier) TaskCreated(task *model.Task) {
	if task.Employee == nil {
		log.Printf("task %d created without employee loaded, skipping notification", task.ID)
		return
	}

	subject, ok := taskCreatedSubjects[n.locale]
	if !ok {
		subject = taskCreatedSubjects["en"]
	}

	body := fmt.Sprintf("A new task has been assigned to you.\n\nTitle: %s\nDescription: %s\n", task.Title, task.Description)
	if task.EstimateUntil != nil {
		body += fmt.Sprintf("Estimate until: %s\n", task.EstimateUntil.Format(time.RFC3339))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := n.mailer.Send(ctx, task.Employee.Email, subject, body); err != nil {
		log.Printf("failed to send task created mail for task %d: %v", task.ID, err)
	}
}
