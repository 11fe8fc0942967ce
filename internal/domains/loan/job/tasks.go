package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
)

// DueSoonReminderPayload identifies one loan approaching its due date.
type DueSoonReminderPayload struct {
	LoanID    uuid.UUID `json:"loan_id"`
	UserEmail string    `json:"user_email"`
	BookTitle string    `json:"book_title"`
	DueDate   time.Time `json:"due_date"`
}

// NewScanOverdueTask builds the periodic sweep task. It carries no
// payload, the handler reads current state from the database.
func NewScanOverdueTask() *asynq.Task {
	return asynq.NewTask(shared.TypeScanOverdueLoans, nil, asynq.Queue(shared.QueueLoans))
}

// NewDueSoonReminderTask builds a reminder task for a single loan.
func NewDueSoonReminderTask(payload DueSoonReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeSendDueSoonReminder, data, asynq.Queue(shared.QueueLoans)), nil
}
