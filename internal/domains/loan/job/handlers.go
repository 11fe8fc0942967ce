package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/config"
	"library-backend/internal/domains/loan/repository"
	"library-backend/pkg/logger"
)

// Handler owns the background loan jobs. The overdue sweep flags late
// loans and fans out one reminder task per loan coming due soon.
type Handler struct {
	repo   repository.RepositoryInterface
	client *asynq.Client
	config config.LoanConfig
}

func NewHandler(repo repository.RepositoryInterface, client *asynq.Client, loanConfig config.LoanConfig) *Handler {
	return &Handler{
		repo:   repo,
		client: client,
		config: loanConfig,
	}
}

// HandleScanOverdueLoans logs every overdue loan with its accrued fine
// and enqueues reminders for loans due within the configured window.
func (h *Handler) HandleScanOverdueLoans(ctx context.Context, t *asynq.Task) error {
	now := time.Now().UTC()

	overdue, err := h.repo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue loans: %w", err)
	}

	for _, loan := range overdue {
		logger.Warn("loan overdue", map[string]interface{}{
			"loan_id":      loan.ID,
			"user_email":   loan.UserEmail,
			"book_title":   loan.BookTitle,
			"days_overdue": loan.DaysOverdue(now),
			"fine":         loan.Fine(now, h.config.FinePerDay).String(),
		})
	}

	dueSoon, err := h.repo.ListDueBetween(ctx, now, now.AddDate(0, 0, h.config.DueSoonDays))
	if err != nil {
		return fmt.Errorf("list due soon loans: %w", err)
	}

	for _, loan := range dueSoon {
		task, err := NewDueSoonReminderTask(DueSoonReminderPayload{
			LoanID:    loan.ID,
			UserEmail: loan.UserEmail,
			BookTitle: loan.BookTitle,
			DueDate:   loan.DueDate,
		})
		if err != nil {
			return fmt.Errorf("build reminder task: %w", err)
		}
		if _, err := h.client.EnqueueContext(ctx, task); err != nil {
			return fmt.Errorf("enqueue reminder: %w", err)
		}
	}

	logger.Info("overdue scan finished", map[string]interface{}{
		"overdue":  len(overdue),
		"due_soon": len(dueSoon),
	})

	return nil
}

// HandleSendDueSoonReminder delivers a single reminder. Delivery is a
// structured log line, an SMTP sender can slot in behind the same task.
func (h *Handler) HandleSendDueSoonReminder(ctx context.Context, t *asynq.Task) error {
	var payload DueSoonReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("due soon reminder", map[string]interface{}{
		"loan_id":    payload.LoanID,
		"user_email": payload.UserEmail,
		"book_title": payload.BookTitle,
		"due":        payload.DueDate,
	})

	return nil
}
