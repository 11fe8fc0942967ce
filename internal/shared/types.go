package shared

// Asynq task type names.
const (
	TypeScanOverdueLoans    = "loan:scan_overdue"
	TypeSendDueSoonReminder = "loan:due_soon_reminder"
)

// Asynq queue names.
const (
	QueueLoans   = "loans"
	QueueDefault = "default"
)
