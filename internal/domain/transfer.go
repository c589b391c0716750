package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus represents the current status of a transfer
type TransferStatus string

const (
	StatusProcessing TransferStatus = "processing"
	StatusCompleted  TransferStatus = "completed"
	StatusFailed     TransferStatus = "failed"
	StatusCancelled  TransferStatus = "cancelled"
)

// Transfer is the history record of one download call
type Transfer struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	URL           string         `json:"url" gorm:"not null"`
	Strategy      Strategy       `json:"strategy" gorm:"not null;index"`
	Status        TransferStatus `json:"status" gorm:"not null;index"`
	Outcome       OutcomeKind    `json:"outcome,omitempty"`
	StatusCode    int            `json:"status_code,omitempty"`
	BytesReceived int64          `json:"bytes_received"`
	BytesTotal    int64          `json:"bytes_total"`
	Message       string         `json:"message,omitempty"`
	Preview       string         `json:"preview,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// NewTransfer creates a new transfer record in processing state
func NewTransfer(url string, strategy Strategy) *Transfer {
	now := time.Now()
	return &Transfer{
		ID:         uuid.New().String(),
		URL:        url,
		Strategy:   strategy,
		Status:     StatusProcessing,
		BytesTotal: -1,
		CreatedAt:  now,
		UpdatedAt:  now,
		StartedAt:  &now,
	}
}

// ApplyOutcome copies the result of a download call into the record and
// moves it to its terminal status.
func (t *Transfer) ApplyOutcome(o *Outcome) {
	t.Outcome = o.Kind
	t.StatusCode = o.StatusCode
	t.BytesReceived = o.BytesReceived
	t.BytesTotal = o.BytesTotal
	t.Preview = o.Preview
	t.Message = o.Message

	switch o.Kind {
	case OutcomeCompleted:
		t.Status = StatusCompleted
	case OutcomeCancelled:
		t.Status = StatusCancelled
	default:
		t.Status = StatusFailed
	}

	now := time.Now()
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// IsTerminal checks if the transfer is in a terminal state
func (t *Transfer) IsTerminal() bool {
	return t.Status != StatusProcessing
}
