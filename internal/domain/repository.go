package domain

// TransferRepository defines the interface for transfer history persistence
type TransferRepository interface {
	// Create creates a new transfer
	Create(transfer *Transfer) error

	// Update updates an existing transfer
	Update(transfer *Transfer) error

	// Delete deletes a transfer by ID
	Delete(id string) error

	// FindByID finds a transfer by ID
	FindByID(id string) (*Transfer, error)

	// FindAll finds all transfers with optional filters, newest first
	FindAll(filters map[string]interface{}) ([]*Transfer, error)

	// GetStats returns transfer statistics
	GetStats() (*TransferStats, error)
}

// TransferStats represents transfer statistics
type TransferStats struct {
	Total      int64 `json:"total"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Cancelled  int64 `json:"cancelled"`
}
