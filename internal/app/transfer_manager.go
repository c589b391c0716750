package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yourusername/fetchbar/internal/domain"
	"github.com/yourusername/fetchbar/internal/infrastructure"
	"github.com/yourusername/fetchbar/pkg/logger"
	"go.uber.org/zap"
)

var (
	// ErrNotRunning is returned when cancelling a transfer that is not in flight
	ErrNotRunning = errors.New("transfer is not running")
	// ErrStillRunning is returned when deleting a transfer that is in flight
	ErrStillRunning = errors.New("transfer is still running")
)

// TransferManager runs downloads against render targets and keeps their history
type TransferManager struct {
	repo        domain.TransferRepository // nil disables history
	downloaders map[domain.Strategy]domain.Downloader
	notifier    *infrastructure.NotificationService
	config      *domain.TransferConfig
	logger      *zap.Logger
	events      *logger.MultiLogger
	mu          sync.Mutex
	running     map[string]context.CancelFunc
	wg          sync.WaitGroup
}

// NewTransferManager creates a new transfer manager
func NewTransferManager(
	repo domain.TransferRepository,
	downloaders map[domain.Strategy]domain.Downloader,
	notifier *infrastructure.NotificationService,
	config *domain.TransferConfig,
	log *zap.Logger,
) *TransferManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransferManager{
		repo:        repo,
		downloaders: downloaders,
		notifier:    notifier,
		config:      config,
		logger:      log,
		running:     make(map[string]context.CancelFunc),
	}
}

// SetEventLogger routes transfer lifecycle events to the categorized logs
func (m *TransferManager) SetEventLogger(events *logger.MultiLogger) {
	m.events = events
}

// Run downloads the Transfer Target with the given strategy and waits for it
// to finish. Download failures are reported through view and recorded on the
// returned transfer; the error is only for bookkeeping failures.
func (m *TransferManager) Run(ctx context.Context, strategy domain.Strategy, view domain.View) (*domain.Transfer, error) {
	transfer, downloader, ctx, err := m.prepare(ctx, strategy)
	if err != nil {
		return nil, err
	}
	m.execute(ctx, transfer, downloader, view)
	return transfer, nil
}

// Start begins a download in the background and returns its record immediately
func (m *TransferManager) Start(ctx context.Context, strategy domain.Strategy, view domain.View) (*domain.Transfer, error) {
	transfer, downloader, ctx, err := m.prepare(ctx, strategy)
	if err != nil {
		return nil, err
	}

	snapshot := *transfer
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.execute(ctx, transfer, downloader, view)
	}()
	return &snapshot, nil
}

// prepare validates the strategy, creates the history record and registers
// the cancel function of the transfer.
func (m *TransferManager) prepare(ctx context.Context, strategy domain.Strategy) (*domain.Transfer, domain.Downloader, context.Context, error) {
	if !domain.ValidateStrategy(strategy) {
		return nil, nil, nil, fmt.Errorf("invalid strategy: %s", strategy)
	}
	downloader, ok := m.downloaders[strategy]
	if !ok {
		return nil, nil, nil, fmt.Errorf("no downloader for strategy: %s", strategy)
	}

	transfer := domain.NewTransfer(m.config.TargetURL(), strategy)
	if m.repo != nil {
		if err := m.repo.Create(transfer); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create transfer: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.running[transfer.ID] = cancel
	m.mu.Unlock()

	return transfer, downloader, ctx, nil
}

func (m *TransferManager) execute(ctx context.Context, transfer *domain.Transfer, downloader domain.Downloader, view domain.View) {
	defer func() {
		m.mu.Lock()
		cancel := m.running[transfer.ID]
		delete(m.running, transfer.ID)
		m.mu.Unlock()
		if cancel != nil {
			cancel()
		}
	}()

	m.logger.Info("Processing transfer",
		zap.String("id", transfer.ID),
		zap.String("url", transfer.URL),
		zap.String("strategy", string(transfer.Strategy)))
	m.logEvent("transfer_started",
		zap.String("id", transfer.ID),
		zap.String("strategy", string(transfer.Strategy)))

	outcome := downloader.Download(ctx, view)
	transfer.ApplyOutcome(outcome)

	if m.repo != nil {
		if err := m.repo.Update(transfer); err != nil {
			m.logger.Error("Failed to update transfer status", zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.String("id", transfer.ID),
		zap.String("outcome", string(outcome.Kind)),
		zap.Int("status_code", outcome.StatusCode),
		zap.Int64("bytes_received", outcome.BytesReceived),
		zap.Int64("bytes_total", outcome.BytesTotal),
	}
	if outcome.Err != nil {
		fields = append(fields, zap.Error(outcome.Err))
	}

	switch transfer.Status {
	case domain.StatusCompleted:
		m.logger.Info("Transfer completed", fields...)
		m.logEvent("transfer_completed", fields...)
	case domain.StatusCancelled:
		m.logger.Info("Transfer cancelled", fields...)
		m.logEvent("transfer_cancelled", fields...)
	default:
		m.logger.Warn("Transfer failed", fields...)
		m.logEvent("transfer_failed", fields...)
		if m.events != nil {
			m.events.LogAppError(transfer.Message, fields...)
		}
	}

	if m.notifier != nil {
		m.notifier.NotifyTransferFinished(transfer)
	}
}

func (m *TransferManager) logEvent(event string, fields ...zap.Field) {
	if m.events != nil {
		m.events.LogTransferEvent(event, fields...)
	}
}

// Cancel aborts an in-flight transfer
func (m *TransferManager) Cancel(id string) error {
	m.mu.Lock()
	cancel, ok := m.running[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, id)
	}
	cancel()
	m.logger.Info("Transfer cancellation requested", zap.String("id", id))
	return nil
}

// IsRunning reports whether the transfer is in flight
func (m *TransferManager) IsRunning(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.running[id]
	return ok
}

// Get retrieves a transfer by ID
func (m *TransferManager) Get(id string) (*domain.Transfer, error) {
	if m.repo == nil {
		return nil, infrastructure.ErrTransferNotFound
	}
	return m.repo.FindByID(id)
}

// List lists transfers with optional filters
func (m *TransferManager) List(filters map[string]interface{}) ([]*domain.Transfer, error) {
	if m.repo == nil {
		return []*domain.Transfer{}, nil
	}
	return m.repo.FindAll(filters)
}

// Stats returns transfer statistics
func (m *TransferManager) Stats() (*domain.TransferStats, error) {
	if m.repo == nil {
		return &domain.TransferStats{}, nil
	}
	return m.repo.GetStats()
}

// Delete removes a finished transfer from history
func (m *TransferManager) Delete(id string) error {
	if m.IsRunning(id) {
		return fmt.Errorf("%w: %s", ErrStillRunning, id)
	}
	if m.repo == nil {
		return infrastructure.ErrTransferNotFound
	}
	return m.repo.Delete(id)
}

// Shutdown cancels every in-flight transfer and waits for background ones
func (m *TransferManager) Shutdown() {
	m.mu.Lock()
	for _, cancel := range m.running {
		cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
}
