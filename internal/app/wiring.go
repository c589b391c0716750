package app

import (
	"fmt"

	"github.com/yourusername/fetchbar/internal/domain"
	"github.com/yourusername/fetchbar/internal/infrastructure"
	"go.uber.org/zap"
)

// BuildDownloaders creates one downloader per strategy sharing a single HTTP client
func BuildDownloaders(config *domain.Config, log *zap.Logger) (map[domain.Strategy]domain.Downloader, error) {
	client, err := infrastructure.NewHTTPClient(&config.Transfer)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return map[domain.Strategy]domain.Downloader{
		domain.StrategyCallback: infrastructure.NewCallbackDownloader(&config.Transfer, &config.Messages, client, log),
		domain.StrategyStream:   infrastructure.NewStreamDownloader(&config.Transfer, &config.Messages, client, log),
	}, nil
}

// OpenHistory opens the history database, or returns nil when history is disabled
func OpenHistory(config *domain.HistoryConfig) (*infrastructure.SQLiteTransferRepository, error) {
	if !config.Enabled {
		return nil, nil
	}

	repo, err := infrastructure.NewSQLiteTransferRepository(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return repo, nil
}

// NewManager wires the downloaders, history and notifier from configuration.
// The returned close function releases the history database.
func NewManager(config *domain.Config, log *zap.Logger) (*TransferManager, func() error, error) {
	downloaders, err := BuildDownloaders(config, log)
	if err != nil {
		return nil, nil, err
	}

	repo, err := OpenHistory(&config.History)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() error { return nil }
	var history domain.TransferRepository
	if repo != nil {
		history = repo
		closeFn = repo.Close
	}

	notifier := infrastructure.NewNotificationService(&config.Notification, log)
	return NewTransferManager(history, downloaders, notifier, &config.Transfer, log), closeFn, nil
}
