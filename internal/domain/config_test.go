package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, StrategyStream, config.Transfer.Strategy)
	assert.Equal(t, 1000, config.Transfer.PreviewLimit)
	assert.Equal(t, "\n...", config.Transfer.TruncationMarker)
	assert.Equal(t, 32*1024, config.Transfer.ChunkSize)
	assert.True(t, config.History.Enabled)
	assert.False(t, config.Notification.Enabled)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestTransferConfig_TargetURL(t *testing.T) {
	config := TransferConfig{URL: "https://example.com/book.txt"}
	assert.Equal(t, "https://example.com/book.txt", config.TargetURL())

	config.ProxyPrefix = "https://proxy.example.com/"
	assert.Equal(t, "https://proxy.example.com/https://example.com/book.txt", config.TargetURL())
}

func TestMessagesConfig_Texts(t *testing.T) {
	messages := DefaultConfig().Messages

	assert.Equal(t, "Ошибка загрузки: 404", messages.StatusErrorText(404))
	assert.Equal(t, "Ошибка чтения потока: boom", messages.StreamErrorText(errors.New("boom")))
}
