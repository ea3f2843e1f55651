package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "funnel.log")
	t.Cleanup(func() { Logger = zerolog.Nop() })

	InitLogger(logFile, true)
	LogInfo(map[string]interface{}{"studentId": "S001"}, "学员阶段已更新")

	assert.Equal(t, zerolog.DebugLevel, Logger.GetLevel())
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "S001")
}
