package bootstrap

import (
	"context"
	"testing"

	"go-thread/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-9")
	l.Log(ctx, AuditLog{Action: "LEAVE_DECIDED", Message: "leave approved", Meta: map[string]any{"leave_id": "l1"}})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.LoggerName)
	fields := entry.ContextMap()
	assert.Equal(t, "LEAVE_DECIDED", fields["action"])
	assert.Equal(t, "req-9", fields["request_id"])
}
