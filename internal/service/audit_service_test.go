package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
)

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (m *mockAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) all() []*domain.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditLog(nil), m.entries...)
}

func TestAuditServiceDrainsOnShutdown(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, testMetrics, zap.NewNop())

	userID := uuid.New()
	for i := 0; i < 25; i++ {
		svc.LogAsync(context.Background(), AuditEntry{
			UserID:       userID,
			Action:       string(domain.ActionCreate),
			ResourceType: "vitals",
		})
	}

	svc.Shutdown()

	entries := repo.all()
	require.Len(t, entries, 25)
	assert.Equal(t, userID, entries[0].UserID)
	assert.Equal(t, domain.ActionCreate, entries[0].Action)
}
