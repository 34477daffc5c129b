package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adventure-server/internal/web/messaging"
)

// Mock ReportEventPublisher
type ReportEventPublisher struct {
	mock.Mock
}

func (m *ReportEventPublisher) PublishReportCreated(ctx context.Context, event messaging.ReportEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
