package mock

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
)

// StatsProvider is a mock implementation of service.SkillStatsProvider for
// testing.
type StatsProvider struct {
	// FetchMetricSnapshotFunc allows tests to customize the behavior
	FetchMetricSnapshotFunc func(ctx context.Context, userID string) (*service.MetricSnapshot, error)

	// Simple fields for common test scenarios
	Snapshot *service.MetricSnapshot
	Error    error
}

func NewStatsProvider() *StatsProvider {
	return &StatsProvider{}
}

// FetchMetricSnapshot returns mocked cognitive metrics
func (m *StatsProvider) FetchMetricSnapshot(ctx context.Context, userID string) (*service.MetricSnapshot, error) {
	if m.FetchMetricSnapshotFunc != nil {
		return m.FetchMetricSnapshotFunc(ctx, userID)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Snapshot != nil {
		return m.Snapshot, nil
	}
	return nil, fmt.Errorf("no mock metrics configured for user %s", userID)
}

// WithSnapshot sets the snapshot to return
func (m *StatsProvider) WithSnapshot(snapshot *service.MetricSnapshot) *StatsProvider {
	m.Snapshot = snapshot
	return m
}

// WithError sets an error to return
func (m *StatsProvider) WithError(err error) *StatsProvider {
	m.Error = err
	return m
}

// EntitlementGranter is a mock implementation of service.EntitlementGranter
// for testing.
type EntitlementGranter struct {
	GrantEntitlementFunc func(ctx context.Context, userID, itemID string, quantity int) error

	// Granted records every successful grant for assertions
	Granted []GrantCall
	Error   error
}

type GrantCall struct {
	UserID   string
	ItemID   string
	Quantity int
}

func NewEntitlementGranter() *EntitlementGranter {
	return &EntitlementGranter{}
}

// GrantEntitlement records the grant or returns the configured error
func (m *EntitlementGranter) GrantEntitlement(ctx context.Context, userID, itemID string, quantity int) error {
	if m.GrantEntitlementFunc != nil {
		return m.GrantEntitlementFunc(ctx, userID, itemID, quantity)
	}
	if m.Error != nil {
		return m.Error
	}
	m.Granted = append(m.Granted, GrantCall{UserID: userID, ItemID: itemID, Quantity: quantity})
	return nil
}

// WithError sets an error to return
func (m *EntitlementGranter) WithError(err error) *EntitlementGranter {
	m.Error = err
	return m
}
