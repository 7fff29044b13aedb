package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AccelByte/extend-cognitive-gate/pkg/combo"
	"github.com/AccelByte/extend-cognitive-gate/pkg/service"
)

// In-memory storage implementations for tests that exercise handler and
// bootstrap wiring without a Redis instance.

// UserStateStore is an in-memory implementation of service.UserStateStore.
type UserStateStore struct {
	mu     sync.Mutex
	states map[string]*service.UserGateState

	GetError    error
	UpdateError error
}

func NewUserStateStore() *UserStateStore {
	return &UserStateStore{states: make(map[string]*service.UserGateState)}
}

func (m *UserStateStore) GetUserGateState(ctx context.Context, userID string) (*service.UserGateState, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[userID]; ok {
		copied := *state
		return &copied, nil
	}
	return service.NewUserGateState(), nil
}

func (m *UserStateStore) UpdateUserGateState(ctx context.Context, userID string, state *service.UserGateState) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *state
	m.states[userID] = &copied
	return nil
}

// CompletionLog is an in-memory implementation of service.CompletionLog.
type CompletionLog struct {
	mu      sync.Mutex
	records map[string][]service.CompletionRecord

	AppendError error
	ListError   error
}

func NewCompletionLog() *CompletionLog {
	return &CompletionLog{records: make(map[string][]service.CompletionRecord)}
}

func (m *CompletionLog) Append(ctx context.Context, record service.CompletionRecord) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = append(m.records[record.UserID], record)
	return nil
}

func (m *CompletionLog) ListSince(ctx context.Context, userID string, since time.Time) ([]service.CompletionRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []service.CompletionRecord
	for _, record := range m.records[userID] {
		if !record.CompletedAt.Before(since) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

// ComboLog is an in-memory implementation of service.ComboLog.
type ComboLog struct {
	mu      sync.Mutex
	records map[string][]combo.Record

	AppendError error
	RecentError error
}

func NewComboLog() *ComboLog {
	return &ComboLog{records: make(map[string][]combo.Record)}
}

func comboLogKey(userID, gameName string) string {
	return userID + ":" + gameName
}

func (m *ComboLog) Append(ctx context.Context, userID string, record combo.Record) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := comboLogKey(userID, record.GameName)
	m.records[key] = append(m.records[key], record)
	return nil
}

func (m *ComboLog) Recent(ctx context.Context, userID, gameName string, limit int) ([]combo.Record, error) {
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	history := m.records[comboLogKey(userID, gameName)]
	out := make([]combo.Record, 0, limit)
	for i := len(history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

// UnlockBudgetStore is an in-memory implementation of
// service.UnlockBudgetStore.
type UnlockBudgetStore struct {
	mu     sync.Mutex
	counts map[string]int

	UsedError    error
	ConsumeError error
}

func NewUnlockBudgetStore() *UnlockBudgetStore {
	return &UnlockBudgetStore{counts: make(map[string]int)}
}

func budgetKey(userID string, now time.Time) string {
	return userID + ":" + now.UTC().Format("2006-01-02")
}

func (m *UnlockBudgetStore) UsedToday(ctx context.Context, userID string, now time.Time) (int, error) {
	if m.UsedError != nil {
		return 0, m.UsedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[budgetKey(userID, now)], nil
}

func (m *UnlockBudgetStore) Consume(ctx context.Context, userID string, now time.Time) (int, error) {
	if m.ConsumeError != nil {
		return 0, m.ConsumeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := budgetKey(userID, now)
	m.counts[key]++
	return m.counts[key], nil
}
