package testutil

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/looply/looply-backend/pkg/database"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
)

// MockDB wraps sqlmock for easier testing
type MockDB struct {
	DB   *database.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB creates a mock database speaking the postgres dialect.
//
// Usage:
//
//	mockDB := testutil.NewMockDB(t)
//	mockDB.ExpectQuery("SELECT value FROM kv_entries").WillReturnRows(...)
//	store := kvstore.NewSQLStore(mockDB.DB)
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &MockDB{
		DB:   database.Wrap(sqlx.NewDb(db, "postgres"), logger.Nop()),
		Mock: mock,
	}
}

// ExpectQuery sets up an expected query matched literally
func (m *MockDB) ExpectQuery(query string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(query))
}

// ExpectExec sets up an expected exec matched literally
func (m *MockDB) ExpectExec(query string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(query))
}

// ExpectationsWereMet verifies all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// PublishedEvent is one event captured by MockPublisher
type PublishedEvent struct {
	EventType string
	Data      []byte
}

// MockPublisher records published events instead of sending them
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockPublisher creates an empty recording publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, eventType string, data interface{}) error {
	raw, _ := json.Marshal(data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{EventType: eventType, Data: raw})
	return nil
}

// Types returns the event types in publish order
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.EventType
	}
	return types
}

// AssertEventPublished asserts that at least one event of the type was published
func (m *MockPublisher) AssertEventPublished(t *testing.T, eventType string) {
	t.Helper()
	assert.Contains(t, m.Types(), eventType, "expected event %s to be published", eventType)
}

// AssertNoEventsPublished asserts nothing was published
func (m *MockPublisher) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	assert.Empty(t, m.Types())
}
