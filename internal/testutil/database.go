// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/domain/entity"
	"github.com/cashsplit/backend/internal/integration/persistence/model"
)

// NewTestDB opens a private in-memory SQLite database with every table migrated.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// CreateUser stores a user with a throwaway password hash.
func CreateUser(t testing.TB, db *gorm.DB, name, email string) *entity.User {
	t.Helper()

	user := entity.NewUser(email, name, "$2a$10$test")
	require.NoError(t, db.Create(model.FromEntity(user)).Error)
	return user
}

// EmailRecorder is an adapter.EmailService that keeps queued emails in memory.
type EmailRecorder struct {
	mu          sync.Mutex
	MemberAdded []adapter.QueueMemberAddedInput
	Settlements []adapter.QueueSettlementRecordedInput
}

// QueueMemberAddedEmail records the input.
func (r *EmailRecorder) QueueMemberAddedEmail(_ context.Context, input adapter.QueueMemberAddedInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MemberAdded = append(r.MemberAdded, input)
	return nil
}

// QueueSettlementRecordedEmail records the input.
func (r *EmailRecorder) QueueSettlementRecordedEmail(_ context.Context, input adapter.QueueSettlementRecordedInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Settlements = append(r.Settlements, input)
	return nil
}
