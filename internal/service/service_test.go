package service

import (
	"fmt"
	"strings"
	"testing"

	"fileroom/backend/internal/model"
	"fileroom/backend/pkg/security"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema. The DSN
// is keyed by test name so parallel tests don't share state, and uses a
// shared cache so the connection pool sees one database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(model.User{}, model.File{}, model.Token{}, model.Room{}, model.Member{}, model.LogEntry{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type fixture struct {
	db       *gorm.DB
	audit    *AuditService
	accounts *AccountService
	tokens   *TokenService
	files    *FileService
	rooms    *RoomService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	audit := NewAuditService(db)
	files := NewFileService(db, audit)

	return &fixture{
		db:       db,
		audit:    audit,
		accounts: NewAccountService(db, security.New(), audit),
		tokens:   NewTokenService(db, 100, false),
		files:    files,
		rooms:    NewRoomService(db, files),
	}
}

// mustCreate registers a basic account or fails the test.
func (f *fixture) mustCreate(t *testing.T, username string) *model.User {
	t.Helper()

	user, err := f.accounts.Create(username, "password123", username+"@example.com", model.TypeBasic, "First", "Last")
	if err != nil {
		t.Fatalf("Create(%q) error = %v", username, err)
	}

	return user
}
