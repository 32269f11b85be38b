package mock

import (
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/cashsplit/backend/config"
	"github.com/cashsplit/backend/internal/infra/db"
)

var once sync.Once
var database *Db

// Db is a migrated in-memory SQLite database shared by every scenario.
type Db struct {
	Database *db.Database
	DbConn   *gorm.DB
	// models is in migration order, parents before children.
	models []any
	tables map[string]any
}

// NewDb opens the shared database and migrates models on first use.
func NewDb(models []any) *Db {
	if database == nil {
		once.Do(
			func() {
				database = open(models)
			},
		)
	}

	return database
}

func open(models []any) *Db {
	conn, err := db.NewSQLiteConnection(&config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file::memory:",
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := conn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	newDbMock := &Db{
		Database: conn,
		DbConn:   conn.DB(),
		models:   models,
		tables:   map[string]any{},
	}

	for _, model := range models {
		stmt := &gorm.Statement{DB: newDbMock.DbConn}
		if err := stmt.Parse(model); err != nil {
			panic(fmt.Sprintf("failed to parse model %T. err: %s", model, err.Error()))
		}
		newDbMock.tables[stmt.Schema.Table] = model
	}

	if err := newDbMock.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row, children first.
func (d *Db) ClearDB() error {
	for i := len(d.models) - 1; i >= 0; i-- {
		model := d.models[i]
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}

	err := d.DbConn.Exec("DELETE FROM sqlite_sequence").Error
	if err != nil && !strings.Contains(err.Error(), "no such table: sqlite_sequence") {
		return err
	}

	return nil
}

// GetModel returns the model registered for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.tables[table]
	return model, ok
}
