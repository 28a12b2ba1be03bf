package sqldb

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tutorapp/tutorapp/pkg/models/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var models = []any{
	&store.Tutor{},
	&store.Course{},
	&store.Student{},
	&store.Lesson{},
	&store.LessonStudent{},
}

type Settings struct {
	Driver string
	DSN    string
	// Migrate runs AutoMigrate for the read model on open.
	Migrate bool
	Verbose bool
}

func NewDB(settings Settings) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(settings.Driver) {
	case DriverPostgres:
		dialector = postgres.Open(settings.DSN)
	case DriverSQLite, "":
		dialector = sqlite.Open(settings.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", settings.Driver)
	}

	return Open(dialector, settings)
}

// Open connects through an already built dialector. Tests use it to put gorm
// on top of sqlmock.
func Open(dialector gorm.Dialector, settings Settings) (*gorm.DB, error) {
	level := gormLogger.Warn
	if settings.Verbose {
		level = gormLogger.Info
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isMemorySQLite(settings) {
		// every pooled connection to ":memory:" would get its own database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if settings.Migrate {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate read model: %w", err)
		}
	}

	return db, nil
}

func isMemorySQLite(settings Settings) bool {
	driver := strings.ToLower(settings.Driver)
	return (driver == DriverSQLite || driver == "") && strings.Contains(settings.DSN, ":memory:")
}
