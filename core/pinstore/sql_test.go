package pinstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenspring/core/pinstore"
	"greenspring/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

var documentColumns = []string{"name", "body", "updated_at"}

func TestSQLStore_LoadState(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SELECT \\* FROM `pin_documents`").
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow("state.json", `{"17":1,"4":"0"}`, time.Now()))

	s := pinstore.NewSQLStore(db, "config.json", "state.json", zap.NewNop())
	assert.Equal(t, reconcile.PinState{17: 1, 4: 0}, s.LoadState(context.Background()))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSQLStore_LoadMissing(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SELECT \\* FROM `pin_documents`").
		WillReturnRows(sqlmock.NewRows(documentColumns))

	s := pinstore.NewSQLStore(db, "config.json", "state.json", zap.NewNop())
	assert.Equal(t, reconcile.EmptyConfig(), s.LoadConfig(context.Background()))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSQLStore_LoadQueryError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SELECT \\* FROM `pin_documents`").WillReturnError(errors.New("server has gone away"))

	s := pinstore.NewSQLStore(db, "config.json", "state.json", zap.NewNop())
	assert.Empty(t, s.LoadState(context.Background()))
}

func TestSQLStore_SaveConfig(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `pin_documents`").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	s := pinstore.NewSQLStore(db, "config.json", "state.json", zap.NewNop())
	require.NoError(t, s.SaveConfig(context.Background(), reconcile.EmptyConfig()))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSQLStore_SaveFailure(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `pin_documents`").WillReturnError(errors.New("disk full"))
	sqlMock.ExpectRollback()

	s := pinstore.NewSQLStore(db, "config.json", "state.json", zap.NewNop())
	err := s.SaveState(context.Background(), reconcile.PinState{17: 1})
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
