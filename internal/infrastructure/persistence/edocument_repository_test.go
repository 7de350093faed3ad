package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dukkan/backend/internal/domain/edocument"
	"github.com/dukkan/backend/internal/domain/shared"
)

// newMockEDocumentRepository creates a GormEDocumentRepository backed by a
// mocked SQL connection
func newMockEDocumentRepository(t *testing.T) (*GormEDocumentRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormEDocumentRepository(gormDB), mock, mockDB
}

func submittedDocument(t *testing.T) *edocument.EDocument {
	t.Helper()
	doc, err := edocument.NewEDocument(uuid.New(), uuid.New(),
		edocument.DocumentTypeEArchive, decimal.NewFromInt(240))
	require.NoError(t, err)
	require.NoError(t, doc.Submit())
	return doc
}

func TestGormEDocumentRepository_SaveWithLock(t *testing.T) {
	t.Run("writes header and log rows in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockEDocumentRepository(t)
		defer mockDB.Close()

		doc := submittedDocument(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "e_documents" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "e_document_logs"`).
			WillReturnResult(sqlmock.NewResult(0, int64(len(doc.Logs))))
		mock.ExpectCommit()

		err := repo.SaveWithLock(context.Background(), doc, doc.Version-1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back the status change when the log insert fails", func(t *testing.T) {
		repo, mock, mockDB := newMockEDocumentRepository(t)
		defer mockDB.Close()

		doc := submittedDocument(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "e_documents" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "e_document_logs"`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), doc, doc.Version-1)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on a version conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockEDocumentRepository(t)
		defer mockDB.Close()

		doc := submittedDocument(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "e_documents" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), doc, doc.Version-1)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEDocumentRepository_InterfaceCompliance(t *testing.T) {
	repo, _, mockDB := newMockEDocumentRepository(t)
	defer mockDB.Close()

	var _ edocument.EDocumentRepository = repo
}
