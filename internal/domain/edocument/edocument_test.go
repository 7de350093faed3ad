package edocument

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T) *EDocument {
	t.Helper()
	doc, err := NewEDocument(uuid.New(), uuid.New(), DocumentTypeEInvoice, decimal.NewFromInt(240))
	require.NoError(t, err)
	return doc
}

func TestEDocumentHappyPath(t *testing.T) {
	doc := newTestDocument(t)

	require.NoError(t, doc.Submit())
	require.NoError(t, doc.MarkSent("EXT-UUID-1"))
	require.NoError(t, doc.Approve("200"))

	assert.Equal(t, DocumentStatusApproved, doc.Status)
	assert.Equal(t, "EXT-UUID-1", doc.ExternalUUID)
	assert.NotNil(t, doc.SubmittedAt)
	assert.NotNil(t, doc.FinalizedAt)

	// one log row per transition, in order
	require.Len(t, doc.Logs, 3)
	assert.Equal(t, DocumentStatusDraft, doc.Logs[0].StatusBefore)
	assert.Equal(t, DocumentStatusPending, doc.Logs[0].StatusAfter)
	assert.Equal(t, DocumentStatusPending, doc.Logs[1].StatusBefore)
	assert.Equal(t, DocumentStatusSent, doc.Logs[1].StatusAfter)
	assert.Equal(t, DocumentStatusSent, doc.Logs[2].StatusBefore)
	assert.Equal(t, DocumentStatusApproved, doc.Logs[2].StatusAfter)
}

func TestEDocumentRejection(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.Submit())
	require.NoError(t, doc.MarkSent("EXT-UUID-2"))
	require.NoError(t, doc.Reject("ERR-42", "schema validation failed"))

	assert.Equal(t, DocumentStatusRejected, doc.Status)
	assert.Equal(t, "ERR-42", doc.ResponseCode)
	require.Len(t, doc.Logs, 3)
	assert.Contains(t, doc.Logs[2].Message, "schema validation failed")
}

func TestEDocumentCancellation(t *testing.T) {
	t.Run("cancel from draft", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Cancel())
		assert.Equal(t, DocumentStatusCancelled, doc.Status)
		assert.Len(t, doc.Logs, 1)
	})

	t.Run("cancel from pending", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Submit())
		require.NoError(t, doc.Cancel())
		assert.Equal(t, DocumentStatusCancelled, doc.Status)
	})

	t.Run("cannot cancel after sending", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Submit())
		require.NoError(t, doc.MarkSent("EXT"))

		err := doc.Cancel()
		require.Error(t, err)
		// rejected transitions leave no log row
		assert.Len(t, doc.Logs, 2)
	})
}

func TestEDocumentInvalidTransitions(t *testing.T) {
	t.Run("cannot send a draft directly", func(t *testing.T) {
		doc := newTestDocument(t)
		err := doc.MarkSent("EXT")
		require.Error(t, err)
		assert.Empty(t, doc.Logs)
	})

	t.Run("cannot approve a cancelled document", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Cancel())
		err := doc.Approve("200")
		require.Error(t, err)
		assert.Len(t, doc.Logs, 1)
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		doc := newTestDocument(t)
		require.NoError(t, doc.Submit())
		require.NoError(t, doc.MarkSent("EXT"))
		require.NoError(t, doc.Approve("200"))

		require.Error(t, doc.Submit())
		require.Error(t, doc.Reject("X", ""))
		require.Error(t, doc.Cancel())
		assert.Len(t, doc.Logs, 3)
	})
}
