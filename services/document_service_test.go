package services

import (
	"law_office_app_go/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLifecycle(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	c := seedCase(t, db, office.ID, "55001")

	doc, err := CreateDocument(db, c.ID, "  Disability form  ")
	require.NoError(t, err)
	assert.Equal(t, "Disability form", doc.DocName)
	assert.Equal(t, models.DocumentStatusNone, doc.Status)

	doc, err = UpdateDocumentStatus(db, c.ID, doc.ID, models.DocumentStatusSigned)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusSigned, doc.Status)

	// any non-empty status is stored as given
	doc, err = UpdateDocumentStatus(db, c.ID, doc.ID, "scanned")
	require.NoError(t, err)
	assert.Equal(t, "scanned", doc.Status)

	_, err = UpdateDocumentStatus(db, c.ID, doc.ID, " ")
	assert.ErrorIs(t, err, ErrEmptyField)

	doc, err = RenameDocument(db, c.ID, doc.ID, "Form 7801")
	require.NoError(t, err)
	assert.Equal(t, "Form 7801", doc.DocName)

	docs, err := ListDocuments(db, c.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, DeleteDocument(db, c.ID, doc.ID))
	assert.ErrorIs(t, DeleteDocument(db, c.ID, doc.ID), ErrDocumentNotFound)
}

func TestDocument_WrongCase(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	a := seedCase(t, db, office.ID, "55001")
	b := seedCase(t, db, office.ID, "55002")

	doc, err := CreateDocument(db, a.ID, "Fee agreement")
	require.NoError(t, err)

	_, err = RenameDocument(db, b.ID, doc.ID, "x")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestTaskLifecycle(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	c := seedCase(t, db, office.ID, "55001")

	task, err := CreateTask(db, c.ID, TaskInput{Text: "Request medical file"})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyLow, task.Urgency)
	assert.False(t, task.Done)

	_, err = CreateTask(db, c.ID, TaskInput{Text: "x", Urgency: "critical"})
	assert.ErrorIs(t, err, ErrInvalidUrgency)
	_, err = CreateTask(db, c.ID, TaskInput{Text: " "})
	assert.ErrorIs(t, err, ErrEmptyField)

	task, err = UpdateTask(db, c.ID, task.ID, TaskInput{Text: "Request full medical file", Urgency: models.UrgencyHigh})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyHigh, task.Urgency)

	task, err = ToggleTask(db, c.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, task.Done)

	open, err := ListOfficeOpenTasks(db, office.ID)
	require.NoError(t, err)
	assert.Empty(t, open)

	task, err = ToggleTask(db, c.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, task.Done)

	open, err = ListOfficeOpenTasks(db, office.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.NotNil(t, open[0].Case)
	assert.Equal(t, c.ID, open[0].Case.ID)

	require.NoError(t, DeleteTask(db, c.ID, task.ID))
	_, err = ToggleTask(db, c.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCallLog(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	c := seedCase(t, db, office.ID, "55001")

	call, err := CreateCall(db, c.ID, "Client asked about the hearing", c.OpenDate)
	require.NoError(t, err)
	_, err = CreateCall(db, c.ID, "Insurer called back", c.OpenDate.AddDate(0, 0, 2))
	require.NoError(t, err)

	calls, err := ListCalls(db, c.ID)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "Insurer called back", calls[0].Content)

	call, err = UpdateCall(db, c.ID, call.ID, "Client asked about the hearing date")
	require.NoError(t, err)
	assert.Equal(t, "Client asked about the hearing date", call.Content)

	_, err = CreateCall(db, c.ID, "", c.OpenDate)
	assert.ErrorIs(t, err, ErrEmptyField)

	require.NoError(t, DeleteCall(db, c.ID, call.ID))
	assert.ErrorIs(t, DeleteCall(db, c.ID, call.ID), ErrCallNotFound)
}
