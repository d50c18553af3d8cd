package services

import (
	"law_office_app_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func TestNextCaseNumber(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")

	t.Run("Default for empty office", func(t *testing.T) {
		n, err := NextCaseNumber(db, office.ID)
		require.NoError(t, err)
		assert.Equal(t, DefaultFirstCaseNumber, n)
	})

	t.Run("Digits of last case plus one", func(t *testing.T) {
		seedCase(t, db, office.ID, "A-55010")
		n, err := NextCaseNumber(db, office.ID)
		require.NoError(t, err)
		assert.Equal(t, "55011", n)
	})

	t.Run("Skips numbers already taken", func(t *testing.T) {
		seedCase(t, db, office.ID, "55011")
		seedCase(t, db, office.ID, "55000")
		// last created is 55000, 55001 is free
		n, err := NextCaseNumber(db, office.ID)
		require.NoError(t, err)
		assert.Equal(t, "55001", n)
	})

	t.Run("Scoped per office", func(t *testing.T) {
		other := seedOffice(t, db, "Other")
		n, err := NextCaseNumber(db, other.ID)
		require.NoError(t, err)
		assert.Equal(t, DefaultFirstCaseNumber, n)
	})
}

func TestCreateCase(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	lawyer, err := CreateLawyer(db, office.ID, "Adv. Cohen")
	require.NoError(t, err)
	otherOffice := seedOffice(t, db, "Other")
	foreign, err := CreateLawyer(db, otherOffice.ID, "Adv. Foreign")
	require.NoError(t, err)

	openDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c, err := CreateCase(db, office.ID, CaseInput{
		FirstName: " Dana ",
		LastName:  "Levi",
		OpenDate:  &openDate,
		LawyerIDs: []string{lawyer.ID, foreign.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultFirstCaseNumber, c.CaseNum)
	assert.Equal(t, "Dana Levi", c.Title)
	assert.Equal(t, models.CaseStatusOpen, c.Status)
	require.NotNil(t, c.DocsDeadline)
	assert.Equal(t, openDate.AddDate(0, 0, DocsDeadlineDays), c.DocsDeadline.UTC())

	loaded, err := GetCase(db, office.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Documents, len(models.DefaultCaseDocuments))
	for _, d := range loaded.Documents {
		assert.Equal(t, models.DocumentStatusNone, d.Status)
	}
	require.Len(t, loaded.Lawyers, 1)
	assert.Equal(t, lawyer.ID, loaded.Lawyers[0].ID)

	second, err := CreateCase(db, office.ID, CaseInput{FirstName: "Yossi"})
	require.NoError(t, err)
	assert.Equal(t, "55002", second.CaseNum)
}

func TestCreateCase_Validation(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")

	_, err := CreateCase(db, office.ID, CaseInput{FirstName: "  "})
	assert.ErrorIs(t, err, ErrClientNameRequired)

	_, err = CreateCase(db, office.ID, CaseInput{FirstName: "Dana", CaseNum: "777"})
	require.NoError(t, err)
	_, err = CreateCase(db, office.ID, CaseInput{FirstName: "Noa", CaseNum: "777"})
	assert.ErrorIs(t, err, ErrCaseNumberTaken)
}

func TestGetCase_OfficeScoped(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	other := seedOffice(t, db, "Other")
	c := seedCase(t, db, office.ID, "55001")

	_, err := GetCase(db, other.ID, c.ID)
	assert.ErrorIs(t, err, ErrCaseNotFound)
	assert.ErrorIs(t, CaseBelongsToOffice(db, other.ID, c.ID), ErrCaseNotFound)
	assert.NoError(t, CaseBelongsToOffice(db, office.ID, c.ID))
}

func TestUpdateCase(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	c := seedCase(t, db, office.ID, "55001")
	lawyer, err := CreateLawyer(db, office.ID, "Adv. Cohen")
	require.NoError(t, err)

	status := models.CaseStatusProcess
	ids := []string{lawyer.ID}
	updated, err := UpdateCase(db, office.ID, c.ID, CaseUpdate{
		LastName:  stringPtr("Mizrahi"),
		City:      stringPtr("Haifa"),
		Status:    &status,
		LawyerIDs: &ids,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Mizrahi", updated.Title)
	assert.Equal(t, "Haifa", updated.City)
	assert.Equal(t, models.CaseStatusProcess, updated.Status)
	assert.Len(t, updated.Lawyers, 1)

	empty := []string{}
	updated, err = UpdateCase(db, office.ID, c.ID, CaseUpdate{LawyerIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Lawyers)

	bad := "archived"
	_, err = UpdateCase(db, office.ID, c.ID, CaseUpdate{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidCaseStatus)

	_, err = UpdateCase(db, office.ID, c.ID, CaseUpdate{FirstName: stringPtr("")})
	assert.ErrorIs(t, err, ErrClientNameRequired)
}

func TestListCases_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	office := seedOffice(t, db, "Levi & Co")
	first := seedCase(t, db, office.ID, "55001")
	second := seedCase(t, db, office.ID, "55002")
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	cases, err := ListCases(db, office.ID)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, second.ID, cases[0].ID)
}
