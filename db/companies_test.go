// ABOUTME: Tests for company database operations
// ABOUTME: Covers create, lookup, search, and delete guards
package db

import (
	"testing"

	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompany(name string) *models.Company {
	return &models.Company{Name: name, Sector: "Industrial", Country: "ES"}
}

func TestCreateCompany(t *testing.T) {
	db := setupTestDB(t)

	ebitda, err := models.ParseAmount("2500000.50")
	require.NoError(t, err)

	company := newCompany("Acme Holdings")
	company.EbitdaLTM = &ebitda
	company.Website = "https://acme.example.com"
	require.NoError(t, CreateCompany(db, company))
	require.NotEmpty(t, company.ID)

	got, err := GetCompany(db, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", got.Name)
	require.NotNil(t, got.EbitdaLTM)
	assert.Equal(t, "2500000.5", got.EbitdaLTM.String())
	assert.Nil(t, got.IngresosLTM)
	assert.Equal(t, "https://acme.example.com", got.Website)
}

func TestCreateCompanyRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)

	err := CreateCompany(db, &models.Company{Name: "A", Sector: "Industrial", Country: "E"})
	verr, ok := schema.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("country"))
}

func TestGetCompanyNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetCompany(db, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindCompanies(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, CreateCompany(db, newCompany("Acme Holdings")))
	require.NoError(t, CreateCompany(db, newCompany("Globex")))
	software := newCompany("Initech")
	software.Sector = "Software"
	require.NoError(t, CreateCompany(db, software))

	byName, err := FindCompanies(db, "acme", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Acme Holdings", byName[0].Name)

	bySector, err := FindCompanies(db, "soft", 10)
	require.NoError(t, err)
	require.Len(t, bySector, 1)
	assert.Equal(t, "Initech", bySector[0].Name)

	all, err := FindCompanies(db, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteCompany(t *testing.T) {
	db := setupTestDB(t)

	company := newCompany("Acme Holdings")
	require.NoError(t, CreateCompany(db, company))

	contact := newContact("Ana García", "ana@acme.example.com")
	contact.CompanyID = company.ID
	require.NoError(t, CreateContact(db, contact))

	deal := newDeal("Project Atlas", models.StageNewLead)
	deal.CompanyID = company.ID
	require.NoError(t, CreateDeal(db, deal))

	assert.Error(t, DeleteCompany(db, company.ID), "companies with deals are kept")

	require.NoError(t, DeleteDeal(db, deal.ID))
	require.NoError(t, DeleteCompany(db, company.ID))

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CompanyID)

	assert.ErrorIs(t, DeleteCompany(db, company.ID), ErrNotFound)
}
