// ABOUTME: Company database operations
// ABOUTME: Handles CRUD operations and company lookups
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
	"github.com/shopspring/decimal"
)

const companyColumns = `id, name, sector, country, ebitda_ltm, ingresos_ltm, website, metadata, created_at, updated_at`

func CreateCompany(db Execer, company *models.Company) error {
	rec := *company
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := timestamp()
	rec.CreatedAt = keepTimestamp(rec.CreatedAt, now)
	rec.UpdatedAt = keepTimestamp(rec.UpdatedAt, now)

	if err := schema.ValidateCompany(rec); err != nil {
		return err
	}

	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Sector, rec.Country, nullAmount(rec.EbitdaLTM), nullAmount(rec.IngresosLTM),
		nullString(rec.Website), meta, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}

	*company = rec
	return nil
}

func GetCompany(db *sql.DB, id string) (*models.Company, error) {
	row := db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	company, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	return company, err
}

// FindCompanies matches query against name and sector, case-insensitively.
func FindCompanies(db *sql.DB, query string, limit int) ([]models.Company, error) {
	if limit <= 0 {
		limit = 10
	}

	searchPattern := "%" + strings.ToLower(query) + "%"
	rows, err := db.Query(`
		SELECT `+companyColumns+`
		FROM companies
		WHERE LOWER(name) LIKE ? OR LOWER(sector) LIKE ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, searchPattern, searchPattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}

	return companies, rows.Err()
}

// DeleteCompany refuses while deals still point at the company and detaches
// its contacts.
func DeleteCompany(db *sql.DB, id string) error {
	var dealCount int
	err := db.QueryRow(`SELECT COUNT(*) FROM deals WHERE company_id = ?`, id).Scan(&dealCount)
	if err != nil {
		return fmt.Errorf("failed to check deals: %w", err)
	}
	if dealCount > 0 {
		return fmt.Errorf("cannot delete company with %d active deals", dealCount)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE contacts SET company_id = NULL WHERE company_id = ?`, id); err != nil {
		return fmt.Errorf("failed to update contacts: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if err := requireOneRow(res, "company", id); err != nil {
		return err
	}

	return tx.Commit()
}

func scanCompany(row scanner) (*models.Company, error) {
	c := &models.Company{}
	var ebitda, ingresos decimal.NullDecimal
	var website, meta sql.NullString

	err := row.Scan(&c.ID, &c.Name, &c.Sector, &c.Country, &ebitda, &ingresos, &website, &meta, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.EbitdaLTM = amountFromNull(ebitda)
	c.IngresosLTM = amountFromNull(ingresos)
	c.Website = website.String
	if c.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return c, nil
}

func nullAmount(a *models.Amount) sql.NullString {
	if a == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: a.String(), Valid: true}
}

func amountFromNull(d decimal.NullDecimal) *models.Amount {
	if !d.Valid {
		return nil
	}
	return &models.Amount{Decimal: d.Decimal}
}
