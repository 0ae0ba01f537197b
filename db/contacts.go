// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations and contact lookups by name, email, or company
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
)

const contactColumns = `id, name, email, phone, role, language, company_id, influence, metadata, created_at, updated_at`

func CreateContact(db Execer, contact *models.Contact) error {
	rec := *contact
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := timestamp()
	rec.CreatedAt = keepTimestamp(rec.CreatedAt, now)
	rec.UpdatedAt = keepTimestamp(rec.UpdatedAt, now)

	if err := schema.ValidateContact(rec); err != nil {
		return err
	}

	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	var influence sql.NullInt64
	if rec.Influence != nil {
		influence = sql.NullInt64{Int64: int64(*rec.Influence), Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Email, nullString(rec.Phone), nullString(rec.Role), nullString(rec.Language),
		nullString(rec.CompanyID), influence, meta, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	*contact = rec
	return nil
}

func GetContact(db *sql.DB, id string) (*models.Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	return contact, err
}

// FindContacts matches query against name and email. A non-empty companyID
// restricts results to that company.
func FindContacts(db *sql.DB, query string, companyID string, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	sqlQuery := `SELECT ` + contactColumns + ` FROM contacts WHERE 1=1`
	args := []any{}

	if query != "" {
		searchPattern := "%" + strings.ToLower(query) + "%"
		sqlQuery += ` AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ?)`
		args = append(args, searchPattern, searchPattern)
	}
	if companyID != "" {
		sqlQuery += ` AND company_id = ?`
		args = append(args, companyID)
	}

	sqlQuery += ` ORDER BY name ASC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

// DeleteContact detaches the contact from deals and activities before
// removing it.
func DeleteContact(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE deals SET contact_id = NULL WHERE contact_id = ?`, id); err != nil {
		return fmt.Errorf("failed to update deals: %w", err)
	}
	if _, err := tx.Exec(`UPDATE activities SET contact_id = NULL WHERE contact_id = ?`, id); err != nil {
		return fmt.Errorf("failed to update activities: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if err := requireOneRow(res, "contact", id); err != nil {
		return err
	}

	return tx.Commit()
}

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	var phone, role, language, companyID, meta sql.NullString
	var influence sql.NullInt64

	err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &role, &language, &companyID, &influence, &meta, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Phone = phone.String
	c.Role = role.String
	c.Language = language.String
	c.CompanyID = companyID.String
	if influence.Valid {
		v := int(influence.Int64)
		c.Influence = &v
	}
	if c.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return c, nil
}
