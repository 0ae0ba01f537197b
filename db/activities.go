// ABOUTME: Activity log database operations
// ABOUTME: Records calls, emails, and meetings against deals and contacts
package db

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
	"github.com/oklog/ulid/v2"
)

const activityColumns = `id, title, type, description, result, next_step, due_date, deal_id, contact_id, metadata, created_at, updated_at`

// CreateActivity validates and stores an activity. Activity ids are ULIDs so
// they sort in the order they were logged.
func CreateActivity(db Execer, activity *models.Activity) error {
	rec := *activity
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	now := timestamp()
	rec.CreatedAt = keepTimestamp(rec.CreatedAt, now)
	rec.UpdatedAt = keepTimestamp(rec.UpdatedAt, now)

	if err := schema.ValidateActivity(rec); err != nil {
		return err
	}

	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.Type, nullString(rec.Description), nullString(rec.Result),
		nullString(rec.NextStep), nullString(rec.DueDate), nullString(rec.DealID),
		nullString(rec.ContactID), meta, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	*activity = rec
	return nil
}

// ListActivities returns the newest activities first, optionally restricted
// to a deal and/or a contact.
func ListActivities(db *sql.DB, dealID, contactID string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + activityColumns + ` FROM activities WHERE 1=1`
	args := []any{}
	if dealID != "" {
		query += ` AND deal_id = ?`
		args = append(args, dealID)
	}
	if contactID != "" {
		query += ` AND contact_id = ?`
		args = append(args, contactID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a := models.Activity{}
		var description, result, nextStep, dueDate, deal, contact, meta sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &a.Type, &description, &result, &nextStep, &dueDate,
			&deal, &contact, &meta, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Description = description.String
		a.Result = result.String
		a.NextStep = nextStep.String
		a.DueDate = dueDate.String
		a.DealID = deal.String
		a.ContactID = contact.String
		if a.Metadata, err = decodeMetadata(meta); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}
