// ABOUTME: Deal database operations
// ABOUTME: Handles CRUD, filtered lookups, and stage moves behind the schema gate
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

const dealColumns = `id, name, mandate_type, sector, ev_min, ev_max, stage, probability_pct,
	fee_model, close_target_date, company_id, contact_id, metadata, created_at, updated_at`

// DealFilter narrows FindDeals. Zero fields match everything; Limit <= 0
// returns every match.
type DealFilter struct {
	Stage       string
	MandateType string
	CompanyID   string
	Limit       int
}

// CreateDeal validates deal and inserts it. An empty ID is filled with a new
// UUID and supplied RFC3339 timestamps are kept. deal is only updated when
// the insert succeeds. db may be a *sql.Tx.
func CreateDeal(db Execer, deal *models.Deal) error {
	rec := *deal
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := timestamp()
	rec.CreatedAt = keepTimestamp(rec.CreatedAt, now)
	rec.UpdatedAt = keepTimestamp(rec.UpdatedAt, now)

	if err := schema.ValidateDeal(rec); err != nil {
		return err
	}

	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO deals (`+dealColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.MandateType, rec.Sector, rec.EVMin.String(), rec.EVMax.String(),
		rec.Stage, rec.ProbabilityPct, nullString(rec.FeeModel), nullString(rec.CloseTargetDate),
		nullString(rec.CompanyID), nullString(rec.ContactID), meta, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert deal: %w", err)
	}

	*deal = rec
	return nil
}

func GetDeal(db *sql.DB, id string) (*models.Deal, error) {
	row := db.QueryRow(`SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)
	deal, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return deal, err
}

// UpdateDeal validates deal and overwrites the stored row with the same ID.
func UpdateDeal(db *sql.DB, deal *models.Deal) error {
	rec := *deal
	rec.UpdatedAt = timestamp()

	if err := schema.ValidateDeal(rec); err != nil {
		return err
	}

	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	res, err := db.Exec(`
		UPDATE deals
		SET name = ?, mandate_type = ?, sector = ?, ev_min = ?, ev_max = ?, stage = ?,
			probability_pct = ?, fee_model = ?, close_target_date = ?, company_id = ?,
			contact_id = ?, metadata = ?, updated_at = ?
		WHERE id = ?
	`, rec.Name, rec.MandateType, rec.Sector, rec.EVMin.String(), rec.EVMax.String(), rec.Stage,
		rec.ProbabilityPct, nullString(rec.FeeModel), nullString(rec.CloseTargetDate),
		nullString(rec.CompanyID), nullString(rec.ContactID), meta, rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	if err := requireOneRow(res, "deal", rec.ID); err != nil {
		return err
	}

	*deal = rec
	return nil
}

// MoveDealStage sets a new stage and the probability that goes with it, then
// saves the deal through the same validation as any other update.
func MoveDealStage(db *sql.DB, id, stage string) (*models.Deal, error) {
	deal, err := GetDeal(db, id)
	if err != nil {
		return nil, err
	}

	deal.SetStage(stage)
	if err := UpdateDeal(db, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

// DeleteDeal removes the deal and the activities logged against it.
func DeleteDeal(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM activities WHERE deal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deal activities: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if err := requireOneRow(res, "deal", id); err != nil {
		return err
	}

	return tx.Commit()
}

func FindDeals(db *sql.DB, filter DealFilter) ([]models.Deal, error) {
	var (
		where []string
		args  []any
	)
	if filter.Stage != "" {
		where = append(where, "stage = ?")
		args = append(args, filter.Stage)
	}
	if filter.MandateType != "" {
		where = append(where, "mandate_type = ?")
		args = append(args, filter.MandateType)
	}
	if filter.CompanyID != "" {
		where = append(where, "company_id = ?")
		args = append(args, filter.CompanyID)
	}

	query := `SELECT ` + dealColumns + ` FROM deals`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *deal)
	}

	return deals, rows.Err()
}

func scanDeal(row scanner) (*models.Deal, error) {
	deal := &models.Deal{}
	var feeModel, closeTarget, companyID, contactID, meta sql.NullString

	err := row.Scan(
		&deal.ID,
		&deal.Name,
		&deal.MandateType,
		&deal.Sector,
		&deal.EVMin,
		&deal.EVMax,
		&deal.Stage,
		&deal.ProbabilityPct,
		&feeModel,
		&closeTarget,
		&companyID,
		&contactID,
		&meta,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	deal.FeeModel = feeModel.String
	deal.CloseTargetDate = closeTarget.String
	deal.CompanyID = companyID.String
	deal.ContactID = contactID.String
	if deal.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return deal, nil
}

func requireOneRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
