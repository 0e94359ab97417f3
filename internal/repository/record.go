package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

// RecordRepository handles survey record persistence operations.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a record and sets its generated ID. Image URLs are stored as a JSON array.
func (r *RecordRepository) Create(ctx context.Context, rec *model.Record) error {
	photos, err := encodePhotos(rec.Images)
	if err != nil {
		return err
	}

	query := `INSERT INTO survey_records
		(item_id, surveyor_id, store_name, store_address, date, description, latitude, longitude, photos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		rec.ItemID,
		rec.SurveyorID,
		rec.StoreName,
		nullString(rec.StoreAddress),
		nullString(rec.Date),
		nullString(rec.Description),
		rec.Latitude,
		rec.Longitude,
		photos,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = int(id)
	return nil
}

func encodePhotos(images []string) (sql.NullString, error) {
	if len(images) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
