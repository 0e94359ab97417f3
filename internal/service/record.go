package service

import (
	"context"
	"errors"
	"strings"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

var (
	ErrItemIDRequired     = errors.New("item_id is required")
	ErrSurveyorIDRequired = errors.New("surveyor_id is required")
	ErrStoreNameRequired  = errors.New("store_name is required")
	ErrInvalidLocation    = errors.New("latitude and longitude must be given together and be in range")
)

// RecordService handles survey record submissions.
type RecordService struct {
	repo RecordStore
}

// NewRecordService creates a new RecordService.
func NewRecordService(repo RecordStore) *RecordService {
	return &RecordService{repo: repo}
}

// Create validates and stores a record.
func (s *RecordService) Create(ctx context.Context, rec model.Record) (model.CreateRecordResponse, error) {
	if err := validateRecord(&rec); err != nil {
		return model.CreateRecordResponse{}, err
	}

	if err := s.repo.Create(ctx, &rec); err != nil {
		return model.CreateRecordResponse{}, err
	}

	return model.CreateRecordResponse{
		Success:  true,
		Message:  "survey record saved",
		RecordID: rec.ID,
	}, nil
}

func validateRecord(rec *model.Record) error {
	rec.StoreName = strings.TrimSpace(rec.StoreName)
	rec.StoreAddress = strings.TrimSpace(rec.StoreAddress)

	switch {
	case rec.ItemID <= 0:
		return ErrItemIDRequired
	case rec.SurveyorID <= 0:
		return ErrSurveyorIDRequired
	case rec.StoreName == "":
		return ErrStoreNameRequired
	}

	if (rec.Latitude == nil) != (rec.Longitude == nil) {
		return ErrInvalidLocation
	}
	if rec.Latitude != nil {
		if *rec.Latitude < -90 || *rec.Latitude > 90 || *rec.Longitude < -180 || *rec.Longitude > 180 {
			return ErrInvalidLocation
		}
	}
	return nil
}
