package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

// Image is a photo attached to a survey draft.
type Image struct {
	Name string
	Data io.Reader
}

// Draft is what the create-survey screen collects before submission.
type Draft struct {
	ItemID       int
	StoreName    string
	StoreAddress string
	Date         string
	Description  string
	Latitude     *float64
	Longitude    *float64
	Images       []Image
}

// SurveyController drives the create-survey screen.
type SurveyController struct {
	lifecycle
	api      API
	sessions SessionStore
}

// NewSurveyController creates a SurveyController.
func NewSurveyController(api API, sessions SessionStore) *SurveyController {
	return &SurveyController{lifecycle: newLifecycle(), api: api, sessions: sessions}
}

// Submit uploads the draft's images, then creates the record for the logged-in
// surveyor. The first failure aborts the submission.
func (c *SurveyController) Submit(ctx context.Context, d Draft) (map[string]any, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	sess, err := RequireSession(c.sessions)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.bind(ctx)
	defer cancel()

	urls := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		resp, err := c.api.UploadImage(ctx, img.Name, img.Data)
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", img.Name, err)
		}
		url := resp["url"]
		if url == "" {
			return nil, fmt.Errorf("uploading %s: response has no url", img.Name)
		}
		urls = append(urls, url)
	}

	rec := model.Record{
		ItemID:       d.ItemID,
		SurveyorID:   sess.UserID,
		StoreName:    strings.TrimSpace(d.StoreName),
		StoreAddress: strings.TrimSpace(d.StoreAddress),
		Date:         d.Date,
		Description:  d.Description,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
	}
	if len(urls) > 0 {
		rec.Images = urls
	}

	out, err := c.api.CreateSurvey(ctx, rec)
	if err != nil {
		return nil, err
	}

	slog.Info("survey submitted", "surveyor_id", sess.UserID, "item_id", d.ItemID, "images", len(urls))
	return out, nil
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.StoreName) == "" {
		return &ValidationError{Field: "store_name", Message: "store name is required"}
	}
	if d.ItemID <= 0 {
		return &ValidationError{Field: "item_id", Message: "item id must be positive"}
	}
	if (d.Latitude == nil) != (d.Longitude == nil) {
		return &ValidationError{Field: "location", Message: "latitude and longitude must be set together"}
	}
	return nil
}
