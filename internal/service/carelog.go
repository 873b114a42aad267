package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plant_buddy/internal/analyzer"
	"plant_buddy/internal/config"
	"plant_buddy/internal/logger"
	"plant_buddy/internal/models"
	"plant_buddy/internal/repository"

	"github.com/google/uuid"
)

const (
	healthySummary   = "Plant appears healthy with no major visible stress."
	noSummary        = "No analysis summary available"
	defaultImageExt  = ".jpg"
	uploadsURLPrefix = "/uploads/"
)

// UploadInput is one photo upload for a plant.
type UploadInput struct {
	PlantID  string
	FileName string
	Body     io.Reader
}

type CareLogService struct {
	logs     repository.CareLogRepo
	plants   repository.PlantRepo
	analyzer ImageAnalyzer
	uploads  config.UploadsConfig
	log      *logger.Logger
	now      func() time.Time
}

func NewCareLogService(
	logs repository.CareLogRepo,
	plants repository.PlantRepo,
	a ImageAnalyzer,
	uploads config.UploadsConfig,
	log *logger.Logger,
) *CareLogService {
	return &CareLogService{
		logs:     logs,
		plants:   plants,
		analyzer: a,
		uploads:  uploads,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Upload stores the image, analyzes it and records a care log. An analysis
// failure still produces a log carrying the fail-safe result.
func (s *CareLogService) Upload(ctx context.Context, in UploadInput) (models.CareLog, error) {
	plantID := strings.TrimSpace(in.PlantID)
	if plantID == "" {
		return models.CareLog{}, fmt.Errorf("%w: missing plantId", ErrInvalidInput)
	}
	if in.Body == nil {
		return models.CareLog{}, fmt.Errorf("%w: no image uploaded", ErrInvalidInput)
	}
	plant, err := s.plants.Get(ctx, plantID)
	if err != nil {
		return models.CareLog{}, err
	}
	if plant == nil {
		return models.CareLog{}, fmt.Errorf("%w: invalid plantId", ErrInvalidInput)
	}

	name, err := s.saveImage(in.FileName, in.Body)
	if err != nil {
		return models.CareLog{}, err
	}
	imageURL := s.uploads.BaseURL + uploadsURLPrefix + name

	analysis := analyzer.Demo()
	if s.analyzer != nil {
		analysis, err = s.analyzer.Analyze(ctx, imageURL)
		if err != nil {
			s.log.Warnw("analysis_failed", "plant_id", plantID, "error", err)
		}
	}

	now := s.now().UTC()
	plant.GrowthStage = GrowthStage(plant.PlantedAt, now)
	if err := s.plants.Update(ctx, *plant); err != nil {
		s.removeImage(name)
		return models.CareLog{}, err
	}

	l, err := s.logs.Create(ctx, models.CareLog{
		PlantID:              plantID,
		ImageURL:             imageURL,
		HealthScore:          analysis.HealthScore,
		Summary:              cleanSummary(analysis.Summary),
		Issues:               analysis.Issues,
		Recommendations:      analysis.Recommendations,
		WateringSuggestion:   analysis.WateringSuggestion,
		FertilizerSuggestion: analysis.FertilizerSuggestion,
		TodayCare:            analysis.TodayCare,
		RawAnalysis:          analysis.Raw,
		CreatedAt:            now,
	})
	if err != nil {
		s.removeImage(name)
		return models.CareLog{}, err
	}
	return l, nil
}

func (s *CareLogService) ListByPlant(ctx context.Context, plantID string) ([]models.CareLog, error) {
	return s.logs.ListByPlant(ctx, plantID)
}

// saveImage writes body under the upload dir with a fresh name and returns
// that name.
func (s *CareLogService) saveImage(original string, body io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploads.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = defaultImageExt
	}
	name := uuid.NewString() + ext

	path := filepath.Join(s.uploads.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return name, nil
}

// removeImage deletes a stored upload that no care log will reference.
func (s *CareLogService) removeImage(name string) {
	if err := os.Remove(filepath.Join(s.uploads.Dir, name)); err != nil && !os.IsNotExist(err) {
		s.log.Warnw("upload_cleanup_failed", "file", name, "error", err)
	}
}

// cleanSummary replaces summaries that describe a person instead of the plant.
func cleanSummary(summary string) string {
	lower := strings.ToLower(summary)
	switch {
	case strings.Contains(lower, "hand") || strings.Contains(lower, "human"):
		return healthySummary
	case strings.TrimSpace(summary) == "":
		return noSummary
	}
	return summary
}
