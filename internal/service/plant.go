package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plant_buddy/internal/models"
	"plant_buddy/internal/repository"
)

// Care cadence defaults for new plants, in days.
const (
	defaultWateringIntervalDays   = 2
	defaultFertilizerIntervalDays = 14
)

// PlantInput is the create payload for a plant.
type PlantInput struct {
	Name                   string              `json:"name"`
	Species                string              `json:"species"`
	Location               string              `json:"location"`
	SunlightRequired       string              `json:"sunlightRequired"`
	PotSize                string              `json:"potSize"`
	Geo                    *models.GeoLocation `json:"geo"`
	PlantedAt              *time.Time          `json:"plantedAt"`
	ExpectedGrowthDays     *int                `json:"expectedGrowthDays"`
	WateringIntervalDays   *int                `json:"wateringIntervalDays"`
	FertilizerIntervalDays *int                `json:"fertilizerIntervalDays"`
}

type PlantService struct {
	repo repository.PlantRepo
	now  func() time.Time
}

func NewPlantService(repo repository.PlantRepo) *PlantService {
	return &PlantService{repo: repo, now: time.Now}
}

// GrowthStage buckets the whole days since planting.
func GrowthStage(plantedAt, now time.Time) string {
	days := int(now.Sub(plantedAt).Hours() / 24)
	switch {
	case days < 10:
		return "seedling"
	case days < 40:
		return "young"
	case days < 80:
		return "growing"
	default:
		return "mature"
	}
}

func (s *PlantService) Create(ctx context.Context, in PlantInput) (models.Plant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Plant{}, fmt.Errorf("%w: plant name is required", ErrInvalidInput)
	}
	now := s.now().UTC()

	p := models.Plant{
		Name:                   name,
		Species:                strings.TrimSpace(in.Species),
		Type:                   models.PlantManual,
		Status:                 models.PlantActive,
		Location:               in.Location,
		SunlightRequired:       in.SunlightRequired,
		PotSize:                in.PotSize,
		Geo:                    in.Geo,
		PlantedAt:              now,
		WateringIntervalDays:   defaultWateringIntervalDays,
		FertilizerIntervalDays: defaultFertilizerIntervalDays,
	}
	if in.PlantedAt != nil && !in.PlantedAt.IsZero() {
		p.PlantedAt = in.PlantedAt.UTC()
	}
	if in.ExpectedGrowthDays != nil && *in.ExpectedGrowthDays > 0 {
		days := *in.ExpectedGrowthDays
		harvest := now.Add(time.Duration(days) * 24 * time.Hour)
		p.ExpectedGrowthDays = &days
		p.PredictedHarvestAt = &harvest
	}
	if in.WateringIntervalDays != nil {
		if *in.WateringIntervalDays < 1 {
			return models.Plant{}, fmt.Errorf("%w: wateringIntervalDays must be >= 1", ErrInvalidInput)
		}
		p.WateringIntervalDays = *in.WateringIntervalDays
	}
	if in.FertilizerIntervalDays != nil {
		if *in.FertilizerIntervalDays < 1 {
			return models.Plant{}, fmt.Errorf("%w: fertilizerIntervalDays must be >= 1", ErrInvalidInput)
		}
		p.FertilizerIntervalDays = *in.FertilizerIntervalDays
	}
	p.GrowthStage = GrowthStage(p.PlantedAt, now)

	return s.repo.Create(ctx, p)
}

func (s *PlantService) List(ctx context.Context) ([]models.Plant, error) {
	return s.repo.List(ctx)
}

func (s *PlantService) Get(ctx context.Context, id string) (models.Plant, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Plant{}, err
	}
	if p == nil {
		return models.Plant{}, fmt.Errorf("plant %s: %w", id, ErrNotFound)
	}
	return *p, nil
}

// SetStatus moves a plant between active, harvested and dead. Only active
// plants are evaluated by the weather job.
func (s *PlantService) SetStatus(ctx context.Context, id, status string) (models.Plant, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsValidPlantStatus(status) {
		return models.Plant{}, fmt.Errorf("%w: status must be active, harvested or dead", ErrInvalidInput)
	}
	ok, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return models.Plant{}, err
	}
	if !ok {
		return models.Plant{}, fmt.Errorf("plant %s: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the plant and drops its care logs and reminders.
func (s *PlantService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("plant %s: %w", id, ErrNotFound)
	}
	return nil
}
