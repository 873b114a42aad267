package models

import "time"

// Plant statuses.
const (
	PlantActive    = "active"
	PlantHarvested = "harvested"
	PlantDead      = "dead"
)

// Plant origin types.
const (
	PlantManual     = "manual"
	PlantAIDetected = "ai-detected"
)

// GeoLocation describes where a plant grows for weather lookups.
// Either Lat/Lon or City is expected; both may be empty.
type GeoLocation struct {
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	City string   `json:"city,omitempty"`
}

type Plant struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Species                string       `json:"species,omitempty"`
	Type                   string       `json:"type"`   // manual | ai-detected
	Status                 string       `json:"status"` // active | harvested | dead
	Location               string       `json:"location,omitempty"`
	SunlightRequired       string       `json:"sunlightRequired,omitempty"`
	PotSize                string       `json:"potSize,omitempty"`
	Geo                    *GeoLocation `json:"geo,omitempty"`
	PlantedAt              time.Time    `json:"plantedAt"`
	ExpectedGrowthDays     *int         `json:"expectedGrowthDays,omitempty"`
	PredictedHarvestAt     *time.Time   `json:"predictedHarvestDate,omitempty"`
	GrowthStage            string       `json:"growthStage"`
	WateringIntervalDays   int          `json:"wateringIntervalDays"`
	FertilizerIntervalDays int          `json:"fertilizerIntervalDays"`
	CreatedAt              time.Time    `json:"createdAt"`
	DeletedAt              *time.Time   `json:"deletedAt,omitempty"`
}

// IsValidPlantStatus reports whether s is a known plant status.
func IsValidPlantStatus(s string) bool {
	switch s {
	case PlantActive, PlantHarvested, PlantDead:
		return true
	}
	return false
}
