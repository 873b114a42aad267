package models

import "encoding/json"

// Location is what a weather lookup is made for. The zero value means
// "use the default location".
type Location struct {
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	City string   `json:"city,omitempty"`
}

// HasCoordinates reports whether both Lat and Lon are set.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// WeatherSnapshot is the normalized result of one provider fetch.
type WeatherSnapshot struct {
	TempC       float64         `json:"tempC"`
	Humidity    *float64        `json:"humidity,omitempty"` // %
	WindMs      *float64        `json:"windMs,omitempty"`
	RainMm      float64         `json:"rainMm"` // last hour
	Description string          `json:"description,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}
