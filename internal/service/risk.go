package service

import (
	"strconv"
	"strings"

	"plant_buddy/internal/models"
)

// Rule thresholds.
const (
	heatWarnC     = 35.0
	heatCriticalC = 40.0
	frostC        = 4.0
	dryHumidity   = 30.0
	heavyRainMm   = 10.0
	strongWindMs  = 10.0
)

// Evaluation is the outcome of applying the risk rules to one snapshot.
type Evaluation struct {
	Level   models.Level
	Issues  []string
	Title   string
	Message string
	Meta    models.WeatherSnapshot
}

// EvaluateRisk applies every rule to w independently. The resulting level is
// the maximum over all matched rules; no rule can lower it.
func EvaluateRisk(plant models.Plant, w models.WeatherSnapshot) Evaluation {
	ev := Evaluation{Level: models.LevelInfo, Issues: []string{}, Meta: w}
	raise := func(l models.Level, issue string) {
		ev.Issues = append(ev.Issues, issue)
		ev.Level = ev.Level.Max(l)
	}

	if w.TempC >= heatWarnC {
		lvl := models.LevelWarning
		if w.TempC >= heatCriticalC {
			lvl = models.LevelCritical
		}
		raise(lvl, "High temperature "+num(w.TempC)+"°C - risk of heat stress")
	}
	if w.TempC <= frostC {
		raise(models.LevelCritical, "Low temperature "+num(w.TempC)+"°C - frost risk")
	}
	if w.Humidity != nil && *w.Humidity < dryHumidity {
		raise(models.LevelWarning, "Low humidity "+num(*w.Humidity)+"% - misting recommended")
	}
	if w.RainMm >= heavyRainMm {
		raise(models.LevelWarning, "Heavy rain expected (~"+num(w.RainMm)+" mm) - waterlogging risk")
	}
	if w.WindMs != nil && *w.WindMs >= strongWindMs {
		raise(models.LevelWarning, "Strong wind (~"+num(*w.WindMs)+" m/s) - secure plants")
	}

	if len(ev.Issues) > 0 {
		ev.Title = "Weather alert for " + plant.Name
		ev.Message = strings.Join(ev.Issues, "; ")
		return ev
	}

	desc := w.Description
	if desc == "" {
		desc = "clear"
	}
	humidity := "n/a"
	if w.Humidity != nil {
		humidity = num(*w.Humidity) + "%"
	}
	ev.Title = "Weather update for " + plant.Name
	ev.Message = "Current: " + desc + ", " + num(w.TempC) + "°C, humidity " + humidity
	return ev
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
