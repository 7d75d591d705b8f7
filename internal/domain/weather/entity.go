package weather

// Forecast is the normalized multi-day outlook attached to climate payloads.
type Forecast struct {
	Lat                  float64  `json:"lat"`
	Lon                  float64  `json:"lon"`
	HorizonDays          int      `json:"horizonDays"`
	Summary              string   `json:"summary"`
	MaxTemp              float64  `json:"maxTemp"`
	MinTemp              float64  `json:"minTemp"`
	TotalPrecipitation   float64  `json:"totalPrecipitation"`
	HeatwaveDays         int      `json:"heatwaveDays"`
	ExtremeWeatherAlerts []string `json:"extremeWeatherAlerts"`
}

// MockForecast returns a static forecast used whenever the live weather
// service is unavailable or unconfigured. The Dakar region gets a dedicated
// scenario so the demo data stays coherent.
func MockForecast(lat, lon float64, horizonDays int) *Forecast {
	if abs(lat-14.7167) < 1 && abs(lon-(-17.4677)) < 1 {
		return &Forecast{
			Lat:                  lat,
			Lon:                  lon,
			HorizonDays:          horizonDays,
			Summary:              "Conditions chaudes et sèches avec températures élevées. Risque de vague de chaleur J+3 à J+6.",
			MaxTemp:              38,
			MinTemp:              24,
			TotalPrecipitation:   2,
			HeatwaveDays:         4,
			ExtremeWeatherAlerts: []string{"Vague de chaleur J+3 à J+6", "Vent de sable possible J+8"},
		}
	}
	return &Forecast{
		Lat:                  lat,
		Lon:                  lon,
		HorizonDays:          horizonDays,
		Summary:              "Conditions météo stables avec températures modérées.",
		MaxTemp:              28,
		MinTemp:              18,
		TotalPrecipitation:   15,
		HeatwaveDays:         0,
		ExtremeWeatherAlerts: []string{},
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
