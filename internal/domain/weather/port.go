package weather

import "context"

type Provider interface {
	Forecast(ctx context.Context, lat, lon float64, horizonDays int) (*Forecast, error)
}
