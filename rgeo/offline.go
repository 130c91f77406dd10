package rgeo

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb"
	srgeo "github.com/sams96/rgeo"

	"github.com/rotblauer/wayward/types/itinerary"
)

// Offline reverse-geocodes against the embedded rgeo datasets.
// It resolves city-level fields only — no roads or house numbers — but
// it works with zero network access, which keeps the address/gap merge
// meaningful when Nominatim is unreachable or deliberately disabled.
type Offline struct {
	r      *srgeo.Rgeo
	logger *slog.Logger
}

func NewOffline() (*Offline, error) {
	r, err := srgeo.New(srgeo.Cities10)
	if err != nil {
		return nil, err
	}
	return &Offline{
		r:      r,
		logger: slog.With("pkg", "rgeo", "geocoder", "offline"),
	}, nil
}

func (o *Offline) ReverseGeocode(ctx context.Context, lat, lon float64) itinerary.Address {
	loc, err := o.r.ReverseGeocode(orb.Point{lon, lat})
	if err != nil {
		o.logger.Debug("Offline reverse geocode failed", "error", err)
		return itinerary.Address{}
	}
	return itinerary.Address{City: loc.City}
}
