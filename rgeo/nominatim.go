package rgeo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/rotblauer/wayward/params"
	"github.com/rotblauer/wayward/types/itinerary"
)

// Nominatim reverse-geocodes against a Nominatim /reverse endpoint
// (format=jsonv2, zoom=18). Any failure — transport, HTTP status,
// parse — degrades to an empty Address.
type Nominatim struct {
	Config *params.NominatimConfig
	client *http.Client
	logger *slog.Logger
}

func NewNominatim(config *params.NominatimConfig) *Nominatim {
	if config == nil {
		config = params.DefaultNominatimConfig
	}
	return &Nominatim{
		Config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: slog.With("pkg", "rgeo", "geocoder", "nominatim"),
	}
}

func (n *Nominatim) ReverseGeocode(ctx context.Context, lat, lon float64) itinerary.Address {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.Config.URL+"?"+q.Encode(), nil)
	if err != nil {
		return itinerary.Address{}
	}
	req.Header.Set("User-Agent", n.Config.UserAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Debug("Reverse geocode failed", "error", err)
		return itinerary.Address{}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		n.logger.Debug("Reverse geocode failed", "status", resp.StatusCode)
		return itinerary.Address{}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return itinerary.Address{}
	}
	return decodeNominatim(body)
}

// decodeNominatim maps a jsonv2 response onto an Address.
// Field preferences mirror what people actually mean by "where was I":
// a venue name beats a bare road, a road beats a footway designation,
// and small-settlement fallbacks fill in for city.
func decodeNominatim(body []byte) itinerary.Address {
	js := gjson.ParseBytes(body)
	addr := js.Get("address")

	name := js.Get("name").String()
	if name == "" {
		for _, key := range []string{"amenity", "attraction", "leisure", "shop", "tourism"} {
			if v := addr.Get(key).String(); v != "" {
				name = v
				break
			}
		}
	}

	road := addr.Get("road").String()
	if road == "" {
		road = addr.Get("pedestrian").String()
	}
	if road == "" {
		road = addr.Get("footway").String()
	}

	city := ""
	for _, key := range []string{"city", "town", "village", "hamlet"} {
		if v := addr.Get(key).String(); v != "" {
			city = v
			break
		}
	}

	return itinerary.Address{
		Name:        name,
		Road:        road,
		HouseNumber: addr.Get("house_number").String(),
		Postcode:    addr.Get("postcode").String(),
		City:        city,
	}
}
