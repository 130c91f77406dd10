package osm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
	"github.com/tidwall/gjson"

	"github.com/rotblauer/wayward/params"
)

// Overpass queries an Overpass API endpoint for ways matching a tag
// filter inside a bounding box, with geometry.
type Overpass struct {
	Config *params.OverpassConfig
	client *http.Client
	logger *slog.Logger
}

func NewOverpass(config *params.OverpassConfig) *Overpass {
	if config == nil {
		config = params.DefaultOverpassConfig
	}
	return &Overpass{
		Config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: slog.With("pkg", "osm", "source", "overpass"),
	}
}

func (o *Overpass) Query(ctx context.Context, bound orb.Bound, filter TagFilter) ([]Way, error) {
	query := buildQuery(bound, filter)
	if query == "" {
		return nil, nil
	}

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Config.URL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", o.Config.UserAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		o.logger.Debug("Overpass query failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("overpass: unexpected status %d", resp.StatusCode)
		o.logger.Debug("Overpass query failed", "error", err)
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	return decodeOverpass(body), nil
}

// buildQuery renders an Overpass QL statement for the filter classes
// in the bbox, requesting way geometry inline ('out geom').
func buildQuery(bound orb.Bound, filter TagFilter) string {
	bbox := fmt.Sprintf("%f,%f,%f,%f",
		bound.Min.Lat(), bound.Min.Lon(), bound.Max.Lat(), bound.Max.Lon())

	clauses := make([]string, 0, 2)
	if len(filter.Highway) > 0 {
		clauses = append(clauses, fmt.Sprintf(`way["highway"~"%s"](%s);`, alternation(filter.Highway), bbox))
	}
	if len(filter.Railway) > 0 {
		clauses = append(clauses, fmt.Sprintf(`way["railway"~"%s"](%s);`, alternation(filter.Railway), bbox))
	}
	if len(clauses) == 0 {
		return ""
	}
	return fmt.Sprintf("[out:json][timeout:25];(%s);out geom;", strings.Join(clauses, ""))
}

func decodeOverpass(body []byte) []Way {
	elements := gjson.GetBytes(body, "elements").Array()
	ways := make([]Way, 0, len(elements))
	for _, el := range elements {
		if el.Get("type").String() != "way" {
			continue
		}
		geom := el.Get("geometry").Array()
		if len(geom) < 2 {
			continue
		}
		line := make(orb.LineString, 0, len(geom))
		for _, g := range geom {
			line = append(line, orb.Point{g.Get("lon").Float(), g.Get("lat").Float()})
		}
		tags := map[string]string{}
		for k, v := range el.Get("tags").Map() {
			tags[k] = v.String()
		}
		ways = append(ways, Way{
			ID:   el.Get("id").Int(),
			Line: line,
			Tags: tags,
		})
	}
	return ways
}
