package trace

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"
)

var ErrDecodeTrace = fmt.Errorf("could not decode trace as gpx or ndjson points")

// DecodeNDJSON reads newline-delimited JSON points.
// Accepted shapes per line, first match wins:
//
//	{"time":"2024-05-01T10:00:00Z","lat":52.52,"lon":13.405}
//	{"time":1714557600,"lat":52.52,"lon":13.405}         (unix seconds)
//	{"properties":{"Time":...},"geometry":{"coordinates":[lon,lat]}}  (geojson)
//
// Lines without a usable timestamp are skipped, not fatal;
// a timestamp is the one hard requirement on ingested points.
func DecodeNDJSON(r io.Reader) (Points, error) {
	out := Points{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		p, ok := decodePointJSON(line)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func decodePointJSON(line []byte) (Point, bool) {
	parsed := gjson.ParseBytes(line)

	t, ok := decodeTime(parsed.Get("time"))
	if !ok {
		t, ok = decodeTime(parsed.Get("properties.Time"))
	}
	if !ok {
		return Point{}, false
	}

	lat, lon := parsed.Get("lat"), parsed.Get("lon")
	if lat.Exists() && lon.Exists() {
		return Point{Time: t, Lat: lat.Float(), Lon: lon.Float()}, true
	}
	if coords := parsed.Get("geometry.coordinates"); coords.IsArray() {
		arr := coords.Array()
		if len(arr) >= 2 {
			return Point{Time: t, Lat: arr[1].Float(), Lon: arr[0].Float()}, true
		}
	}
	return Point{}, false
}

func decodeTime(res gjson.Result) (time.Time, bool) {
	if !res.Exists() {
		return time.Time{}, false
	}
	if res.Type == gjson.Number {
		return time.Unix(res.Int(), 0).UTC(), true
	}
	t, err := time.Parse(time.RFC3339, res.String())
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// DecodeGPX reads a GPX document, flattening all tracks and segments
// into one chronological point sequence. Points without a <time>
// element are dropped.
func DecodeGPX(r io.Reader) (Points, error) {
	var doc struct {
		Tracks []struct {
			Segments []struct {
				Points []struct {
					Lat  float64 `xml:"lat,attr"`
					Lon  float64 `xml:"lon,attr"`
					Time string  `xml:"time"`
				} `xml:"trkpt"`
			} `xml:"trkseg"`
		} `xml:"trk"`
	}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	out := Points{}
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				if pt.Time == "" {
					continue
				}
				t, err := time.Parse(time.RFC3339, pt.Time)
				if err != nil {
					continue
				}
				out = append(out, Point{Time: t.UTC(), Lat: pt.Lat, Lon: pt.Lon})
			}
		}
	}
	return out, nil
}

// Decode sniffs the input and dispatches to DecodeGPX or DecodeNDJSON.
func Decode(r io.Reader) (Points, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(1)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(head) > 0 && head[0] == '<' {
		return DecodeGPX(br)
	}
	if len(head) > 0 && (head[0] == '{' || head[0] == '[') {
		return DecodeNDJSON(br)
	}
	return nil, ErrDecodeTrace
}
