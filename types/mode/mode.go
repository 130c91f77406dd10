// Package mode defines the transport modes a travel segment can be
// classified as, and the score vector the classifier produces for them.
package mode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

type Mode int

const (
	Foot Mode = iota
	Bike
	Car
	Bus
	Tram
	Train
	Unknown Mode = -1
)

// Modes lists every supported mode. The order is load-bearing: it is both
// the deterministic iteration order for score vectors and the tie-break
// priority when two modes score equal.
var Modes = []Mode{Foot, Bike, Car, Bus, Tram, Train}

var (
	modeFoot  = regexp.MustCompile(`(?i)foot|walk|pedestrian`)
	modeBike  = regexp.MustCompile(`(?i)bike|bicycle|cycl`)
	modeCar   = regexp.MustCompile(`(?i)car|auto|driv`)
	modeBus   = regexp.MustCompile(`(?i)bus`)
	modeTram  = regexp.MustCompile(`(?i)tram|streetcar`)
	modeTrain = regexp.MustCompile(`(?i)train|rail|subway|metro`)
)

// String implements the Stringer interface.
func (m Mode) String() string {
	switch m {
	case Foot:
		return "foot"
	case Bike:
		return "bike"
	case Car:
		return "car"
	case Bus:
		return "bus"
	case Tram:
		return "tram"
	case Train:
		return "train"
	}
	return "unknown"
}

// FromString coerces a mode name to a Mode, tolerating synonyms
// (e.g. "bicycle", "driving", "light_rail").
func FromString(s string) Mode {
	switch {
	case modeBus.MatchString(s):
		return Bus
	case modeTram.MatchString(s):
		return Tram
	case modeTrain.MatchString(s):
		return Train
	case modeBike.MatchString(s):
		return Bike
	case modeCar.MatchString(s):
		return Car
	case modeFoot.MatchString(s):
		return Foot
	}
	return Unknown
}

func (m Mode) IsKnown() bool { return m != Unknown }

// IsRailbound returns whether the mode runs on rails.
func (m Mode) IsRailbound() bool { return m == Tram || m == Train }

// IsRoadbound returns whether the mode runs on the general road network.
func (m Mode) IsRoadbound() bool { return m == Car || m == Bus }

// Scores is a per-mode probability vector with a distinguished best pick.
// The zero value is not usable; construct with NewScores.
type Scores struct {
	Values map[Mode]float64
	Best   Mode
}

// NewScores returns a Scores with every supported mode zeroed
// and Best set to Unknown.
func NewScores() Scores {
	v := make(map[Mode]float64, len(Modes))
	for _, m := range Modes {
		v[m] = 0
	}
	return Scores{Values: v, Best: Unknown}
}

// Sum accumulates in fixed Modes order, for deterministic float rounding.
func (s Scores) Sum() float64 {
	sum := 0.0
	for _, m := range Modes {
		sum += s.Values[m]
	}
	return sum
}

// Normalize scales the vector to sum to 1.
// A zero-sum vector is left all-zero; never NaN.
func (s *Scores) Normalize() {
	sum := s.Sum()
	if sum == 0 {
		return
	}
	for _, m := range Modes {
		s.Values[m] /= sum
	}
}

// PickBest sets Best to the strictly-greatest scoring mode,
// ties broken by Modes order. An all-zero vector picks Unknown.
func (s *Scores) PickBest() {
	if s.Sum() == 0 {
		s.Best = Unknown
		return
	}
	best, bestScore := Unknown, -1.0
	for _, m := range Modes {
		if s.Values[m] > bestScore {
			best, bestScore = m, s.Values[m]
		}
	}
	s.Best = best
}

// MarshalJSON writes the vector in fixed Modes order plus a "best" key,
// so output is byte-stable across runs.
func (s Scores) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for _, m := range Modes {
		fmt.Fprintf(&buf, "%q:", m.String())
		b, err := json.Marshal(s.Values[m])
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteByte(',')
	}
	fmt.Fprintf(&buf, `"best":%q`, s.Best.String())
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (s *Scores) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewScores()
	for k, v := range raw {
		if k == "best" {
			var name string
			if err := json.Unmarshal(v, &name); err != nil {
				return err
			}
			s.Best = FromString(name)
			continue
		}
		m := FromString(k)
		if !m.IsKnown() {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return err
		}
		s.Values[m] = f
	}
	return nil
}
