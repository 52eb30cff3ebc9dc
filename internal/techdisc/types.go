// internal/techdisc/types.go
package techdisc

import "encoding/json"

// ThrowTime is the structured timestamp the API attaches to a throw.
// Both components must be present and numeric for the timestamp to count;
// anything else decodes to an absent timestamp rather than an error, because
// the server sends minimal keep-alive payloads with junk or missing fields.
type ThrowTime struct {
	Seconds     *int64
	Nanoseconds *int64
}

func (t *ThrowTime) UnmarshalJSON(b []byte) error {
	var raw struct {
		Seconds     *json.Number `json:"_seconds"`
		Nanoseconds *json.Number `json:"_nanoseconds"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		// Malformed timestamp, not a malformed body. Leave both fields unset.
		return nil
	}
	if raw.Seconds != nil {
		if v, err := raw.Seconds.Int64(); err == nil {
			t.Seconds = &v
		}
	}
	if raw.Nanoseconds != nil {
		if v, err := raw.Nanoseconds.Int64(); err == nil {
			t.Nanoseconds = &v
		}
	}
	return nil
}

// MarshalJSON re-emits the upstream wire shape.
func (t ThrowTime) MarshalJSON() ([]byte, error) {
	raw := struct {
		Seconds     *int64 `json:"_seconds,omitempty"`
		Nanoseconds *int64 `json:"_nanoseconds,omitempty"`
	}{t.Seconds, t.Nanoseconds}
	return json.Marshal(raw)
}

// Millis reports the throw time as milliseconds since epoch.
// ok is false unless both components were present and numeric.
func (t *ThrowTime) Millis() (int64, bool) {
	if t == nil || t.Seconds == nil || t.Nanoseconds == nil {
		return 0, false
	}
	return *t.Seconds*1000 + *t.Nanoseconds/1_000_000, true
}

// Throw is one raw measurement as delivered by the API.
// Immutable once received; a newer throw supersedes it wholesale.
type Throw struct {
	ID                     string             `json:"id"`
	ThrowTime              *ThrowTime         `json:"throwTime,omitempty"`
	SpeedMph               float64            `json:"speedMph"`
	EstimatedFeet          float64            `json:"estimatedFeet"`
	CorrectedHyzerAngle    float64            `json:"correctedHyzerAngle"`
	CorrectedNoseAngle     float64            `json:"correctedNoseAngle"`
	RotPerSec              float64            `json:"rotPerSec"`
	UphillAngle            float64            `json:"uphillAngle"`
	OffAxisDegrees         float64            `json:"offAxisDegrees"`
	PrimaryType            string             `json:"primaryType"`
	SecondaryType          string             `json:"secondaryType"`
	Temp                   *float64           `json:"temp"`
	Bearing                *float64           `json:"bearing"`
	EstimatedFlightNumbers map[string]float64 `json:"estimatedFlightNumbers"`
	Handedness             string             `json:"handedness"`
	DeviceID               string             `json:"deviceId"`
}
