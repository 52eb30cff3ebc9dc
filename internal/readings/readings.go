// internal/readings/readings.go

// Package readings holds the pure projections from a throw snapshot to the
// individually addressable derived values. No state, no failure modes:
// absent source fields project to zero values rather than erroring, since
// upstream payloads are not guaranteed to populate every field.
package readings

import (
	"math"

	"github.com/techdisc-bridge/internal/techdisc"
)

// Names of the addressable readings.
const (
	NameSpeed       = "speed"
	NameDistance    = "distance"
	NameHyzerAngle  = "hyzer_angle"
	NameNoseAngle   = "nose_angle"
	NameSpin        = "spin"
	NameLaunchAngle = "launch_angle"
	NameWobble      = "wobble"
	NameThrowType   = "throw_type"
)

// Speed is the throw speed in mph, one decimal.
func Speed(t *techdisc.Throw) float64 { return round1(t.SpeedMph) }

// Distance is the estimated flight distance in feet, one decimal.
func Distance(t *techdisc.Throw) float64 { return round1(t.EstimatedFeet) }

// HyzerAngle is the corrected hyzer angle in degrees, one decimal.
func HyzerAngle(t *techdisc.Throw) float64 { return round1(t.CorrectedHyzerAngle) }

// NoseAngle is the corrected nose angle in degrees, one decimal.
func NoseAngle(t *techdisc.Throw) float64 { return round1(t.CorrectedNoseAngle) }

// Spin is the rotation rate in rpm, nearest integer. Magnitude only: the
// sign carries spin direction and is intentionally discarded.
func Spin(t *techdisc.Throw) int {
	return int(math.Round(math.Abs(t.RotPerSec) * 60))
}

// LaunchAngle is the uphill angle in degrees, one decimal.
func LaunchAngle(t *techdisc.Throw) float64 { return round1(t.UphillAngle) }

// Wobble is the off-axis wobble in degrees, one decimal.
func Wobble(t *techdisc.Throw) float64 { return round1(t.OffAxisDegrees) }

// ThrowType is the classification label, "primary - secondary" when a
// secondary label is present.
func ThrowType(t *techdisc.Throw) string {
	if t.SecondaryType != "" {
		return t.PrimaryType + " - " + t.SecondaryType
	}
	return t.PrimaryType
}

// Metadata is the passthrough bundle attached alongside the classification.
type Metadata struct {
	ThrowTimeSeconds       *int64             `json:"throw_time,omitempty"`
	Temperature            *float64           `json:"temperature,omitempty"`
	Bearing                *float64           `json:"bearing,omitempty"`
	UphillAngle            float64            `json:"uphill_angle"`
	OffAxisDegrees         float64            `json:"off_axis_degrees"`
	EstimatedFlightNumbers map[string]float64 `json:"estimated_flight_numbers,omitempty"`
	Handedness             string             `json:"handedness,omitempty"`
	DeviceID               string             `json:"device_id,omitempty"`
}

// MetadataOf projects the metadata bundle from a throw.
func MetadataOf(t *techdisc.Throw) Metadata {
	m := Metadata{
		Temperature:            t.Temp,
		Bearing:                t.Bearing,
		UphillAngle:            t.UphillAngle,
		OffAxisDegrees:         t.OffAxisDegrees,
		EstimatedFlightNumbers: t.EstimatedFlightNumbers,
		Handedness:             t.Handedness,
		DeviceID:               t.DeviceID,
	}
	if t.ThrowTime != nil {
		m.ThrowTimeSeconds = t.ThrowTime.Seconds
	}
	return m
}

// Value is one named reading ready for transport.
type Value struct {
	Name     string    `json:"name"`
	Unit     string    `json:"unit,omitempty"`
	Value    any       `json:"value"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// All projects every reading from a throw, in a stable order.
// The caller guarantees t is non-nil; an empty snapshot has no readings.
func All(t *techdisc.Throw) []Value {
	values := make([]Value, 0, 8)
	for _, name := range []string{
		NameSpeed, NameDistance, NameHyzerAngle, NameNoseAngle,
		NameSpin, NameLaunchAngle, NameWobble, NameThrowType,
	} {
		v, _ := Lookup(name, t)
		values = append(values, v)
	}
	return values
}

// Lookup projects a single reading by name. ok is false for unknown names.
func Lookup(name string, t *techdisc.Throw) (Value, bool) {
	switch name {
	case NameSpeed:
		return Value{Name: name, Unit: "mph", Value: Speed(t)}, true
	case NameDistance:
		return Value{Name: name, Unit: "ft", Value: Distance(t)}, true
	case NameHyzerAngle:
		return Value{Name: name, Unit: "°", Value: HyzerAngle(t)}, true
	case NameNoseAngle:
		return Value{Name: name, Unit: "°", Value: NoseAngle(t)}, true
	case NameSpin:
		return Value{Name: name, Unit: "rpm", Value: Spin(t)}, true
	case NameLaunchAngle:
		return Value{Name: name, Unit: "°", Value: LaunchAngle(t)}, true
	case NameWobble:
		return Value{Name: name, Unit: "°", Value: Wobble(t)}, true
	case NameThrowType:
		meta := MetadataOf(t)
		return Value{Name: name, Value: ThrowType(t), Metadata: &meta}, true
	default:
		return Value{}, false
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
