// Package classify maps single pitches onto categorical labels.
//
// Every function here is pure: identical inputs always give identical output,
// which downstream arsenal counts (combo detection) depend on.
package classify

import (
	"math"

	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/types"
)

// Breaking-ball subtype labels.
const (
	LabelGyro        = "Gyro"
	LabelSweeper     = "Sweeper"
	LabelTraditional = "Traditional"
	LabelUnknown     = "Unknown"
)

// Spin-axis bands in degrees, half-open [lo, hi).
const (
	gyroLow         = 180.0
	gyroHigh        = 200.0
	traditionalLow  = 200.0
	traditionalHigh = 220.0
	sweeperLow      = 220.0
	sweeperHigh     = 260.0
	fullCircle      = 360.0
)

// Bucket is a coarse pitch family.
type Bucket string

// Pitch families.
const (
	BucketFastball Bucket = "fastball"
	BucketBreaking Bucket = "breaking"
	BucketOffspeed Bucket = "offspeed"
	BucketOther    Bucket = "other"
)

//nolint:gochecknoglobals // fixed lookup tables
var (
	sliderFamily  = map[string]struct{}{"SL": {}, "ST": {}, "SV": {}}
	breakingBalls = map[string]struct{}{"SL": {}, "ST": {}, "SV": {}, "CU": {}, "KC": {}, "CS": {}}
	fastballs     = map[string]struct{}{"FF": {}, "FA": {}, "SI": {}, "FT": {}, "FC": {}}
	offspeed      = map[string]struct{}{"CH": {}, "FS": {}, "FO": {}, "SC": {}}
)

// IsSliderFamily reports whether the pitch type is eligible for spin-axis reclassification.
func IsSliderFamily(pitchType string) bool {
	_, ok := sliderFamily[pitchType]
	return ok
}

// IsBreakingBall reports whether the pitch type belongs to the breaking-ball set.
func IsBreakingBall(pitchType string) bool {
	_, ok := breakingBalls[pitchType]
	return ok
}

// BreakingBall reclassifies slider-family pitches by spin axis into Gyro,
// Traditional or Sweeper. Any other pitch type, an axis outside the bands,
// or a missing axis leaves the original type unchanged.
func BreakingBall(pitchType string, spinAxis *float64) types.Value[string] {
	if pitchType == "" {
		return types.Fallback(LabelUnknown, "empty pitch type")
	}
	if !IsSliderFamily(pitchType) {
		return types.Computed(pitchType)
	}
	if spinAxis == nil {
		return types.Fallback(pitchType, "missing spin axis")
	}
	axis := *spinAxis
	if math.IsNaN(axis) || math.IsInf(axis, 0) {
		return types.Fallback(pitchType, "invalid spin axis")
	}
	axis = math.Mod(axis, fullCircle)
	if axis < 0 {
		axis += fullCircle
	}

	switch {
	case axis >= gyroLow && axis < gyroHigh:
		return types.Computed(LabelGyro)
	case axis >= traditionalLow && axis < traditionalHigh:
		return types.Computed(LabelTraditional)
	case axis >= sweeperLow && axis < sweeperHigh:
		return types.Computed(LabelSweeper)
	default:
		return types.Computed(pitchType)
	}
}

// BucketOf returns the pitch family for a Statcast pitch code.
func BucketOf(pitchType string) Bucket {
	if _, ok := fastballs[pitchType]; ok {
		return BucketFastball
	}
	if IsBreakingBall(pitchType) {
		return BucketBreaking
	}
	if _, ok := offspeed[pitchType]; ok {
		return BucketOffspeed
	}
	return BucketOther
}

// ArsenalProfile summarizes a pitch history by classified label and family.
type ArsenalProfile struct {
	Labels           map[string]int
	Buckets          map[Bucket]int
	Total            int
	GyroSweeperCombo bool
}

// Share returns the fraction of pitches in the given family.
func (a ArsenalProfile) Share(b Bucket) float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Buckets[b]) / float64(a.Total)
}

// Arsenal classifies every pitch and counts labels and families.
func Arsenal(pitches []model.Pitch) ArsenalProfile {
	p := ArsenalProfile{
		Labels:  make(map[string]int),
		Buckets: make(map[Bucket]int),
	}
	for i := range pitches {
		label := BreakingBall(pitches[i].PitchType, pitches[i].SpinAxis).V
		p.Labels[label]++
		p.Buckets[BucketOf(pitches[i].PitchType)]++
		p.Total++
	}
	p.GyroSweeperCombo = p.Labels[LabelGyro] > 0 && p.Labels[LabelSweeper] > 0
	return p
}
