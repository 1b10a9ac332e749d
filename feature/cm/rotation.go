package cm

import (
	"strings"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

// Creative rotation options as written in the workbook.
const (
	RotationEven         = "EVEN"
	RotationSequential   = "SEQUENTIAL"
	RotationCustom       = "CUSTOM"
	RotationClickThrough = "CLICK-THROUGH RATE"
	RotationOptimized    = "OPTIMIZED"
)

const (
	rotationRandom     = "CREATIVE_ROTATION_TYPE_RANDOM"
	rotationSequential = "CREATIVE_ROTATION_TYPE_SEQUENTIAL"
)

var weightStrategies = map[string]string{
	RotationEven:         "WEIGHT_STRATEGY_EQUAL",
	RotationCustom:       "WEIGHT_STRATEGY_CUSTOM",
	RotationClickThrough: "WEIGHT_STRATEGY_HIGHEST_CTR",
	RotationOptimized:    "WEIGHT_STRATEGY_OPTIMIZED",
}

// RotationOption names the creative rotation of an ad, or "" when the
// combination of type and weight strategy has no workbook option.
func RotationOption(rotation any) string {
	r, ok := rotation.(map[string]any)
	if !ok {
		return ""
	}
	typ := utils.ToString(r["type"])
	weight := utils.ToString(r["weightCalculationStrategy"])

	if typ == rotationSequential && weight == "" {
		return RotationSequential
	}
	if typ != rotationRandom {
		return ""
	}
	for option, strategy := range weightStrategies {
		if strategy == weight {
			return option
		}
	}
	return ""
}

// Rotation builds the creative rotation for a workbook option. Blank
// options default to EVEN.
func Rotation(option any) (remote.Entity, error) {
	opt := strings.ToUpper(strings.TrimSpace(utils.ToString(option)))
	if opt == "" {
		opt = RotationEven
	}
	if opt == RotationSequential {
		return remote.Entity{"type": rotationSequential, "weightCalculationStrategy": nil}, nil
	}
	strategy, ok := weightStrategies[opt]
	if !ok {
		return nil, &entity.ValidationError{Field: FieldCreativeRotation, Value: option}
	}
	return remote.Entity{"type": rotationRandom, "weightCalculationStrategy": strategy}, nil
}
