package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/latin-corpus/internal/model"
)

// Accepted imprint year range, inclusive.
const (
	MinYear = 1450
	MaxYear = 1900
)

// yearPattern matches 1400-1999 syntactically; the range check narrows it.
var yearPattern = regexp.MustCompile(`1[4-9]\d{2}`)

// ExtractYear returns the imprint year carried by value. Integers and floats
// pass through when in [MinYear, MaxYear]; strings yield the first 4-digit
// run that looks like a year, accepted only when in range. Anything else,
// including nil, NaN and booleans, is unknown.
func ExtractYear(value any) model.Year {
	switch v := value.(type) {
	case nil:
		return model.Year{}
	case model.Year:
		return v
	case bool:
		return model.Year{}
	case int:
		return inRange(int64(v))
	case int8:
		return inRange(int64(v))
	case int16:
		return inRange(int64(v))
	case int32:
		return inRange(int64(v))
	case int64:
		return inRange(v)
	case uint:
		return inRangeUnsigned(uint64(v))
	case uint8:
		return inRangeUnsigned(uint64(v))
	case uint16:
		return inRangeUnsigned(uint64(v))
	case uint32:
		return inRangeUnsigned(uint64(v))
	case uint64:
		return inRangeUnsigned(v)
	case float32:
		return inRangeFloat(float64(v))
	case float64:
		return inRangeFloat(v)
	case string:
		return ExtractYearString(v)
	case fmt.Stringer:
		return ExtractYearString(v.String())
	default:
		return ExtractYearString(fmt.Sprint(v))
	}
}

// ExtractYearString finds the first plausible year in free text such as
// "Venetiis, 1543" or "[ca. 1600?]".
func ExtractYearString(text string) model.Year {
	if strings.TrimSpace(text) == "" {
		return model.Year{}
	}
	match := yearPattern.FindString(Transliterate(text))
	if match == "" {
		return model.Year{}
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return model.Year{}
	}
	return inRange(int64(year))
}

func inRange(v int64) model.Year {
	if v < MinYear || v > MaxYear {
		return model.Year{}
	}
	return model.YearOf(int(v))
}

func inRangeUnsigned(v uint64) model.Year {
	if v > MaxYear {
		return model.Year{}
	}
	return inRange(int64(v))
}

func inRangeFloat(v float64) model.Year {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.Year{}
	}
	// Truncate toward zero, then range-check.
	t := math.Trunc(v)
	if t < MinYear || t > MaxYear {
		return model.Year{}
	}
	return model.YearOf(int(t))
}
