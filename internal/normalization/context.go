package normalization

import (
	"strconv"
	"strings"

	"github.com/team-izakaya/menugraph-backend/internal/types"
)

// Lookup tables mapping request vocabulary to the exact strings stored on
// Context nodes. Unmapped values pass through unchanged; normalization never
// fails a request.

var seasonMap = map[string]string{
	"spring": "봄",
	"summer": "여름",
	"autumn": "가을",
	"winter": "겨울",
}

var rainMap = map[string]string{
	"0mm":       "0mm",
	"3mm":       "0~3mm",
	"15mm":      "3~15mm",
	"30mm":      "30mm 이상",
	"30mm_high": "30mm 이상",
}

var alcoholMap = map[string]string{
	"no_alchol": "없음",
	"fr_beer":   "생맥주",
	"soju":      "소주",
	"beer":      "맥주",
	"high":      "하이볼",
	"wisky":     "위스키",
	"pri_sohu":  "증류소주",
	"sake":      "사케",
}

// NormalizeConditions rewrites every present field to the graph vocabulary.
// It is idempotent: no table maps one of its own outputs to something else,
// and the unit suffix rules strip before they append.
func NormalizeConditions(c types.Conditions) types.Conditions {
	c.People = normalizePeople(c.People)
	c.Time = normalizeTime(c.Time)
	c.Season = mapValue(seasonMap, c.Season)
	c.Rain = mapValue(rainMap, c.Rain)
	c.Alcohol = mapValue(alcoholMap, c.Alcohol)
	// price and category have no canonical vocabulary; passed through.
	return c
}

func mapValue(table map[string]string, val string) string {
	if val == "" {
		return ""
	}
	if mapped, ok := table[val]; ok {
		return mapped
	}
	return val
}

// normalizePeople turns "3" or "3명" into "3명".
func normalizePeople(val string) string {
	if val == "" {
		return ""
	}
	return strings.ReplaceAll(val, "명", "") + "명"
}

// normalizeTime turns "18" or "18시" into "18시". Values that do not parse
// as an integer are left untouched: unparseable context is a skip, not an
// error.
func normalizeTime(val string) string {
	if val == "" {
		return ""
	}
	t, err := strconv.Atoi(strings.ReplaceAll(val, "시", ""))
	if err != nil {
		return val
	}
	return strconv.Itoa(t) + "시"
}
