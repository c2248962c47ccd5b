package normalization

import (
	"testing"

	"github.com/team-izakaya/menugraph-backend/internal/types"
)

func TestNormalizeConditionsVocabulary(t *testing.T) {
	cases := []struct {
		name string
		in   types.Conditions
		want types.Conditions
	}{
		{
			name: "season codes map to korean",
			in:   types.Conditions{Season: "winter"},
			want: types.Conditions{Season: "겨울"},
		},
		{
			name: "rain buckets",
			in:   types.Conditions{Rain: "15mm"},
			want: types.Conditions{Rain: "3~15mm"},
		},
		{
			name: "heavy rain variants collapse",
			in:   types.Conditions{Rain: "30mm_high"},
			want: types.Conditions{Rain: "30mm 이상"},
		},
		{
			name: "alcohol codes",
			in:   types.Conditions{Alcohol: "fr_beer"},
			want: types.Conditions{Alcohol: "생맥주"},
		},
		{
			name: "no alcohol",
			in:   types.Conditions{Alcohol: "no_alchol"},
			want: types.Conditions{Alcohol: "없음"},
		},
		{
			name: "people gains unit suffix",
			in:   types.Conditions{People: "3"},
			want: types.Conditions{People: "3명"},
		},
		{
			name: "time gains unit suffix",
			in:   types.Conditions{Time: "18"},
			want: types.Conditions{Time: "18시"},
		},
		{
			name: "unparseable time passes through",
			in:   types.Conditions{Time: "저녁"},
			want: types.Conditions{Time: "저녁"},
		},
		{
			name: "unmapped values pass through",
			in:   types.Conditions{Season: "장마", Rain: "5mm", Alcohol: "막걸리"},
			want: types.Conditions{Season: "장마", Rain: "5mm", Alcohol: "막걸리"},
		},
		{
			name: "price and category untouched",
			in:   types.Conditions{Price: "20000원", Category: "튀김"},
			want: types.Conditions{Price: "20000원", Category: "튀김"},
		},
		{
			name: "combined request",
			in:   types.Conditions{Season: "winter", Rain: "15mm", People: "2명", Time: "20시", Alcohol: "soju"},
			want: types.Conditions{Season: "겨울", Rain: "3~15mm", People: "2명", Time: "20시", Alcohol: "소주"},
		},
		{
			name: "empty stays empty",
			in:   types.Conditions{},
			want: types.Conditions{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeConditions(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeConditions: want=%+v got=%+v", tc.want, got)
			}
		})
	}
}

func TestNormalizeConditionsIdempotent(t *testing.T) {
	in := types.Conditions{
		Season:  "winter",
		Rain:    "30mm",
		People:  "4",
		Time:    "19시",
		Alcohol: "high",
	}
	once := NormalizeConditions(in)
	twice := NormalizeConditions(once)
	if once != twice {
		t.Fatalf("normalization not idempotent: once=%+v twice=%+v", once, twice)
	}
}

// No table may map one of its own outputs to a different string, otherwise
// re-normalizing a stored value would drift.
func TestVocabularyTablesSelfStable(t *testing.T) {
	for name, table := range map[string]map[string]string{
		"season":  seasonMap,
		"rain":    rainMap,
		"alcohol": alcoholMap,
	} {
		for _, out := range table {
			if mapped, ok := table[out]; ok && mapped != out {
				t.Fatalf("%s table remaps its own output %q to %q", name, out, mapped)
			}
		}
	}
}

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  Soju "); got != "soju" {
		t.Fatalf("ParseInputString: want=%q got=%q", "soju", got)
	}
	if got := ParseInputString("겨울"); got != "겨울" {
		t.Fatalf("ParseInputString: want=%q got=%q", "겨울", got)
	}
}
