package livefeed

import (
	"math"
	"reflect"
	"testing"
)

func TestParseSetScores(t *testing.T) {
	tests := []struct {
		raw  string
		want []SetScore
	}{
		{"", nil},
		{"6-3", []SetScore{{6, 3}}},
		{"3-6,1-0", []SetScore{{3, 6}, {1, 0}}},
		{"6-4,3-6,7-6", []SetScore{{6, 4}, {3, 6}, {7, 6}}},
	}
	for _, tt := range tests {
		got := parseSetScores(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseSetScores(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSerializeSetsRoundTrip(t *testing.T) {
	raws := []string{"6-3", "3-6,1-0", "6-4,3-6,7-6"}
	for _, raw := range raws {
		got := serializeSets(parseSetScores(raw))
		if got != raw {
			t.Errorf("serializeSets(parseSetScores(%q)) = %q, want %q", raw, got, raw)
		}
	}
}

func TestParsePointScore(t *testing.T) {
	tests := []struct {
		raw  string
		want GameScore
	}{
		{"40-15", GameScore{"40", "15"}},
		{"AD-40", GameScore{"AD", "40"}},
		{"", GameScore{"0", "0"}},
		{"30-", GameScore{"30", "0"}},
	}
	for _, tt := range tests {
		got := parsePointScore(tt.raw)
		if got != tt.want {
			t.Errorf("parsePointScore(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

// TestParseServing pins down the serving-side mapping: by the feed's
// convention the first digit "1" means player 1 is serving, "0" means
// player 2. See SPEC_FULL.md §5 for the note on the source material's
// contradicting phrasing.
func TestParseServing(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1,0", 1},
		{"0,1", 2},
		{"", 1},
	}
	for _, tt := range tests {
		if got := parseServing(tt.raw); got != tt.want {
			t.Errorf("parseServing(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFractionalToDecimal(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"9/2", 5.5},
		{"1/1", 2},
		{"4/5", 1.8},
		{"nope", 0},
		{"1/0", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := fractionalToDecimal(tt.raw)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("fractionalToDecimal(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFractionalToDecimal_AllPositive(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for d := 1; d <= 10; d++ {
			raw := itoa(n) + "/" + itoa(d)
			want := float64(n)/float64(d) + 1
			got := fractionalToDecimal(raw)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("fractionalToDecimal(%q) = %v, want %v", raw, got, want)
			}
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestParseTeams(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name     string
		sportID  string
		wantLeft string
		wantRt   string
	}{
		{"Mariano Navone v Luciano Darderi", "1", "Mariano Navone", "Luciano Darderi"},
		{"Lakers @ Celtics", "18", "Lakers", "Celtics"},
		{"No Separator Here", "1", "No Separator Here", ""},
	}
	for _, tt := range tests {
		left, right := parseTeams(tt.name, tt.sportID, reg)
		if left != tt.wantLeft || right != tt.wantRt {
			t.Errorf("parseTeams(%q, %q) = (%q, %q), want (%q, %q)", tt.name, tt.sportID, left, right, tt.wantLeft, tt.wantRt)
		}
	}
}
