package isodur

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"PT5H30M", 5*time.Hour + 30*time.Minute},
		{"PT45M", 45 * time.Minute},
		{"PT11H", 11 * time.Hour},
		{"PT0M", 0},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "5h30m", "P1DT2H", "PT", "PT5H30"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", in)
		}
	}
}

func TestMinutes(t *testing.T) {
	if got := Minutes("PT2H15M"); got != 135 {
		t.Errorf("Minutes(PT2H15M) = %d, want 135", got)
	}
	if got := Minutes("garbage"); got != 0 {
		t.Errorf("Minutes(garbage) = %d, want 0", got)
	}
}
