package repository

import "testing"

func TestNormalizeResolution(t *testing.T) {
	cases := []struct {
		in   string
		want Resolution
	}{
		{"", ResDaily},
		{"5", Res5m},
		{"60", Res60m},
		{"D", ResDaily},
		{"W", ResDaily},
		{"1h", ResDaily},
	}
	for _, tc := range cases {
		if got := NormalizeResolution(tc.in); got != tc.want {
			t.Fatalf("NormalizeResolution(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBarsPerDay(t *testing.T) {
	if got := BarsPerDay(Res5m); got != 78 {
		t.Fatalf("5m bars per day = %d", got)
	}
	if got := BarsPerDay(ResDaily); got != 1 {
		t.Fatalf("daily bars per day = %d", got)
	}
}
