package money

import "testing"

func TestToCents(t *testing.T) {
	cases := []struct {
		units float64
		want  int64
	}{
		{100.00, 10000},
		{20.0, 2000},
		{0.01, 1},
		{0.005, 1}, // arredonda meio pra cima
		{19.99, 1999},
		{0, 0},
	}
	for _, tc := range cases {
		if got := ToCents(tc.units); got != tc.want {
			t.Errorf("ToCents(%v) = %d, want %d", tc.units, got, tc.want)
		}
	}
}

func TestFromCents(t *testing.T) {
	if got := FromCents(12000); got != 120.00 {
		t.Errorf("FromCents(12000) = %v, want 120.00", got)
	}
	if got := FromCents(-2000); got != -20.00 {
		t.Errorf("FromCents(-2000) = %v, want -20.00", got)
	}
}

func TestRoundTrip(t *testing.T) {
	// valores com duas casas decimais fazem round trip exato
	for _, v := range []float64{0.01, 19.99, 100.00, 1234.56} {
		if got := FromCents(ToCents(v)); got != v {
			t.Errorf("round trip %v -> %v", v, got)
		}
	}
}
