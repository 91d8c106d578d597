package company

import "testing"

func TestValidBIN(t *testing.T) {
	cases := []struct {
		bin  string
		want bool
	}{
		{"123456789012", true},
		{"000000000000", true},
		{"12345678901", false},
		{"1234567890123", false},
		{"12345678901a", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidBIN(c.bin); got != c.want {
			t.Errorf("ValidBIN(%q) = %v, want %v", c.bin, got, c.want)
		}
	}
}

func TestMostRecentTax(t *testing.T) {
	r := Record{Taxes: map[int]float64{2021: 100, 2023: 250}}
	year, amount, ok := r.MostRecentTax()
	if !ok {
		t.Fatal("expected tax data")
	}
	if year != 2023 || amount != 250 {
		t.Errorf("expected 2023/250, got %d/%f", year, amount)
	}
}

func TestMostRecentTax_NoData(t *testing.T) {
	r := Record{}
	if _, _, ok := r.MostRecentTax(); ok {
		t.Error("expected no tax data")
	}

	r = Record{Taxes: map[int]float64{}}
	if _, _, ok := r.MostRecentTax(); ok {
		t.Error("expected no tax data for empty map")
	}
}

func TestMostRecentTax_ZeroIsData(t *testing.T) {
	// A present zero means "paid nothing", distinct from "no data".
	r := Record{Taxes: map[int]float64{2025: 0, 2024: 900}}
	year, amount, ok := r.MostRecentTax()
	if !ok || year != 2025 || amount != 0 {
		t.Errorf("expected 2025/0/true, got %d/%f/%v", year, amount, ok)
	}
}
