package currency

import "testing"

func TestParse(t *testing.T) {
	t.Run("accepts supported codes case-insensitively", func(t *testing.T) {
		for in, want := range map[string]Currency{
			"USD":   USD,
			"sar":   SAR,
			"Egp":   EGP,
			" aed ": AED,
		} {
			got, err := Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", in, err)
			}
			if got != want {
				t.Fatalf("Parse(%q) = %s, want %s", in, got, want)
			}
		}
	})

	t.Run("rejects unknown codes", func(t *testing.T) {
		for _, in := range []string{"", "EUR", "US", "dollar"} {
			if _, err := Parse(in); err == nil {
				t.Fatalf("Parse(%q) expected error", in)
			}
		}
	})
}

func TestIsValid(t *testing.T) {
	for _, c := range Supported() {
		if !c.IsValid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if Currency("EUR").IsValid() {
		t.Fatal("expected EUR to be invalid")
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount float64
		cur    Currency
		want   string
	}{
		{12.5, USD, "$12.50"},
		{0, USD, "$0.00"},
		{1234.567, SAR, "1234.57 SAR"},
		{30.9, EGP, "30.90 EGP"},
		{99.999, AED, "100.00 AED"},
	}
	for _, c := range cases {
		if got := FormatPrice(c.amount, c.cur); got != c.want {
			t.Fatalf("FormatPrice(%v, %s) = %q, want %q", c.amount, c.cur, got, c.want)
		}
	}
}
