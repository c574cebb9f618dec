package report

import "testing"

func TestParseMoneyValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"€ 1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"12000", 12000, true},
		{"EUR 5.000", 5000, true},
		{"3.50", 3.50, true},
		{"2,5", 2.5, true},
		{"TBD", 0, false},
		{"da definire TBD", 0, false},
		{"", 0, false},
		{"non un numero", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMoneyValue(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseMoneyValue(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseMoneyValue(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatEuro(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1234.56, "€ 1.234,56"},
		{0, "€ 0,00"},
		{1500, "€ 1.500,00"},
		{68500, "€ 68.500,00"},
		{1234567.89, "€ 1.234.567,89"},
	}
	for _, tc := range cases {
		if got := FormatEuro(tc.in); got != tc.want {
			t.Fatalf("FormatEuro(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDisplay(t *testing.T) {
	cases := map[string]string{
		"NOT_SPECIFIED_IN_PERIZIA":   DisplayNotSpecified,
		"UNKNOWN":                    DisplayNotSpecified,
		"":                           DisplayNotSpecified,
		"LOW_CONFIDENCE: via Roma 1": DisplayToVerify,
		"Tribunale di Milano":        "Tribunale di Milano",
	}
	for in, want := range cases {
		if got := NormalizeDisplay(in); got != want {
			t.Fatalf("NormalizeDisplay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRiskLevelIT(t *testing.T) {
	if got := RiskLevelIT("HIGH_RISK"); got != "RISCHIO ALTO" {
		t.Fatalf("RiskLevelIT(HIGH_RISK) = %q", got)
	}
	if got := RiskLevelIT("GREEN"); got != "RISCHIO BASSO" {
		t.Fatalf("RiskLevelIT(GREEN) = %q", got)
	}
}
