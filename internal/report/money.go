package report

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMoneyValue reads appraisal money text in the formats perizie use:
// "€ 1.234,56", "1,234.56", "12000", "EUR 5.000". TBD and empty values
// report ok=false.
func ParseMoneyValue(value string) (float64, bool) {
	text := strings.TrimSpace(value)
	if text == "" || strings.Contains(strings.ToUpper(text), "TBD") {
		return 0, false
	}

	cleaned := strings.NewReplacer("€", "", " ", "", " ", "", "EUR", "", "eur", "", "euro", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// Italian: dots are thousands, comma is decimal.
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasDot:
		parts := strings.Split(cleaned, ".")
		if len(parts) > 1 && allDigits(parts) && len(parts[len(parts)-1]) == 3 {
			// "5.000" is five thousand, not five with three decimals.
			cleaned = strings.Join(parts, "")
		}
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func allDigits(parts []string) bool {
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// FormatEuro renders a value the Italian way: "€ 1.234,56".
func FormatEuro(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	neg := strings.HasPrefix(formatted, "-")
	formatted = strings.TrimPrefix(formatted, "-")

	parts := strings.SplitN(formatted, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("€ %s%s,%s", sign, b.String(), decPart)
}
