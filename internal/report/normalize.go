// Package report renders customer-facing reports from stored verdicts.
// Internal placeholders never leak: they are mapped to the Italian
// display strings the original reports used.
package report

import "strings"

const (
	// DisplayNotSpecified replaces every internal placeholder in output.
	DisplayNotSpecified = "NON SPECIFICATO IN PERIZIA"
	// DisplayToVerify replaces low-confidence extractions.
	DisplayToVerify = "DA VERIFICARE"
)

var internalPlaceholders = map[string]bool{
	"":                         true,
	"None":                     true,
	"N/A":                      true,
	"NOT_SPECIFIED_IN_PERIZIA": true,
	"NOT_SPECIFIED":            true,
	"UNKNOWN":                  true,
}

// NormalizeDisplay maps internal markers to customer-safe text.
func NormalizeDisplay(value string) string {
	trimmed := strings.TrimSpace(value)
	if internalPlaceholders[trimmed] {
		return DisplayNotSpecified
	}
	if strings.HasPrefix(strings.ToUpper(trimmed), "LOW_CONFIDENCE") {
		return DisplayToVerify
	}
	return trimmed
}

var riskLevelIT = map[string]string{
	"LOW_RISK":    "RISCHIO BASSO",
	"MEDIUM_RISK": "RISCHIO MEDIO",
	"HIGH_RISK":   "RISCHIO ALTO",
	"LOW":         "RISCHIO BASSO",
	"MEDIUM":      "RISCHIO MEDIO",
	"HIGH":        "RISCHIO ALTO",
	"GREEN":       "RISCHIO BASSO",
	"AMBER":       "RISCHIO MEDIO",
	"RED":         "RISCHIO ALTO",
}

// RiskLevelIT maps machine risk levels to the Italian report wording.
func RiskLevelIT(value string) string {
	key := strings.ToUpper(strings.TrimSpace(value))
	if it, ok := riskLevelIT[key]; ok {
		return it
	}
	return strings.TrimSpace(value)
}

var semaforoIT = map[string]string{
	"GREEN": "VERDE",
	"AMBER": "GIALLO",
	"RED":   "ROSSO",
}

func SemaforoIT(status string) string {
	key := strings.ToUpper(strings.TrimSpace(status))
	if it, ok := semaforoIT[key]; ok {
		return it
	}
	return DisplayToVerify
}
