package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// SanitizePeriziaVerdict repairs the tolerable deviations models produce
// before strict validation: envelope unwrapping, legacy field names,
// bare-string header fields and missing placeholder values. Anything it
// cannot repair is left for the validator to reject.
func SanitizePeriziaVerdict(data []byte, caseID, runID string, now time.Time) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "sanitize verdict", fmt.Errorf("not a json object: %w", err))
	}

	// Some model outputs wrap the verdict in an {ok, mode, result} envelope.
	if inner, ok := doc["result"].(map[string]any); ok {
		if _, hasHeader := inner["case_header"]; hasHeader {
			doc = inner
		}
	}

	doc["schema_version"] = domain.SchemaVersionPeriziaV1

	// Legacy name from the first contract revision.
	if _, ok := doc["decision_rapida"]; !ok {
		if legacy, ok := doc["decision_rapida_client"].(map[string]any); ok {
			doc["decision_rapida"] = legacy
		}
	}
	delete(doc, "decision_rapida_client")

	run, _ := doc["run"].(map[string]any)
	if run == nil {
		run = map[string]any{}
	}
	if s, _ := run["run_id"].(string); s == "" {
		run["run_id"] = runID
	}
	if s, _ := run["case_id"].(string); s == "" {
		run["case_id"] = caseID
	}
	if s, _ := run["generated_at_utc"].(string); s == "" {
		run["generated_at_utc"] = now.UTC().Format(time.RFC3339)
	}
	if _, ok := run["revision"]; !ok {
		run["revision"] = 0
	}
	doc["run"] = run

	doc["case_header"] = sanitizeCaseHeader(doc["case_header"])
	doc["legal_killers_checklist"] = sanitizeKillers(doc["legal_killers_checklist"])
	doc["money_box"] = sanitizeMoneyBox(doc["money_box"])

	if _, ok := doc["decision_rapida"].(map[string]any); !ok {
		doc["decision_rapida"] = map[string]any{
			"risk_level":   "MEDIUM_RISK",
			"driver_rosso": []any{},
		}
	}
	if _, ok := doc["semaforo_generale"].(map[string]any); !ok {
		doc["semaforo_generale"] = map[string]any{
			"status":    "AMBER",
			"reason_it": "Analisi richiede revisione manuale",
			"reason_en": "Analysis requires manual review",
		}
	}
	if _, ok := doc["summary_for_client"].(map[string]any); !ok {
		doc["summary_for_client"] = map[string]any{
			"summary_it": domain.NotSpecified,
			"summary_en": domain.NotSpecified,
		}
	}
	if _, ok := doc["qa"].(map[string]any); !ok {
		doc["qa"] = map[string]any{
			"status": "WARN",
			"reasons": []any{map[string]any{
				"code":      "QA_INCOMPLETE",
				"reason_it": "Analisi parziale",
				"reason_en": "Partial analysis",
			}},
		}
	}
	if _, ok := doc["red_flags_operativi"].([]any); !ok {
		doc["red_flags_operativi"] = []any{}
	}
	if _, ok := doc["checklist_pre_offerta"].([]any); !ok {
		doc["checklist_pre_offerta"] = []any{}
	}

	return json.Marshal(doc)
}

func sanitizeCaseHeader(v any) map[string]any {
	header, _ := v.(map[string]any)
	if header == nil {
		header = map[string]any{}
	}
	for _, field := range []string{"procedure_id", "lotto", "tribunale", "address", "deposit_date"} {
		switch fv := header[field].(type) {
		case map[string]any:
			if s, _ := fv["value"].(string); s == "" {
				fv["value"] = domain.NotSpecified
			}
		case string:
			value := fv
			if value == "" {
				value = domain.NotSpecified
			}
			header[field] = map[string]any{"value": value}
		default:
			header[field] = map[string]any{"value": domain.NotSpecified}
		}
	}
	return header
}

func sanitizeKillers(v any) map[string]any {
	killers, _ := v.(map[string]any)
	if killers == nil {
		killers = map[string]any{}
	}
	for _, name := range domain.LegalKillerNames {
		check, _ := killers[name].(map[string]any)
		if check == nil {
			check = map[string]any{
				"action_required_it": "Verificare",
				"action_required_en": "Verify",
			}
		}
		switch check["status"] {
		case "YES", "NO", domain.NotSpecified:
		case "NOT_SPECIFIED", "UNKNOWN", nil, "":
			check["status"] = domain.NotSpecified
		default:
			check["status"] = domain.NotSpecified
		}
		killers[name] = check
	}
	return killers
}

func sanitizeMoneyBox(v any) map[string]any {
	box, _ := v.(map[string]any)
	if box == nil {
		box = map[string]any{}
	}
	if _, ok := box["items"].([]any); !ok {
		box["items"] = []any{}
	}
	total, _ := box["total_extra_costs"].(map[string]any)
	if total == nil {
		total = map[string]any{}
	}
	if _, ok := total["range"].(map[string]any); !ok {
		total["range"] = map[string]any{"min": 0, "max": 0}
	}
	if _, ok := total["max_is_open"].(bool); !ok {
		total["max_is_open"] = true
	}
	box["total_extra_costs"] = total
	return box
}
