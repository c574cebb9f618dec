// Package schema owns the verdict JSON contract: the machine-readable
// schema the analyzer's output must satisfy, and the sanitizer that
// repairs tolerable deviations before validation.
package schema

import "github.com/nexodify/forensic-engine/internal/core/domain"

func evidenceSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []string{"page"},
			"properties": map[string]any{
				"page":   map[string]any{"type": "integer", "minimum": 1},
				"anchor": map[string]any{"type": "string"},
				"quote":  map[string]any{"type": "string"},
			},
		},
	}
}

func headerFieldSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"value"},
		"properties": map[string]any{
			"value":    map[string]any{"type": "string", "minLength": 1},
			"evidence": evidenceSchema(),
		},
	}
}

func bilingual(fields ...string) map[string]any {
	props := map[string]any{}
	for _, f := range fields {
		props[f] = map[string]any{"type": "string"}
	}
	return props
}

// PeriziaVerdictSchema is the draft JSON schema for one scan verdict.
func PeriziaVerdictSchema() map[string]any {
	moneyRange := map[string]any{
		"type":     "object",
		"required": []string{"min", "max"},
		"properties": map[string]any{
			"min": map[string]any{"type": "number", "minimum": 0},
			"max": map[string]any{"type": "number", "minimum": 0},
		},
	}

	killerProps := map[string]any{}
	for _, name := range domain.LegalKillerNames {
		killerProps[name] = map[string]any{
			"type":     "object",
			"required": []string{"status"},
			"properties": map[string]any{
				"status": map[string]any{
					"enum": []any{"YES", "NO", domain.NotSpecified},
				},
				"action_required_it": map[string]any{"type": "string"},
				"action_required_en": map[string]any{"type": "string"},
				"evidence":           evidenceSchema(),
			},
		}
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []string{
			"schema_version", "run", "case_header", "semaforo_generale",
			"decision_rapida", "money_box", "legal_killers_checklist",
			"summary_for_client", "qa",
		},
		"properties": map[string]any{
			"schema_version": map[string]any{"const": domain.SchemaVersionPeriziaV1},
			"run": map[string]any{
				"type":     "object",
				"required": []string{"run_id", "case_id", "generated_at_utc"},
				"properties": map[string]any{
					"run_id":           map[string]any{"type": "string", "minLength": 1},
					"case_id":          map[string]any{"type": "string", "minLength": 1},
					"generated_at_utc": map[string]any{"type": "string", "minLength": 1},
					"revision":         map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"case_header": map[string]any{
				"type":     "object",
				"required": []string{"procedure_id", "lotto", "tribunale", "address", "deposit_date"},
				"properties": map[string]any{
					"procedure_id": headerFieldSchema(),
					"lotto":        headerFieldSchema(),
					"tribunale":    headerFieldSchema(),
					"address":      headerFieldSchema(),
					"deposit_date": headerFieldSchema(),
				},
			},
			"semaforo_generale": map[string]any{
				"type":     "object",
				"required": []string{"status"},
				"properties": mergeProps(bilingual("reason_it", "reason_en"), map[string]any{
					"status":   map[string]any{"enum": []any{"GREEN", "AMBER", "RED"}},
					"evidence": evidenceSchema(),
				}),
			},
			"decision_rapida": map[string]any{
				"type":     "object",
				"required": []string{"risk_level"},
				"properties": mergeProps(bilingual("summary_it", "summary_en"), map[string]any{
					"risk_level":   map[string]any{"enum": []any{"LOW_RISK", "MEDIUM_RISK", "HIGH_RISK"}},
					"driver_rosso": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				}),
			},
			"money_box": map[string]any{
				"type":     "object",
				"required": []string{"items", "total_extra_costs"},
				"properties": map[string]any{
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"code", "type"},
							"properties": mergeProps(bilingual(
								"label_it", "label_en",
								"action_required_it", "action_required_en",
								"note_it", "note_en",
							), map[string]any{
								"code": map[string]any{"type": "string", "minLength": 1},
								"type": map[string]any{
									"enum": []any{"FIXED", "NEXODIFY_ESTIMATE", "NOT_SPECIFIED", "INFO_ONLY"},
								},
								"value":    map[string]any{"type": "number"},
								"range":    moneyRange,
								"evidence": evidenceSchema(),
							}),
						},
					},
					"total_extra_costs": map[string]any{
						"type":     "object",
						"required": []string{"range"},
						"properties": map[string]any{
							"range":       moneyRange,
							"max_is_open": map[string]any{"type": "boolean"},
						},
					},
				},
			},
			"legal_killers_checklist": map[string]any{
				"type":       "object",
				"required":   domain.LegalKillerNames,
				"properties": killerProps,
			},
			"red_flags_operativi": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"code", "severity"},
					"properties": mergeProps(bilingual("flag_it", "flag_en", "action_it", "action_en"), map[string]any{
						"code":     map[string]any{"type": "string"},
						"severity": map[string]any{"enum": []any{"RED", "AMBER"}},
					}),
				},
			},
			"checklist_pre_offerta": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"status"},
					"properties": mergeProps(bilingual("item_it", "item_en"), map[string]any{
						"status":   map[string]any{"enum": []any{"DONE", "TO_CHECK"}},
						"priority": map[string]any{"type": "integer"},
					}),
				},
			},
			"summary_for_client": map[string]any{
				"type":       "object",
				"required":   []string{"summary_it", "summary_en"},
				"properties": bilingual("summary_it", "summary_en"),
			},
			"qa": map[string]any{
				"type":     "object",
				"required": []string{"status"},
				"properties": map[string]any{
					"status": map[string]any{"enum": []any{"PASS", "WARN", "FAIL"}},
					"reasons": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":       "object",
							"properties": mergeProps(bilingual("reason_it", "reason_en"), map[string]any{"code": map[string]any{"type": "string"}}),
						},
					},
				},
			},
		},
	}
}

func mergeProps(a, b map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
