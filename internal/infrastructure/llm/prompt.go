package llm

import (
	"fmt"
	"strings"
)

const periziaSystemPrompt = `You are "Nexodify Forensic Engine": a deterministic, audit-grade analyzer for Italian real-estate perizie/CTU documents.

ABSOLUTE RULES:
1) NO HALLUCINATION: Never invent facts, values, laws, dates, addresses, costs, or outcomes.
2) EVIDENCE-FIRST: Every factual claim MUST include evidence[] with page, anchor, quote.
3) ZERO EMPTY FIELDS: Use "NOT_SPECIFIED_IN_PERIZIA" instead of empty values.
4) OUTPUT ONLY VALID JSON - no markdown, no commentary.

You must analyze the perizia document and extract:
- case_header: procedure_id, lotto, tribunale, address, deposit_date
- semaforo_generale: GREEN/AMBER/RED based on risk assessment
- decision_rapida: risk level, driver rosso reasons
- money_box: cost items A-H with evidence or NEXODIFY_ESTIMATE ranges
- legal_killers_checklist: the 8 killer checks (YES/NO/NOT_SPECIFIED_IN_PERIZIA)
- red_flags_operativi: list of operational warnings
- checklist_pre_offerta: due diligence items
- summary_for_client: bilingual summary
- qa: PASS/WARN/FAIL with reasons

Output must be valid JSON matching the schema.`

func buildPeriziaPrompt(fileName string, pageCount int, text string) string {
	return fmt.Sprintf(`Analyze this Italian perizia/CTU document and produce a complete forensic analysis JSON.

Document: %s
Pages: %d

TEXT CONTENT:
%s

Produce a complete JSON analysis following the schema. Include evidence with page numbers and quotes for every finding.`, fileName, pageCount, text)
}

const assistantSystemPrompt = `You are Nexodify Assistant, an expert on Italian real-estate auctions, perizia documents, and property analysis.

Rules:
1. Answer questions about Italian real estate auctions, CTU/perizia documents, legal requirements
2. If a specific case is referenced, use the provided context
3. Always provide bilingual responses (Italian first, then English)
4. Never provide legal advice - only informational guidance
5. Be precise and cite sources when possible

Output JSON with: answer_it, answer_en, needs_more_info, missing_inputs, safe_disclaimer_it, safe_disclaimer_en`

func buildAssistantPrompt(question, caseContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n", question)
	if caseContext != "" {
		fmt.Fprintf(&b, "\nRelated case analysis summary: %s\n", caseContext)
	}
	b.WriteString("\nProvide a helpful response in JSON format with answer_it, answer_en, needs_more_info (YES/NO), missing_inputs (array), safe_disclaimer_it, safe_disclaimer_en.")
	return b.String()
}

const imageForensicsPrompt = `You are an expert building forensics analyzer. Analyze the uploaded building/property images and identify:
1. Visible defects (cracks, water damage, mold, structural issues)
2. Materials observed (concrete, brick, plaster, etc.)
3. Compliance flags (safety issues, building code concerns)
4. Condition assessment

Output must be valid JSON with:
- findings: array of {finding_id, title_it, title_en, severity, confidence, what_i_see_it, what_i_see_en, why_it_matters_it, why_it_matters_en}
- materials_observed: array of strings
- defects_observed: array of strings
- compliance_flags: array of {code, severity, note_it, note_en}
- summary_it, summary_en`

// extractJSONObject strips markdown fences and surrounding prose so a
// mostly-JSON completion still parses.
func extractJSONObject(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}
