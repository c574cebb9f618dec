package domain

import "time"

func moneyRange(min, max float64) *MoneyRange { return &MoneyRange{Min: min, Max: max} }

func moneyValue(v float64) *float64 { return &v }

// FallbackVerdict is the conservative verdict stored when the analyzer
// cannot produce a valid structured result for a readable document. It
// always lands on AMBER with a QA warning so nobody mistakes it for a
// completed scan.
func FallbackVerdict(caseID, runID string, revision int, now time.Time) *Verdict {
	killers := make(map[string]KillerCheck, len(LegalKillerNames))
	for _, name := range LegalKillerNames {
		killers[name] = KillerCheck{
			Status:           KillerNotSpecified,
			ActionRequiredIT: "Verificare",
			ActionRequiredEN: "Verify",
		}
	}

	return &Verdict{
		SchemaVersion: SchemaVersionPeriziaV1,
		Run: RunInfo{
			RunID:          runID,
			CaseID:         caseID,
			GeneratedAtUTC: now.UTC().Format(time.RFC3339),
			Revision:       revision,
		},
		CaseHeader: CaseHeader{
			ProcedureID: HeaderField{Value: NotSpecified},
			Lotto:       HeaderField{Value: NotSpecified},
			Tribunale:   HeaderField{Value: NotSpecified},
			Address:     HeaderField{Value: NotSpecified},
			DepositDate: HeaderField{Value: NotSpecified},
		},
		SemaforoGenerale: Semaforo{
			Status:   SemaforoAmber,
			ReasonIT: "Analisi richiede revisione manuale",
			ReasonEN: "Analysis requires manual review",
		},
		DecisionRapida: QuickDecision{
			RiskLevel:   RiskMedium,
			DriverRosso: []string{},
			SummaryIT:   "Documento richiede analisi approfondita",
			SummaryEN:   "Document requires detailed analysis",
		},
		MoneyBox: MoneyBox{
			Items: []MoneyItem{
				{Code: "A", LabelIT: "Regolarizzazione urbanistica", LabelEN: "Urban regularization", Type: MoneyNotSpecified, ActionRequiredIT: "Verificare con tecnico", ActionRequiredEN: "Verify with technician"},
				{Code: "B", LabelIT: "Oneri tecnici", LabelEN: "Technical fees", Type: MoneyEstimate, Range: moneyRange(5000, 25000)},
				{Code: "C", LabelIT: "Rischio ripristini", LabelEN: "Restoration risk", Type: MoneyEstimate, Range: moneyRange(10000, 40000)},
				{Code: "D", LabelIT: "Allineamento catastale", LabelEN: "Cadastral alignment", Type: MoneyEstimate, Range: moneyRange(1000, 2000)},
				{Code: "E", LabelIT: "Spese condominiali", LabelEN: "Condo fees", Type: MoneyNotSpecified, ActionRequiredIT: "Verificare con amministratore", ActionRequiredEN: "Verify with administrator"},
				{Code: "F", LabelIT: "Costi procedura", LabelEN: "Procedure costs", Type: MoneyNotSpecified, ActionRequiredIT: "Verificare con delegato", ActionRequiredEN: "Verify with delegate"},
				{Code: "G", LabelIT: "Cancellazione formalità", LabelEN: "Formality cancellation", Type: MoneyInfoOnly, NoteIT: "Verificare decreto", NoteEN: "Verify decree"},
				{Code: "H", LabelIT: "Costo liberazione", LabelEN: "Liberation cost", Type: MoneyEstimate, Value: moneyValue(1500)},
			},
			TotalExtraCosts: MoneyTotal{
				Range:     MoneyRange{Min: 17500, Max: 68500},
				MaxIsOpen: true,
			},
		},
		LegalKillers: killers,
		RedFlagsOperativi: []RedFlag{
			{
				Code:     "MANUAL_REVIEW",
				Severity: SeverityAmber,
				FlagIT:   "Analisi automatica incompleta",
				FlagEN:   "Automatic analysis incomplete",
				ActionIT: "Revisione manuale raccomandata",
				ActionEN: "Manual review recommended",
			},
		},
		ChecklistPreOfferta: []ChecklistItem{
			{ItemIT: "Verificare conformità urbanistica", ItemEN: "Verify urban compliance", Status: ChecklistToCheck},
			{ItemIT: "Verificare stato occupativo", ItemEN: "Verify occupancy status", Status: ChecklistToCheck},
			{ItemIT: "Verificare formalità", ItemEN: "Verify formalities", Status: ChecklistToCheck},
		},
		SummaryForClient: ClientSummary{
			SummaryIT: "Documento caricato. Analisi preliminare completata. Si raccomanda revisione approfondita.",
			SummaryEN: "Document uploaded. Preliminary analysis complete. Detailed review recommended.",
		},
		QA: QAReport{
			Status: QAWarn,
			Reasons: []QAReason{
				{Code: "QA_INCOMPLETE", ReasonIT: "Analisi parziale", ReasonEN: "Partial analysis"},
			},
		},
	}
}
