package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// killerLabels maps the fixed checklist keys to report wording, in
// report order.
var killerLabels = []struct {
	Key   string
	Label string
}{
	{"PEEP_superficie", "PEEP / Diritto di superficie"},
	{"donazione_catena_20anni", "Donazione nella catena (20 anni)"},
	{"prelazione_stato_beni_culturali", "Prelazione Stato / Beni culturali"},
	{"usi_civici_diritti_demaniali", "Usi civici / Diritti demaniali"},
	{"fondo_patrimoniale", "Fondo patrimoniale"},
	{"servitu_atti_obbligo", "Servitù / Atti d'obbligo"},
	{"formalita_non_cancellabili", "Formalità non cancellabili"},
	{"amianto", "Amianto"},
}

type headerRow struct {
	Label string
	Value string
}

type moneyRow struct {
	Label  string
	Amount string
	Note   string
}

type killerRow struct {
	Label    string
	Status   string
	Action   string
	Evidence string
}

type flagRow struct {
	Severity string
	Flag     string
	Action   string
}

type checklistRow struct {
	Item   string
	Status string
}

type reportData struct {
	FileName    string
	AnalysisID  string
	CaseID      string
	GeneratedAt string
	Header      []headerRow
	Semaforo    string
	SemaforoIT  string
	Reason      string
	Risk        string
	Summary     string
	SummaryEN   string
	Evidence    []string
	Money       []moneyRow
	TotalMin    string
	TotalMax    string
	Killers     []killerRow
	Flags       []flagRow
	Checklist   []checklistRow
	QAStatus    string
}

// BuildData flattens an analysis into the display model both the HTML
// and the downloadable report share.
func BuildData(a *domain.Analysis) (*reportData, error) {
	if a.Result == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "render report", fmt.Errorf("analysis %s has no verdict", a.AnalysisID))
	}
	v := a.Result

	data := &reportData{
		FileName:    a.FileName,
		AnalysisID:  a.AnalysisID,
		CaseID:      a.CaseID,
		GeneratedAt: v.Run.GeneratedAtUTC,
		Semaforo:    string(v.SemaforoGenerale.Status),
		SemaforoIT:  SemaforoIT(string(v.SemaforoGenerale.Status)),
		Reason:      NormalizeDisplay(v.SemaforoGenerale.ReasonIT),
		Risk:        RiskLevelIT(string(v.DecisionRapida.RiskLevel)),
		Summary:     NormalizeDisplay(v.SummaryForClient.SummaryIT),
		SummaryEN:   NormalizeDisplay(v.SummaryForClient.SummaryEN),
		Evidence:    evidenceLines(v.SemaforoGenerale.Evidence, 3),
		QAStatus:    string(v.QA.Status),
	}

	data.Header = []headerRow{
		{"Procedura", NormalizeDisplay(v.CaseHeader.ProcedureID.Value)},
		{"Tribunale", NormalizeDisplay(v.CaseHeader.Tribunale.Value)},
		{"Lotto", NormalizeDisplay(v.CaseHeader.Lotto.Value)},
		{"Indirizzo", NormalizeDisplay(v.CaseHeader.Address.Value)},
		{"Data deposito", NormalizeDisplay(v.CaseHeader.DepositDate.Value)},
	}

	for _, item := range v.MoneyBox.Items {
		label := item.LabelIT
		if label == "" {
			label = item.Code
		}
		note := item.ActionRequiredIT
		if note == "" {
			note = item.NoteIT
		}
		data.Money = append(data.Money, moneyRow{
			Label:  NormalizeDisplay(label),
			Amount: moneyAmount(item),
			Note:   strings.TrimSpace(note),
		})
	}
	data.TotalMin = FormatEuro(v.MoneyBox.TotalExtraCosts.Range.Min)
	if v.MoneyBox.TotalExtraCosts.MaxIsOpen {
		data.TotalMax = "TBD"
	} else {
		data.TotalMax = FormatEuro(v.MoneyBox.TotalExtraCosts.Range.Max)
	}

	for _, kl := range killerLabels {
		check := v.LegalKillers[kl.Key]
		data.Killers = append(data.Killers, killerRow{
			Label:    kl.Label,
			Status:   killerStatusIT(check.Status),
			Action:   NormalizeDisplay(check.ActionRequiredIT),
			Evidence: strings.Join(evidenceLines(check.Evidence, 2), " | "),
		})
	}

	for _, f := range v.RedFlagsOperativi {
		data.Flags = append(data.Flags, flagRow{
			Severity: string(f.Severity),
			Flag:     NormalizeDisplay(f.FlagIT),
			Action:   strings.TrimSpace(f.ActionIT),
		})
	}

	for _, c := range v.ChecklistPreOfferta {
		status := "DA VERIFICARE"
		if c.Status == domain.ChecklistDone {
			status = "FATTO"
		}
		data.Checklist = append(data.Checklist, checklistRow{
			Item:   NormalizeDisplay(c.ItemIT),
			Status: status,
		})
	}

	return data, nil
}

func moneyAmount(item domain.MoneyItem) string {
	switch item.Type {
	case domain.MoneyFixed, domain.MoneyEstimate:
		if item.Value != nil {
			return FormatEuro(*item.Value)
		}
		if item.Range != nil {
			return FormatEuro(item.Range.Min) + " - " + FormatEuro(item.Range.Max)
		}
		return "TBD"
	case domain.MoneyInfoOnly:
		return ""
	default:
		return "TBD"
	}
}

func killerStatusIT(status domain.KillerStatus) string {
	switch status {
	case domain.KillerYes:
		return "SÌ"
	case domain.KillerNo:
		return "NO"
	default:
		return DisplayNotSpecified
	}
}

func evidenceLines(evs []domain.Evidence, max int) []string {
	var out []string
	for _, ev := range evs {
		quote := strings.ReplaceAll(strings.TrimSpace(ev.Quote), "\n", " ")
		if runes := []rune(quote); len(runes) > 180 {
			quote = string(runes[:177]) + "..."
		}
		var line string
		switch {
		case ev.Page > 0 && quote != "":
			line = fmt.Sprintf("p.%d: %s", ev.Page, quote)
		case ev.Page > 0:
			line = fmt.Sprintf("p.%d", ev.Page)
		default:
			line = quote
		}
		if line != "" {
			out = append(out, line)
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

// RenderHTML writes the full client report.
func RenderHTML(w io.Writer, a *domain.Analysis) error {
	data, err := BuildData(a)
	if err != nil {
		return err
	}
	return reportTemplate.Execute(w, data)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<title>Nexodify Report — {{.FileName}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 40px auto; max-width: 860px; color: #1a1a1a; }
h1 { font-size: 22px; } h2 { font-size: 15px; margin-top: 28px; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
th, td { border: 1px solid #e0e0e0; padding: 6px 8px; font-size: 13px; text-align: left; vertical-align: top; }
th { background: #f2f2f2; }
.meta { color: #777; font-size: 11px; }
.evidence { color: #777; font-size: 11px; }
.semaforo { display: inline-block; padding: 4px 14px; border-radius: 4px; color: #fff; font-weight: bold; }
.semaforo.GREEN { background: #1d7a3a; } .semaforo.AMBER { background: #c98a00; } .semaforo.RED { background: #b02a2a; }
.total { background: #f7f7f7; font-weight: bold; }
.disclaimer { margin-top: 32px; color: #777; font-size: 11px; border-top: 1px solid #ddd; padding-top: 8px; }
</style>
</head>
<body>
<h1>Nexodify Report — {{.FileName}}</h1>
<p class="meta">Analysis ID: {{.AnalysisID}} &nbsp;&nbsp; Case ID: {{.CaseID}} &nbsp;&nbsp; Generated: {{.GeneratedAt}}</p>

<table>
{{range .Header}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>

<h2>Semaforo Generale</h2>
<p><span class="semaforo {{.Semaforo}}">{{.SemaforoIT}}</span></p>
<p>{{.Reason}}</p>
{{range .Evidence}}<p class="evidence">{{.}}</p>
{{end}}
<h2>Decisione Rapida</h2>
<p>RISCHIO: <b>{{.Risk}}</b></p>

<h2>Money Box</h2>
<table>
<tr><th>Voce</th><th>Stima (€)</th><th>Azione / Nota</th></tr>
{{range .Money}}<tr><td>{{.Label}}</td><td>{{.Amount}}</td><td>{{.Note}}</td></tr>
{{end}}<tr class="total"><td>Totale costi extra</td><td>{{.TotalMin}} - {{.TotalMax}}</td><td></td></tr>
</table>

<h2>Legal Killers</h2>
<table>
<tr><th>Item</th><th>Status</th><th>Azione</th><th>Evidence (estratto)</th></tr>
{{range .Killers}}<tr><td>{{.Label}}</td><td>{{.Status}}</td><td>{{.Action}}</td><td class="evidence">{{.Evidence}}</td></tr>
{{end}}</table>
{{if .Flags}}
<h2>Red Flags Operativi</h2>
<table>
<tr><th>Severità</th><th>Flag</th><th>Azione</th></tr>
{{range .Flags}}<tr><td>{{.Severity}}</td><td>{{.Flag}}</td><td>{{.Action}}</td></tr>
{{end}}</table>
{{end}}{{if .Checklist}}
<h2>Checklist Pre-Offerta</h2>
<table>
<tr><th>Item</th><th>Status</th></tr>
{{range .Checklist}}<tr><td>{{.Item}}</td><td>{{.Status}}</td></tr>
{{end}}</table>
{{end}}
<h2>Summary for Client</h2>
<p>{{.Summary}}</p>
<p class="meta">{{.SummaryEN}}</p>

<p class="disclaimer"><b>AVVISO IMPORTANTE</b> — Documento informativo. Non costituisce consulenza legale. Consultare un professionista qualificato.</p>
</body>
</html>
`))
