package domain

import "time"

// SchemaVersionPeriziaV1 is the single authoritative verdict contract.
// Historical shapes are tolerated at render time only, never persisted.
const SchemaVersionPeriziaV1 = "nexodify_perizia_scan_v1"

// NotSpecified is the mandatory placeholder for fields the appraisal does
// not state. The analyzer never leaves a field empty.
const NotSpecified = "NOT_SPECIFIED_IN_PERIZIA"

type AnalysisStatus string

const (
	AnalysisQueued     AnalysisStatus = "queued"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisReady      AnalysisStatus = "ready"
	AnalysisFailed     AnalysisStatus = "failed"
)

type SemaforoStatus string

const (
	SemaforoGreen SemaforoStatus = "GREEN"
	SemaforoAmber SemaforoStatus = "AMBER"
	SemaforoRed   SemaforoStatus = "RED"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW_RISK"
	RiskMedium RiskLevel = "MEDIUM_RISK"
	RiskHigh   RiskLevel = "HIGH_RISK"
)

type MoneySource string

const (
	MoneyFixed        MoneySource = "FIXED"
	MoneyEstimate     MoneySource = "NEXODIFY_ESTIMATE"
	MoneyNotSpecified MoneySource = "NOT_SPECIFIED"
	MoneyInfoOnly     MoneySource = "INFO_ONLY"
)

type KillerStatus string

const (
	KillerYes          KillerStatus = "YES"
	KillerNo           KillerStatus = "NO"
	KillerNotSpecified KillerStatus = NotSpecified
)

type FlagSeverity string

const (
	SeverityRed   FlagSeverity = "RED"
	SeverityAmber FlagSeverity = "AMBER"
)

type ChecklistStatus string

const (
	ChecklistDone    ChecklistStatus = "DONE"
	ChecklistToCheck ChecklistStatus = "TO_CHECK"
)

type QAStatus string

const (
	QAPass QAStatus = "PASS"
	QAWarn QAStatus = "WARN"
	QAFail QAStatus = "FAIL"
)

// LegalKillerNames is the fixed set of killer checks the analyzer must
// answer, in report order.
var LegalKillerNames = []string{
	"PEEP_superficie",
	"donazione_catena_20anni",
	"prelazione_stato_beni_culturali",
	"usi_civici_diritti_demaniali",
	"fondo_patrimoniale",
	"servitu_atti_obbligo",
	"formalita_non_cancellabili",
	"amianto",
}

// Evidence anchors a claim to a page of the source document. Quotes are
// pass-through from the model: this service never synthesizes them.
type Evidence struct {
	Page   int    `json:"page"`
	Anchor string `json:"anchor,omitempty"`
	Quote  string `json:"quote,omitempty"`
}

type RunInfo struct {
	RunID          string `json:"run_id"`
	CaseID         string `json:"case_id"`
	GeneratedAtUTC string `json:"generated_at_utc"`
	Revision       int    `json:"revision"`
}

type HeaderField struct {
	Value    string     `json:"value"`
	Evidence []Evidence `json:"evidence,omitempty"`
}

type CaseHeader struct {
	ProcedureID HeaderField `json:"procedure_id"`
	Lotto       HeaderField `json:"lotto"`
	Tribunale   HeaderField `json:"tribunale"`
	Address     HeaderField `json:"address"`
	DepositDate HeaderField `json:"deposit_date"`
}

type Semaforo struct {
	Status   SemaforoStatus `json:"status"`
	ReasonIT string         `json:"reason_it"`
	ReasonEN string         `json:"reason_en"`
	Evidence []Evidence     `json:"evidence,omitempty"`
}

type QuickDecision struct {
	RiskLevel    RiskLevel `json:"risk_level"`
	DriverRosso  []string  `json:"driver_rosso"`
	SummaryIT    string    `json:"summary_it"`
	SummaryEN    string    `json:"summary_en"`
}

type MoneyRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type MoneyItem struct {
	Code             string      `json:"code"`
	LabelIT          string      `json:"label_it"`
	LabelEN          string      `json:"label_en"`
	Type             MoneySource `json:"type"`
	Value            *float64    `json:"value,omitempty"`
	Range            *MoneyRange `json:"range,omitempty"`
	ActionRequiredIT string      `json:"action_required_it,omitempty"`
	ActionRequiredEN string      `json:"action_required_en,omitempty"`
	NoteIT           string      `json:"note_it,omitempty"`
	NoteEN           string      `json:"note_en,omitempty"`
	Evidence         []Evidence  `json:"evidence,omitempty"`
}

type MoneyTotal struct {
	Range     MoneyRange `json:"range"`
	MaxIsOpen bool       `json:"max_is_open"`
}

type MoneyBox struct {
	Items           []MoneyItem `json:"items"`
	TotalExtraCosts MoneyTotal  `json:"total_extra_costs"`
}

type KillerCheck struct {
	Status           KillerStatus `json:"status"`
	ActionRequiredIT string       `json:"action_required_it,omitempty"`
	ActionRequiredEN string       `json:"action_required_en,omitempty"`
	Evidence         []Evidence   `json:"evidence,omitempty"`
}

type RedFlag struct {
	Code     string       `json:"code"`
	Severity FlagSeverity `json:"severity"`
	FlagIT   string       `json:"flag_it"`
	FlagEN   string       `json:"flag_en"`
	ActionIT string       `json:"action_it,omitempty"`
	ActionEN string       `json:"action_en,omitempty"`
}

type ChecklistItem struct {
	ItemIT   string          `json:"item_it"`
	ItemEN   string          `json:"item_en"`
	Status   ChecklistStatus `json:"status"`
	Priority int             `json:"priority,omitempty"`
}

type ClientSummary struct {
	SummaryIT string `json:"summary_it"`
	SummaryEN string `json:"summary_en"`
}

type QAReason struct {
	Code     string `json:"code"`
	ReasonIT string `json:"reason_it"`
	ReasonEN string `json:"reason_en"`
}

type QAReport struct {
	Status  QAStatus   `json:"status"`
	Reasons []QAReason `json:"reasons"`
}

// Verdict is the full structured outcome of one perizia scan.
type Verdict struct {
	SchemaVersion       string                 `json:"schema_version"`
	Run                 RunInfo                `json:"run"`
	CaseHeader          CaseHeader             `json:"case_header"`
	SemaforoGenerale    Semaforo               `json:"semaforo_generale"`
	DecisionRapida      QuickDecision          `json:"decision_rapida"`
	MoneyBox            MoneyBox               `json:"money_box"`
	LegalKillers        map[string]KillerCheck `json:"legal_killers_checklist"`
	RedFlagsOperativi   []RedFlag              `json:"red_flags_operativi"`
	ChecklistPreOfferta []ChecklistItem        `json:"checklist_pre_offerta"`
	SummaryForClient    ClientSummary          `json:"summary_for_client"`
	QA                  QAReport               `json:"qa"`
}

// Analysis is the persisted record of one scan request.
type Analysis struct {
	AnalysisID  string         `json:"analysis_id"`
	UserID      string         `json:"user_id"`
	CaseID      string         `json:"case_id"`
	RunID       string         `json:"run_id"`
	Revision    int            `json:"revision"`
	CaseTitle   string         `json:"case_title,omitempty"`
	FileName    string         `json:"file_name"`
	StoragePath string         `json:"storage_path"`
	PageCount   int            `json:"page_count,omitempty"`
	Status      AnalysisStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	Result      *Verdict       `json:"result,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AnalysisRequest carries everything the analyzer needs for one scan.
type AnalysisRequest struct {
	CaseID    string
	RunID     string
	FileName  string
	PageCount int
	Text      string
}

// HeadlineCorrection is an owner-supplied fix of extracted header fields.
// Empty fields are left untouched.
type HeadlineCorrection struct {
	Tribunale   string `json:"tribunale,omitempty"`
	ProcedureID string `json:"procedure_id,omitempty"`
	Lotto       string `json:"lotto,omitempty"`
	Address     string `json:"address,omitempty"`
}

func (c HeadlineCorrection) Empty() bool {
	return c.Tribunale == "" && c.ProcedureID == "" && c.Lotto == "" && c.Address == ""
}
