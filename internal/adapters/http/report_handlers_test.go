package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func readyAnalysisFixture() *domain.Analysis {
	verdict := domain.FallbackVerdict("case_1", "run_1", 1, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	verdict.SemaforoGenerale.Status = domain.SemaforoGreen
	verdict.SemaforoGenerale.ReasonIT = "Nessuna criticità rilevata"
	return &domain.Analysis{
		AnalysisID: "analysis_1",
		UserID:     "user_1",
		CaseID:     "case_1",
		RunID:      "run_1",
		Revision:   1,
		FileName:   "perizia.pdf",
		Status:     domain.AnalysisReady,
		Result:     verdict,
	}
}

func TestReportHTMLRendersItalianReport(t *testing.T) {
	fakes := defaultFakes()
	fakes.reader.analysis = readyAnalysisFixture()
	handler := newTestHandler(t, fakes)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, authedRequest(http.MethodGet, "/api/analysis/perizia/analysis_1/html", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", res.Code, res.Body.String())
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Nessuna criticità rilevata") {
		t.Fatalf("semaforo reason missing from report")
	}
	if !strings.Contains(body, "AVVISO IMPORTANTE") {
		t.Fatalf("disclaimer missing from report")
	}
}

func TestReportPDFSetsDownloadHeaders(t *testing.T) {
	fakes := defaultFakes()
	fakes.reader.analysis = readyAnalysisFixture()
	handler := newTestHandler(t, fakes)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, authedRequest(http.MethodGet, "/api/analysis/perizia/analysis_1/pdf", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := res.Header().Get("Content-Disposition"); !strings.Contains(cd, "nexodify_report_analysis_1.pdf") {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestReportUnreadyAnalysisConflicts(t *testing.T) {
	fakes := defaultFakes()
	fakes.reader.analysis = &domain.Analysis{
		AnalysisID: "analysis_1",
		UserID:     "user_1",
		Status:     domain.AnalysisProcessing,
	}
	handler := newTestHandler(t, fakes)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, authedRequest(http.MethodGet, "/api/analysis/perizia/analysis_1/html", nil))

	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", res.Code)
	}
	if !strings.Contains(res.Body.String(), "processing") {
		t.Fatalf("expected current status in body, got %s", res.Body.String())
	}
}
