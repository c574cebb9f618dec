package httpadapter

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/report"
)

func (rt *Router) uploadPerizia(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	analysis, err := rt.ingest.Upload(
		r.Context(),
		user,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		if domain.IsKind(err, domain.ErrQuotaExceeded) {
			rt.metrics.RecordQuotaDenied(serviceName, "perizia")
		}
		writeError(w, err)
		return
	}

	rt.metrics.RecordScanSubmitted(serviceName, "perizia")
	writeJSON(w, http.StatusAccepted, analysis)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	analysis, err := rt.analyses.GetOwned(r.Context(), user, r.PathValue("analysis_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) correctHeadline(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var correction domain.HeadlineCorrection
	if err := decodeJSON(r, &correction); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	analysis, err := rt.analyses.CorrectHeadline(r.Context(), user, r.PathValue("analysis_id"), correction)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) reportHTML(w http.ResponseWriter, r *http.Request) {
	rt.renderReport(w, r, "html")
}

// reportPDF serves the print-ready report as a download. The HTML
// carries print CSS, so the browser's PDF pipeline does the layout.
func (rt *Router) reportPDF(w http.ResponseWriter, r *http.Request) {
	rt.renderReport(w, r, "pdf")
}

func (rt *Router) renderReport(w http.ResponseWriter, r *http.Request, format string) {
	user := userFromContext(r.Context())

	analysis, err := rt.analyses.GetOwned(r.Context(), user, r.PathValue("analysis_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if analysis.Status != domain.AnalysisReady || analysis.Result == nil {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "analysis is not ready",
			"status": string(analysis.Status),
		})
		return
	}

	if format == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="nexodify_report_%s.pdf"`, analysis.AnalysisID))
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	if err := report.RenderHTML(w, analysis); err != nil {
		rt.logger.Error("report_render_failed", "analysis_id", analysis.AnalysisID, "error", err)
		return
	}
	rt.metrics.RecordReportRender(serviceName, format)
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func (rt *Router) analyzeImages(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}

	images := make([]string, 0, len(files))
	for _, header := range files {
		if !imageExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("invalid image format: %s", header.Filename),
			})
			return
		}
		img, err := readImageBase64(header)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("unreadable image: %s", header.Filename),
			})
			return
		}
		images = append(images, img)
	}

	record, err := rt.forensics.AnalyzeImages(r.Context(), user, r.FormValue("case_id"), images)
	if err != nil {
		if domain.IsKind(err, domain.ErrQuotaExceeded) {
			rt.metrics.RecordQuotaDenied(serviceName, "image")
		}
		writeError(w, err)
		return
	}

	rt.metrics.RecordScanSubmitted(serviceName, "image")
	writeJSON(w, http.StatusOK, record)
}

func readImageBase64(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
