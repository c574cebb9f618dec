package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func TestAnalyzeImagesRecordsRun(t *testing.T) {
	analyzer := &forensicsAnalyzerFake{}
	repo := &forensicsRepoFake{}
	users := newUserRepoFake()
	uc := NewForensicsUseCase(analyzer, repo, users)

	record, err := uc.AnalyzeImages(context.Background(), testUser(), "", []string{"aW1n", "aW1nMg=="})
	if err != nil {
		t.Fatalf("AnalyzeImages() error = %v", err)
	}
	if !strings.HasPrefix(record.CaseID, "case_") || !strings.HasPrefix(record.RunID, "img_run_") {
		t.Fatalf("unexpected ids %s %s", record.CaseID, record.RunID)
	}
	if record.ImageCount != 2 {
		t.Fatalf("expected image count 2, got %d", record.ImageCount)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected run persisted")
	}
	if len(users.quotaCalls) != 1 || users.quotaCalls[0].counter != imageQuotaCounter {
		t.Fatalf("expected one image charge, got %v", users.quotaCalls)
	}
	if len(analyzer.images) != 2 {
		t.Fatalf("expected both images forwarded, got %d", len(analyzer.images))
	}
}

func TestAnalyzeImagesKeepsSuppliedCaseID(t *testing.T) {
	uc := NewForensicsUseCase(&forensicsAnalyzerFake{}, &forensicsRepoFake{}, newUserRepoFake())

	record, err := uc.AnalyzeImages(context.Background(), testUser(), "case_known", []string{"aW1n"})
	if err != nil {
		t.Fatalf("AnalyzeImages() error = %v", err)
	}
	if record.CaseID != "case_known" {
		t.Fatalf("expected case_known, got %s", record.CaseID)
	}
}

func TestAnalyzeImagesRejectsEmptyBatch(t *testing.T) {
	uc := NewForensicsUseCase(&forensicsAnalyzerFake{}, &forensicsRepoFake{}, newUserRepoFake())

	_, err := uc.AnalyzeImages(context.Background(), testUser(), "", nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAnalyzeImagesRejectsOversizedBatch(t *testing.T) {
	uc := NewForensicsUseCase(&forensicsAnalyzerFake{}, &forensicsRepoFake{}, newUserRepoFake())

	images := make([]string, maxImagesPerScan+1)
	for i := range images {
		images[i] = "aW1n"
	}
	_, err := uc.AnalyzeImages(context.Background(), testUser(), "", images)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAnalyzeImagesAnalyzerFailureRefunds(t *testing.T) {
	users := newUserRepoFake()
	analyzer := &forensicsAnalyzerFake{err: errors.New("vision model down")}
	uc := NewForensicsUseCase(analyzer, &forensicsRepoFake{}, users)

	_, err := uc.AnalyzeImages(context.Background(), testUser(), "", []string{"aW1n"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(users.quotaCalls) != 2 || users.quotaCalls[1].delta != 1 {
		t.Fatalf("expected charge then refund, got %v", users.quotaCalls)
	}
}
