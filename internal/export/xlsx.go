// Package export produces the back-office XLSX workbook: one sheet of
// user accounts, one of payment transactions.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

// maxExportRows bounds a single workbook; admins filter narrower
// windows through the API rather than exporting everything at once.
const maxExportRows = 10000

type Service struct {
	users  ports.UserRepository
	txns   ports.TransactionRepository
	logger *slog.Logger
}

func NewService(users ports.UserRepository, txns ports.TransactionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, txns: txns, logger: logger}
}

// BackOfficeXLSX builds the full workbook as bytes.
func (s *Service) BackOfficeXLSX(ctx context.Context) ([]byte, error) {
	users, _, err := s.users.List(ctx, "", maxExportRows, 0)
	if err != nil {
		return nil, fmt.Errorf("list users for export: %w", err)
	}
	txns, _, err := s.txns.List(ctx, maxExportRows, 0)
	if err != nil {
		return nil, fmt.Errorf("list transactions for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("close export workbook", "error", err)
		}
	}()

	if err := s.writeUsersSheet(f, users); err != nil {
		return nil, err
	}
	if err := s.writeTransactionsSheet(f, txns); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Users.
	if idx, err := f.GetSheetIndex("Users"); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) writeUsersSheet(f *excelize.File, users []domain.User) error {
	const sheet = "Users"
	if err := renameDefaultOrCreate(f, sheet); err != nil {
		return err
	}

	headers := []string{
		"User ID", "Email", "Name", "Plan", "Master Admin",
		"Perizia Scans Left", "Image Scans Left", "Assistant Messages Left", "Created At",
	}
	writeHeaderRow(f, sheet, headers)

	for i, u := range users {
		row := i + 2
		writeRow(f, sheet, row, []any{
			u.UserID, u.Email, u.Name, u.Plan, u.IsMasterAdmin,
			u.Quota.PeriziaScansRemaining, u.Quota.ImageScansRemaining, u.Quota.AssistantMessagesRemaining,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return nil
}

func (s *Service) writeTransactionsSheet(f *excelize.File, txns []domain.Transaction) error {
	const sheet = "Transactions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", sheet, err)
	}

	headers := []string{
		"Transaction ID", "User ID", "Checkout Session", "Plan",
		"Amount", "Currency", "Status", "Payment Status", "Created At",
	}
	writeHeaderRow(f, sheet, headers)

	for i, t := range txns {
		row := i + 2
		writeRow(f, sheet, row, []any{
			t.TransactionID, t.UserID, t.CheckoutSessionID, t.PlanID,
			t.Amount, t.Currency, string(t.Status), string(t.PaymentStatus),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return nil
}

func renameDefaultOrCreate(f *excelize.File, sheet string) error {
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create %s sheet: %w", sheet, err)
		}
	}
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
