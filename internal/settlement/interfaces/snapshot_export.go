package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	settlement "github.com/GCLGCLSCZ/flota-sabia-sub000/internal/settlement/domain"
)

const dayLayout = "2006-01-02"

// BuildSnapshotPDF renders a rendición PDF for a settlement snapshot.
func BuildSnapshotPDF(snapshot *settlement.SettlementSnapshot, items []settlement.SnapshotItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Investor Settlement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Investor: %s", snapshot.InvestorName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", snapshot.PeriodStart.Format(dayLayout), snapshot.PeriodEnd.Format(dayLayout)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Version: %d", snapshot.Version))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", snapshot.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", snapshot.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	if !snapshot.FrozenAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Frozen: %s", snapshot.FrozenAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Total To Pay (%s): %.2f", snapshot.Currency, snapshot.TotalToPay))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Paid To Investor: %.2f", snapshot.PaidToInvestor))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Pending To Pay: %.2f", snapshot.PendingToPay))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Admin Commission: %.2f", snapshot.AdminCommission))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("GPS Income: %.2f", snapshot.GPSIncome))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Maintenance Income: %.2f", snapshot.MaintenanceIncome))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Income: %.2f", snapshot.TotalIncome))
	pdf.Ln(8)

	// Per-vehicle table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 6, "Plate", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "To Pay", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Paid", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Pending", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Installments", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.CellFormat(35, 6, item.Plate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.TotalToPay), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.PaidToInvestor), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.PendingToPay), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", item.PaidInstallments), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSnapshotXLSX renders a rendición XLSX for a settlement snapshot.
func BuildSnapshotXLSX(snapshot *settlement.SettlementSnapshot, items []settlement.SnapshotItem) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	itemsSheet := "vehicles"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(itemsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Investor Settlement")
	_ = f.SetCellValue(summarySheet, "A3", "Investor")
	_ = f.SetCellValue(summarySheet, "B3", snapshot.InvestorName)
	_ = f.SetCellValue(summarySheet, "A4", "Period Start")
	_ = f.SetCellValue(summarySheet, "B4", snapshot.PeriodStart.Format(dayLayout))
	_ = f.SetCellValue(summarySheet, "A5", "Period End")
	_ = f.SetCellValue(summarySheet, "B5", snapshot.PeriodEnd.Format(dayLayout))
	_ = f.SetCellValue(summarySheet, "A6", "Version")
	_ = f.SetCellValue(summarySheet, "B6", snapshot.Version)
	_ = f.SetCellValue(summarySheet, "A7", "Status")
	_ = f.SetCellValue(summarySheet, "B7", snapshot.Status)
	_ = f.SetCellValue(summarySheet, "A8", "Total To Pay")
	_ = f.SetCellValue(summarySheet, "B8", snapshot.TotalToPay)
	_ = f.SetCellValue(summarySheet, "A9", "Paid To Investor")
	_ = f.SetCellValue(summarySheet, "B9", snapshot.PaidToInvestor)
	_ = f.SetCellValue(summarySheet, "A10", "Pending To Pay")
	_ = f.SetCellValue(summarySheet, "B10", snapshot.PendingToPay)
	_ = f.SetCellValue(summarySheet, "A11", "Admin Commission")
	_ = f.SetCellValue(summarySheet, "B11", snapshot.AdminCommission)
	_ = f.SetCellValue(summarySheet, "A12", "GPS Income")
	_ = f.SetCellValue(summarySheet, "B12", snapshot.GPSIncome)
	_ = f.SetCellValue(summarySheet, "A13", "Maintenance Income")
	_ = f.SetCellValue(summarySheet, "B13", snapshot.MaintenanceIncome)
	_ = f.SetCellValue(summarySheet, "A14", "Total Income")
	_ = f.SetCellValue(summarySheet, "B14", snapshot.TotalIncome)
	_ = f.SetCellValue(summarySheet, "A15", "Currency")
	_ = f.SetCellValue(summarySheet, "B15", snapshot.Currency)

	_ = f.SetCellValue(itemsSheet, "A1", "Vehicle")
	_ = f.SetCellValue(itemsSheet, "B1", "Plate")
	_ = f.SetCellValue(itemsSheet, "C1", "To Pay")
	_ = f.SetCellValue(itemsSheet, "D1", "Paid")
	_ = f.SetCellValue(itemsSheet, "E1", "Pending")
	_ = f.SetCellValue(itemsSheet, "F1", "Installments")
	for i, item := range items {
		row := i + 2
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), item.VehicleID)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), item.Plate)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", row), item.TotalToPay)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", row), item.PaidToInvestor)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", row), item.PendingToPay)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("F%d", row), item.PaidInstallments)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
