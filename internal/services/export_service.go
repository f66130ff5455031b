package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/querybuilder"
	"github.com/guironm/crew-center/internal/repositories"
	"github.com/guironm/crew-center/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

const employeeSheet = "Employees"

var exportHeaders = []string{"Name", "Email", "Role", "Department", "Status", "Salary", "Hire date"}

// ExportService renders the employee directory. Both formats accept the same
// parameters as the employee search endpoint.
type ExportService struct {
	Employees repositories.EmployeeRepository
	Now       func() time.Time
}

func (s ExportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s ExportService) load(ctx context.Context, raw map[string]string) ([]models.Employee, error) {
	return s.Employees.FindMany(ctx, querybuilder.Employees.Build(raw))
}

func exportRow(e models.Employee) []string {
	dept := "-"
	if e.Department != nil {
		dept = e.Department.Name
	}
	return []string{
		e.Name,
		e.Email,
		e.Role,
		dept,
		string(e.Status),
		utils.FormatSalary(e.Salary),
		utils.FormatOptionalDate(e.HireDate),
	}
}

// EmployeesPDF returns the directory as a landscape A4 table.
func (s ExportService) EmployeesPDF(ctx context.Context, raw map[string]string) ([]byte, string, error) {
	employees, err := s.load(ctx, raw)
	if err != nil {
		return nil, "", err
	}
	now := s.now()

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Employee Directory", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "EMPLOYEE DIRECTORY")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s - %d employee(s)", now.Format("2006-01-02 15:04"), len(employees)))
	pdf.Ln(10)

	widths := []float64{45, 65, 45, 35, 22, 25, 25}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range exportHeaders {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, e := range employees {
		for i, v := range exportRow(e) {
			align := "L"
			if i == 5 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.Internal("failed to render employee pdf", err)
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "export", "pdf", fmt.Sprintf("rows=%d", len(employees)))
	return buf.Bytes(), fmt.Sprintf("employees_%s.pdf", now.Format("20060102")), nil
}

// EmployeesXLSX returns the directory as a single-sheet workbook with
// numeric salary cells.
func (s ExportService) EmployeesXLSX(ctx context.Context, raw map[string]string) ([]byte, string, error) {
	employees, err := s.load(ctx, raw)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", employeeSheet); err != nil {
		return nil, "", domain.Internal("failed to prepare workbook", err)
	}

	header := make([]any, 0, len(exportHeaders))
	for _, h := range exportHeaders {
		header = append(header, h)
	}
	if err := f.SetSheetRow(employeeSheet, "A1", &header); err != nil {
		return nil, "", domain.Internal("failed to write workbook header", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(employeeSheet, "A1", "G1", style)
	}

	for i, e := range employees {
		cells := exportRow(e)
		row := []any{cells[0], cells[1], cells[2], cells[3], cells[4], e.Salary, cells[6]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", domain.Internal("failed to address workbook row", err)
		}
		if err := f.SetSheetRow(employeeSheet, cell, &row); err != nil {
			return nil, "", domain.Internal("failed to write workbook row", err)
		}
	}
	_ = f.SetColWidth(employeeSheet, "A", "G", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", domain.Internal("failed to render employee workbook", err)
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "export", "xlsx", fmt.Sprintf("rows=%d", len(employees)))
	return buf.Bytes(), fmt.Sprintf("employees_%s.xlsx", s.now().Format("20060102")), nil
}
