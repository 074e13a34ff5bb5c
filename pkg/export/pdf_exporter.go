package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/uniport/uniport-portal/internal/models"
)

// RegistrationFormPDF renders a registration form as a printable A4 table.
func RegistrationFormPDF(form *models.RegistrationForm) ([]byte, error) {
	if form == nil {
		return nil, fmt.Errorf("pdf requires a registration form")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "REGISTRATION FORM", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Semester: %s", orDash(form.Semester)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Program: %s", orDash(form.Program)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Code", "Title", "Section", "Units", "Status"}
	widths := []float64{25, 85, 25, 20, 35}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, course := range form.Courses {
		cells := []string{
			course.SubjectCode,
			course.SubjectTitle,
			course.Section,
			strconv.Itoa(course.Units),
			string(course.Status),
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 7, orDash(v), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Total Units", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, strconv.Itoa(form.TotalUnits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[4], 8, "", "1", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
