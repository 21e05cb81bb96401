package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"go-thread/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

func formatAmount(a domain.Amount) string {
	return amountPrinter.Sprintf("INR %d", int64(a))
}

func payslipLines(p PayrollResponse, period string) []string {
	lines := []string{
		fmt.Sprintf("%s - Payslip %s", p.CompanyName, period),
		"",
		fmt.Sprintf("Employee: %s (%s)", p.Name, p.EmployeeID),
	}
	if p.Designation != "" {
		lines = append(lines, fmt.Sprintf("Designation: %s, %s", p.Designation, p.Department))
	}
	lines = append(lines,
		fmt.Sprintf("Wage type: %s", p.Salary.WageType),
		fmt.Sprintf("Total wage: %s", formatAmount(p.Salary.TotalWage)),
		"",
		"Earnings",
	)
	for _, l := range p.Lines {
		if !l.Deduction {
			lines = append(lines, fmt.Sprintf("  %-24s %s", l.Label, formatAmount(l.Amount)))
		}
	}
	lines = append(lines, "", "Deductions")
	for _, l := range p.Lines {
		if l.Deduction {
			lines = append(lines, fmt.Sprintf("  %-24s %s", l.Label, formatAmount(l.Amount)))
		}
	}
	return append(lines, "", fmt.Sprintf("Net pay: %s", formatAmount(p.NetPay)))
}

// buildSimplePayslipPDF renders lines as a single Helvetica page.
func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			fmt.Fprintf(&content, "(%s) Tj\n", escaped)
			continue
		}
		fmt.Fprintf(&content, "T* (%s) Tj\n", escaped)
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(offsets))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart)

	return out.Bytes(), nil
}

// pdfEscape escapes string literal delimiters and replaces runes outside
// printable ASCII with "?".
func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, replacer.Replace(v))
}
