package payslip

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payslip"
	"github.com/jung-kurt/gofpdf"
)

// rupeeFallback replaces the rupee sign, which the cp1252 core fonts lack.
const rupeeFallback = "Rs."

// PDFRenderer draws the document blocks on one A4 page.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var _ payslip.Renderer = (*PDFRenderer)(nil)

func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return ".pdf" }

type page struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	width float64
}

func (p *page) text(s string) string {
	return p.tr(strings.ReplaceAll(s, "₹", rupeeFallback))
}

func (r *PDFRenderer) Render(w io.Writer, doc payslip.Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), width: pageW - left - right}

	for _, block := range doc.Blocks() {
		switch block.Kind {
		case payslip.BlockHeader:
			p.header(*block.Header)
		case payslip.BlockIdentity:
			p.identity(*block.Identity)
		case payslip.BlockWorkedDays:
			p.workedDays(*block.WorkedDays)
		case payslip.BlockEarningsDeductions:
			p.earningsDeductions(*block.EarningsDeductions)
		case payslip.BlockNetPayable:
			p.netPayable(*block.NetPayable)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render payslip: %w", err)
	}
	return pdf.Output(w)
}

func (p *page) header(h payslip.HeaderBlock) {
	p.pdf.SetFillColor(31, 41, 55)
	p.pdf.SetTextColor(255, 255, 255)
	p.pdf.SetFont("Helvetica", "B", 16)
	p.pdf.CellFormat(p.width, 12, p.text(h.CompanyName), "", 1, "L", true, 0, "")
	p.pdf.SetFillColor(30, 64, 175)
	p.pdf.SetFont("Helvetica", "B", 13)
	p.pdf.CellFormat(p.width, 10, p.text(h.Title), "", 1, "L", true, 0, "")
	p.pdf.SetTextColor(30, 41, 59)
	p.pdf.Ln(4)
}

func (p *page) identity(id payslip.IdentityBlock) {
	half := p.width / 2
	p.pdf.SetFont("Helvetica", "", 10)
	for i := 0; i < max(len(id.Left), len(id.Right)); i++ {
		p.field(id.Left, i, half)
		p.field(id.Right, i, half)
		p.pdf.Ln(6)
	}
	p.pdf.Ln(4)
}

func (p *page) field(fields []payslip.Field, i int, width float64) {
	if i >= len(fields) {
		p.pdf.CellFormat(width, 6, "", "", 0, "L", false, 0, "")
		return
	}
	p.pdf.CellFormat(width*0.4, 6, p.text(fields[i].Label), "", 0, "L", false, 0, "")
	p.pdf.CellFormat(width*0.6, 6, ": "+p.text(fields[i].Value), "", 0, "L", false, 0, "")
}

func (p *page) workedDays(wd payslip.WorkedDaysBlock) {
	half := p.width / 2
	p.headerRow(wd.Headers[:], half)
	p.pdf.SetFont("Helvetica", "", 10)
	for _, row := range wd.Rows {
		p.pdf.CellFormat(half, 7, p.text(row.Label), "LB", 0, "L", false, 0, "")
		p.pdf.CellFormat(half, 7, p.text(row.Value), "RB", 1, "L", false, 0, "")
	}
	p.pdf.Ln(4)
}

func (p *page) earningsDeductions(ed payslip.EarningsDeductionsBlock) {
	quarter := p.width / 4
	p.headerRow(ed.Headers[:], quarter)
	p.pdf.SetFont("Helvetica", "", 9)
	for _, row := range ed.Rows {
		p.amount(row.Earning, quarter, false)
		p.amount(row.Deduction, quarter, false)
		p.pdf.Ln(7)
	}
	p.pdf.SetFont("Helvetica", "B", 10)
	p.pdf.SetFillColor(241, 245, 249)
	p.amount(&ed.Gross, quarter, true)
	p.amount(&ed.TotalDeductions, quarter, true)
	p.pdf.Ln(11)
}

func (p *page) amount(cell *payslip.AmountCell, width float64, fill bool) {
	if cell == nil {
		p.pdf.CellFormat(width*2, 7, "", "", 0, "L", false, 0, "")
		return
	}
	p.pdf.CellFormat(width, 7, p.text(cell.Name), "", 0, "L", fill, 0, "")
	p.pdf.CellFormat(width, 7, p.text(cell.Amount), "", 0, "L", fill, 0, "")
}

func (p *page) netPayable(np payslip.NetPayableBlock) {
	half := p.width / 2
	p.pdf.SetFillColor(6, 182, 212)
	p.pdf.SetFont("Helvetica", "B", 12)
	p.pdf.CellFormat(half, 8, p.text(np.Title), "", 0, "L", true, 0, "")
	p.pdf.CellFormat(half, 8, p.text(np.Net), "", 1, "R", true, 0, "")
	p.pdf.SetFont("Helvetica", "", 10)
	p.pdf.CellFormat(half, 7, p.text(np.Formula), "", 0, "L", true, 0, "")
	p.pdf.CellFormat(half, 7, p.text(np.Expression), "", 1, "R", true, 0, "")
}

func (p *page) headerRow(labels []string, width float64) {
	p.pdf.SetFont("Helvetica", "B", 10)
	p.pdf.SetFillColor(192, 132, 252)
	p.pdf.SetTextColor(255, 255, 255)
	for _, label := range labels {
		p.pdf.CellFormat(width, 8, p.text(label), "", 0, "L", true, 0, "")
	}
	p.pdf.Ln(-1)
	p.pdf.SetTextColor(30, 41, 59)
}
