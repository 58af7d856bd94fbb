package payslip

import (
	"context"
	"io"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// Assembler projects a computed line onto the document model.
type Assembler interface {
	Assemble(line payroll.Line, emp employee.Employee, payrun payroll.Payrun) (Document, error)
}

// Renderer turns a document into a file format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
	ContentType() string
	Extension() string
}

type PublishResult struct {
	PayrunID  string            `json:"payrun_id"`
	Published int               `json:"published"`
	Skipped   int               `json:"skipped"`
	Files     map[string]string `json:"files"` // employee id -> URL
}

type PayslipService interface {
	// Get assembles one payslip
	Get(ctx context.Context, actor identity.Identity, payrunID, employeeID string) (Document, error)
	// Render assembles and renders one payslip, returning the file name
	Render(ctx context.Context, actor identity.Identity, payrunID, employeeID string, w io.Writer) (string, error)
	// Publish renders every computed payslip of a completed payrun into storage
	Publish(ctx context.Context, actor identity.Identity, payrunID string) (PublishResult, error)
}
