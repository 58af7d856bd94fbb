package payslip

// BlockKind names the five payslip blocks in their fixed order.
type BlockKind string

const (
	BlockHeader             BlockKind = "header"
	BlockIdentity           BlockKind = "identity"
	BlockWorkedDays         BlockKind = "worked_days"
	BlockEarningsDeductions BlockKind = "earnings_deductions"
	BlockNetPayable         BlockKind = "net_payable"
)

// BlockOrder is the layout contract consumed by renderers.
var BlockOrder = []BlockKind{
	BlockHeader,
	BlockIdentity,
	BlockWorkedDays,
	BlockEarningsDeductions,
	BlockNetPayable,
}

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type HeaderBlock struct {
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
}

// IdentityBlock is laid out in two columns.
type IdentityBlock struct {
	Left  []Field `json:"left"`
	Right []Field `json:"right"`
}

type WorkedDaysBlock struct {
	Headers [2]string `json:"headers"`
	Rows    []Field   `json:"rows"`
}

type AmountCell struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// EarningsDeductionsRow pairs the i-th earning with the i-th deduction. Either
// side is nil once its column runs out.
type EarningsDeductionsRow struct {
	Earning   *AmountCell `json:"earning"`
	Deduction *AmountCell `json:"deduction"`
}

type EarningsDeductionsBlock struct {
	Headers         [4]string               `json:"headers"`
	Rows            []EarningsDeductionsRow `json:"rows"`
	Gross           AmountCell              `json:"gross"`
	TotalDeductions AmountCell              `json:"total_deductions"`
}

type NetPayableBlock struct {
	Title      string `json:"title"`
	Formula    string `json:"formula"`
	Gross      string `json:"gross"`
	Deductions string `json:"deductions"`
	Net        string `json:"net"`
	Expression string `json:"expression"`
}

// Document is the payslip model. It carries display strings only.
type Document struct {
	PayrunID           string
	EmployeeID         string
	Header             HeaderBlock
	Identity           IdentityBlock
	WorkedDays         WorkedDaysBlock
	EarningsDeductions EarningsDeductionsBlock
	NetPayable         NetPayableBlock
}

// Block is one entry of the ordered block list.
type Block struct {
	Kind               BlockKind                `json:"kind"`
	Header             *HeaderBlock             `json:"header,omitempty"`
	Identity           *IdentityBlock           `json:"identity,omitempty"`
	WorkedDays         *WorkedDaysBlock         `json:"worked_days,omitempty"`
	EarningsDeductions *EarningsDeductionsBlock `json:"earnings_deductions,omitempty"`
	NetPayable         *NetPayableBlock         `json:"net_payable,omitempty"`
}

// Blocks returns the document in BlockOrder.
func (d Document) Blocks() []Block {
	return []Block{
		{Kind: BlockHeader, Header: &d.Header},
		{Kind: BlockIdentity, Identity: &d.Identity},
		{Kind: BlockWorkedDays, WorkedDays: &d.WorkedDays},
		{Kind: BlockEarningsDeductions, EarningsDeductions: &d.EarningsDeductions},
		{Kind: BlockNetPayable, NetPayable: &d.NetPayable},
	}
}

type DocumentResponse struct {
	PayrunID   string  `json:"payrun_id"`
	EmployeeID string  `json:"employee_id"`
	Blocks     []Block `json:"blocks"`
}

func NewDocumentResponse(d Document) DocumentResponse {
	return DocumentResponse{PayrunID: d.PayrunID, EmployeeID: d.EmployeeID, Blocks: d.Blocks()}
}
