package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status は請求書の支払状態を表します。
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Invoice は請求書レコードです。Amount は通貨を持たずに保存されます。
type Invoice struct {
	ID            string
	InvoiceNumber string
	Company       string
	IssueDate     time.Time
	DueDate       time.Time
	Amount        decimal.Decimal
	Status        Status
	Description   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AmountScale は保存できる金額の小数点以下の桁数です。
const AmountScale = 2

// DueBeforeIssue は支払期日が発行日より前かを返します。保存は妨げません。
func (inv *Invoice) DueBeforeIssue() bool {
	return inv.DueDate.Before(inv.IssueDate)
}
