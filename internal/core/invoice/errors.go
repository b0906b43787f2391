package invoice

import "errors"

var (
	ErrInvalidID            = errors.New("invoice: invalid id")
	ErrInvalidInvoiceNumber = errors.New("invoice: invalid invoice number")
	ErrInvalidCompany       = errors.New("invoice: invalid company")
	ErrInvalidIssueDate     = errors.New("invoice: invalid issue date")
	ErrInvalidDueDate       = errors.New("invoice: invalid due date")
	ErrInvalidAmount        = errors.New("invoice: invalid amount")
	ErrAmountPrecision      = errors.New("invoice: amount has more than 2 decimal places")
	ErrInvalidStatus        = errors.New("invoice: invalid status")
)
