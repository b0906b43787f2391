package rpc

import (
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

// ValidationErrors は InvalidArgument として送受信される入力検証エラーです。
// クライアントはメッセージからこれらを復元します。
var ValidationErrors = []error{
	personnel.ErrInvalidID,
	personnel.ErrInvalidName,
	personnel.ErrInvalidType,
	personnel.ErrInvalidCompany,
	personnel.ErrInvalidPosition,
	personnel.ErrInvalidStartDate,
	personnel.ErrInvalidEmail,
	invoice.ErrInvalidID,
	invoice.ErrInvalidInvoiceNumber,
	invoice.ErrInvalidCompany,
	invoice.ErrInvalidIssueDate,
	invoice.ErrInvalidDueDate,
	invoice.ErrInvalidAmount,
	invoice.ErrAmountPrecision,
	invoice.ErrInvalidStatus,
	transfer.ErrInvalidID,
	transfer.ErrInvalidEngineerID,
	transfer.ErrInvalidToCompany,
	transfer.ErrInvalidTransferDate,
	transfer.ErrSameCompany,
}
