package handler

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

// InvoiceGrpcHandler は InvoiceService の gRPC 実装です。
type InvoiceGrpcHandler struct {
	svc invoice.UseCase
}

// NewInvoiceGrpcHandler は InvoiceGrpcHandler を生成します。
func NewInvoiceGrpcHandler(svc invoice.UseCase) *InvoiceGrpcHandler {
	return &InvoiceGrpcHandler{svc: svc}
}

// Methods は InvoiceService のメソッド表を返します。
func (h *InvoiceGrpcHandler) Methods() rpc.Methods {
	return rpc.Methods{
		rpc.MethodCreateInvoice: h.CreateInvoice,
		rpc.MethodGetInvoice:    h.GetInvoice,
		rpc.MethodListInvoices:  h.ListInvoices,
		rpc.MethodUpdateInvoice: h.UpdateInvoice,
		rpc.MethodDeleteInvoice: h.DeleteInvoice,
	}
}

// CreateInvoice は請求書を作成します。
func (h *InvoiceGrpcHandler) CreateInvoice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)

	issue, err := f.Date(rpc.FieldIssueDate)
	if err != nil {
		return nil, invalidArgument(err)
	}
	due, err := f.Date(rpc.FieldDueDate)
	if err != nil {
		return nil, invalidArgument(err)
	}
	amount, err := amountOf(f)
	if err != nil {
		return nil, invalidArgument(err)
	}

	in := invoice.CreateInvoiceInput{
		InvoiceNumber: f.String(rpc.FieldInvoiceNumber),
		Company:       f.String(rpc.FieldCompany),
		IssueDate:     issue,
		DueDate:       due,
		Amount:        amount,
		Description:   f.String(rpc.FieldDescription),
	}
	if raw := f.String(rpc.FieldStatus); raw != "" {
		st, err := invoice.ParseStatus(raw)
		if err != nil {
			return nil, toStatusError(err)
		}
		in.Status = &st
	}

	created, err := h.svc.CreateInvoice(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return invoiceResponse(created)
}

// GetInvoice は請求書を取得します。
func (h *InvoiceGrpcHandler) GetInvoice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	found, err := h.svc.GetInvoice(ctx, invoice.GetInvoiceInput{ID: rpc.Read(req).String(rpc.FieldID)})
	if err != nil {
		return nil, toStatusError(err)
	}
	return invoiceResponse(found)
}

// ListInvoices は請求書の一覧を作成日時の新しい順に返します。
func (h *InvoiceGrpcHandler) ListInvoices(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	invoices, err := h.svc.ListInvoices(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]*structpb.Struct, 0, len(invoices))
	for _, inv := range invoices {
		item, err := rpc.EncodeInvoice(inv)
		if err != nil {
			return nil, toStatusError(err)
		}
		items = append(items, item)
	}
	return rpc.ListOf(rpc.FieldInvoices, items), nil
}

// UpdateInvoice は指定されたフィールドのみを更新します。
func (h *InvoiceGrpcHandler) UpdateInvoice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)

	in := invoice.UpdateInvoiceInput{
		ID:            f.String(rpc.FieldID),
		InvoiceNumber: f.OptString(rpc.FieldInvoiceNumber),
		Company:       f.OptString(rpc.FieldCompany),
		Description:   f.OptString(rpc.FieldDescription),
	}

	if f.Has(rpc.FieldIssueDate) {
		issue, err := f.Date(rpc.FieldIssueDate)
		if err != nil {
			return nil, invalidArgument(err)
		}
		if issue == nil {
			return nil, toStatusError(invoice.ErrInvalidIssueDate)
		}
		in.IssueDate = issue
	}

	if f.Has(rpc.FieldDueDate) {
		due, err := f.Date(rpc.FieldDueDate)
		if err != nil {
			return nil, invalidArgument(err)
		}
		if due == nil {
			return nil, toStatusError(invoice.ErrInvalidDueDate)
		}
		in.DueDate = due
	}

	if f.Has(rpc.FieldAmount) {
		amount, err := amountOf(f)
		if err != nil {
			return nil, invalidArgument(err)
		}
		in.Amount = &amount
	}

	if raw := f.OptString(rpc.FieldStatus); raw != nil {
		st, err := invoice.ParseStatus(*raw)
		if err != nil {
			return nil, toStatusError(err)
		}
		in.Status = &st
	}

	updated, err := h.svc.UpdateInvoice(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return invoiceResponse(updated)
}

// DeleteInvoice は請求書を削除します。
func (h *InvoiceGrpcHandler) DeleteInvoice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.svc.DeleteInvoice(ctx, invoice.DeleteInvoiceInput{ID: rpc.Read(req).String(rpc.FieldID)}); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{}, nil
}

// amountOf は金額を文字列または数値として受け付けます。
func amountOf(f rpc.Fields) (decimal.Decimal, error) {
	if raw := f.String(rpc.FieldAmount); raw != "" {
		return rpc.ParseAmount(raw)
	}
	return decimal.NewFromFloat(f.Number(rpc.FieldAmount)), nil
}

func invoiceResponse(inv *invoice.Invoice) (*structpb.Struct, error) {
	item, err := rpc.EncodeInvoice(inv)
	if err != nil {
		return nil, toStatusError(err)
	}
	return rpc.Wrap(rpc.FieldInvoice, item), nil
}
