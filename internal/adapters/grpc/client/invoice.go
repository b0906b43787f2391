package client

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
)

var _ invoice.UseCase = (*Client)(nil)

// CreateInvoice は請求書を作成します。
func (c *Client) CreateInvoice(ctx context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error) {
	fields := map[string]any{
		rpc.FieldInvoiceNumber: in.InvoiceNumber,
		rpc.FieldCompany:       in.Company,
		rpc.FieldAmount:        in.Amount.String(),
		rpc.FieldDescription:   in.Description,
	}
	setDate(fields, rpc.FieldIssueDate, in.IssueDate)
	setDate(fields, rpc.FieldDueDate, in.DueDate)
	if in.Status != nil {
		fields[rpc.FieldStatus] = string(*in.Status)
	}

	req, err := newRequest(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.InvoiceService, rpc.MethodCreateInvoice, req, invoice.Collection, storeerr.OpCreate)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeInvoice(rpc.Read(resp).Struct(rpc.FieldInvoice))
}

// GetInvoice は請求書を取得します。
func (c *Client) GetInvoice(ctx context.Context, in invoice.GetInvoiceInput) (*invoice.Invoice, error) {
	resp, err := c.call(ctx, rpc.InvoiceService, rpc.MethodGetInvoice, idRequest(in.ID), invoice.Collection, storeerr.OpGet)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeInvoice(rpc.Read(resp).Struct(rpc.FieldInvoice))
}

// ListInvoices は全ての請求書を作成日時の新しい順に返します。
func (c *Client) ListInvoices(ctx context.Context) ([]*invoice.Invoice, error) {
	resp, err := c.call(ctx, rpc.InvoiceService, rpc.MethodListInvoices, nil, invoice.Collection, storeerr.OpList)
	if err != nil {
		return nil, err
	}

	items := rpc.Read(resp).List(rpc.FieldInvoices)
	out := make([]*invoice.Invoice, 0, len(items))
	for _, item := range items {
		inv, err := rpc.DecodeInvoice(item)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// UpdateInvoice は in で指定されたフィールドのみを送信します。
func (c *Client) UpdateInvoice(ctx context.Context, in invoice.UpdateInvoiceInput) (*invoice.Invoice, error) {
	fields := map[string]any{rpc.FieldID: in.ID}
	setString(fields, rpc.FieldInvoiceNumber, in.InvoiceNumber)
	setString(fields, rpc.FieldCompany, in.Company)
	setDate(fields, rpc.FieldIssueDate, in.IssueDate)
	setDate(fields, rpc.FieldDueDate, in.DueDate)
	if in.Amount != nil {
		fields[rpc.FieldAmount] = in.Amount.String()
	}
	if in.Status != nil {
		fields[rpc.FieldStatus] = string(*in.Status)
	}
	setString(fields, rpc.FieldDescription, in.Description)

	req, err := newRequest(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.InvoiceService, rpc.MethodUpdateInvoice, req, invoice.Collection, storeerr.OpUpdate)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeInvoice(rpc.Read(resp).Struct(rpc.FieldInvoice))
}

// DeleteInvoice は請求書を削除します。
func (c *Client) DeleteInvoice(ctx context.Context, in invoice.DeleteInvoiceInput) error {
	_, err := c.call(ctx, rpc.InvoiceService, rpc.MethodDeleteInvoice, idRequest(in.ID), invoice.Collection, storeerr.OpDelete)
	return err
}
