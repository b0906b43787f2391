package client

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
)

var _ transfer.UseCase = (*Client)(nil)

// RecordTransfer は異動を記録し、更新後の人員とともに返します。
func (c *Client) RecordTransfer(ctx context.Context, in transfer.RecordTransferInput) (*transfer.Result, error) {
	fields := map[string]any{
		rpc.FieldEngineerID:   in.EngineerID,
		rpc.FieldEngineerName: in.EngineerName,
		rpc.FieldFromCompany:  in.FromCompany,
		rpc.FieldToCompany:    in.ToCompany,
		rpc.FieldReason:       in.Reason,
	}
	setDate(fields, rpc.FieldTransferDate, in.TransferDate)

	req, err := newRequest(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.TransferService, rpc.MethodRecordTransfer, req, transfer.Collection, storeerr.OpCreate)
	if err != nil {
		return nil, err
	}

	f := rpc.Read(resp)
	record, err := rpc.DecodeTransfer(f.Struct(rpc.FieldRecord))
	if err != nil {
		return nil, err
	}
	result := &transfer.Result{Record: record}
	if person := f.Struct(rpc.FieldPerson); person != nil {
		if result.Person, err = rpc.DecodePerson(person); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListTransfers は異動履歴を返します。
func (c *Client) ListTransfers(ctx context.Context, in transfer.ListTransfersInput) ([]*transfer.Record, error) {
	req, err := newRequest(map[string]any{rpc.FieldEngineerID: in.EngineerID})
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.TransferService, rpc.MethodListTransfers, req, transfer.Collection, storeerr.OpList)
	if err != nil {
		return nil, err
	}

	items := rpc.Read(resp).List(rpc.FieldRecords)
	out := make([]*transfer.Record, 0, len(items))
	for _, item := range items {
		r, err := rpc.DecodeTransfer(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// DeleteTransfer は異動記録を削除します。
func (c *Client) DeleteTransfer(ctx context.Context, in transfer.DeleteTransferInput) error {
	_, err := c.call(ctx, rpc.TransferService, rpc.MethodDeleteTransfer, idRequest(in.ID), transfer.Collection, storeerr.OpDelete)
	return err
}
