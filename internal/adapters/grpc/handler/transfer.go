package handler

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	"google.golang.org/protobuf/types/known/structpb"
)

// TransferGrpcHandler は TransferService の gRPC 実装です。
type TransferGrpcHandler struct {
	svc transfer.UseCase
}

// NewTransferGrpcHandler は TransferGrpcHandler を生成します。
func NewTransferGrpcHandler(svc transfer.UseCase) *TransferGrpcHandler {
	return &TransferGrpcHandler{svc: svc}
}

// Methods は TransferService のメソッド表を返します。
func (h *TransferGrpcHandler) Methods() rpc.Methods {
	return rpc.Methods{
		rpc.MethodRecordTransfer: h.RecordTransfer,
		rpc.MethodListTransfers:  h.ListTransfers,
		rpc.MethodDeleteTransfer: h.DeleteTransfer,
	}
}

// RecordTransfer は異動を記録し、人員の所属会社を更新します。
func (h *TransferGrpcHandler) RecordTransfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)

	date, err := f.Date(rpc.FieldTransferDate)
	if err != nil {
		return nil, invalidArgument(err)
	}

	result, err := h.svc.RecordTransfer(ctx, transfer.RecordTransferInput{
		EngineerID:   f.String(rpc.FieldEngineerID),
		EngineerName: f.String(rpc.FieldEngineerName),
		FromCompany:  f.String(rpc.FieldFromCompany),
		ToCompany:    f.String(rpc.FieldToCompany),
		TransferDate: date,
		Reason:       f.String(rpc.FieldReason),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	record, err := rpc.EncodeTransfer(result.Record)
	if err != nil {
		return nil, toStatusError(err)
	}
	out := rpc.Wrap(rpc.FieldRecord, record)

	if result.Person != nil {
		person, err := rpc.EncodePerson(result.Person)
		if err != nil {
			return nil, toStatusError(err)
		}
		out.Fields[rpc.FieldPerson] = structpb.NewStructValue(person)
	}
	return out, nil
}

// ListTransfers は異動履歴を返します。engineerId を指定するとその人員の異動のみを異動日の新しい順に返します。
func (h *TransferGrpcHandler) ListTransfers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	records, err := h.svc.ListTransfers(ctx, transfer.ListTransfersInput{EngineerID: rpc.Read(req).String(rpc.FieldEngineerID)})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]*structpb.Struct, 0, len(records))
	for _, r := range records {
		item, err := rpc.EncodeTransfer(r)
		if err != nil {
			return nil, toStatusError(err)
		}
		items = append(items, item)
	}
	return rpc.ListOf(rpc.FieldRecords, items), nil
}

// DeleteTransfer は異動記録を削除します。
func (h *TransferGrpcHandler) DeleteTransfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.svc.DeleteTransfer(ctx, transfer.DeleteTransferInput{ID: rpc.Read(req).String(rpc.FieldID)}); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{}, nil
}
