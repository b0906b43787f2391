package handler

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"google.golang.org/protobuf/types/known/structpb"
)

// PersonnelGrpcHandler は PersonnelService の gRPC 実装です。
type PersonnelGrpcHandler struct {
	svc personnel.UseCase
}

// NewPersonnelGrpcHandler は PersonnelGrpcHandler を生成します。
func NewPersonnelGrpcHandler(svc personnel.UseCase) *PersonnelGrpcHandler {
	return &PersonnelGrpcHandler{svc: svc}
}

// Methods は PersonnelService のメソッド表を返します。
func (h *PersonnelGrpcHandler) Methods() rpc.Methods {
	return rpc.Methods{
		rpc.MethodCreatePerson:       h.CreatePerson,
		rpc.MethodGetPerson:          h.GetPerson,
		rpc.MethodListPersonnel:      h.ListPersonnel,
		rpc.MethodUpdatePerson:       h.UpdatePerson,
		rpc.MethodDeletePerson:       h.DeletePerson,
		rpc.MethodSummarizeCompanies: h.SummarizeCompanies,
	}
}

// CreatePerson は人員を作成します。
func (h *PersonnelGrpcHandler) CreatePerson(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)

	dob, err := f.Date(rpc.FieldDateOfBirth)
	if err != nil {
		return nil, invalidArgument(err)
	}
	start, err := f.Date(rpc.FieldStartDate)
	if err != nil {
		return nil, invalidArgument(err)
	}

	created, err := h.svc.CreatePerson(ctx, personnel.CreatePersonInput{
		Name:        f.String(rpc.FieldName),
		Type:        personnel.Type(f.String(rpc.FieldType)),
		DateOfBirth: dob,
		Company:     f.String(rpc.FieldCompany),
		Position:    f.String(rpc.FieldPosition),
		StartDate:   start,
		Email:       f.String(rpc.FieldEmail),
		Phone:       f.String(rpc.FieldPhone),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return personResponse(created)
}

// GetPerson は人員を取得します。
func (h *PersonnelGrpcHandler) GetPerson(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	found, err := h.svc.GetPerson(ctx, personnel.GetPersonInput{ID: rpc.Read(req).String(rpc.FieldID)})
	if err != nil {
		return nil, toStatusError(err)
	}
	return personResponse(found)
}

// ListPersonnel は人員の一覧を作成日時の新しい順に返します。
func (h *PersonnelGrpcHandler) ListPersonnel(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	people, err := h.svc.ListPersonnel(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]*structpb.Struct, 0, len(people))
	for _, p := range people {
		item, err := rpc.EncodePerson(p)
		if err != nil {
			return nil, toStatusError(err)
		}
		items = append(items, item)
	}
	return rpc.ListOf(rpc.FieldPersonnel, items), nil
}

// UpdatePerson は指定されたフィールドのみを更新します。dateOfBirth に null か空文字列を渡すと消去されます。
func (h *PersonnelGrpcHandler) UpdatePerson(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := rpc.Read(req)

	in := personnel.UpdatePersonInput{
		ID:       f.String(rpc.FieldID),
		Name:     f.OptString(rpc.FieldName),
		Company:  f.OptString(rpc.FieldCompany),
		Position: f.OptString(rpc.FieldPosition),
		Email:    f.OptString(rpc.FieldEmail),
		Phone:    f.OptString(rpc.FieldPhone),
	}

	if raw := f.OptString(rpc.FieldType); raw != nil {
		t, err := personnel.ParseType(*raw)
		if err != nil {
			return nil, toStatusError(err)
		}
		in.Type = &t
	}

	if f.Has(rpc.FieldDateOfBirth) {
		dob, err := f.Date(rpc.FieldDateOfBirth)
		if err != nil {
			return nil, invalidArgument(err)
		}
		in.DateOfBirth = dob
		in.DateOfBirthSet = true
	}

	if f.Has(rpc.FieldStartDate) {
		start, err := f.Date(rpc.FieldStartDate)
		if err != nil {
			return nil, invalidArgument(err)
		}
		if start == nil {
			return nil, toStatusError(personnel.ErrInvalidStartDate)
		}
		in.StartDate = start
	}

	updated, err := h.svc.UpdatePerson(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return personResponse(updated)
}

// DeletePerson は人員を削除します。
func (h *PersonnelGrpcHandler) DeletePerson(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.svc.DeletePerson(ctx, personnel.DeletePersonInput{ID: rpc.Read(req).String(rpc.FieldID)}); err != nil {
		return nil, toStatusError(err)
	}
	return &structpb.Struct{}, nil
}

// SummarizeCompanies は会社ごとの人数を返します。
func (h *PersonnelGrpcHandler) SummarizeCompanies(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	summaries, err := h.svc.SummarizeCompanies(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]*structpb.Struct, 0, len(summaries))
	for _, s := range summaries {
		item, err := rpc.EncodeSummary(s)
		if err != nil {
			return nil, toStatusError(err)
		}
		items = append(items, item)
	}
	return rpc.ListOf(rpc.FieldSummaries, items), nil
}

func personResponse(p *personnel.Person) (*structpb.Struct, error) {
	item, err := rpc.EncodePerson(p)
	if err != nil {
		return nil, toStatusError(err)
	}
	return rpc.Wrap(rpc.FieldPerson, item), nil
}
