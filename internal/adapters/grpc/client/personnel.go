package client

import (
	"context"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ personnel.UseCase = (*Client)(nil)

// CreatePerson は人員を作成します。
func (c *Client) CreatePerson(ctx context.Context, in personnel.CreatePersonInput) (*personnel.Person, error) {
	fields := map[string]any{
		rpc.FieldName:     in.Name,
		rpc.FieldType:     string(in.Type),
		rpc.FieldCompany:  in.Company,
		rpc.FieldPosition: in.Position,
		rpc.FieldEmail:    in.Email,
		rpc.FieldPhone:    in.Phone,
	}
	setDate(fields, rpc.FieldDateOfBirth, in.DateOfBirth)
	setDate(fields, rpc.FieldStartDate, in.StartDate)

	req, err := newRequest(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.PersonnelService, rpc.MethodCreatePerson, req, personnel.Collection, storeerr.OpCreate)
	if err != nil {
		return nil, err
	}
	return rpc.DecodePerson(rpc.Read(resp).Struct(rpc.FieldPerson))
}

// GetPerson は人員を取得します。
func (c *Client) GetPerson(ctx context.Context, in personnel.GetPersonInput) (*personnel.Person, error) {
	resp, err := c.call(ctx, rpc.PersonnelService, rpc.MethodGetPerson, idRequest(in.ID), personnel.Collection, storeerr.OpGet)
	if err != nil {
		return nil, err
	}
	return rpc.DecodePerson(rpc.Read(resp).Struct(rpc.FieldPerson))
}

// ListPersonnel は全ての人員を作成日時の新しい順に返します。
func (c *Client) ListPersonnel(ctx context.Context) ([]*personnel.Person, error) {
	resp, err := c.call(ctx, rpc.PersonnelService, rpc.MethodListPersonnel, nil, personnel.Collection, storeerr.OpList)
	if err != nil {
		return nil, err
	}

	items := rpc.Read(resp).List(rpc.FieldPersonnel)
	out := make([]*personnel.Person, 0, len(items))
	for _, item := range items {
		p, err := rpc.DecodePerson(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// UpdatePerson は in で指定されたフィールドのみを送信します。
func (c *Client) UpdatePerson(ctx context.Context, in personnel.UpdatePersonInput) (*personnel.Person, error) {
	fields := map[string]any{rpc.FieldID: in.ID}
	setString(fields, rpc.FieldName, in.Name)
	if in.Type != nil {
		fields[rpc.FieldType] = string(*in.Type)
	}
	if in.DateOfBirthSet {
		fields[rpc.FieldDateOfBirth] = rpc.FormatDate(in.DateOfBirth)
	}
	setString(fields, rpc.FieldCompany, in.Company)
	setString(fields, rpc.FieldPosition, in.Position)
	setDate(fields, rpc.FieldStartDate, in.StartDate)
	setString(fields, rpc.FieldEmail, in.Email)
	setString(fields, rpc.FieldPhone, in.Phone)

	req, err := newRequest(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, rpc.PersonnelService, rpc.MethodUpdatePerson, req, personnel.Collection, storeerr.OpUpdate)
	if err != nil {
		return nil, err
	}
	return rpc.DecodePerson(rpc.Read(resp).Struct(rpc.FieldPerson))
}

// DeletePerson は人員を削除します。
func (c *Client) DeletePerson(ctx context.Context, in personnel.DeletePersonInput) error {
	_, err := c.call(ctx, rpc.PersonnelService, rpc.MethodDeletePerson, idRequest(in.ID), personnel.Collection, storeerr.OpDelete)
	return err
}

// SummarizeCompanies は会社ごとの人数を返します。
func (c *Client) SummarizeCompanies(ctx context.Context) ([]personnel.CompanySummary, error) {
	resp, err := c.call(ctx, rpc.PersonnelService, rpc.MethodSummarizeCompanies, &structpb.Struct{}, personnel.Collection, storeerr.OpList)
	if err != nil {
		return nil, err
	}

	items := rpc.Read(resp).List(rpc.FieldSummaries)
	out := make([]personnel.CompanySummary, 0, len(items))
	for _, item := range items {
		out = append(out, rpc.DecodeSummary(item))
	}
	return out, nil
}
