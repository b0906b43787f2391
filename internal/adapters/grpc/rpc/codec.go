package rpc

import (
	"fmt"
	"time"

	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/invoice"
	"github.com/ogurasousui/engineer-admin/internal/core/personnel"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

// メッセージのフィールド名です。
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"

	FieldName            = "name"
	FieldType            = "type"
	FieldDateOfBirth     = "dateOfBirth"
	FieldCompany         = "company"
	FieldPosition        = "position"
	FieldStartDate       = "startDate"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldDriveFolderName = "driveFolderName"

	FieldInvoiceNumber = "invoiceNumber"
	FieldIssueDate     = "issueDate"
	FieldDueDate       = "dueDate"
	FieldAmount        = "amount"
	FieldStatus        = "status"
	FieldDescription   = "description"

	FieldEngineerID   = "engineerId"
	FieldEngineerName = "engineerName"
	FieldFromCompany  = "fromCompany"
	FieldToCompany    = "toCompany"
	FieldTransferDate = "transferDate"
	FieldReason       = "reason"

	FieldEngineers = "engineers"
	FieldInterns   = "interns"

	FieldPassword  = "password"
	FieldToken     = "token"
	FieldAccountID = "accountId"
	FieldSessionID = "sessionId"
	FieldExpiresAt = "expiresAt"

	FieldPerson    = "person"
	FieldPersonnel = "personnel"
	FieldInvoice   = "invoice"
	FieldInvoices  = "invoices"
	FieldRecord    = "record"
	FieldRecords   = "records"
	FieldSummaries = "summaries"
	FieldIdentity  = "identity"
)

// EncodePerson は人員を Struct にします。
func EncodePerson(p *personnel.Person) (*structpb.Struct, error) {
	return NewStruct(map[string]any{
		FieldID:              p.ID,
		FieldName:            p.Name,
		FieldType:            string(p.Type),
		FieldDateOfBirth:     FormatDate(p.DateOfBirth),
		FieldCompany:         p.Company,
		FieldPosition:        p.Position,
		FieldStartDate:       p.StartDate.Format(DateLayout),
		FieldEmail:           OptionalString(p.Email),
		FieldPhone:           OptionalString(p.Phone),
		FieldDriveFolderName: OptionalString(p.DriveFolderName),
		FieldCreatedAt:       FormatTimestamp(p.CreatedAt),
		FieldUpdatedAt:       FormatTimestamp(p.UpdatedAt),
	})
}

// DecodePerson は Struct から人員を復元します。
func DecodePerson(s *structpb.Struct) (*personnel.Person, error) {
	f := Read(s)
	dob, err := f.Date(FieldDateOfBirth)
	if err != nil {
		return nil, err
	}
	start, err := f.Date(FieldStartDate)
	if err != nil {
		return nil, err
	}
	createdAt, updatedAt, err := timestamps(f)
	if err != nil {
		return nil, err
	}

	p := &personnel.Person{
		ID:              f.String(FieldID),
		Name:            f.String(FieldName),
		Type:            personnel.Type(f.String(FieldType)),
		DateOfBirth:     dob,
		Company:         f.String(FieldCompany),
		Position:        f.String(FieldPosition),
		Email:           nonNull(f, FieldEmail),
		Phone:           nonNull(f, FieldPhone),
		DriveFolderName: nonNull(f, FieldDriveFolderName),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	if start != nil {
		p.StartDate = *start
	}
	return p, nil
}

// EncodeSummary は会社別集計を Struct にします。
func EncodeSummary(s personnel.CompanySummary) (*structpb.Struct, error) {
	return NewStruct(map[string]any{
		FieldCompany:   s.Company,
		FieldEngineers: s.Engineers,
		FieldInterns:   s.Interns,
	})
}

// DecodeSummary は Struct から会社別集計を復元します。
func DecodeSummary(s *structpb.Struct) personnel.CompanySummary {
	f := Read(s)
	return personnel.CompanySummary{
		Company:   f.String(FieldCompany),
		Engineers: int(f.Number(FieldEngineers)),
		Interns:   int(f.Number(FieldInterns)),
	}
}

// EncodeInvoice は請求書を Struct にします。金額は精度を保つため文字列で表します。
func EncodeInvoice(inv *invoice.Invoice) (*structpb.Struct, error) {
	return NewStruct(map[string]any{
		FieldID:            inv.ID,
		FieldInvoiceNumber: inv.InvoiceNumber,
		FieldCompany:       inv.Company,
		FieldIssueDate:     inv.IssueDate.Format(DateLayout),
		FieldDueDate:       inv.DueDate.Format(DateLayout),
		FieldAmount:        inv.Amount.String(),
		FieldStatus:        string(inv.Status),
		FieldDescription:   OptionalString(inv.Description),
		FieldCreatedAt:     FormatTimestamp(inv.CreatedAt),
		FieldUpdatedAt:     FormatTimestamp(inv.UpdatedAt),
	})
}

// DecodeInvoice は Struct から請求書を復元します。
func DecodeInvoice(s *structpb.Struct) (*invoice.Invoice, error) {
	f := Read(s)
	issue, err := f.Date(FieldIssueDate)
	if err != nil {
		return nil, err
	}
	due, err := f.Date(FieldDueDate)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(f.String(FieldAmount))
	if err != nil {
		return nil, err
	}
	createdAt, updatedAt, err := timestamps(f)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		ID:            f.String(FieldID),
		InvoiceNumber: f.String(FieldInvoiceNumber),
		Company:       f.String(FieldCompany),
		Amount:        amount,
		Status:        invoice.Status(f.String(FieldStatus)),
		Description:   nonNull(f, FieldDescription),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	if issue != nil {
		inv.IssueDate = *issue
	}
	if due != nil {
		inv.DueDate = *due
	}
	return inv, nil
}

// ParseAmount は金額文字列を解釈します。空文字列はゼロです。
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", FieldAmount, err)
	}
	return d, nil
}

// EncodeTransfer は異動記録を Struct にします。
func EncodeTransfer(r *transfer.Record) (*structpb.Struct, error) {
	return NewStruct(map[string]any{
		FieldID:           r.ID,
		FieldEngineerID:   r.EngineerID,
		FieldEngineerName: r.EngineerName,
		FieldFromCompany:  r.FromCompany,
		FieldToCompany:    r.ToCompany,
		FieldTransferDate: r.TransferDate.Format(DateLayout),
		FieldReason:       OptionalString(r.Reason),
		FieldCreatedAt:    FormatTimestamp(r.CreatedAt),
		FieldUpdatedAt:    FormatTimestamp(r.UpdatedAt),
	})
}

// DecodeTransfer は Struct から異動記録を復元します。
func DecodeTransfer(s *structpb.Struct) (*transfer.Record, error) {
	f := Read(s)
	date, err := f.Date(FieldTransferDate)
	if err != nil {
		return nil, err
	}
	createdAt, updatedAt, err := timestamps(f)
	if err != nil {
		return nil, err
	}

	r := &transfer.Record{
		ID:           f.String(FieldID),
		EngineerID:   f.String(FieldEngineerID),
		EngineerName: f.String(FieldEngineerName),
		FromCompany:  f.String(FieldFromCompany),
		ToCompany:    f.String(FieldToCompany),
		Reason:       nonNull(f, FieldReason),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
	if date != nil {
		r.TransferDate = *date
	}
	return r, nil
}

// EncodeIdentity は認証済みの呼び出し元を Struct にします。
func EncodeIdentity(id auth.Identity) (*structpb.Struct, error) {
	return NewStruct(map[string]any{
		FieldAccountID: id.AccountID,
		FieldEmail:     id.Email,
		FieldSessionID: id.SessionID,
	})
}

// DecodeIdentity は Struct から呼び出し元を復元します。
func DecodeIdentity(s *structpb.Struct) auth.Identity {
	f := Read(s)
	return auth.Identity{
		AccountID: f.String(FieldAccountID),
		Email:     f.String(FieldEmail),
		SessionID: f.String(FieldSessionID),
	}
}

// EncodeSignIn はサインイン結果を Struct にします。
func EncodeSignIn(res *auth.SignInResult) (*structpb.Struct, error) {
	identity, err := EncodeIdentity(res.Identity)
	if err != nil {
		return nil, err
	}
	out, err := NewStruct(map[string]any{
		FieldToken:     res.Token,
		FieldExpiresAt: FormatTimestamp(res.ExpiresAt),
	})
	if err != nil {
		return nil, err
	}
	out.Fields[FieldIdentity] = structpb.NewStructValue(identity)
	return out, nil
}

// DecodeSignIn は Struct からサインイン結果を復元します。
func DecodeSignIn(s *structpb.Struct) (*auth.SignInResult, error) {
	f := Read(s)
	expiresAt, err := f.Timestamp(FieldExpiresAt)
	if err != nil {
		return nil, err
	}
	return &auth.SignInResult{
		Identity:  DecodeIdentity(f.Struct(FieldIdentity)),
		Token:     f.String(FieldToken),
		ExpiresAt: expiresAt,
	}, nil
}

func timestamps(f Fields) (time.Time, time.Time, error) {
	createdAt, err := f.Timestamp(FieldCreatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	updatedAt, err := f.Timestamp(FieldUpdatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return createdAt, updatedAt, nil
}

func nonNull(f Fields, key string) *string {
	if f.IsNull(key) {
		return nil
	}
	return f.OptString(key)
}
