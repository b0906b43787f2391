package rpc

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain は ErrorInfo の domain です。
const ErrorDomain = "engineer-admin"

// ErrorInfo.Reason に設定する値です。
const (
	ReasonInvalidArgument    = "INVALID_ARGUMENT"
	ReasonNotFound           = "NOT_FOUND"
	ReasonStoreRead          = "STORE_READ"
	ReasonStoreWrite         = "STORE_WRITE"
	ReasonConsistencyWarning = "CONSISTENCY_WARNING"
	ReasonAuth               = "AUTH"
	ReasonInternal           = "INTERNAL"
)

// ErrorInfo.Metadata のキーです。
const (
	MetaCollection      = "collection"
	MetaOp              = "op"
	MetaAuthKind        = "auth_kind"
	MetaRecordID        = "record_id"
	MetaEngineerID      = "engineer_id"
	MetaToCompany       = "to_company"
	MetaCause           = "cause"
	MetaCompensationErr = "compensation_error"
)

// StatusError は ErrorInfo を付与した gRPC ステータスエラーを返します。
func StatusError(code codes.Code, reason, msg string, metadata map[string]string) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   ErrorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// ErrorInfoOf は err に付与された ErrorInfo を返します。存在しない場合は nil です。
func ErrorInfoOf(err error) *errdetails.ErrorInfo {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info
		}
	}
	return nil
}
