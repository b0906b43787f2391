package client

import (
	"errors"
	"strings"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RemoteError はサーバーが返したエラーのうち、ドメインのエラー型に対応しないものです。
// 既知の入力検証エラーであれば Unwrap で取り出せます。
type RemoteError struct {
	Code    codes.Code
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error { return e.Err }

// fromStatus は gRPC ステータスをドメインのエラー型へ戻します。
// ErrorInfo を持たない通信失敗は collection と op に応じてストアのエラーとして扱います。
func fromStatus(err error, collection string, op storeerr.Op) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return classify(collection, op, err)
	}

	info := rpc.ErrorInfoOf(err)
	md := info.GetMetadata()

	switch info.GetReason() {
	case rpc.ReasonInvalidArgument:
		return &RemoteError{Code: st.Code(), Message: st.Message(), Err: validationError(st.Message())}

	case rpc.ReasonAuth:
		return &auth.Error{Kind: auth.Kind(md[rpc.MetaAuthKind]), Reason: st.Message()}

	case rpc.ReasonConsistencyWarning:
		warning := &transfer.ConsistencyWarning{
			Record: &transfer.Record{
				ID:         md[rpc.MetaRecordID],
				EngineerID: md[rpc.MetaEngineerID],
				ToCompany:  md[rpc.MetaToCompany],
			},
			Err: errors.New(md[rpc.MetaCause]),
		}
		if msg, ok := md[rpc.MetaCompensationErr]; ok {
			warning.CompensationErr = errors.New(msg)
		}
		return warning

	case rpc.ReasonStoreRead:
		return &storeerr.ReadError{Collection: md[rpc.MetaCollection], Op: storeerr.Op(md[rpc.MetaOp]), Err: causeOf(st, md)}

	case rpc.ReasonStoreWrite:
		return &storeerr.WriteError{Collection: md[rpc.MetaCollection], Op: storeerr.Op(md[rpc.MetaOp]), Err: causeOf(st, md)}

	case rpc.ReasonNotFound:
		return storeerr.ErrNotFound
	}

	remote := &RemoteError{Code: st.Code(), Message: st.Message()}
	switch st.Code() {
	case codes.Unauthenticated:
		return &auth.Error{Kind: auth.KindUnauthenticated, Reason: auth.ErrUnauthenticated.Reason, Err: remote}
	case codes.InvalidArgument:
		return remote
	}
	return classify(collection, op, remote)
}

func causeOf(st *status.Status, md map[string]string) error {
	if st.Code() == codes.NotFound {
		return storeerr.ErrNotFound
	}
	if msg, ok := md[rpc.MetaCause]; ok {
		return errors.New(msg)
	}
	return errors.New(st.Message())
}

func validationError(msg string) error {
	for _, target := range rpc.ValidationErrors {
		if strings.HasSuffix(msg, target.Error()) {
			return target
		}
	}
	return nil
}

func classify(collection string, op storeerr.Op, err error) error {
	if collection == "" {
		return err
	}
	switch op {
	case storeerr.OpList, storeerr.OpGet:
		return storeerr.Read(collection, op, err)
	default:
		return storeerr.Write(collection, op, err)
	}
}
