package handler

import (
	"errors"

	"github.com/ogurasousui/engineer-admin/internal/adapters/grpc/rpc"
	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/core/storeerr"
	"github.com/ogurasousui/engineer-admin/internal/core/transfer"
	"google.golang.org/grpc/codes"
)

func toStatusError(err error) error {
	if err == nil {
		return nil
	}

	for _, target := range rpc.ValidationErrors {
		if errors.Is(err, target) {
			return invalidArgument(err)
		}
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return rpc.StatusError(authCode(authErr.Kind), rpc.ReasonAuth, authErr.Reason, map[string]string{
			rpc.MetaAuthKind: string(authErr.Kind),
		})
	}

	var warning *transfer.ConsistencyWarning
	if errors.As(err, &warning) {
		md := map[string]string{
			rpc.MetaRecordID:   warning.Record.ID,
			rpc.MetaEngineerID: warning.Record.EngineerID,
			rpc.MetaToCompany:  warning.Record.ToCompany,
			rpc.MetaCause:      warning.Err.Error(),
		}
		if warning.CompensationErr != nil {
			md[rpc.MetaCompensationErr] = warning.CompensationErr.Error()
		}
		return rpc.StatusError(codes.Aborted, rpc.ReasonConsistencyWarning, err.Error(), md)
	}

	var readErr *storeerr.ReadError
	if errors.As(err, &readErr) {
		code := codes.Unavailable
		if errors.Is(err, storeerr.ErrNotFound) {
			code = codes.NotFound
		}
		return rpc.StatusError(code, rpc.ReasonStoreRead, err.Error(), storeMetadata(readErr.Collection, readErr.Op, readErr.Err))
	}

	var writeErr *storeerr.WriteError
	if errors.As(err, &writeErr) {
		code := codes.Internal
		if errors.Is(err, storeerr.ErrNotFound) {
			code = codes.NotFound
		}
		return rpc.StatusError(code, rpc.ReasonStoreWrite, err.Error(), storeMetadata(writeErr.Collection, writeErr.Op, writeErr.Err))
	}

	if errors.Is(err, storeerr.ErrNotFound) {
		return rpc.StatusError(codes.NotFound, rpc.ReasonNotFound, err.Error(), nil)
	}

	return rpc.StatusError(codes.Internal, rpc.ReasonInternal, err.Error(), nil)
}

func invalidArgument(err error) error {
	return rpc.StatusError(codes.InvalidArgument, rpc.ReasonInvalidArgument, err.Error(), nil)
}

func authCode(kind auth.Kind) codes.Code {
	switch kind {
	case auth.KindInvalidEmail, auth.KindWeakPassword:
		return codes.InvalidArgument
	case auth.KindEmailInUse:
		return codes.AlreadyExists
	default:
		return codes.Unauthenticated
	}
}

func storeMetadata(collection string, op storeerr.Op, cause error) map[string]string {
	md := map[string]string{
		rpc.MetaCollection: collection,
		rpc.MetaOp:         string(op),
	}
	if cause != nil {
		md[rpc.MetaCause] = cause.Error()
	}
	return md
}
