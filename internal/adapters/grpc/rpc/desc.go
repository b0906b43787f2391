// Package rpc は gRPC サービスの記述と、google.protobuf.Struct を用いたメッセージ表現を提供します。
package rpc

import (
	"context"
	"sort"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	PersonnelService = "engineeradmin.v1.PersonnelService"
	InvoiceService   = "engineeradmin.v1.InvoiceService"
	TransferService  = "engineeradmin.v1.TransferService"
	AuthService      = "engineeradmin.v1.AuthService"
)

// PersonnelService のメソッド名です。
const (
	MethodCreatePerson       = "CreatePerson"
	MethodGetPerson          = "GetPerson"
	MethodListPersonnel      = "ListPersonnel"
	MethodUpdatePerson       = "UpdatePerson"
	MethodDeletePerson       = "DeletePerson"
	MethodSummarizeCompanies = "SummarizeCompanies"
)

// InvoiceService のメソッド名です。
const (
	MethodCreateInvoice = "CreateInvoice"
	MethodGetInvoice    = "GetInvoice"
	MethodListInvoices  = "ListInvoices"
	MethodUpdateInvoice = "UpdateInvoice"
	MethodDeleteInvoice = "DeleteInvoice"
)

// TransferService のメソッド名です。
const (
	MethodRecordTransfer = "RecordTransfer"
	MethodListTransfers  = "ListTransfers"
	MethodDeleteTransfer = "DeleteTransfer"
)

// AuthService のメソッド名です。
const (
	MethodSignUp  = "SignUp"
	MethodSignIn  = "SignIn"
	MethodSignOut = "SignOut"
	MethodWhoAmI  = "WhoAmI"
)

// FullMethod は grpc の完全修飾メソッド名を返します。
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// UnaryFunc は Struct を受け取り Struct を返す単項ハンドラです。
type UnaryFunc func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Methods はメソッド名からハンドラへの対応です。
type Methods map[string]UnaryFunc

// Register は methods を service として srv に登録します。
func Register(srv grpc.ServiceRegistrar, service string, methods Methods) {
	srv.RegisterService(NewServiceDesc(service, methods), nil)
}

// NewServiceDesc は methods から grpc.ServiceDesc を構築します。メソッドはサーバーのインターセプターを通ります。
func NewServiceDesc(service string, methods Methods) *grpc.ServiceDesc {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)

	desc := &grpc.ServiceDesc{
		ServiceName: service,
		HandlerType: (*any)(nil),
		Methods:     make([]grpc.MethodDesc, 0, len(names)),
		Metadata:    service,
	}
	for _, name := range names {
		desc.Methods = append(desc.Methods, methodDesc(service, name, methods[name]))
	}
	return desc
}

func methodDesc(service, name string, fn UnaryFunc) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(ctx, in)
			}
			info := &grpc.UnaryServerInfo{FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(ctx, req.(*structpb.Struct))
			})
		},
	}
}

// Invoke は conn 上で service/method を呼び出し、応答の Struct を返します。
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, service, method string, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, FullMethod(service, method), req, out); err != nil {
		return nil, err
	}
	return out, nil
}
