package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestNewServiceDesc_SortedMethods(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, *structpb.Struct) (*structpb.Struct, error) { return &structpb.Struct{}, nil }
	desc := NewServiceDesc(InvoiceService, Methods{
		MethodListInvoices:  noop,
		MethodCreateInvoice: noop,
	})

	require.Len(t, desc.Methods, 2)
	assert.Equal(t, MethodCreateInvoice, desc.Methods[0].MethodName)
	assert.Equal(t, MethodListInvoices, desc.Methods[1].MethodName)
	assert.Equal(t, "/engineeradmin.v1.InvoiceService/ListInvoices", FullMethod(InvoiceService, MethodListInvoices))
}

func TestMethodDesc_RunsInterceptor(t *testing.T) {
	t.Parallel()

	desc := NewServiceDesc(PersonnelService, Methods{
		MethodGetPerson: func(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return NewStruct(map[string]any{"echo": Read(req).String("id")})
		},
	})

	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}
	dec := func(v any) error {
		v.(*structpb.Struct).Fields = map[string]*structpb.Value{"id": structpb.NewStringValue("p-1")}
		return nil
	}

	out, err := desc.Methods[0].Handler(nil, context.Background(), dec, interceptor)
	require.NoError(t, err)
	assert.Equal(t, FullMethod(PersonnelService, MethodGetPerson), seen)
	assert.Equal(t, "p-1", Read(out.(*structpb.Struct)).String("echo"))
}

func TestFields(t *testing.T) {
	t.Parallel()

	s, err := NewStruct(map[string]any{
		"name":        "Nguyen Van A",
		"dateOfBirth": nil,
		"startDate":   "2024-04-01",
		"createdAt":   FormatTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
		"active":      true,
	})
	require.NoError(t, err)

	f := Read(s)
	assert.True(t, f.Has("dateOfBirth"))
	assert.True(t, f.IsNull("dateOfBirth"))
	assert.False(t, f.Has("phone"))
	assert.Nil(t, f.OptString("phone"))
	require.NotNil(t, f.OptString("name"))
	assert.True(t, f.Bool("active"))

	dob, err := f.Date("dateOfBirth")
	require.NoError(t, err)
	assert.Nil(t, dob)

	start, err := f.Date("startDate")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", start.Format(DateLayout))

	created, err := f.Timestamp("createdAt")
	require.NoError(t, err)
	assert.Equal(t, 2025, created.Year())

	bad, err := NewStruct(map[string]any{"startDate": "01/04/2024"})
	require.NoError(t, err)
	_, err = Read(bad).Date("startDate")
	assert.Error(t, err)

	assert.False(t, Read(nil).Has("x"))
}

func TestListOfAndWrap(t *testing.T) {
	t.Parallel()

	a, _ := NewStruct(map[string]any{"id": "a"})
	b, _ := NewStruct(map[string]any{"id": "b"})

	items := Read(ListOf("items", []*structpb.Struct{a, b})).List("items")
	require.Len(t, items, 2)
	assert.Equal(t, "b", Read(items[1]).String("id"))

	assert.Equal(t, "a", Read(Read(Wrap("person", a)).Struct("person")).String("id"))
}

func TestStatusError_ErrorInfo(t *testing.T) {
	t.Parallel()

	err := StatusError(codes.NotFound, ReasonNotFound, "record not found", map[string]string{MetaCollection: "personnel"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	info := ErrorInfoOf(err)
	require.NotNil(t, info)
	assert.Equal(t, ReasonNotFound, info.GetReason())
	assert.Equal(t, "personnel", info.GetMetadata()[MetaCollection])

	assert.Nil(t, ErrorInfoOf(status.Error(codes.Internal, "plain")))
}
