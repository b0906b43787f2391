package rpc

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// DateLayout は暦日フィールドの表現です。
	DateLayout = "2006-01-02"
	// TimestampLayout は作成・更新日時の表現です。
	TimestampLayout = time.RFC3339Nano
)

// Fields は Struct の読み取りを補助します。nil の Struct は空として扱います。
type Fields struct {
	s *structpb.Struct
}

// Read は s を読み取る Fields を返します。
func Read(s *structpb.Struct) Fields {
	return Fields{s: s}
}

func (f Fields) value(key string) (*structpb.Value, bool) {
	if f.s == nil {
		return nil, false
	}
	v, ok := f.s.GetFields()[key]
	return v, ok
}

// Has は key が存在するかを返します。null 値も存在として扱います。
func (f Fields) Has(key string) bool {
	_, ok := f.value(key)
	return ok
}

// IsNull は key が存在し null であるかを返します。
func (f Fields) IsNull(key string) bool {
	v, ok := f.value(key)
	if !ok {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return isNull
}

// String は key の文字列値を返します。存在しない場合や null は空文字列です。
func (f Fields) String(key string) string {
	v, ok := f.value(key)
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// OptString は key が存在する場合のみ値へのポインタを返します。null は空文字列です。
func (f Fields) OptString(key string) *string {
	if !f.Has(key) {
		return nil
	}
	s := f.String(key)
	return &s
}

// Bool は key の真偽値を返します。
func (f Fields) Bool(key string) bool {
	v, ok := f.value(key)
	if !ok {
		return false
	}
	return v.GetBoolValue()
}

// Number は key の数値を返します。
func (f Fields) Number(key string) float64 {
	v, ok := f.value(key)
	if !ok {
		return 0
	}
	return v.GetNumberValue()
}

// Date は key の暦日を返します。存在しない・空・null の場合は nil です。
func (f Fields) Date(key string) (*time.Time, error) {
	raw := f.String(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// Timestamp は key の日時を返します。存在しない場合はゼロ値です。
func (f Fields) Timestamp(key string) (time.Time, error) {
	raw := f.String(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

// List は key のリスト要素を Struct として返します。Struct 以外の要素は無視します。
func (f Fields) List(key string) []*structpb.Struct {
	v, ok := f.value(key)
	if !ok {
		return nil
	}
	values := v.GetListValue().GetValues()
	out := make([]*structpb.Struct, 0, len(values))
	for _, item := range values {
		if s := item.GetStructValue(); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Struct は key の入れ子 Struct を返します。
func (f Fields) Struct(key string) *structpb.Struct {
	v, ok := f.value(key)
	if !ok {
		return nil
	}
	return v.GetStructValue()
}

// FormatDate は暦日を文字列にします。nil は null になります。
func FormatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}

// FormatTimestamp は日時を UTC の文字列にします。
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// OptionalString はポインタ文字列を Struct 値にします。nil は null になります。
func OptionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// NewStruct は map から Struct を構築します。
func NewStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("rpc: build struct: %w", err)
	}
	return s, nil
}

// ListOf は items をリストにした Struct を返します。
func ListOf(key string, items []*structpb.Struct) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(items))
	for _, item := range items {
		values = append(values, structpb.NewStructValue(item))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		key: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// Wrap は item を key の下に置いた Struct を返します。
func Wrap(key string, item *structpb.Struct) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		key: structpb.NewStructValue(item),
	}}
}
