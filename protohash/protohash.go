package protohash

import (
	"encoding/base64"
	"fmt"

	"github.com/zero-day-ai/objhash"
	"github.com/zero-day-ai/objhash/canon"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// typeKey names the message type of a packed Any.
const typeKey = "@type"

// Encoder returns a custom encoder that canonicalizes proto.Message values
// through Value. opts apply to the converted value; the returned encoder is
// added to them so that messages nested in Any or in converted values are
// handled too.
func Encoder(opts ...objhash.Option) objhash.CustomEncoder {
	var enc objhash.CustomEncoder
	enc = func(v any) (string, bool) {
		msg, ok := v.(proto.Message)
		if !ok {
			return "", false
		}
		inner := append(append([]objhash.Option(nil), opts...), objhash.WithCustomEncoder(enc))
		return objhash.Canonicalize(Value(msg), inner...), true
	}
	return enc
}

// Fingerprint returns the fingerprint of msg with Encoder installed.
func Fingerprint(msg proto.Message, opts ...objhash.Option) string {
	all := append(append([]objhash.Option(nil), opts...), objhash.WithCustomEncoder(Encoder(opts...)))
	return objhash.Fingerprint(msg, all...)
}

// Value converts msg into plain Go values. A nil message, or a typed nil,
// converts to nil.
func Value(msg proto.Message) any {
	if msg == nil {
		return nil
	}
	m := msg.ProtoReflect()
	if !m.IsValid() {
		return nil
	}

	switch x := msg.(type) {
	case *timestamppb.Timestamp:
		return x.AsTime()
	case *durationpb.Duration:
		return x.AsDuration().String()
	case *structpb.Struct:
		return x.AsMap()
	case *structpb.Value:
		return x.AsInterface()
	case *structpb.ListValue:
		return x.AsSlice()
	case *wrapperspb.BoolValue:
		return x.GetValue()
	case *wrapperspb.StringValue:
		return x.GetValue()
	case *wrapperspb.BytesValue:
		return base64.StdEncoding.EncodeToString(x.GetValue())
	case *wrapperspb.Int32Value:
		return x.GetValue()
	case *wrapperspb.Int64Value:
		return x.GetValue()
	case *wrapperspb.UInt32Value:
		return x.GetValue()
	case *wrapperspb.UInt64Value:
		return x.GetValue()
	case *wrapperspb.FloatValue:
		return x.GetValue()
	case *wrapperspb.DoubleValue:
		return x.GetValue()
	case *fieldmaskpb.FieldMask:
		return canon.Set(toAny(x.GetPaths()))
	case *emptypb.Empty:
		return map[string]any{}
	case *anypb.Any:
		return anyValue(x)
	}
	return messageValue(m)
}

// anyValue unpacks an Any when its type is linked into the binary and keeps
// the raw payload otherwise.
func anyValue(x *anypb.Any) any {
	inner, err := x.UnmarshalNew()
	if err != nil {
		return map[string]any{
			typeKey: x.GetTypeUrl(),
			"value": base64.StdEncoding.EncodeToString(x.GetValue()),
		}
	}
	v := Value(inner)
	if rec, ok := v.(map[string]any); ok {
		rec[typeKey] = x.GetTypeUrl()
		return rec
	}
	return map[string]any{typeKey: x.GetTypeUrl(), "value": v}
}

// messageValue converts the populated fields of m.
func messageValue(m protoreflect.Message) map[string]any {
	out := make(map[string]any)
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		out[fieldName(fd)] = fieldValue(fd, v)
		return true
	})
	return out
}

func fieldName(fd protoreflect.FieldDescriptor) string {
	if fd.IsExtension() {
		return "[" + string(fd.FullName()) + "]"
	}
	return string(fd.Name())
}

func fieldValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch {
	case fd.IsList():
		list := v.List()
		out := make([]any, list.Len())
		for i := range out {
			out[i] = singular(fd, list.Get(i))
		}
		return out
	case fd.IsMap():
		return mapValue(fd, v.Map())
	}
	return singular(fd, v)
}

func mapValue(fd protoreflect.FieldDescriptor, m protoreflect.Map) any {
	valueField := fd.MapValue()
	if fd.MapKey().Kind() == protoreflect.StringKind {
		out := make(map[string]any, m.Len())
		m.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
			out[k.String()] = singular(valueField, v)
			return true
		})
		return out
	}

	out := make(canon.Map, m.Len())
	m.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		out[k.Interface()] = singular(valueField, v)
		return true
	})
	return out
}

// singular converts one value of a scalar, enum or message field.
func singular(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return v.Bool()
	case protoreflect.StringKind:
		return v.String()
	case protoreflect.BytesKind:
		return base64.StdEncoding.EncodeToString(v.Bytes())
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return int32(v.Int())
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return v.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return uint32(v.Uint())
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return v.Uint()
	case protoreflect.FloatKind:
		return float32(v.Float())
	case protoreflect.DoubleKind:
		return v.Float()
	case protoreflect.EnumKind:
		return enumName(fd, v.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return Value(v.Message().Interface())
	}
	return fmt.Sprintf("%v", v.Interface())
}

// enumName returns the declared name of n, or n itself for values the
// descriptor does not know.
func enumName(fd protoreflect.FieldDescriptor, n protoreflect.EnumNumber) any {
	if ev := fd.Enum().Values().ByNumber(n); ev != nil {
		return string(ev.Name())
	}
	return int32(n)
}

func toAny(paths []string) []any {
	out := make([]any, len(paths))
	for i, p := range paths {
		out[i] = p
	}
	return out
}
