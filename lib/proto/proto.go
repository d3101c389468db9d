// Copyright 2020 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proto exports the global environment of a Pyrite program as
// a google.protobuf.Struct, so that a host can hand the results of a
// script to other tools.
//
// Values map onto google.protobuf.Value as follows:
//
//	None                -- null_value
//	int, float          -- number_value
//	bool                -- bool_value
//	str                 -- string_value
//	list                -- list_value, element by element
//	instance            -- struct_value of its attributes
//	function, class,
//	builtin, method     -- string_value of the value's str form
//
// Names that begin with an underscore are not exported.
package proto // import "go.pyrite.dev/lib/proto"

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/known/structpb"

	"go.pyrite.dev/pyrite"
)

// Formats accepted by Marshal.
const (
	Text      = "text"
	JSON      = "json"
	ProtoText = "prototext"
)

// ToStruct returns the exported global bindings of ns as a Struct.
func ToStruct(ns *pyrite.Namespace) (*structpb.Struct, error) {
	st := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
	globals := ns.Globals()
	for _, name := range ns.GlobalNames() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		v, err := ToValue(ns.Pool(), globals[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		st.Fields[name] = v
	}
	return st, nil
}

// ToValue converts a single value. Elements and attributes are read
// from pool.
func ToValue(pool *pyrite.Pool, o *pyrite.Object) (*structpb.Value, error) {
	switch d := o.Data().(type) {
	case nil:
		if o.IsNone() {
			return &structpb.Value{Kind: &structpb.Value_NullValue{}}, nil
		}
		fields := make(map[string]*structpb.Value)
		for _, name := range o.AttrNames() {
			id, _ := o.Attr(name)
			v, err := element(pool, id)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %v", name, err)
			}
			fields[name] = v
		}
		return &structpb.Value{Kind: &structpb.Value_StructValue{StructValue: &structpb.Struct{Fields: fields}}}, nil
	case int64:
		return number(float64(d)), nil
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("cannot export non-finite float %v", d)
		}
		return number(d), nil
	case bool:
		return &structpb.Value{Kind: &structpb.Value_BoolValue{BoolValue: d}}, nil
	case string:
		return str(d), nil
	case []pyrite.PoolID:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(d))}
		for i, id := range d {
			v, err := element(pool, id)
			if err != nil {
				return nil, fmt.Errorf("index %d: %v", i, err)
			}
			list.Values[i] = v
		}
		return &structpb.Value{Kind: &structpb.Value_ListValue{ListValue: list}}, nil
	}
	return str(o.String()), nil
}

func element(pool *pyrite.Pool, id pyrite.PoolID) (*structpb.Value, error) {
	o, ok := pool.Get(id)
	if !ok {
		return nil, fmt.Errorf("dangling reference %v", id)
	}
	return ToValue(pool, o)
}

func number(f float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: f}}
}

func str(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}

// Marshal encodes the exported globals of the thread's namespace in
// the given format. Text is one "name = repr" line per binding.
func Marshal(thread *pyrite.Thread, format string) ([]byte, error) {
	switch format {
	case Text, JSON, ProtoText:
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	ns := thread.Namespace()
	if format == Text {
		var buf strings.Builder
		globals := ns.Globals()
		for _, name := range ns.GlobalNames() {
			if strings.HasPrefix(name, "_") {
				continue
			}
			s, err := pyrite.Repr(thread, globals[name])
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%s = %s\n", name, s)
		}
		return []byte(buf.String()), nil
	}

	st, err := ToStruct(ns)
	if err != nil {
		return nil, err
	}
	if format == JSON {
		return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	}
	return prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}
