// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package json

import (
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/kr/pretty"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	{
		v, e := Decode(JSON(`null`))
		if e != nil {
			t.Fatalf("case 1: %v", e)
		}
		if v != val.Null {
			t.Fatalf("case 1: expected null, got %s", pretty.Sprint(v))
		}
	}
	{
		v, e := Decode(JSON(`  {"a": [1, 2.5, "x", true, null], "b": {}}  `))
		if e != nil {
			t.Fatalf("case 2: %v", e)
		}
		expected := val.Map{
			"a": val.List{val.Int64(1), val.Float(2.5), val.String("x"), val.Bool(true), val.Null},
			"b": val.Map{},
		}
		if !v.Equals(expected) {
			t.Fatalf("case 2: got %s", pretty.Sprint(v))
		}
	}
	{ // numbers without fraction or exponent stay integral
		v, e := Decode(JSON(`42`))
		if e != nil {
			t.Fatalf("case 3: %v", e)
		}
		if _, ok := v.(val.Int64); !ok {
			t.Fatalf("case 3: expected Int64, got %s", pretty.Sprint(v))
		}
		v, e = Decode(JSON(`42e1`))
		if e != nil {
			t.Fatalf("case 3: %v", e)
		}
		if _, ok := v.(val.Float); !ok {
			t.Fatalf("case 3: expected Float, got %s", pretty.Sprint(v))
		}
	}
	{ // trailing commas are tolerated
		v, e := Decode(JSON(`[1, 2,]`))
		if e != nil {
			t.Fatalf("case 4: %v", e)
		}
		if !v.Equals(val.List{val.Int64(1), val.Int64(2)}) {
			t.Fatalf("case 4: got %s", pretty.Sprint(v))
		}
		v, e = Decode(JSON(`{"a": 1,}`))
		if e != nil {
			t.Fatalf("case 4: %v", e)
		}
		if !v.Equals(val.Map{"a": val.Int64(1)}) {
			t.Fatalf("case 4: got %s", pretty.Sprint(v))
		}
	}
	{ // line comments count as whitespace
		v, e := Decode(JSON("// comment\n[1] // more"))
		if e != nil {
			t.Fatalf("case 5: %v", e)
		}
		if !v.Equals(val.List{val.Int64(1)}) {
			t.Fatalf("case 5: got %s", pretty.Sprint(v))
		}
	}
	{ // escaped quotes inside strings
		v, e := Decode(JSON(`"a \"b\" c"`))
		if e != nil {
			t.Fatalf("case 6: %v", e)
		}
		if !v.Equals(val.String(`a "b" c`)) {
			t.Fatalf("case 6: got %s", pretty.Sprint(v))
		}
	}
	{ // trailing garbage is an error
		if _, e := Decode(JSON(`1 2`)); e == nil {
			t.Fatal("case 7: expected error for trailing data")
		}
	}
	{
		if _, e := Decode(JSON(``)); e == nil {
			t.Fatal("case 8: expected error for empty input")
		}
	}
	{
		if _, e := Decode(JSON(`{"a": }`)); e == nil {
			t.Fatal("case 9: expected error for malformed object")
		}
	}
	{
		if _, e := Decode(JSON(`9223372036854775808`)); e == nil {
			t.Fatal("case 10: expected error for int64 overflow")
		}
	}
}

func TestEncode(t *testing.T) {
	{ // object keys are sorted for stable output
		bs := Encode(val.Map{
			"b": val.Int64(2),
			"a": val.Int64(1),
		})
		if string(bs) != `{"a":1,"b":2}` {
			t.Fatalf("case 1: got %s", bs)
		}
	}
	{
		bs := Encode(val.Struct{
			"x": val.List{val.Bool(false), val.Null},
		})
		if string(bs) != `{"x":[false,null]}` {
			t.Fatalf("case 2: got %s", bs)
		}
	}
	{ // unions encode as [case, value] pairs
		bs := Encode(val.Union{"unboundVariableError", val.String("x")})
		if string(bs) != `["unboundVariableError","x"]` {
			t.Fatalf("case 3: got %s", bs)
		}
	}
	{
		dt := val.DateTime{time.Date(2019, 5, 1, 12, 0, 0, 0, time.UTC)}
		bs := Encode(dt)
		if string(bs) != `"2019-05-01T12:00:00Z"` {
			t.Fatalf("case 4: got %s", bs)
		}
	}
	{
		bs := Encode(val.Float(2.5))
		if string(bs) != `2.5` {
			t.Fatalf("case 5: got %s", bs)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[true,null,"s"]}`,
		`{"apply":{"operands":[{"var":"x"},{"data":5}],"operator":{"var":"+"}}}`,
		`[]`,
		`{}`,
		`-12.75`,
	}
	for i, in := range inputs {
		v, e := Decode(JSON(in))
		if e != nil {
			t.Fatalf("case %d: %v", i, e)
		}
		if out := string(Encode(v)); out != in {
			t.Fatalf("case %d: %s != %s", i, out, in)
		}
	}
}
