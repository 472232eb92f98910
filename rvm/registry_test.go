// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/kr/pretty"
	"testing"
)

func callNative(t *testing.T, env *Environment, name string, args ...val.Value) (val.Value, err.Error) {
	t.Helper()
	fn, e := env.Lookup(name)
	if e != nil {
		t.Fatalf("native not bound: %s", name)
	}
	return Apply(fn, args)
}

func TestBaseRegistry(t *testing.T) {

	env := BaseRegistry().NewEnvironment()

	{ // comparison across numeric types
		v, e := callNative(t, env, "=", val.Int64(7), val.Float(7))
		if e != nil {
			t.Fatalf("case 1: %v", e)
		}
		if !v.Equals(val.Bool(true)) {
			t.Fatal("case 1: expected 7 = 7.0")
		}
	}
	{
		v, e := callNative(t, env, "<", val.Int64(3), val.Float(3.5))
		if e != nil {
			t.Fatalf("case 2: %v", e)
		}
		if !v.Equals(val.Bool(true)) {
			t.Fatal("case 2: expected 3 < 3.5")
		}
	}
	{ // string ordering
		v, e := callNative(t, env, ">", val.String("b"), val.String("a"))
		if e != nil {
			t.Fatalf("case 3: %v", e)
		}
		if !v.Equals(val.Bool(true)) {
			t.Fatal("case 3: expected \"b\" > \"a\"")
		}
	}
	{ // incomparable operands
		_, e := callNative(t, env, "<", val.String("a"), val.Int64(1))
		if _, ok := e.(err.ExecutionError); !ok {
			t.Fatalf("case 4: expected ExecutionError, got %#v", e)
		}
	}
	{ // integer arithmetic stays integral
		v, e := callNative(t, env, "+", val.Int64(2), val.Int64(3))
		if e != nil {
			t.Fatalf("case 5: %v", e)
		}
		if _, ok := v.(val.Int64); !ok || !v.Equals(val.Int64(5)) {
			t.Fatalf("case 5: expected Int64(5), got %s", pretty.Sprint(v))
		}
	}
	{ // mixed arithmetic widens to float
		v, e := callNative(t, env, "*", val.Int64(2), val.Float(1.5))
		if e != nil {
			t.Fatalf("case 6: %v", e)
		}
		if !v.Equals(val.Float(3)) {
			t.Fatalf("case 6: expected Float(3), got %s", pretty.Sprint(v))
		}
	}
	{ // division by zero
		_, e := callNative(t, env, "/", val.Int64(1), val.Int64(0))
		if _, ok := e.(err.ExecutionError); !ok {
			t.Fatalf("case 7: expected ExecutionError, got %#v", e)
		}
	}
	{ // logic follows truthiness
		v, e := callNative(t, env, "and", val.Int64(0), val.String(""))
		if e != nil {
			t.Fatalf("case 8: %v", e)
		}
		if !v.Equals(val.Bool(true)) {
			t.Fatal("case 8: zero and empty string are truthy")
		}
		v, e = callNative(t, env, "or", val.Bool(false), val.Null)
		if e != nil {
			t.Fatalf("case 8: %v", e)
		}
		if !v.Equals(val.Bool(false)) {
			t.Fatal("case 8: expected false or null to be false")
		}
		v, e = callNative(t, env, "not", val.Null)
		if e != nil {
			t.Fatalf("case 8: %v", e)
		}
		if !v.Equals(val.Bool(true)) {
			t.Fatal("case 8: expected not null to be true")
		}
	}
	{
		v, e := callNative(t, env, "present?", val.Null)
		if e != nil {
			t.Fatalf("case 9: %v", e)
		}
		if !v.Equals(val.Bool(false)) {
			t.Fatal("case 9: null must not be present")
		}
		v, e = callNative(t, env, "present?", val.Int64(0))
		if e != nil {
			t.Fatalf("case 9: %v", e)
		}
		if !v.Equals(val.Bool(true)) {
			t.Fatal("case 9: zero must be present")
		}
	}
	{
		v, e := callNative(t, env, "length", val.List{val.Int64(1), val.Int64(2)})
		if e != nil {
			t.Fatalf("case 10: %v", e)
		}
		if !v.Equals(val.Int64(2)) {
			t.Fatalf("case 10: expected 2, got %s", pretty.Sprint(v))
		}
		_, e = callNative(t, env, "length", val.Int64(1))
		if _, ok := e.(err.ExecutionError); !ok {
			t.Fatalf("case 10: expected ExecutionError, got %#v", e)
		}
	}
	{ // arity checks
		_, e := callNative(t, env, "not", val.Bool(true), val.Bool(false))
		ae, ok := e.(err.ArityMismatchError)
		if !ok {
			t.Fatalf("case 11: expected ArityMismatchError, got %#v", e)
		}
		if ae.Expected != 1 || ae.Actual != 2 {
			t.Fatalf("case 11: expected 1/2, got %d/%d", ae.Expected, ae.Actual)
		}
	}
}

func TestRegistryRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r := make(Registry, 1)
	r.Register("twice", func(args []val.Value) (val.Value, err.Error) { return val.Null, nil })
	r.Register("twice", func(args []val.Value) (val.Value, err.Error) { return val.Null, nil })
}
