// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"testing"
)

func TestEnvironmentLookup(t *testing.T) {
	{
		root := NewEnvironment(nil)
		root.Define("a", val.Int64(1))

		child := NewEnvironment(root)
		child.Define("b", val.Int64(2))

		if v, e := child.Lookup("a"); e != nil || !v.Equals(val.Int64(1)) {
			t.Fatalf("case 1: lookup through parent failed: %v %v", v, e)
		}
		if v, e := child.Lookup("b"); e != nil || !v.Equals(val.Int64(2)) {
			t.Fatalf("case 1: own-frame lookup failed: %v %v", v, e)
		}
		if _, e := root.Lookup("b"); e == nil {
			t.Fatal("case 1: child binding visible in parent")
		}
	}
	{ // shadowing resolves to the nearest frame
		root := NewEnvironment(nil)
		root.Define("x", val.String("outer"))

		child := NewEnvironment(root)
		child.Define("x", val.String("inner"))

		if v, _ := child.Lookup("x"); !v.Equals(val.String("inner")) {
			t.Fatalf("case 2: expected inner, got %v", v)
		}
		if v, _ := root.Lookup("x"); !v.Equals(val.String("outer")) {
			t.Fatalf("case 2: outer binding disturbed: %v", v)
		}
	}
	{
		env := NewEnvironment(nil)
		_, e := env.Lookup("nope")
		ue, ok := e.(err.UnboundVariableError)
		if !ok {
			t.Fatalf("case 3: expected UnboundVariableError, got %#v", e)
		}
		if ue.Name != "nope" {
			t.Fatalf("case 3: expected name in error, got %q", ue.Name)
		}
	}
}

func TestEnvironmentExtend(t *testing.T) {
	{
		root := NewEnvironment(nil)
		child, e := root.Extend([]string{"a", "b"}, []val.Value{val.Int64(1), val.Int64(2)})
		if e != nil {
			t.Fatalf("case 1: %v", e)
		}
		if v, _ := child.Lookup("b"); !v.Equals(val.Int64(2)) {
			t.Fatalf("case 1: positional binding failed: %v", v)
		}
	}
	{
		root := NewEnvironment(nil)
		_, e := root.Extend([]string{"a", "b"}, []val.Value{val.Int64(1)})
		ae, ok := e.(err.ArityMismatchError)
		if !ok {
			t.Fatalf("case 2: expected ArityMismatchError, got %#v", e)
		}
		if ae.Expected != 2 || ae.Actual != 1 {
			t.Fatalf("case 2: expected 2/1, got %d/%d", ae.Expected, ae.Actual)
		}
	}
}

func TestEnvironmentSet(t *testing.T) {
	{ // Set mutates the defining frame through children
		root := NewEnvironment(nil)
		root.Define("x", val.Int64(1))

		child := NewEnvironment(root)
		if e := child.Set("x", val.Int64(9)); e != nil {
			t.Fatalf("case 1: %v", e)
		}
		if v, _ := root.Lookup("x"); !v.Equals(val.Int64(9)) {
			t.Fatalf("case 1: defining frame not updated: %v", v)
		}
		if _, ok := child.frame["x"]; ok {
			t.Fatal("case 1: Set created a binding in the child frame")
		}
	}
	{ // Set on an undefined name fails, never creates
		env := NewEnvironment(nil)
		if e := env.Set("ghost", val.Int64(1)); e == nil {
			t.Fatal("case 2: expected UnboundVariableError")
		}
		if _, ok := env.frame["ghost"]; ok {
			t.Fatal("case 2: Set created a binding")
		}
	}
}
