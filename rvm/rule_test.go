// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/karmarun/rule.run/rvm/xpr"
	"github.com/kr/pretty"
	"testing"
)

func largeTransactionRule() Rule {
	return Rule{
		Id: "large-transaction",
		Condition: xpr.Application{xpr.Variable{">="}, []xpr.Expression{
			xpr.Variable{"amount"},
			xpr.Literal{val.Int64(1000)},
		}},
		Action: xpr.Literal{val.String("flag-for-review")},
		Meta: RuleMeta{
			Description: "flag transactions of 1000 or more",
			ErrorKey:    "transaction.large",
		},
	}
}

func TestApplyRule(t *testing.T) {
	r := largeTransactionRule()
	{ // condition holds, action result returned
		v, e := ApplyRule(r, newSession(map[string]val.Value{
			"amount": val.Int64(1500),
		}))
		if e != nil {
			t.Fatalf("case 1: %v", e)
		}
		if !v.Equals(val.String("flag-for-review")) {
			t.Fatalf("case 1: expected action result, got %s", pretty.Sprint(v))
		}
	}
	{ // condition fails, rule does not fire
		v, e := ApplyRule(r, newSession(map[string]val.Value{
			"amount": val.Int64(500),
		}))
		if e != nil {
			t.Fatalf("case 2: %v", e)
		}
		if v != val.Null {
			t.Fatalf("case 2: expected null, got %s", pretty.Sprint(v))
		}
	}
	{ // missing binding surfaces as an error, not a non-fire
		_, e := ApplyRule(r, newSession(nil))
		if e == nil {
			t.Fatal("case 3: expected an error for unbound amount")
		}
	}
	{ // action may reference the same bindings as the condition
		echo := Rule{
			Id:        "echo-amount",
			Condition: r.Condition,
			Action:    xpr.Variable{"amount"},
		}
		v, e := ApplyRule(echo, newSession(map[string]val.Value{
			"amount": val.Int64(2000),
		}))
		if e != nil {
			t.Fatalf("case 4: %v", e)
		}
		if !v.Equals(val.Int64(2000)) {
			t.Fatalf("case 4: expected 2000, got %s", pretty.Sprint(v))
		}
	}
	{ // repeated application over independent sessions
		for i := 0; i < 3; i++ {
			v, e := ApplyRule(r, newSession(map[string]val.Value{
				"amount": val.Int64(2000),
			}))
			if e != nil {
				t.Fatalf("case 5: %v", e)
			}
			if !v.Equals(val.String("flag-for-review")) {
				t.Fatalf("case 5: run %d diverged: %s", i, pretty.Sprint(v))
			}
		}
	}
}

func TestRuleValueRoundTrip(t *testing.T) {
	r := largeTransactionRule()
	v := r.Value()
	q, e := RuleFromValue(v)
	if e != nil {
		t.Fatal(e)
	}
	if q.Id != r.Id || q.Meta != r.Meta {
		t.Fatalf("metadata lost in round trip: %s", pretty.Sprint(q))
	}
	if !xpr.ExpressionToValue(q.Condition).Equals(xpr.ExpressionToValue(r.Condition)) {
		t.Fatal("condition lost in round trip")
	}
	if !xpr.ExpressionToValue(q.Action).Equals(xpr.ExpressionToValue(r.Action)) {
		t.Fatal("action lost in round trip")
	}
	{ // behavior survives the round trip
		a, e := ApplyRule(q, newSession(map[string]val.Value{"amount": val.Int64(1000)}))
		if e != nil {
			t.Fatal(e)
		}
		if !a.Equals(val.String("flag-for-review")) {
			t.Fatalf("reparsed rule behaves differently: %s", pretty.Sprint(a))
		}
	}
}

func TestRuleFromValueRejectsMissingId(t *testing.T) {
	_, e := RuleFromValue(val.Struct{
		"condition": val.Map{"data": val.Bool(true)},
		"action":    val.Map{"data": val.Int64(1)},
	})
	if e == nil {
		t.Fatal("expected an error for missing id")
	}
}
