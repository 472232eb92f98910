// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/karmarun/rule.run/rvm/xpr"
)

// Rule pairs a condition expression with an action expression.
// Rules are stateless and safe to apply repeatedly and concurrently
// against independent Environments.
type Rule struct {
	Id        string
	Condition xpr.Expression
	Action    xpr.Expression
	Meta      RuleMeta
}

type RuleMeta struct {
	Description string
	Rationale   string
	ErrorKey    string
}

// ApplyRule evaluates the rule's condition in env. If the condition is
// truthy it evaluates and returns the action in the same env, otherwise
// it returns val.Null. "Rule did not fire" is a normal outcome, not an
// error.
func ApplyRule(r Rule, env *Environment) (val.Value, err.Error) {
	c, e := Evaluate(r.Condition, env)
	if e != nil {
		return nil, e
	}
	if !Truthy(c) {
		return val.Null, nil
	}
	return Evaluate(r.Action, env)
}

// RuleFromValue parses the wire/storage form of a Rule.
func RuleFromValue(v val.Value) (Rule, err.Error) {

	id, ok := ruleField(v, "id").(val.String)
	if !ok {
		return Rule{}, err.CompilationError{
			Problem: `rule: id must be a string`,
			Program: v,
		}
	}

	condition, e := xpr.ExpressionFromValue(ruleField(v, "condition"))
	if e != nil {
		return Rule{}, e
	}

	action, e := xpr.ExpressionFromValue(ruleField(v, "action"))
	if e != nil {
		return Rule{}, e
	}

	meta := RuleMeta{}
	if mv := ruleField(v, "meta"); mv != nil && mv != val.Null {
		if s, ok := ruleField(mv, "description").(val.String); ok {
			meta.Description = string(s)
		}
		if s, ok := ruleField(mv, "rationale").(val.String); ok {
			meta.Rationale = string(s)
		}
		if s, ok := ruleField(mv, "errorKey").(val.String); ok {
			meta.ErrorKey = string(s)
		}
	}

	return Rule{string(id), condition, action, meta}, nil
}

// Value is the inverse of RuleFromValue.
func (r Rule) Value() val.Value {
	return val.Struct{
		"id":        val.String(r.Id),
		"condition": xpr.ExpressionToValue(r.Condition),
		"action":    xpr.ExpressionToValue(r.Action),
		"meta": val.Struct{
			"description": val.String(r.Meta.Description),
			"rationale":   val.String(r.Meta.Rationale),
			"errorKey":    val.String(r.Meta.ErrorKey),
		},
	}
}

func ruleField(v val.Value, name string) val.Value {
	switch v := v.(type) {
	case val.Struct:
		return v.Field(name)
	case val.Map:
		if w, ok := v[name]; ok {
			return w
		}
	}
	return nil
}
