// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"fmt"
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
)

type Expression interface {
	Transform(f func(Expression) Expression) Expression
}

// TransformIdentity is the identity function for Expressions
func TransformIdentity(x Expression) Expression {
	return x
}

// ExpressionFromValue parses the tagged wire form of an expression.
// A tagged value is a val.Union, or a val.Map/val.Struct with exactly
// one key from the reserved tag set. Anything untagged is a Literal.
// Data that collides with a reserved tag must be wrapped in "data".
func ExpressionFromValue(v val.Value) (Expression, err.Error) {

	if v == nil {
		return nil, err.CompilationError{
			Problem: `missing expression`,
			Program: nil,
		}
	}

	caze, payload, ok := tagOf(v)
	if !ok {
		return Literal{v}, nil
	}

	switch caze {

	case "data":
		return Literal{payload}, nil

	case "quote":
		return Quoted{payload}, nil

	case "var":
		name, ok := payload.(val.String)
		if !ok {
			return nil, err.CompilationError{
				Problem: `var: expected a string`,
				Program: v,
			}
		}
		return Variable{string(name)}, nil

	case "apply":
		operator, e := ExpressionFromValue(field(payload, "operator"))
		if e != nil {
			return nil, e
		}
		operands := []Expression(nil)
		if fv := field(payload, "operands"); fv != nil && fv != val.Null {
			fl, ok := fv.(val.List)
			if !ok {
				return nil, err.CompilationError{
					Problem: `apply: operands must be a list`,
					Program: v,
				}
			}
			operands = make([]Expression, 0, len(fl))
			for _, sub := range fl {
				x, e := ExpressionFromValue(sub)
				if e != nil {
					return nil, e
				}
				operands = append(operands, x)
			}
		}
		return Application{operator, operands}, nil

	case "lambda":
		params, e := stringList(field(payload, "params"))
		if e != nil {
			return nil, err.CompilationError{
				Problem: `lambda: params must be a list of strings`,
				Program: v,
			}
		}
		body, e := ExpressionFromValue(field(payload, "body"))
		if e != nil {
			return nil, e
		}
		return Lambda{params, body}, nil

	case "if":
		condition, e := ExpressionFromValue(field(payload, "condition"))
		if e != nil {
			return nil, e
		}
		then, e := ExpressionFromValue(field(payload, "then"))
		if e != nil {
			return nil, e
		}
		alternative := Expression(nil)
		if fv := field(payload, "else"); fv != nil && fv != val.Null {
			alternative, e = ExpressionFromValue(fv)
			if e != nil {
				return nil, e
			}
		}
		return If{condition, then, alternative}, nil

	case "assign":
		name, ok := field(payload, "name").(val.String)
		if !ok {
			return nil, err.CompilationError{
				Problem: `assign: name must be a string`,
				Program: v,
			}
		}
		value, e := ExpressionFromValue(field(payload, "value"))
		if e != nil {
			return nil, e
		}
		return Assignment{string(name), value}, nil

	case "do":
		fl, ok := payload.(val.List)
		if !ok {
			return nil, err.CompilationError{
				Problem: `do: expected a list of expressions`,
				Program: v,
			}
		}
		if len(fl) == 0 {
			return nil, err.CompilationError{
				Problem: `do: empty sequence has no result`,
				Program: v,
			}
		}
		seq := make(Sequence, 0, len(fl))
		for _, sub := range fl {
			x, e := ExpressionFromValue(sub)
			if e != nil {
				return nil, e
			}
			seq = append(seq, x)
		}
		return seq, nil

	}

	return Literal{v}, nil
}

// ExpressionToValue is the inverse of ExpressionFromValue.
func ExpressionToValue(x Expression) val.Value {

	switch x := x.(type) {

	case Literal:
		return val.Map{"data": x.Value}

	case Quoted:
		return val.Map{"quote": x.Value}

	case Variable:
		return val.Map{"var": val.String(x.Name)}

	case Application:
		operands := make(val.List, len(x.Operands), len(x.Operands))
		for i, sub := range x.Operands {
			operands[i] = ExpressionToValue(sub)
		}
		return val.Map{"apply": val.Struct{
			"operator": ExpressionToValue(x.Operator),
			"operands": operands,
		}}

	case Lambda:
		params := make(val.List, len(x.Parameters), len(x.Parameters))
		for i, p := range x.Parameters {
			params[i] = val.String(p)
		}
		return val.Map{"lambda": val.Struct{
			"params": params,
			"body":   ExpressionToValue(x.Body),
		}}

	case If:
		alternative := val.Value(val.Null)
		if x.Else != nil {
			alternative = ExpressionToValue(x.Else)
		}
		return val.Map{"if": val.Struct{
			"condition": ExpressionToValue(x.Condition),
			"then":      ExpressionToValue(x.Then),
			"else":      alternative,
		}}

	case Assignment:
		return val.Map{"assign": val.Struct{
			"name":  val.String(x.Name),
			"value": ExpressionToValue(x.Value),
		}}

	case Sequence:
		seq := make(val.List, len(x), len(x))
		for i, sub := range x {
			seq[i] = ExpressionToValue(sub)
		}
		return val.Map{"do": seq}

	}

	panic(fmt.Sprintf(`ExpressionToValue: unhandled expression type: %T`, x))
}

var reservedTags = map[string]bool{
	"data":   true,
	"quote":  true,
	"var":    true,
	"apply":  true,
	"lambda": true,
	"if":     true,
	"assign": true,
	"do":     true,
}

func tagOf(v val.Value) (string, val.Value, bool) {
	switch v := v.(type) {
	case val.Union:
		return v.Case, v.Value, true
	case val.Map:
		if len(v) != 1 {
			return "", nil, false
		}
		for k, w := range v {
			if reservedTags[k] {
				return k, w, true
			}
		}
	case val.Struct:
		if len(v) != 1 {
			return "", nil, false
		}
		for k, w := range v {
			if reservedTags[k] {
				return k, w, true
			}
		}
	}
	return "", nil, false
}

func field(payload val.Value, name string) val.Value {
	switch payload := payload.(type) {
	case val.Struct:
		return payload.Field(name)
	case val.Map:
		if w, ok := payload[name]; ok {
			return w
		}
	}
	return nil
}

func stringList(v val.Value) ([]string, err.Error) {
	if v == nil || v == val.Null {
		return nil, nil
	}
	fl, ok := v.(val.List)
	if !ok {
		return nil, err.CompilationError{
			Problem: `expected a list of strings`,
			Program: v,
		}
	}
	out := make([]string, 0, len(fl))
	for _, sub := range fl {
		s, ok := sub.(val.String)
		if !ok {
			return nil, err.CompilationError{
				Problem: `expected a list of strings`,
				Program: v,
			}
		}
		out = append(out, string(s))
	}
	return out, nil
}
