// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"fmt"
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/karmarun/rule.run/rvm/xpr"
)

// Evaluate walks an expression tree against an Environment chain.
// It is synchronous and never yields; non-terminating programs are
// bounded by the Go call stack, not by this package.
func Evaluate(x xpr.Expression, env *Environment) (val.Value, err.Error) {

	switch x := x.(type) {

	case xpr.Literal:
		return x.Value, nil

	case xpr.Quoted:
		return x.Value, nil

	case xpr.Variable:
		return env.Lookup(x.Name)

	case xpr.Assignment:
		v, e := Evaluate(x.Value, env)
		if e != nil {
			return nil, e
		}
		if e := env.Set(x.Name, v); e != nil {
			return nil, e
		}
		return v, nil

	case xpr.If:
		c, e := Evaluate(x.Condition, env)
		if e != nil {
			return nil, e
		}
		if Truthy(c) {
			return Evaluate(x.Then, env)
		}
		if x.Else == nil {
			return val.Null, nil
		}
		return Evaluate(x.Else, env)

	case xpr.Sequence:
		if len(x) == 0 {
			return nil, err.ExecutionError{
				Problem: `do: empty sequence has no result`,
			}
		}
		out := val.Value(val.Null)
		for _, sub := range x {
			v, e := Evaluate(sub, env)
			if e != nil {
				return nil, e
			}
			out = v
		}
		return out, nil

	case xpr.Lambda:
		return Closure{x.Parameters, x.Body, env}, nil

	case xpr.Application:
		operator, e := Evaluate(x.Operator, env)
		if e != nil {
			return nil, e
		}
		args := make([]val.Value, len(x.Operands), len(x.Operands))
		for i, sub := range x.Operands {
			v, e := Evaluate(sub, env)
			if e != nil {
				return nil, e
			}
			args[i] = v
		}
		return Apply(operator, args)

	}

	return nil, err.UnknownExpressionError{
		Expression: fmt.Sprintf("%T", x),
	}
}

// Apply invokes a callable value with an evaluated argument list.
// Natives are called directly; Closures extend their captured
// Environment with a fresh frame binding parameters to arguments.
func Apply(operator val.Value, args []val.Value) (val.Value, err.Error) {

	switch operator := operator.(type) {

	case Native:
		return operator(args)

	case Closure:
		env, e := operator.Env.Extend(operator.Parameters, args)
		if e != nil {
			return nil, e
		}
		return Evaluate(operator.Body, env)

	}

	return nil, err.ExecutionError{
		Problem: fmt.Sprintf(`apply: not a function: %s`, describe(operator)),
	}
}

// Truthy decides branching for If and for rule conditions.
// Policy: only val.Bool(false) and val.Null are falsy. Zero, the empty
// string and empty collections are all truthy.
func Truthy(v val.Value) bool {
	if v == nil || v == val.Null {
		return false
	}
	if b, ok := v.(val.Bool); ok {
		return bool(b)
	}
	return true
}

func describe(v val.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type().String()
}
