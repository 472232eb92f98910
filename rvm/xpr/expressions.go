// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"github.com/karmarun/rule.run/rvm/val"
)

// Literal is self-evaluating: it evaluates to its payload.
type Literal struct {
	Value val.Value
}

func (x Literal) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

// Quoted evaluates to its payload without evaluating children.
type Quoted struct {
	Value val.Value
}

func (x Quoted) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

type Variable struct {
	Name string
}

func (x Variable) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

type Lambda struct {
	Parameters []string
	Body       Expression
}

func (x Lambda) Transform(f func(Expression) Expression) Expression {
	return f(Lambda{x.Parameters, x.Body.Transform(f)})
}

type Application struct {
	Operator Expression
	Operands []Expression
}

func (x Application) Transform(f func(Expression) Expression) Expression {
	return f(Application{x.Operator.Transform(f), mapExpressions(x.Operands, f)})
}

// If.Else may be nil, in which case a falsy condition yields val.Null.
type If struct {
	Condition, Then, Else Expression
}

func (x If) Transform(f func(Expression) Expression) Expression {
	alt := Expression(nil)
	if x.Else != nil {
		alt = x.Else.Transform(f)
	}
	return f(If{x.Condition.Transform(f), x.Then.Transform(f), alt})
}

// Assignment mutates the nearest enclosing frame that defines Name.
// It never creates a binding.
type Assignment struct {
	Name  string
	Value Expression
}

func (x Assignment) Transform(f func(Expression) Expression) Expression {
	return f(Assignment{x.Name, x.Value.Transform(f)})
}

// Sequence evaluates its expressions in order and yields the last value.
// An empty Sequence has no defined result.
type Sequence []Expression

func (x Sequence) Transform(f func(Expression) Expression) Expression {
	return f(Sequence(mapExpressions(x, f)))
}

func mapExpressions(xs []Expression, f func(Expression) Expression) []Expression {
	out := make([]Expression, len(xs), len(xs))
	for i, x := range xs {
		out[i] = x.Transform(f)
	}
	return out
}
