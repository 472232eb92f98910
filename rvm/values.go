// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/karmarun/rule.run/rvm/xpr"
)

// Native is a host-provided callable. It carries no captured Environment
// and is applied directly to its evaluated argument list.
type Native func(args []val.Value) (val.Value, err.Error)

func (v Native) Transform(f func(val.Value) val.Value) val.Value {
	return f(v)
}

func (v Native) Copy() val.Value {
	return v
}

// functions have no useful equality
func (v Native) Equals(w val.Value) bool {
	return false
}

func (v Native) Primitive() bool {
	return false
}

func (v Native) Type() val.Type {
	return val.TypeFunction
}

// Closure is the runtime value of a Lambda: parameter names, a body
// expression and the Environment captured at the point of evaluation.
// Closures are immutable.
type Closure struct {
	Parameters []string
	Body       xpr.Expression
	Env        *Environment
}

func (v Closure) Transform(f func(val.Value) val.Value) val.Value {
	return f(v)
}

func (v Closure) Copy() val.Value {
	return v
}

func (v Closure) Equals(w val.Value) bool {
	return false
}

func (v Closure) Primitive() bool {
	return false
}

func (v Closure) Type() val.Type {
	return val.TypeFunction
}
