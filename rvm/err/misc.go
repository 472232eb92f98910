// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"
	"github.com/karmarun/rule.run/rvm/val"
)

type ErrorList []Error

func (a ErrorList) OverMap(f func(Error) Error) ErrorList {
	for i, b := range a {
		a[i] = f(b)
	}
	return a
}

func (e ErrorList) Value() val.Union {
	l := make(val.List, len(e), len(e))
	for i, e := range e {
		l[i] = e.Value()
	}
	return val.Union{"errorList", l}
}
func (e ErrorList) Error() string {
	return e.String()
}
func (e ErrorList) String() string {
	out := ""
	for _, e := range e {
		out += e.String() + "\n\n"
	}
	return out
}
func (e ErrorList) Child() Error {
	return nil
}

// UnboundVariableError reports a variable reference or assignment
// against a name absent from the entire environment chain.
type UnboundVariableError struct {
	Name   string
	Child_ Error
}

func (e UnboundVariableError) Value() val.Union {
	return val.Union{"unboundVariableError", val.String(e.Name)}
}
func (e UnboundVariableError) Error() string {
	return e.String()
}
func (e UnboundVariableError) String() string {
	out := "Unbound Variable Error\n"
	out += "======================\n"
	out += "Name\n"
	out += "----\n"
	out += e.Name + "\n\n"
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e UnboundVariableError) Child() Error {
	return e.Child_
}

// UnknownExpressionError reports an expression node foreign to the
// evaluator. It indicates a broken invariant, not bad user input.
type UnknownExpressionError struct {
	Expression string // Go type description of the offending node
}

func (e UnknownExpressionError) Value() val.Union {
	return val.Union{"unknownExpressionError", val.String(e.Expression)}
}
func (e UnknownExpressionError) Error() string {
	return e.String()
}
func (e UnknownExpressionError) String() string {
	out := "Unknown Expression Error\n"
	out += "========================\n"
	out += "Expression\n"
	out += "----------\n"
	out += e.Expression + "\n\n"
	return out
}
func (e UnknownExpressionError) Child() Error {
	return nil
}

type ArityMismatchError struct {
	Expected int
	Actual   int
	Child_   Error
}

func (e ArityMismatchError) Value() val.Union {
	return val.Union{"arityMismatchError", val.Struct{
		"expected": val.Int64(e.Expected),
		"actual":   val.Int64(e.Actual),
	}}
}
func (e ArityMismatchError) Error() string {
	return e.String()
}
func (e ArityMismatchError) String() string {
	out := "Arity Mismatch Error\n"
	out += "====================\n"
	out += fmt.Sprintf("expected %d argument(s), got %d\n\n", e.Expected, e.Actual)
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e ArityMismatchError) Child() Error {
	return e.Child_
}

type CompilationError struct {
	Problem string
	Program val.Value
	Child_  Error
}

func (e CompilationError) Value() val.Union {
	if e.Program == nil {
		e.Program = val.String("(unknown)")
	}
	return val.Union{"compilationError", val.Struct{
		"problem": val.String(e.Problem),
		"program": e.Program,
	}}
}
func (e CompilationError) Error() string {
	return e.String()
}
func (e CompilationError) String() string {
	out := "Compilation Error\n"
	out += "=================\n"
	out += "Problem\n"
	out += "-------\n"
	out += e.Problem + "\n\n"
	out += "Program\n"
	out += "-------\n"
	out += ValueToHuman(e.Program) + "\n\n"
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e CompilationError) Child() Error {
	return e.Child_
}

type ExecutionError struct {
	Problem string
	Child_  Error
}

func (e ExecutionError) Value() val.Union {
	return val.Union{"executionError", val.Struct{
		"problem": val.String(e.Problem),
	}}
}
func (e ExecutionError) Error() string {
	return e.String()
}
func (e ExecutionError) String() string {
	out := "Execution Error\n"
	out += "===============\n"
	out += "Problem\n"
	out += "-------\n"
	out += e.Problem + "\n\n"
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e ExecutionError) Child() Error {
	return e.Child_
}

type RuleNotFoundError struct {
	Id string
}

func (e RuleNotFoundError) Value() val.Union {
	return val.Union{"ruleNotFoundError", val.String(e.Id)}
}
func (e RuleNotFoundError) Error() string {
	return e.String()
}
func (e RuleNotFoundError) String() string {
	out := "Rule Not Found Error\n"
	out += "====================\n"
	out += "Id\n"
	out += "--\n"
	out += e.Id + "\n\n"
	return out
}
func (e RuleNotFoundError) Child() Error {
	return nil
}

type PermissionDeniedError struct {
	Child_ Error
}

func (e PermissionDeniedError) Value() val.Union {
	return val.Union{"permissionDeniedError", val.Struct{}}
}
func (e PermissionDeniedError) Error() string {
	return e.String()
}
func (e PermissionDeniedError) String() string {
	out := "Permission Denied Error\n"
	out += "=======================\n\n"
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e PermissionDeniedError) Child() Error {
	return e.Child_
}

type InternalError struct {
	Problem string
	Child_  Error
}

func (e InternalError) Value() val.Union {
	return val.Union{"internalError", val.String(e.Problem)}
}
func (e InternalError) Error() string {
	return e.String()
}
func (e InternalError) String() string {
	out := "Internal Error\n"
	out += "==============\n"
	out += "Please excuse us, rule.run slipped and fell on its face.\n\n"
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e InternalError) Child() Error {
	return e.Child_
}

type RequestError struct {
	Problem string
	Child_  Error
}

func (e RequestError) Value() val.Union {
	return val.Union{"requestError", val.String(e.Problem)}
}
func (e RequestError) Error() string {
	return e.String()
}
func (e RequestError) String() string {
	out := "Request Error\n"
	out += "=============\n"
	out += "Problem\n"
	out += "-------\n"
	out += e.Problem + "\n\n"
	if e.Child_ != nil {
		out += e.Child_.String()
	}
	return out
}
func (e RequestError) Child() Error {
	return e.Child_
}
