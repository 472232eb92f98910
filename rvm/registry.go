// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"fmt"
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/kr/pretty"
	"log"
)

// Registry is the bootstrap set of native callables bound into a root
// Environment. It is the single supported extension point: embedding
// applications add capability by registering natives and binding domain
// data, never by modifying the evaluator.
type Registry map[string]Native

func (r Registry) Register(name string, fn Native) {
	if _, ok := r[name]; ok {
		log.Panicf(`native already registered for name: %s`, name)
	}
	r[name] = fn
}

// NewEnvironment builds a fresh root Environment with every registered
// native defined in its frame. The returned Environment must not be
// written concurrently; derive per-evaluation children from it instead.
func (r Registry) NewEnvironment() *Environment {
	env := NewEnvironment(nil)
	for name, fn := range r {
		env.Define(name, fn)
	}
	return env
}

// BaseRegistry returns a Registry holding the logical, comparison and
// arithmetic primitives of the rule language.
func BaseRegistry() Registry {
	r := make(Registry, 32)

	r.Register("and", func(args []val.Value) (val.Value, err.Error) {
		for _, a := range args {
			if !Truthy(a) {
				return val.Bool(false), nil
			}
		}
		return val.Bool(true), nil
	})

	r.Register("or", func(args []val.Value) (val.Value, err.Error) {
		for _, a := range args {
			if Truthy(a) {
				return val.Bool(true), nil
			}
		}
		return val.Bool(false), nil
	})

	r.Register("not", func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(1, args); e != nil {
			return nil, e
		}
		return val.Bool(!Truthy(args[0])), nil
	})

	r.Register("=", func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(2, args); e != nil {
			return nil, e
		}
		return val.Bool(valuesEqual(args[0], args[1])), nil
	})

	r.Register("!=", func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(2, args); e != nil {
			return nil, e
		}
		return val.Bool(!valuesEqual(args[0], args[1])), nil
	})

	r.Register("<", compareNative("<", func(c int) bool { return c < 0 }))
	r.Register(">", compareNative(">", func(c int) bool { return c > 0 }))
	r.Register("<=", compareNative("<=", func(c int) bool { return c <= 0 }))
	r.Register(">=", compareNative(">=", func(c int) bool { return c >= 0 }))

	r.Register("+", arithmeticNative("+",
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b },
	))
	r.Register("-", arithmeticNative("-",
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b },
	))
	r.Register("*", arithmeticNative("*",
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b },
	))

	r.Register("/", func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(2, args); e != nil {
			return nil, e
		}
		if i, ok := args[1].(val.Int64); ok && i == 0 {
			return nil, err.ExecutionError{Problem: `/: division by zero`}
		}
		if f, ok := args[1].(val.Float); ok && f == 0 {
			return nil, err.ExecutionError{Problem: `/: division by zero`}
		}
		return arithmeticNative("/",
			func(a, b int64) int64 { return a / b },
			func(a, b float64) float64 { return a / b },
		)(args)
	})

	r.Register("present?", func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(1, args); e != nil {
			return nil, e
		}
		return val.Bool(args[0] != nil && args[0] != val.Null), nil
	})

	r.Register("length", func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(1, args); e != nil {
			return nil, e
		}
		switch a := args[0].(type) {
		case val.String:
			return val.Int64(len(a)), nil
		case val.List:
			return val.Int64(len(a)), nil
		case val.Map:
			return val.Int64(len(a)), nil
		case val.Struct:
			return val.Int64(len(a)), nil
		}
		return nil, err.ExecutionError{
			Problem: fmt.Sprintf(`length: expected string, list, map or struct, got %s`, describe(args[0])),
		}
	})

	r.Register("debug", func(args []val.Value) (val.Value, err.Error) {
		for _, a := range args {
			pretty.Println(a)
		}
		if len(args) == 0 {
			return val.Null, nil
		}
		return args[len(args)-1], nil
	})

	return r
}

func expectArity(n int, args []val.Value) err.Error {
	if len(args) != n {
		return err.ArityMismatchError{
			Expected: n,
			Actual:   len(args),
		}
	}
	return nil
}

// valuesEqual compares across the numeric types so that Int64(7)
// equals Float(7).
func valuesEqual(a, b val.Value) bool {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			return x == y
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

func compareNative(name string, accept func(int) bool) Native {
	return func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(2, args); e != nil {
			return nil, e
		}
		c, e := compare(name, args[0], args[1])
		if e != nil {
			return nil, e
		}
		return val.Bool(accept(c)), nil
	}
}

func compare(name string, a, b val.Value) (int, err.Error) {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		}
	}
	if x, ok := a.(val.String); ok {
		if y, ok := b.(val.String); ok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		}
	}
	if x, ok := a.(val.DateTime); ok {
		if y, ok := b.(val.DateTime); ok {
			switch {
			case x.Before(y.Time):
				return -1, nil
			case x.After(y.Time):
				return 1, nil
			}
			return 0, nil
		}
	}
	return 0, err.ExecutionError{
		Problem: fmt.Sprintf(`%s: cannot compare %s with %s`, name, describe(a), describe(b)),
	}
}

func arithmeticNative(name string, ints func(a, b int64) int64, floats func(a, b float64) float64) Native {
	return func(args []val.Value) (val.Value, err.Error) {
		if e := expectArity(2, args); e != nil {
			return nil, e
		}
		if x, ok := args[0].(val.Int64); ok {
			if y, ok := args[1].(val.Int64); ok {
				return val.Int64(ints(int64(x), int64(y))), nil
			}
		}
		x, xok := numeric(args[0])
		y, yok := numeric(args[1])
		if !xok || !yok {
			return nil, err.ExecutionError{
				Problem: fmt.Sprintf(`%s: expected numbers, got %s and %s`, name, describe(args[0]), describe(args[1])),
			}
		}
		return val.Float(floats(x, y)), nil
	}
}

func numeric(v val.Value) (float64, bool) {
	switch v := v.(type) {
	case val.Int64:
		return float64(v), true
	case val.Float:
		return float64(v), true
	}
	return 0, false
}
