// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
)

// Environment is a frame of bindings plus a link to a parent Environment,
// forming a lexical scope chain rooted at a single global Environment.
// Frames hold their own keys only; nothing is inherited through the map.
//
// The root frame is the only Environment legitimately shared between
// concurrent evaluations, and it must not be written after bootstrap.
// Every Closure application extends its captured Environment with a
// fresh frame, so sibling calls never share mutable state.
type Environment struct {
	frame  map[string]val.Value
	parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		frame:  make(map[string]val.Value, 8),
		parent: parent,
	}
}

// Extend builds a child Environment binding names to values positionally.
func (e *Environment) Extend(names []string, values []val.Value) (*Environment, err.Error) {
	if len(names) != len(values) {
		return nil, err.ArityMismatchError{
			Expected: len(names),
			Actual:   len(values),
		}
	}
	child := &Environment{
		frame:  make(map[string]val.Value, len(names)),
		parent: e,
	}
	for i, name := range names {
		child.frame[name] = values[i]
	}
	return child, nil
}

// Lookup walks the parent chain to the root.
func (e *Environment) Lookup(name string) (val.Value, err.Error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.frame[name]; ok {
			return v, nil
		}
	}
	return nil, err.UnboundVariableError{Name: name}
}

// Define inserts or overwrites a binding in e's own frame.
func (e *Environment) Define(name string, v val.Value) {
	e.frame[name] = v
}

// Set mutates the binding in the nearest enclosing frame that defines
// name. Unlike Define, it never creates a binding.
func (e *Environment) Set(name string, v val.Value) err.Error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.frame[name]; ok {
			env.frame[name] = v
			return nil
		}
	}
	return err.UnboundVariableError{Name: name}
}
