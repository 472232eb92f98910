// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"time"
)

type Value interface {
	Copy() Value
	Equals(Value) bool
	Transform(func(Value) Value) Value
	Primitive() bool
	Type() Type
}

func TransformIdentity(v Value) Value {
	return v
}

type List []Value

func (v List) Transform(f func(Value) Value) Value {
	c := make(List, len(v))
	for i, w := range v {
		c[i] = w.Transform(f)
	}
	return f(c)
}

func (l List) Equals(v Value) bool {
	q, ok := v.(List)
	if !ok {
		return false
	}
	if len(l) != len(q) {
		return false
	}
	for i := 0; i < len(l); i++ {
		if !l[i].Equals(q[i]) {
			return false
		}
	}
	return true
}

func (l List) Copy() Value {
	return l.Transform(TransformIdentity)
}

func (l List) Map(f func(int, Value) Value) List {
	return l.Copy().(List).OverMap(f)
}

// Like Map, but overwrites list elements in-place
func (l List) OverMap(f func(int, Value) Value) List {
	for i, v := range l {
		l[i] = f(i, v)
	}
	return l
}

func (v List) Primitive() bool {
	return false
}

type Union struct {
	Case  string
	Value Value
}

func (v Union) Transform(f func(Value) Value) Value {
	return f(Union{v.Case, v.Value.Transform(f)})
}

func (v Union) Copy() Value {
	return Union{v.Case, v.Value.Copy()}
}

func (u Union) Equals(v Value) bool {
	q, ok := v.(Union)
	return ok && u.Case == q.Case && u.Value.Equals(q.Value)
}

func (v Union) Primitive() bool {
	return false
}

type Struct map[string]Value

func (v Struct) Transform(f func(Value) Value) Value {
	c := make(Struct, len(v))
	for k, w := range v {
		c[k] = w.Transform(f)
	}
	return f(c)
}

func (s Struct) Copy() Value {
	return s.Transform(TransformIdentity)
}

func (s Struct) Equals(v Value) bool {
	q, ok := v.(Struct)
	if !ok {
		return false
	}
	if len(q) != len(s) {
		return false
	}
	for k, v := range s {
		w, ok := q[k]
		if !ok {
			return false
		}
		if !v.Equals(w) {
			return false
		}
	}
	return true
}

func (s Struct) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

func (s Struct) Field(k string) Value {
	w, ok := s[k]
	if !ok {
		return nil
	}
	return w
}

func (s Struct) OverMap(f func(string, Value) Value) Struct {
	for k, v := range s {
		s[k] = f(k, v)
	}
	return s
}

func (v Struct) Primitive() bool {
	return false
}

type Map map[string]Value

func (v Map) Transform(f func(Value) Value) Value {
	c := make(Map, len(v))
	for k, w := range v {
		c[k] = w.Transform(f)
	}
	return f(c)
}

func (m Map) Copy() Value {
	return m.Transform(TransformIdentity)
}

func (m Map) Equals(v Value) bool {
	q, ok := v.(Map)
	if !ok {
		return false
	}
	if len(q) != len(m) {
		return false
	}
	for k, v := range m {
		w, ok := q[k]
		if !ok {
			return false
		}
		if !v.Equals(w) {
			return false
		}
	}
	return true
}

func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// Like Map, but overwrites map elements in-place
func (m Map) OverMap(f func(string, Value) Value) Map {
	for k, v := range m {
		m[k] = f(k, v)
	}
	return m
}

func (v Map) Primitive() bool {
	return false
}

type Float float64

func (v Float) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Float) Copy() Value {
	return x
}

func (x Float) Equals(v Value) bool {
	return x == v
}

func (v Float) Primitive() bool {
	return true
}

type Bool bool

func (v Bool) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Bool) Copy() Value {
	return x
}

func (b Bool) Equals(v Value) bool {
	return b == v
}

func (v Bool) Primitive() bool {
	return true
}

type String string

func (v String) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x String) Copy() Value {
	return x
}

func (s String) Equals(v Value) bool {
	q, ok := v.(String)
	return ok && s == q
}

func (s String) String() string {
	return string(s)
}

func (v String) Primitive() bool {
	return true
}

type Int64 int64

func (v Int64) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Int64) Copy() Value {
	return x
}

func (x Int64) Equals(v Value) bool {
	return x == v
}

func (v Int64) Primitive() bool {
	return true
}

type DateTime struct {
	time.Time
}

func (v DateTime) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x DateTime) Copy() Value {
	return x
}

func (x DateTime) Equals(v Value) bool {
	return x == v
}

func (v DateTime) Primitive() bool {
	return true
}

var Null = null{}

type null struct{}

func (v null) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x null) Copy() Value {
	return x
}

func (x null) Equals(v Value) bool {
	return x == v
}

func (v null) Primitive() bool {
	return true
}

type Symbol string

func (v Symbol) Transform(f func(Value) Value) Value {
	return f(v)
}

func (x Symbol) Copy() Value {
	return x
}

func (x Symbol) Equals(v Value) bool {
	return x == v
}

func (v Symbol) Primitive() bool {
	return true
}
