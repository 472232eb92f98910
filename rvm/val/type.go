// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"strings"
)

type Type uint64

const (
	TypeList Type = 1 << iota
	TypeUnion
	TypeStruct
	TypeMap
	TypeFloat
	TypeBool
	TypeString
	TypeInt64
	TypeDateTime
	TypeNull
	TypeSymbol
	TypeFunction
	lastType // internal marker
)

const AnyType = TypeList |
	TypeUnion |
	TypeStruct |
	TypeMap |
	TypeFloat |
	TypeBool |
	TypeString |
	TypeInt64 |
	TypeDateTime |
	TypeNull |
	TypeSymbol |
	TypeFunction

func (t Type) String() string {
	if t == 0 {
		return "unknown"
	}
	buf := make([]string, 0, 16)
	for i := Type(1); i < lastType; i <<= 1 {
		if i&t != 0 {
			buf = append(buf, typeToString(i))
		}
	}
	return strings.Join(buf, "|")
}

func typeToString(t Type) string {
	switch t {
	case TypeList:
		return "list"
	case TypeUnion:
		return "union"
	case TypeStruct:
		return "struct"
	case TypeMap:
		return "map"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeDateTime:
		return "dateTime"
	case TypeNull:
		return "null"
	case TypeSymbol:
		return "symbol"
	case TypeFunction:
		return "function"
	}
	return "unknown"
}

func (v List) Type() Type {
	return TypeList
}

func (v Union) Type() Type {
	return TypeUnion
}

func (v Struct) Type() Type {
	return TypeStruct
}

func (v Map) Type() Type {
	return TypeMap
}

func (v Float) Type() Type {
	return TypeFloat
}

func (v Bool) Type() Type {
	return TypeBool
}

func (v String) Type() Type {
	return TypeString
}

func (v Int64) Type() Type {
	return TypeInt64
}

func (v DateTime) Type() Type {
	return TypeDateTime
}

func (v null) Type() Type {
	return TypeNull
}

func (v Symbol) Type() Type {
	return TypeSymbol
}
