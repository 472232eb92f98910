// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"
	"github.com/karmarun/rule.run/rvm/val"
	"sort"
	"strings"
	"time"
)

type HumanReadableError struct {
	Error_ Error
}

func (e HumanReadableError) Value() val.Union {
	return val.Union{"humanReadableError", val.Struct{
		"human":   val.String(e.Error_.String()),
		"machine": e.Error_.Value(),
	}}
}
func (e HumanReadableError) Error() string {
	return e.String()
}
func (e HumanReadableError) String() string {
	out := "Human Readable Error\n"
	out += "====================\n"
	out += e.Error_.String() + "\n"
	return out
}
func (e HumanReadableError) Child() Error {
	return nil
}

const indentUnit = "  "

func ValueToHuman(v val.Value) string {
	return valueToHuman(v, 0)
}

func valueToHuman(v val.Value, indent int) string {
	if v == nil {
		return "(unknown)"
	}
	if v == val.Null {
		return "null"
	}
	indentation := strings.Repeat(indentUnit, indent)
	switch v := v.(type) {
	case val.Union:
		return fmt.Sprintf("%s(%s)", v.Case, valueToHuman(v.Value, indent))
	case val.Struct:
		if len(v) == 0 {
			return "struct{}"
		}
		subIndentation := strings.Repeat(indentUnit, indent+1)
		args := "\n"
		keys := v.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			args += subIndentation + k + ": " + valueToHuman(v[k], indent+1) + ",\n"
		}
		return fmt.Sprintf("struct {%s%s}", args, indentation)
	case val.Map:
		if len(v) == 0 {
			return "map{}"
		}
		subIndentation := strings.Repeat(indentUnit, indent+1)
		args := "\n"
		keys := v.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			args += subIndentation + fmt.Sprintf(`"%s" => `, k) + valueToHuman(v[k], indent+1) + ",\n"
		}
		return fmt.Sprintf("map {%s%s}", args, indentation)
	case val.List:
		if len(v) == 0 {
			return "list[]"
		}
		subIndentation := strings.Repeat(indentUnit, indent+1)
		args := "\n"
		for _, w := range v {
			args += subIndentation + valueToHuman(w, indent+1) + ",\n"
		}
		return fmt.Sprintf("list [%s%s]", args, indentation)
	case val.Bool:
		if v {
			return "true"
		}
		return "false"
	case val.DateTime:
		return v.Format(time.RFC3339)
	case val.Float:
		return fmt.Sprintf("%f", v)
	case val.String:
		return fmt.Sprintf(`"%s"`, v)
	case val.Symbol:
		return fmt.Sprintf("%s", v)
	case val.Int64:
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("<%s>", v.Type())
}
