// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package json

import (
	"bytes"
	ej "encoding/json"
	"fmt"
	"github.com/karmarun/rule.run/codec"
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"log"
	"sort"
	"strconv"
	"time"
)

func init() {
	codec.Register("json", func() codec.Interface { return JsonCodec{} })
}

type JsonCodec struct{}

func (dec JsonCodec) Decode(json []byte) (val.Value, err.Error) {
	return Decode(json)
}

func (dec JsonCodec) Encode(v val.Value) []byte {
	return Encode(v)
}

type JSON []byte

func (j JSON) MarshalJSON() ([]byte, error) {
	return []byte(j), nil
}

func (j *JSON) UnmarshalJSON(json []byte) error {
	(*j) = append((*j)[:0], json...)
	return nil
}

func (j JSON) String() string {
	return string(j)
}

func Encode(value val.Value) JSON {
	return encode(value, make(JSON, 0, 1024*4))
}

func encode(value val.Value, cache JSON) JSON {
	if value == nil {
		log.Panicln("json/codec.Encode: value == nil")
	}
	if value == val.Null {
		return append(cache, "null"...)
	}
	switch v := value.(type) {

	case val.List:
		bs := cache
		bs = append(bs, '[')
		for i, w := range v {
			if i > 0 {
				bs = append(bs, ',')
			}
			bs = encode(w, bs)
		}
		bs = append(bs, ']')
		return bs

	case val.Union:
		bs := cache
		bs = append(bs, '[')
		cs, _ := ej.Marshal(v.Case)
		bs = append(bs, cs...)
		bs = append(bs, ',')
		bs = encode(v.Value, bs)
		bs = append(bs, ']')
		return bs

	case val.Struct:
		bs := cache
		bs = append(bs, '{')
		keys := v.Keys()
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				bs = append(bs, ',')
			}
			cs, _ := ej.Marshal(k)
			bs = append(bs, cs...)
			bs = append(bs, ':')
			bs = encode(v[k], bs)
		}
		bs = append(bs, '}')
		return bs

	case val.Map:
		bs := cache
		bs = append(bs, '{')
		keys := v.Keys()
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				bs = append(bs, ',')
			}
			cs, _ := ej.Marshal(k)
			bs = append(bs, cs...)
			bs = append(bs, ':')
			bs = encode(v[k], bs)
		}
		bs = append(bs, '}')
		return bs

	case val.String:
		bs, _ := ej.Marshal(v)
		return append(cache, bs...)

	case val.Symbol:
		bs, _ := ej.Marshal(v)
		return append(cache, bs...)

	case val.DateTime:
		bs, _ := ej.Marshal(v.Format(time.RFC3339))
		return append(cache, bs...)

	case val.Int64:
		return append(cache, strconv.FormatInt(int64(v), 10)...)

	case val.Float:
		return append(cache, strconv.FormatFloat(float64(v), 'g', -1, 64)...)

	case val.Bool:
		if v {
			return append(cache, "true"...)
		}
		return append(cache, "false"...)

	}
	panic(fmt.Sprintf(`JSON encoding unimplemented for type: %T`, value))
}

// Decode reads an untyped JSON document into the value model:
// objects become val.Map, arrays val.List, numbers val.Int64 when they
// carry no fraction or exponent and val.Float otherwise.
func Decode(json JSON) (val.Value, err.Error) {
	v, rest, e := decode(json)
	if e != nil {
		pe, ok := e.(err.InputParsingError)
		if !ok {
			return nil, e
		}
		return nil, err.CodecError{"json", len(json) - len(pe.Input), pe}
	}
	rest = skipWhiteSpace(rest)
	if len(rest) > 0 {
		return nil, err.CodecError{"json", len(json) - len(rest), err.InputParsingError{
			Problem: `unexpected data after document`,
			Input:   rest,
		}}
	}
	return v, nil
}

func decode(json JSON) (val.Value, JSON, err.Error) {
	json = skipWhiteSpace(json)
	if e := assertNonEmpty(json); e != nil {
		return nil, json, e
	}
	switch c := json[0]; {

	case c == 'n':
		json, e := readLiteral(`null`, json)
		if e != nil {
			return nil, json, e
		}
		return val.Null, json, nil

	case c == 't':
		json, e := readLiteral(`true`, json)
		if e != nil {
			return nil, json, e
		}
		return val.Bool(true), json, nil

	case c == 'f':
		json, e := readLiteral(`false`, json)
		if e != nil {
			return nil, json, e
		}
		return val.Bool(false), json, nil

	case c == '"':
		str, json, e := readString(json)
		if e != nil {
			return nil, json, e
		}
		return val.String(str), json, nil

	case c == '[':
		return decodeArray(json)

	case c == '{':
		return decodeObject(json)

	case c == '-' || (c >= '0' && c <= '9'):
		n, json, e := readJsonNumber(json)
		if e != nil {
			return nil, json, e
		}
		if bytes.ContainsAny(n, ".eE") {
			x, e_ := strconv.ParseFloat(string(n), 64)
			if e_ != nil {
				return nil, json, err.InputParsingError{
					Problem: `malformed float`,
					Input:   json,
				}
			}
			return val.Float(x), json, nil
		}
		x, e_ := strconv.ParseInt(string(n), 10, 64)
		if e_ != nil {
			ne := e_.(*strconv.NumError)
			if ne.Err == strconv.ErrRange {
				return nil, json, err.InputParsingError{
					Problem: `integer too large for type int64`,
					Input:   json,
				}
			}
			return nil, json, err.InputParsingError{
				Problem: `malformed integer`,
				Input:   json,
			}
		}
		return val.Int64(x), json, nil

	}
	return nil, json, err.InputParsingError{
		Problem: fmt.Sprintf(`unexpected character "%s"`, string(json[0])),
		Input:   json,
	}
}

// allows trailing commas
func decodeArray(json JSON) (val.Value, JSON, err.Error) {
	json, e := readLiteral(`[`, json)
	if e != nil {
		return nil, json, e
	}
	vs := make(val.List, 0, 16)
	for {
		if json, e := readLiteral(`]`, skipWhiteSpace(json)); e == nil {
			return vs, json, nil
		}
		v, temp, e := decode(json)
		if e != nil {
			return nil, temp, e
		}
		vs, json = append(vs, v), temp
		if temp, e := readLiteral(`,`, skipWhiteSpace(json)); e == nil {
			json = temp
			continue
		}
		json, e = readLiteral(`]`, skipWhiteSpace(json))
		if e != nil {
			return nil, json, e
		}
		return vs, json, nil
	}
}

// allows trailing commas
func decodeObject(json JSON) (val.Value, JSON, err.Error) {
	json, e := readLiteral(`{`, json)
	if e != nil {
		return nil, json, e
	}
	vs := make(val.Map, 16)
	for {
		if json, e := readLiteral(`}`, skipWhiteSpace(json)); e == nil {
			return vs, json, nil
		}
		str, temp, e := readString(skipWhiteSpace(json))
		if e != nil {
			return nil, temp, e
		}
		json, e = readLiteral(`:`, skipWhiteSpace(temp))
		if e != nil {
			return nil, json, e
		}
		v, temp, e := decode(json)
		if e != nil {
			return nil, temp, e
		}
		vs[str], json = v, temp
		if temp, e := readLiteral(`,`, skipWhiteSpace(json)); e == nil {
			json = temp
			continue
		}
		json, e = readLiteral(`}`, skipWhiteSpace(json))
		if e != nil {
			return nil, json, e
		}
		return vs, json, nil
	}
}

// postcondition: returns intact JSON on error
func readJsonNumber(json JSON) (JSON, JSON, err.Error) {
	input := json
	if e := assertNonEmpty(json); e != nil {
		return nil, input, e
	}
	if json[0] == '-' {
		json = json[1:]
		if e := assertNonEmpty(json); e != nil {
			return nil, input, e
		}
	}
	if json[0] == '0' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
		goto dotDecimals
	}
	if json[0] < '1' || json[0] > '9' {
		return nil, input, err.InputParsingError{
			Problem: fmt.Sprintf(`expected digit between 1 and 9, found "%s"`, string(json[0])),
			Input:   json,
		}
	}
	json = json[1:]
	if len(json) == 0 {
		return input[:len(input)-len(json)], json, nil
	}
	for json[0] >= '0' && json[0] <= '9' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
dotDecimals:
	if json[0] != '.' {
		goto exponent
	}
	json = json[1:]
	if len(json) == 0 {
		return input[:len(input)-len(json)], json, nil
	}
	for json[0] >= '0' && json[0] <= '9' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
exponent:
	if json[0] != 'e' && json[0] != 'E' {
		return input[:len(input)-len(json)], json, nil
	}
	json = json[1:]
	if len(json) == 0 {
		return input[:len(input)-len(json)], json, nil
	}
	if json[0] == '-' || json[0] == '+' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
	for json[0] >= '0' && json[0] <= '9' {
		json = json[1:]
		if len(json) == 0 {
			return input[:len(input)-len(json)], json, nil
		}
	}
	return input[:len(input)-len(json)], json, nil
}

// postcondition: returns intact JSON on error
func readString(json JSON) (string, JSON, err.Error) {
	input := json
	jstr, json, e := readJsonString(json)
	if e != nil {
		return "", input, e
	}
	value := ""
	if e := ej.Unmarshal(jstr, &value); e != nil {
		return "", input, err.InputParsingError{
			Problem: `malformed string`,
			Input:   input,
		}
	}
	return value, json, nil
}

// postcondition: returns intact JSON on error
func readJsonString(json JSON) (JSON, JSON, err.Error) {
	input := json
	json, e := readLiteral(`"`, json)
	if e != nil {
		return nil, input, e
	}
	escape := false
	for {
		if e := assertNonEmpty(json); e != nil {
			return nil, input, e
		}
		if json[0] == '"' && !escape {
			json = json[1:]
			break
		}
		if json[0] == '\\' && !escape {
			escape = true
			json = json[1:]
			continue
		}
		escape = false
		json = json[1:]
	}
	return input[:len(input)-len(json)], json, nil
}

func skipWhiteSpace(json JSON) JSON {
	for len(json) > 0 && (json[0] == '\t' || json[0] == '\n' || json[0] == '\r' || json[0] == ' ') {
		json = json[1:]
	}
	if len(json) > 1 && json[0] == '/' && json[1] == '/' {
		json = json[2:]
		for len(json) > 0 && json[0] != '\n' {
			json = json[1:]
		}
		if len(json) > 0 {
			json = json[1:] // skip last \n if there is one
		}
		return skipWhiteSpace(json)
	}
	return json
}

// postcondition: returns intact JSON on error
func readLiteral(lit string, json JSON) (JSON, err.Error) {
	bs := JSON(lit)
	if len(bs) > len(json) {
		return json, err.InputParsingError{
			Problem: fmt.Sprintf(`expected "%s", input too short`, bs),
			Input:   []byte(json),
		}
	}
	cs := json[:len(bs)]
	if !bytes.Equal(bs, cs) {
		return json, err.InputParsingError{
			Problem: fmt.Sprintf(`expected "%s" but found "%s"`, bs, cs),
			Input:   []byte(json),
		}
	}
	return json[len(bs):], nil
}

func assertNonEmpty(json JSON) err.Error {
	if len(json) == 0 {
		return err.InputParsingError{
			Problem: `unexpected end of input`,
			Input:   []byte(json),
		}
	}
	return nil
}
