// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/rule.run/codec"
	"github.com/karmarun/rule.run/definitions"
	"github.com/karmarun/rule.run/rvm"
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"github.com/karmarun/rule.run/rvm/xpr"
	"log"
	"net/http"
	"strings"
)

// EvaluateHttpHandler evaluates an ad-hoc expression against a fresh
// session. Payload: {"expression": <expr>, "bindings": {...}}.
func EvaluateHttpHandler(rw http.ResponseWriter, rq *http.Request) {

	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	dtbs := rq.Context().Value(ContextKeyDatabase).(*bolt.DB)

	payload := payloadFromRequest(rq)
	defer payload.Close()

	v, ke := cdc.Decode(payload)
	if ke != nil {
		writeError(rw, cdc, err.HumanReadableError{ke})
		return
	}

	exprValue := valueField(v, "expression")
	if exprValue == nil {
		writeError(rw, cdc, err.HumanReadableError{err.RequestError{Problem: `missing "expression" in payload`}})
		return
	}

	x, ke := xpr.ExpressionFromValue(exprValue)
	if ke != nil {
		writeError(rw, cdc, err.HumanReadableError{ke})
		return
	}

	tx, e := dtbs.Begin(false)
	if e != nil {
		log.Panicln(e)
	}
	defer tx.Rollback()

	bk := tx.Bucket(definitions.RootBucketBytes)
	if bk == nil {
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write(cdc.Encode(err.InternalError{Problem: `database uninitialized`}.Value()))
		return
	}

	vm := &rvm.VirtualMachine{RootBucket: bk}

	res, ke := rvm.Evaluate(x, vm.NewSession(bindingsFromValue(v)))
	if ke != nil {
		writeError(rw, cdc, err.HumanReadableError{ke})
		return
	}

	writeValue(rw, cdc, res)
}

// RuleHttpHandler serves the rule catalog:
//
//	GET    rules            list all rules
//	POST   rules            store a rule (payload: rule value)
//	GET    rules/<id>       fetch one rule
//	DELETE rules/<id>       remove one rule
//	POST   rules/<id>/apply apply a rule (payload: {"bindings": {...}})
func RuleHttpHandler(rw http.ResponseWriter, rq *http.Request, p string) {

	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	dtbs := rq.Context().Value(ContextKeyDatabase).(*bolt.DB)

	segments := strings.Split(p, "/")

	writable := rq.Method == http.MethodPost || rq.Method == http.MethodPut || rq.Method == http.MethodDelete
	if len(segments) == 3 && segments[2] == "apply" {
		writable = false
	}

	tx, e := dtbs.Begin(writable)
	if e != nil {
		log.Panicln(e)
	}
	defer tx.Rollback()

	bk := tx.Bucket(definitions.RootBucketBytes)
	if bk == nil {
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write(cdc.Encode(err.InternalError{Problem: `database uninitialized`}.Value()))
		return
	}

	vm := &rvm.VirtualMachine{RootBucket: bk}

	switch {

	case len(segments) == 1 && rq.Method == http.MethodGet:
		rules, ke := vm.Rules()
		if ke != nil {
			writeError(rw, cdc, err.HumanReadableError{ke})
			return
		}
		out := make(val.List, len(rules), len(rules))
		for i, r := range rules {
			out[i] = r.Value()
		}
		rw.Write(cdc.Encode(out))
		return

	case len(segments) == 1 && (rq.Method == http.MethodPost || rq.Method == http.MethodPut):
		payload := payloadFromRequest(rq)
		defer payload.Close()
		v, ke := cdc.Decode(payload)
		if ke != nil {
			writeError(rw, cdc, err.HumanReadableError{ke})
			return
		}
		r, ke := rvm.RuleFromValue(v)
		if ke != nil {
			writeError(rw, cdc, err.HumanReadableError{ke})
			return
		}
		if ke := vm.StoreRule(r); ke != nil {
			writeError(rw, cdc, err.HumanReadableError{ke})
			return
		}
		if e := tx.Commit(); e != nil {
			log.Panicln(e)
		}
		rw.Write(cdc.Encode(val.String(r.Id)))
		return

	case len(segments) == 2 && rq.Method == http.MethodGet:
		r, ke := vm.Rule(segments[1])
		if ke != nil {
			writeRuleError(rw, cdc, ke)
			return
		}
		rw.Write(cdc.Encode(r.Value()))
		return

	case len(segments) == 2 && rq.Method == http.MethodDelete:
		if ke := vm.DeleteRule(segments[1]); ke != nil {
			writeRuleError(rw, cdc, ke)
			return
		}
		if e := tx.Commit(); e != nil {
			log.Panicln(e)
		}
		rw.Write(cdc.Encode(val.String(segments[1])))
		return

	case len(segments) == 3 && segments[2] == "apply" && rq.Method == http.MethodPost:
		payload := payloadFromRequest(rq)
		defer payload.Close()
		bindings := map[string]val.Value(nil)
		if len(payload) > 0 {
			v, ke := cdc.Decode(payload)
			if ke != nil {
				writeError(rw, cdc, err.HumanReadableError{ke})
				return
			}
			bindings = bindingsFromValue(v)
		}
		res, ke := vm.ApplyStoredRule(segments[1], bindings)
		if ke != nil {
			writeRuleError(rw, cdc, ke)
			return
		}
		writeValue(rw, cdc, res)
		return

	}

	rw.WriteHeader(http.StatusNotFound)
}

func writeRuleError(rw http.ResponseWriter, cdc codec.Interface, ke err.Error) {
	if _, ok := ke.(err.RuleNotFoundError); ok {
		rw.WriteHeader(http.StatusNotFound)
		rw.Write(cdc.Encode(ke.Value()))
		return
	}
	writeError(rw, cdc, err.HumanReadableError{ke})
}

// function values have no serializable form
func writeValue(rw http.ResponseWriter, cdc codec.Interface, v val.Value) {
	if v == nil || v.Type() == val.TypeFunction {
		writeError(rw, cdc, err.HumanReadableError{err.RequestError{Problem: `result is not serializable`}})
		return
	}
	rw.Write(cdc.Encode(v))
}

func valueField(v val.Value, name string) val.Value {
	switch v := v.(type) {
	case val.Struct:
		return v.Field(name)
	case val.Map:
		if w, ok := v[name]; ok {
			return w
		}
	}
	return nil
}

func bindingsFromValue(v val.Value) map[string]val.Value {
	bv := valueField(v, "bindings")
	if bv == nil {
		return nil
	}
	switch bv := bv.(type) {
	case val.Map:
		return bv
	case val.Struct:
		return bv
	}
	return nil
}
