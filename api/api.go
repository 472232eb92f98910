// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"github.com/karmarun/rule.run/codec"
	"github.com/karmarun/rule.run/db"
	"github.com/karmarun/rule.run/rvm/err"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"runtime/debug"
	"strings"
	"sync"

	_ "net/http/pprof"
)

var version = `0.3.0`

type ContextKey int

const (
	ContextKeyCodec ContextKey = iota
	ContextKeyDatabase
	ContextKeyUserId
)

type Payload []byte

func (p Payload) Close() {
	copy(p, ZeroPayload)
	PayloadPool.Put(p[:MaxPayloadBytes])
}

const MaxPayloadBytes = 1 * 1024 * 1024 // 1MB

var (
	PayloadPool = &sync.Pool{
		New: func() interface{} {
			return make(Payload, MaxPayloadBytes, MaxPayloadBytes)
		},
	}
	ZeroPayload = make(Payload, MaxPayloadBytes, MaxPayloadBytes)
)

const (
	AuthPrefix  = `auth`
	RulesPrefix = `rules`
)

const (
	SignatureHeader = `X-Rule-Signature`
	CodecHeader     = `X-Rule-Codec`
)

func HttpHandler(rw http.ResponseWriter, rq *http.Request) {

	if len(os.Getenv("PPROF")) > 0 && strings.HasPrefix(rq.URL.Path, "/debug/pprof") {
		http.DefaultServeMux.ServeHTTP(rw, rq)
		return
	}

	// CORS headers for browsers
	rw.Header().Set("Access-Control-Allow-Headers", rq.Header.Get("Access-Control-Request-Headers"))
	rw.Header().Set("Access-Control-Allow-Methods", rq.Header.Get("Access-Control-Request-Method"))
	rw.Header().Set("Access-Control-Allow-Origin", "*")

	if rq.Method == http.MethodOptions {
		return // CORS pre-flight
	}

	p := strings.Trim(path.Clean(rq.URL.Path), "/")

	if rq.Method == http.MethodGet && p == "" { // k8s health checks
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte(`rule.run ` + version))
		return
	}

	cdc := codec.Get(rq.Header.Get(CodecHeader))
	if cdc == nil {
		msg := fmt.Sprintf(`invalid codec requested (%s header). available codecs: %s`, CodecHeader, strings.Join(codec.Available(), ", "))
		rw.WriteHeader(http.StatusBadRequest)
		rw.Write([]byte(msg))
		return
	}

	rq = rq.WithContext(context.WithValue(rq.Context(), ContextKeyCodec, cdc))

	dtbs, e := db.Open()
	if e != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write(cdc.Encode(err.InternalError{Problem: "failed opening database"}.Value()))
		log.Println(e)
		return
	}

	rq = rq.WithContext(context.WithValue(rq.Context(), ContextKeyDatabase, dtbs))

	if len(p) >= len(AuthPrefix) && p[:len(AuthPrefix)] == AuthPrefix {
		AuthHttpHandler(rw, rq)
		return
	}

	sig, e := signatureFromRequest(rq)
	if e != nil {
		rw.WriteHeader(http.StatusForbidden)
		rw.Write(cdc.Encode(err.RequestError{`failed to decode user signature`, nil}.Value()))
		return
	}

	userId, ke := tenref(sig, secretFromEnvironment())
	if ke != nil {
		rw.WriteHeader(http.StatusForbidden)
		rw.Write(cdc.Encode(err.PermissionDeniedError{ke}.Value()))
		return
	}

	rq = rq.WithContext(context.WithValue(rq.Context(), ContextKeyUserId, string(userId)))

	defer func() {
		if v := recover(); v != nil {
			rw.WriteHeader(http.StatusInternalServerError)
			switch e := v.(type) {
			case err.Error:
				writeError(rw, cdc, err.HumanReadableError{e})
			case error:
				log.Println(e.Error())
			default:
				log.Printf("%#v\n", v)
			}
			debug.PrintStack()
		}
	}()

	if len(p) >= len(RulesPrefix) && p[:len(RulesPrefix)] == RulesPrefix {
		RuleHttpHandler(rw, rq, p)
		return
	}

	if len(p) > 0 {
		rw.WriteHeader(http.StatusNotFound)
		return
	}

	EvaluateHttpHandler(rw, rq)
}

func writeError(rw http.ResponseWriter, cdc codec.Interface, e err.Error) {
	rw.WriteHeader(http.StatusBadRequest)
	rw.Write(cdc.Encode(e.Value()))
	return
}

func payloadFromRequest(rq *http.Request) Payload {
	defer rq.Body.Close()
	return payloadFromReader(rq.Body)
}

func payloadFromReader(r io.Reader) Payload {
	payload := PayloadPool.Get().(Payload)
	readLength := 0
	for readLength < MaxPayloadBytes {
		n, e := r.Read(payload[readLength:])
		readLength += n
		if e == io.EOF {
			break // we're done
		}
	}
	return payload[:readLength]
}

func signatureFromRequest(rq *http.Request) ([]byte, error) {
	return base64.StdEncoding.DecodeString(rq.Header.Get(SignatureHeader))
}

func secretFromEnvironment() []byte {
	return []byte(os.Getenv("INSTANCE_SECRET"))
}
