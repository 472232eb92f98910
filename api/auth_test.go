// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {

	key := []byte(`0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef`)
	id := []byte(`sixteen  bytes!!`)

	{
		tok := fernet(id, key)
		if len(tok) != 88 {
			t.Fatalf("case 1: expected 88 byte token, got %d", len(tok))
		}
		out, e := tenref(tok, key)
		if e != nil {
			t.Fatalf("case 1: %v", e)
		}
		if !bytes.Equal(out, id) {
			t.Fatalf("case 1: expected %q, got %q", id, out)
		}
	}
	{ // tampering invalidates the signature
		tok := fernet(id, key)
		tok[40] ^= 0xff
		if _, e := tenref(tok, key); e == nil {
			t.Fatal("case 2: expected error for tampered token")
		}
	}
	{ // wrong key
		tok := fernet(id, key)
		other := append([]byte(nil), key...)
		other[0] ^= 0xff
		if _, e := tenref(tok, other); e == nil {
			t.Fatal("case 3: expected error for wrong key")
		}
	}
	{ // wrong length
		if _, e := tenref(make([]byte, 87, 87), key); e == nil {
			t.Fatal("case 4: expected error for truncated token")
		}
	}
	{ // expired timestamp, re-signed to isolate the expiry check
		tok := fernet(id, key)
		binary.LittleEndian.PutUint64(tok[:8], uint64(time.Now().Add(-2*tokenExpiry).Unix()))
		hash := hmac.New(sha512.New512_256, key)
		hash.Write(tok[:len(tok)-32])
		copy(tok[len(tok)-32:], hash.Sum(nil))
		if _, e := tenref(tok, key); e == nil {
			t.Fatal("case 5: expected error for expired token")
		}
	}
	{ // each token carries a fresh iv
		a, b := fernet(id, key), fernet(id, key)
		if bytes.Equal(a[8:8+ivLength], b[8:8+ivLength]) {
			t.Fatal("case 6: iv reused across tokens")
		}
	}
}

func TestFernetPanicsOnBadIdLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for short id")
		}
	}()
	fernet([]byte(`short`), []byte(`key`))
}
