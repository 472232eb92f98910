// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package rvm

import (
	"crypto/rand"
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/rule.run/codec/json"
	"github.com/karmarun/rule.run/definitions"
	"github.com/karmarun/rule.run/rvm/err"
	"github.com/karmarun/rule.run/rvm/val"
	"golang.org/x/crypto/bcrypt"
	"os"
	"time"
)

// VirtualMachine ties a Registry to a persisted rule catalog.
// RootBucket may be nil for purely in-memory evaluation sessions.
type VirtualMachine struct {
	RootBucket *bolt.Bucket
	Registry   Registry
	root       *Environment
}

// RootEnvironment returns the bootstrapped global Environment of this
// machine, building it on first use. It is read-only after bootstrap.
func (vm *VirtualMachine) RootEnvironment() *Environment {
	if vm.root == nil {
		registry := vm.Registry
		if registry == nil {
			registry = BaseRegistry()
		}
		vm.root = registry.NewEnvironment()
	}
	return vm.root
}

// NewSession derives a child Environment of the root with the given
// domain bindings defined in its own frame. Each evaluation gets its
// own session; sessions are not safe for concurrent use, the shared
// root is.
func (vm *VirtualMachine) NewSession(bindings map[string]val.Value) *Environment {
	env := NewEnvironment(vm.RootEnvironment())
	for name, v := range bindings {
		env.Define(name, v)
	}
	return env
}

// InitDB prepares a fresh root bucket: the rule bucket, a random root
// user id and the bcrypt hash of the instance secret (from environment
// variable INSTANCE_SECRET, published by main).
func (vm *VirtualMachine) InitDB() error {

	if _, e := vm.RootBucket.CreateBucketIfNotExists(definitions.RuleBucketBytes); e != nil {
		return e
	}

	if vm.RootBucket.Get(definitions.RootUserBytes) == nil {
		id := randomId(16)
		if e := vm.RootBucket.Put(definitions.RootUserBytes, id); e != nil {
			return e
		}
	}

	hash, e := bcrypt.GenerateFromPassword([]byte(os.Getenv(`INSTANCE_SECRET`)), bcrypt.DefaultCost)
	if e != nil {
		return e
	}
	return vm.RootBucket.Put(definitions.AdminHashBytes, hash)
}

// StoreRule inserts or overwrites a rule in the catalog, keyed by id.
func (vm *VirtualMachine) StoreRule(r Rule) err.Error {
	rb := vm.RootBucket.Bucket(definitions.RuleBucketBytes)
	if rb == nil {
		return err.InternalError{Problem: `database uninitialized`}
	}
	if r.Id == "" {
		return err.RequestError{Problem: `rule: empty id`}
	}
	if e := rb.Put([]byte(r.Id), json.Encode(r.Value())); e != nil {
		return err.InternalError{Problem: e.Error()}
	}
	return nil
}

func (vm *VirtualMachine) Rule(id string) (Rule, err.Error) {
	rb := vm.RootBucket.Bucket(definitions.RuleBucketBytes)
	if rb == nil {
		return Rule{}, err.InternalError{Problem: `database uninitialized`}
	}
	bs := rb.Get([]byte(id))
	if bs == nil {
		return Rule{}, err.RuleNotFoundError{Id: id}
	}
	v, e := json.Decode(bs)
	if e != nil {
		return Rule{}, err.InternalError{Problem: `malformed rule in catalog`, Child_: e}
	}
	return RuleFromValue(v)
}

func (vm *VirtualMachine) DeleteRule(id string) err.Error {
	rb := vm.RootBucket.Bucket(definitions.RuleBucketBytes)
	if rb == nil {
		return err.InternalError{Problem: `database uninitialized`}
	}
	if rb.Get([]byte(id)) == nil {
		return err.RuleNotFoundError{Id: id}
	}
	if e := rb.Delete([]byte(id)); e != nil {
		return err.InternalError{Problem: e.Error()}
	}
	return nil
}

func (vm *VirtualMachine) Rules() ([]Rule, err.Error) {
	rb := vm.RootBucket.Bucket(definitions.RuleBucketBytes)
	if rb == nil {
		return nil, err.InternalError{Problem: `database uninitialized`}
	}
	rules := make([]Rule, 0, 32)
	e := rb.ForEach(func(k, bs []byte) error {
		v, e := json.Decode(bs)
		if e != nil {
			return e
		}
		r, e := RuleFromValue(v)
		if e != nil {
			return e
		}
		rules = append(rules, r)
		return nil
	})
	if e != nil {
		if ke, ok := e.(err.Error); ok {
			return nil, err.InternalError{Problem: `malformed rule in catalog`, Child_: ke}
		}
		return nil, err.InternalError{Problem: e.Error()}
	}
	return rules, nil
}

// ApplyStoredRule loads a rule from the catalog and applies it against
// a fresh session holding the given bindings.
func (vm *VirtualMachine) ApplyStoredRule(id string, bindings map[string]val.Value) (val.Value, err.Error) {
	r, e := vm.Rule(id)
	if e != nil {
		return nil, e
	}
	return ApplyRule(r, vm.NewSession(bindings))
}

func randomId(ln int) []byte {
	rd, bs := 0, make([]byte, ln, ln)
	for rd < len(bs) {
		n, e := rand.Read(bs[rd:])
		if e != nil {
			time.Sleep(time.Millisecond) // allow some entropy gathering
		}
		rd += n
	}
	return bs
}
