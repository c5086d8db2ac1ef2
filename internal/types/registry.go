// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package types maps wire type names to Go types.
package types

import (
	"reflect"
	"strings"
	"sync"
)

// Registry resolves registered Go types by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register records the type of every value. Pointers register their element
// type so new(T) and T{} are equivalent.
func (r *Registry) Register(values ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		if typ := elemType(v); typ != nil {
			r.types[nameOf(typ)] = typ
		}
	}
}

// Deregister forgets the type of v.
func (r *Registry) Deregister(v any) {
	typ := elemType(v)
	if typ == nil {
		return
	}
	r.mu.Lock()
	delete(r.types, nameOf(typ))
	r.mu.Unlock()
}

// Exists reports whether the type of v is registered.
func (r *Registry) Exists(v any) bool {
	typ := elemType(v)
	if typ == nil {
		return false
	}
	_, ok := r.TypeOf(nameOf(typ))
	return ok
}

// TypeOf returns the type registered under name.
func (r *Registry) TypeOf(name string) (reflect.Type, bool) {
	r.mu.RLock()
	typ, ok := r.types[normalize(name)]
	r.mu.RUnlock()
	return typ, ok
}

// Name returns the registry name of v and whether v is a pointer.
// The name is empty when v is nil.
func Name(v any) (string, bool) {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return "", false
	}
	if typ.Kind() == reflect.Pointer {
		return nameOf(typ.Elem()), true
	}
	return nameOf(typ), false
}

func elemType(v any) reflect.Type {
	var typ reflect.Type
	switch x := v.(type) {
	case reflect.Type:
		typ = x
	default:
		typ = reflect.TypeOf(v)
	}

	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func nameOf(typ reflect.Type) string {
	return normalize(typ.String())
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
