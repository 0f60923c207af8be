// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for the local state
// cache. Encoding is Core Deterministic (RFC 8949 §4.2) so the same
// snapshot always produces identical bytes — a prerequisite for the
// cache's content hash to be meaningful.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Any-typed targets decode maps as map[string]any rather
		// than the CBOR default map[any]any, keeping decoded values
		// compatible with encoding/json and the rest of the client.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown fields are ignored for
// forward compatibility with newer cache writers.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
