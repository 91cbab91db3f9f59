// Package ident generates agent identifiers.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// New returns an identifier of the form "<unix-ms>-<8 hex chars>".
// The millisecond prefix plus random suffix is unique within process
// lifetime; there is a single writer, so nothing stronger is needed.
func New() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("ident: crypto/rand failed: " + err.Error())
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(b[:])
}
