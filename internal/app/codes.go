package app

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newTicketCode returns a 26-character, case-uniform, unguessable admission
// code. 128 bits of entropy; uniqueness is still enforced by the database.
func newTicketCode() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}
	return codeEncoding.EncodeToString(b), nil
}
