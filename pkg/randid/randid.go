// Package randid generates short random identifiers.
package randid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate returns a random lowercase alphanumeric string of length n.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}

	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic("randid: " + err.Error())
		}
		out[i] = alphabet[idx.Int64()]
	}

	return string(out)
}
