// Package roomid generates sortable room identifiers. Ids are UUIDv7
// values encoded with Crockford's base32 alphabet, so they sort by
// creation time and stay safe to paste into URLs and chat.
package roomid

import (
	"fmt"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded room id
const Length = 26

// Generate returns a new room id
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the platform's entropy source does.
		panic("roomid: " + err.Error())
	}
	return encode(id)
}

// Validate checks that s is a well-formed room id
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("room id must be %d characters, got %d", Length, len(s))
	}
	for i := 0; i < len(s); i++ {
		if decodeTable[s[i]] == 0xff {
			return fmt.Errorf("room id contains invalid character %q", s[i])
		}
	}
	// The top 2 bits of the first character must be zero for the value
	// to fit in 128 bits.
	if decodeTable[s[0]] > 7 {
		return fmt.Errorf("room id out of range")
	}
	return nil
}

// encode packs the 128-bit uuid into 26 base32 characters, left-padded
// with two zero bits
func encode(id uuid.UUID) string {
	var out [Length]byte
	// Treat the uuid as a 130-bit big-endian value. The first character
	// carries only the top 3 bits.
	out[0] = alphabet[id[0]>>5]
	acc := uint64(id[0] & 0x1f)
	bits := 5
	pos := 1
	for i := 1; i < len(id); i++ {
		acc = acc<<8 | uint64(id[i])
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>uint(bits))&0x1f]
			pos++
		}
	}
	return string(out[:])
}

var decodeTable = buildDecodeTable()

func buildDecodeTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 0xff
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = byte(i)
	}
	return t
}
