package frontbase

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"
)

// Bit96 is Frontbase's native 96-bit unique identifier, as produced by
// NEW_UID.
type Bit96 [12]byte

// NewBit96 returns a random identifier. Servers generate these with
// VALUES NEW_UID; NewBit96 exists for fixtures and offline use.
func NewBit96() Bit96 {
	var b Bit96
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("frontbase: reading random bytes: %v", err))
	}
	return b
}

// ParseBit96 parses 24 hex digits, optionally written as a Frontbase bit
// literal X'...'.
func ParseBit96(s string) (Bit96, error) {
	var b Bit96
	s = strings.TrimSpace(s)
	if len(s) > 3 && (s[0] == 'X' || s[0] == 'x') && s[1] == '\'' && s[len(s)-1] == '\'' {
		s = s[2 : len(s)-1]
	}
	if len(s) != 2*len(b) {
		return b, fmt.Errorf("bit96: invalid length %d", len(s))
	}
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return b, fmt.Errorf("bit96: %w", err)
	}
	return b, nil
}

// String returns the identifier as 24 upper-case hex digits.
func (b Bit96) String() string {
	return strings.ToUpper(hex.EncodeToString(b[:]))
}

// IsZero reports whether b is all zero bits.
func (b Bit96) IsZero() bool {
	return b == Bit96{}
}

// FrontbaseDataType implements DataTyper.
func (Bit96) FrontbaseDataType() DataType {
	return Bits{Size: 96}
}

// Value implements driver.Valuer.
func (b Bit96) Value() (driver.Value, error) {
	return b[:], nil
}

// Scan implements sql.Scanner.
func (b *Bit96) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		if len(v) == len(b) {
			copy(b[:], v)
			return nil
		}
		parsed, err := ParseBit96(string(v))
		if err != nil {
			return err
		}
		*b = parsed
		return nil
	case string:
		parsed, err := ParseBit96(v)
		if err != nil {
			return err
		}
		*b = parsed
		return nil
	default:
		return fmt.Errorf("bit96: cannot scan %T", src)
	}
}
