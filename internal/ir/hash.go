package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// DomainStatement separates statement fingerprints from any other hash
// computed over the same canonical bytes.
const DomainStatement = "fluentfrontbase/statement/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StatementFingerprint returns a stable identifier for a serialized
// statement and its binds, used to correlate log lines.
func StatementFingerprint(sql string, binds []any) (string, error) {
	args := make(IRArray, len(binds))
	for i, b := range binds {
		args[i] = BindValue(b)
	}
	canonical, err := MarshalCanonical(IRObject{
		"sql":   IRString(sql),
		"binds": args,
	})
	if err != nil {
		return "", fmt.Errorf("StatementFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStatement, canonical), nil
}

// MustStatementFingerprint is like StatementFingerprint but panics on error.
func MustStatementFingerprint(sql string, binds []any) string {
	id, err := StatementFingerprint(sql, binds)
	if err != nil {
		panic(err)
	}
	return id
}

// BindValue maps an arbitrary bind parameter to a literal for hashing
// and trace snapshots.
// Values without a literal form are hashed by their textual rendering.
func BindValue(v any) IRValue {
	switch val := v.(type) {
	case float32:
		return IRString(strconv.FormatFloat(float64(val), 'g', -1, 32))
	case float64:
		return IRString(strconv.FormatFloat(val, 'g', -1, 64))
	case []byte:
		return IRString(hex.EncodeToString(val))
	case time.Time:
		return IRString(val.UTC().Format(time.RFC3339Nano))
	case int64:
		return IRInt(val)
	case uint64:
		return IRString(strconv.FormatUint(val, 10))
	case uint:
		return IRString(strconv.FormatUint(uint64(val), 10))
	case fmt.Stringer:
		return IRString(val.String())
	}
	if irVal, err := FromGo(v); err == nil {
		return irVal
	}
	return IRString(fmt.Sprint(v))
}
