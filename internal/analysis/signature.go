package analysis

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// DomainClause is the domain prefix for clause signatures. The version
// suffix enables future algorithm migration.
const DomainClause = "horn/clause/v1"

// Signature computes a content-addressed fingerprint of a normalised
// clause. Elements are hashed as a sorted multiset, and the constant and
// variable sets as sorted sequences. Two clauses whose normal forms are
// equal as multisets share a signature.
//
// Reordering body literals therefore leaves the signature unchanged when
// the reordered literals hold no unnamed variables and no aggregators.
// Unnamed-variable tokens and aggregator scope ids are numbered in the
// order the normaliser visits them, so reordering literals that hold them
// changes the elements and the signature.
//
// The serialisation is RFC 8785-style canonical JSON: object keys sorted
// by UTF-16 code units, NFC-normalised strings, no HTML escaping, no
// floats, no null.
func Signature(n *NormalisedClause) (string, error) {
	elements := make([]string, 0, len(n.Elements()))
	for _, el := range n.Elements() {
		elements = append(elements, el.String())
	}
	slices.SortFunc(elements, compareUTF16)

	obj := map[string]any{
		"elements":         elements,
		"constants":        n.Constants(),
		"variables":        n.Variables(),
		"fully_normalised": n.FullyNormalised(),
	}

	canonical, err := marshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("clause signature: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainClause, canonical), nil
}

// MustSignature is like Signature but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSignature(n *NormalisedClause) string {
	sig, err := Signature(n)
	if err != nil {
		panic(err)
	}
	return sig
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data); the null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// marshalCanonical produces canonical JSON for hashing. Only the value
// shapes a clause fingerprint needs are supported: strings, bools, ints,
// string slices, generic slices, and string-keyed maps.
func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(val)
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return marshalCanonicalArray(arr)
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString emits a canonical JSON string: NFC-normalised at
// the serialisation boundary, with HTML escaping disabled.
//
// Go's json.Encoder escapes U+2028 (LINE SEPARATOR) and U+2029 (PARAGRAPH
// SEPARATOR) unconditionally, independent of SetEscapeHTML. RFC 8785
// requires them as literal characters, so they are unescaped afterwards.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it.
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	return unescapeU2028U2029(result), nil
}

// unescapeU2028U2029 converts backslash-u2028 and backslash-u2029 escape
// sequences to literal characters per RFC 8785, while preserving an
// escaped backslash followed by literal "u2028"/"u2029" text. A u-escape
// preceded by an even number of backslashes is a real escape; an odd
// count means the backslash before it is itself escaped.
func unescapeU2028U2029(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	result := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if i+6 <= len(data) && data[i] == '\\' && data[i+1] == 'u' &&
			data[i+2] == '2' && data[i+3] == '0' && data[i+4] == '2' &&
			(data[i+5] == '8' || data[i+5] == '9') {
			backslashes := 0
			for j := len(result) - 1; j >= 0 && result[j] == '\\'; j-- {
				backslashes++
			}
			if backslashes%2 == 0 {
				if data[i+5] == '8' {
					result = append(result, "\u2028"...)
				} else {
					result = append(result, "\u2029"...)
				}
				i += 6
				continue
			}
		}
		result = append(result, data[i])
		i++
	}
	return result
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compareUTF16 compares strings by UTF-16 code units as required by
// RFC 8785. Go's native string comparison is UTF-8 and produces a
// DIFFERENT order for characters outside the BMP.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}
