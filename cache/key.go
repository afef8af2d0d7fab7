package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key so the entries can share a store
// with unrelated data.
const KeyPrefix = "search:"

// Sort describes the ordering requested for a search.
type Sort struct {
	Field      string
	Descending bool
}

// Components identifies one distinct search. Two Components values that
// describe the same search must derive the same key, regardless of query
// casing and whitespace, source ordering, or filter construction order.
type Components struct {
	Query   string
	Filters map[string]any
	Sort    *Sort
	Sources []string
}

// DeriveKey produces the deterministic, namespaced fingerprint for a
// Components value.
func DeriveKey(c Components) string {
	return KeyPrefix + fingerprint(c)
}

// fingerprint renders the normalized components as one canonical JSON
// object and hashes it with SHA-256. Every component is JSON-encoded, so
// no value can fake a neighboring component's rendering and distinct
// tuples cannot share a key.
func fingerprint(c Components) string {
	canon := append([]byte(nil), `{"q":`...)
	canon = appendJSONString(canon, strings.ToLower(strings.TrimSpace(c.Query)))

	canon = append(canon, `,"f":`...)
	canon = appendCanonical(canon, c.Filters)

	canon = append(canon, `,"o":`...)
	if c.Sort != nil {
		canon = append(canon, '[')
		canon = appendJSONString(canon, c.Sort.Field)
		if c.Sort.Descending {
			canon = append(canon, `,"desc"]`...)
		} else {
			canon = append(canon, `,"asc"]`...)
		}
	} else {
		canon = append(canon, "null"...)
	}

	canon = append(canon, `,"s":`...)
	if len(c.Sources) > 0 {
		sources := make([]string, len(c.Sources))
		copy(sources, c.Sources)
		sort.Strings(sources)
		canon = append(canon, '[')
		for i, s := range sources {
			if i > 0 {
				canon = append(canon, ',')
			}
			canon = appendJSONString(canon, s)
		}
		canon = append(canon, ']')
	} else {
		canon = append(canon, "null"...)
	}
	canon = append(canon, '}')

	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:])
}

func appendJSONString(dst []byte, s string) []byte {
	b, _ := json.Marshal(s)
	return append(dst, b...)
}

// appendCanonical appends a deterministic JSON rendering of v: map keys
// are emitted in sorted order at every nesting level.
func appendCanonical(dst []byte, v any) []byte {
	switch val := v.(type) {
	case nil:
		return append(dst, "null"...)
	case map[string]any:
		// A nil and an empty filter set describe the same search.
		if len(val) == 0 {
			return append(dst, "null"...)
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		dst = append(dst, '{')
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			kb, _ := json.Marshal(k)
			dst = append(dst, kb...)
			dst = append(dst, ':')
			dst = appendCanonical(dst, val[k])
		}
		return append(dst, '}')
	case []any:
		dst = append(dst, '[')
		for i, item := range val {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendCanonical(dst, item)
		}
		return append(dst, ']')
	default:
		b, err := json.Marshal(val)
		if err != nil {
			// Unmarshalable filter values still need a stable rendering.
			b, _ = json.Marshal(fmt.Sprint(val))
		}
		return append(dst, b...)
	}
}
