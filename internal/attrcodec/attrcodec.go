// Package attrcodec packs an ordered set of named string attributes into the
// single text column persisted with each part. The format is a sequence of
// 'key'='value' pairs separated by commas; a literal single quote inside a
// value is doubled, SQL style. Keys are not escaped and must not contain a
// quote.
//
// Decode is total: on malformed input (unterminated quote, missing '=',
// missing separator) it stops at the last successfully parsed pair and
// returns what it has. Existing malformed rows rely on this truncation, so
// it must not be tightened into an error.
package attrcodec

import "strings"

// Pair is one attribute in declaration order.
type Pair struct {
	Key   string
	Value string
}

// Encode serializes pairs in the given order.
func Encode(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\'')
		b.WriteString(p.Key)
		b.WriteString("'='")
		b.WriteString(strings.ReplaceAll(p.Value, "'", "''"))
		b.WriteByte('\'')
	}
	return b.String()
}

// Decode scans blob character by character and returns every complete pair.
func Decode(blob string) []Pair {
	var pairs []Pair
	i := 0
	for i < len(blob) {
		// 'key'
		if blob[i] != '\'' {
			return pairs
		}
		end := strings.IndexByte(blob[i+1:], '\'')
		if end < 0 {
			return pairs
		}
		key := blob[i+1 : i+1+end]
		i += end + 2

		// =
		if i >= len(blob) || blob[i] != '=' {
			return pairs
		}
		i++

		// 'value' with '' as an escaped quote
		if i >= len(blob) || blob[i] != '\'' {
			return pairs
		}
		i++
		var val strings.Builder
		closed := false
		for i < len(blob) {
			c := blob[i]
			if c == '\'' {
				if i+1 < len(blob) && blob[i+1] == '\'' {
					val.WriteByte('\'')
					i += 2
					continue
				}
				closed = true
				i++
				break
			}
			val.WriteByte(c)
			i++
		}
		if !closed {
			return pairs
		}
		pairs = append(pairs, Pair{Key: key, Value: val.String()})

		if i < len(blob) {
			if blob[i] != ',' {
				return pairs
			}
			i++
		}
	}
	return pairs
}

// DecodeMap is Decode flattened into a map; later duplicates win.
func DecodeMap(blob string) map[string]string {
	pairs := Decode(blob)
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}
