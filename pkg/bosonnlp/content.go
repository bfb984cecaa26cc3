package bosonnlp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ID identifies a record inside a task. It holds either a string or an integer
// and keeps that form on the wire.
type ID struct {
	str     string
	num     int64
	numeric bool
}

// StringID wraps a string identifier.
func StringID(s string) ID {
	return ID{str: s}
}

// IntID wraps an integer identifier.
func IntID(n int64) ID {
	return ID{num: n, numeric: true}
}

// NewID returns a random UUID-v4 string identifier.
func NewID() ID {
	return StringID(uuid.NewString())
}

// IsInt reports whether the identifier is numeric.
func (id ID) IsInt() bool {
	return id.numeric
}

// Int returns the numeric value; ok is false for string identifiers.
func (id ID) Int() (int64, bool) {
	return id.num, id.numeric
}

func (id ID) String() string {
	if id.numeric {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(strconv.FormatInt(id.num, 10)), nil
	}
	return json.Marshal(id.str)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or an integer: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("id must be a string or an integer: %w", err)
	}
	*id = IntID(v)
	return nil
}

// Record is one unit of text submitted to a task.
type Record struct {
	ID   ID     `json:"_id"`
	Text string `json:"text"`
}

// Pair is an (id, text) tuple supplied by the caller.
type Pair struct {
	ID   ID
	Text string
}

type contentsKind int

const (
	kindTexts contentsKind = iota
	kindPairs
	kindRecords
)

// Contents is the caller's input to a task: bare texts, id/text pairs, or
// ready records. Build it with Texts, Pairs or Records.
type Contents struct {
	kind    contentsKind
	texts   []string
	pairs   []Pair
	records []Record
}

// Texts wraps bare texts; each is given a fresh UUID when normalized.
func Texts(texts ...string) Contents {
	return Contents{kind: kindTexts, texts: texts}
}

// Pairs wraps id/text tuples; ids are kept verbatim.
func Pairs(pairs ...Pair) Contents {
	return Contents{kind: kindPairs, pairs: pairs}
}

// Records wraps ready records; they pass through unchanged.
func Records(records ...Record) Contents {
	return Contents{kind: kindRecords, records: records}
}

// Len returns the number of items.
func (c Contents) Len() int {
	switch c.kind {
	case kindTexts:
		return len(c.texts)
	case kindPairs:
		return len(c.pairs)
	default:
		return len(c.records)
	}
}

// Normalize converts contents to records, preserving order.
func Normalize(c Contents) []Record {
	if c.Len() == 0 {
		return nil
	}

	out := make([]Record, 0, c.Len())
	switch c.kind {
	case kindTexts:
		for _, text := range c.texts {
			out = append(out, Record{ID: NewID(), Text: text})
		}
	case kindPairs:
		for _, p := range c.pairs {
			out = append(out, Record{ID: p.ID, Text: p.Text})
		}
	default:
		out = append(out, c.records...)
	}
	return out
}

// indexed gives bare texts sequential integer ids; other kinds are returned
// unchanged.
func indexed(c Contents) Contents {
	if c.kind != kindTexts {
		return c
	}
	records := make([]Record, len(c.texts))
	for i, text := range c.texts {
		records[i] = Record{ID: IntID(int64(i)), Text: text}
	}
	return Records(records...)
}
