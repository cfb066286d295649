package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	UnconnectedKey = "_unconnected_text"
	MetadataKey    = "_metadata"
)

// Artifact is the canonical extraction result: one record per slot plus the
// unconnected bucket and document metadata. It is immutable once stored.
type Artifact struct {
	Keys        []string // canonical slot order
	Slots       map[string]SlotRecord
	Unconnected []UnconnectedItem
	Metadata    Metadata
}

// Slot returns the record for key and whether it exists.
func (a *Artifact) Slot(key string) (SlotRecord, bool) {
	rec, ok := a.Slots[key]
	return rec, ok
}

// MarshalJSON writes slots in canonical order followed by the two reserved keys.
func (a Artifact) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		b, err := marshalNoEscape(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.Write(b)
		return nil
	}

	for _, key := range a.Keys {
		if err := write(key, a.Slots[key]); err != nil {
			return nil, err
		}
	}
	unconnected := a.Unconnected
	if unconnected == nil {
		unconnected = []UnconnectedItem{}
	}
	if err := write(UnconnectedKey, unconnected); err != nil {
		return nil, err
	}
	if err := write(MetadataKey, a.Metadata); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an artifact back; slot keys are ordered numerically.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Slots = make(map[string]SlotRecord, len(raw))
	a.Keys = a.Keys[:0]
	for key, msg := range raw {
		switch key {
		case UnconnectedKey:
			if err := json.Unmarshal(msg, &a.Unconnected); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		case MetadataKey:
			if err := json.Unmarshal(msg, &a.Metadata); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		default:
			var rec SlotRecord
			if err := json.Unmarshal(msg, &rec); err != nil {
				return fmt.Errorf("decode slot %s: %w", key, err)
			}
			a.Slots[key] = rec
			a.Keys = append(a.Keys, key)
		}
	}
	sort.Slice(a.Keys, func(i, j int) bool { return lessKey(a.Keys[i], a.Keys[j]) })
	return nil
}

// lessKey orders "s.q" keys by section then question number.
func lessKey(a, b string) bool {
	as, aq := splitKey(a)
	bs, bq := splitKey(b)
	if as != bs {
		return as < bs
	}
	if aq != bq {
		return aq < bq
	}
	return a < b
}

func splitKey(key string) (int, int) {
	s, q, _ := strings.Cut(key, ".")
	sn, _ := strconv.Atoi(s)
	qn, _ := strconv.Atoi(q)
	return sn, qn
}

// marshalNoEscape keeps <, > and & literal so stored text matches the source.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
