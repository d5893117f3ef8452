package proto

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// encoder appends proto3 fields; zero scalars are omitted.
type encoder struct {
	b []byte
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) int64(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, uint64(v))
}

func (e *encoder) int32(num protowire.Number, v int32) {
	e.int64(num, int64(v))
}

func (e *encoder) strings(num protowire.Number, vs []string) {
	for _, v := range vs {
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendString(e.b, v)
	}
}

// stringMap writes map<string, string> as repeated key=1/value=2 entries,
// sorted by key.
func (e *encoder) stringMap(num protowire.Number, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		entry := encoder{}
		entry.string(1, k)
		entry.string(2, m[k])
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendBytes(e.b, entry.b)
	}
}

func (e *encoder) message(num protowire.Number, m wireMessage) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, m.marshalWire())
}

// field is one decoded tag with its raw value bytes.
type field struct {
	num protowire.Number
	typ protowire.Type
	raw []byte
}

func (f field) expect(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("proto: field %d: wire type %d, want %d", f.num, f.typ, typ)
	}
	return nil
}

func (f field) bytes() ([]byte, error) {
	if err := f.expect(protowire.BytesType); err != nil {
		return nil, err
	}
	v, n := protowire.ConsumeBytes(f.raw)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	return v, nil
}

func (f field) string(dst *string) error {
	v, err := f.bytes()
	if err != nil {
		return err
	}
	*dst = string(v)
	return nil
}

func (f field) appendString(dst *[]string) error {
	var v string
	if err := f.string(&v); err != nil {
		return err
	}
	*dst = append(*dst, v)
	return nil
}

func (f field) int64(dst *int64) error {
	if err := f.expect(protowire.VarintType); err != nil {
		return err
	}
	v, n := protowire.ConsumeVarint(f.raw)
	if n < 0 {
		return protowire.ParseError(n)
	}
	*dst = int64(v)
	return nil
}

func (f field) int32(dst *int32) error {
	var v int64
	if err := f.int64(&v); err != nil {
		return err
	}
	*dst = int32(v)
	return nil
}

func (f field) mapEntry(dst *map[string]string) error {
	b, err := f.bytes()
	if err != nil {
		return err
	}

	var k, v string
	err = consumeFields(b, func(e field) error {
		switch e.num {
		case 1:
			return e.string(&k)
		case 2:
			return e.string(&v)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if *dst == nil {
		*dst = make(map[string]string)
	}
	(*dst)[k] = v
	return nil
}

func (f field) message(m wireMessage) error {
	b, err := f.bytes()
	if err != nil {
		return err
	}
	return m.unmarshalWire(b)
}

// consumeFields walks b and hands every field to fn. Fields fn ignores are
// skipped.
func consumeFields(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return protowire.ParseError(m)
		}
		if err := fn(field{num: num, typ: typ, raw: b[:m]}); err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func (m *PingRequest) marshalWire() []byte { return nil }

func (m *PingRequest) unmarshalWire(b []byte) error {
	return consumeFields(b, func(field) error { return nil })
}

func (m *PingResponse) marshalWire() []byte {
	e := encoder{}
	e.string(1, m.Status)
	return e.b
}

func (m *PingResponse) unmarshalWire(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			return f.string(&m.Status)
		}
		return nil
	})
}

func (m *InitAssetRequest) marshalWire() []byte {
	e := encoder{}
	e.string(1, m.Id)
	e.string(2, m.FileName)
	e.string(3, m.ContentType)
	e.string(4, m.Kind)
	e.int64(5, m.Size)
	e.strings(6, m.Variants)
	return e.b
}

func (m *InitAssetRequest) unmarshalWire(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			return f.string(&m.Id)
		case 2:
			return f.string(&m.FileName)
		case 3:
			return f.string(&m.ContentType)
		case 4:
			return f.string(&m.Kind)
		case 5:
			return f.int64(&m.Size)
		case 6:
			return f.appendString(&m.Variants)
		}
		return nil
	})
}

func (m *InitAssetResponse) marshalWire() []byte {
	e := encoder{}
	e.string(1, m.ContentId)
	e.stringMap(2, m.WriteUrls)
	e.int64(3, m.ExpiresAt)
	return e.b
}

func (m *InitAssetResponse) unmarshalWire(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			return f.string(&m.ContentId)
		case 2:
			return f.mapEntry(&m.WriteUrls)
		case 3:
			return f.int64(&m.ExpiresAt)
		}
		return nil
	})
}

func (m *CreateAssetRequest) marshalWire() []byte {
	e := encoder{}
	e.string(1, m.Id)
	e.string(2, m.ContentId)
	e.string(3, m.FileName)
	e.string(4, m.ContentType)
	e.string(5, m.Kind)
	e.int64(6, m.Size)
	e.int64(7, m.DurationMs)
	e.string(8, m.Color)
	e.int32(9, m.XRes)
	e.int32(10, m.YRes)
	e.string(11, m.Caption)
	e.int32(12, m.ExpirationHours)
	e.strings(13, m.Variants)
	return e.b
}

func (m *CreateAssetRequest) unmarshalWire(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			return f.string(&m.Id)
		case 2:
			return f.string(&m.ContentId)
		case 3:
			return f.string(&m.FileName)
		case 4:
			return f.string(&m.ContentType)
		case 5:
			return f.string(&m.Kind)
		case 6:
			return f.int64(&m.Size)
		case 7:
			return f.int64(&m.DurationMs)
		case 8:
			return f.string(&m.Color)
		case 9:
			return f.int32(&m.XRes)
		case 10:
			return f.int32(&m.YRes)
		case 11:
			return f.string(&m.Caption)
		case 12:
			return f.int32(&m.ExpirationHours)
		case 13:
			return f.appendString(&m.Variants)
		}
		return nil
	})
}

func (m *CreateAssetResponse) marshalWire() []byte {
	e := encoder{}
	if m.Asset != nil {
		e.message(1, m.Asset)
	}
	return e.b
}

func (m *CreateAssetResponse) unmarshalWire(b []byte) error {
	return consumeFields(b, func(f field) error {
		if f.num == 1 {
			m.Asset = &Asset{}
			return f.message(m.Asset)
		}
		return nil
	})
}

func (m *Asset) marshalWire() []byte {
	e := encoder{}
	e.string(1, m.Id)
	e.string(2, m.ContentId)
	e.string(3, m.FileName)
	e.string(4, m.ContentType)
	e.string(5, m.Kind)
	e.int64(6, m.Size)
	e.int64(7, m.DurationMs)
	e.string(8, m.Color)
	e.int32(9, m.XRes)
	e.int32(10, m.YRes)
	e.string(11, m.Caption)
	e.string(12, m.Status)
	e.stringMap(13, m.ReadUrls)
	e.int64(14, m.CreatedAt)
	e.int64(15, m.ExpiresAt)
	return e.b
}

func (m *Asset) unmarshalWire(b []byte) error {
	return consumeFields(b, func(f field) error {
		switch f.num {
		case 1:
			return f.string(&m.Id)
		case 2:
			return f.string(&m.ContentId)
		case 3:
			return f.string(&m.FileName)
		case 4:
			return f.string(&m.ContentType)
		case 5:
			return f.string(&m.Kind)
		case 6:
			return f.int64(&m.Size)
		case 7:
			return f.int64(&m.DurationMs)
		case 8:
			return f.string(&m.Color)
		case 9:
			return f.int32(&m.XRes)
		case 10:
			return f.int32(&m.YRes)
		case 11:
			return f.string(&m.Caption)
		case 12:
			return f.string(&m.Status)
		case 13:
			return f.mapEntry(&m.ReadUrls)
		case 14:
			return f.int64(&m.CreatedAt)
		case 15:
			return f.int64(&m.ExpiresAt)
		}
		return nil
	})
}
