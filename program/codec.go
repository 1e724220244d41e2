package program

import (
	"encoding/binary"
	"fmt"

	"github.com/soulboard-labs/soulboard-go/types"
)

// encoder builds instruction argument data. All integers are little-endian,
// strings are u32-length-prefixed UTF-8, matching the program's wire layout.
type encoder struct {
	buf []byte
}

func newEncoder(discriminator [8]byte) *encoder {
	return &encoder{buf: append([]byte(nil), discriminator[:]...)}
}

func (e *encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) u64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *encoder) i64(v int64)  { e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v)) }

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) pubkey(pk types.PublicKey) { e.buf = append(e.buf, pk[:]...) }

// pricingModel encodes the closed sum as a u8 tag plus its u64 payload.
func (e *encoder) pricingModel(m types.PricingModel) {
	switch p := m.(type) {
	case types.FlatPricing:
		e.u8(0)
		e.u64(p.Amount)
	case types.PerViewPricing:
		e.u8(1)
		e.u64(p.Price)
	case types.PerImpressionPricing:
		e.u8(2)
		e.u64(p.Price)
	case types.CPMPricing:
		e.u8(3)
		e.u64(p.Price)
	}
}

func (e *encoder) bytes() []byte { return e.buf }

// decoder reads account data sequentially. Every read checks remaining
// length; a short account fails loudly instead of yielding garbage fields.
type decoder struct {
	data []byte
	off  int
	err  error
}

func newDecoder(data []byte) *decoder { return &decoder{data: data} }

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.data) {
		d.err = fmt.Errorf("account data truncated at offset %d: need %d bytes, have %d", d.off, n, len(d.data)-d.off)
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) str() string {
	n := d.u32()
	b := d.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

func (d *decoder) pubkey() types.PublicKey {
	var pk types.PublicKey
	b := d.take(32)
	if b != nil {
		copy(pk[:], b)
	}
	return pk
}

func (d *decoder) pricingModel() types.PricingModel {
	tag := d.u8()
	value := d.u64()
	if d.err != nil {
		return nil
	}
	switch tag {
	case 0:
		return types.FlatPricing{Amount: value}
	case 1:
		return types.PerViewPricing{Price: value}
	case 2:
		return types.PerImpressionPricing{Price: value}
	case 3:
		return types.CPMPricing{Price: value}
	default:
		d.err = fmt.Errorf("unknown pricing model tag %d", tag)
		return nil
	}
}

// finish reports any accumulated decode error.
func (d *decoder) finish() error { return d.err }

// checkDiscriminator strips and verifies the 8-byte account prefix.
func checkDiscriminator(name string, data []byte) ([]byte, error) {
	want := Discriminator("account", name)
	if len(data) < 8 {
		return nil, fmt.Errorf("%s account data too short: %d bytes", name, len(data))
	}
	var got [8]byte
	copy(got[:], data[:8])
	if got != want {
		return nil, fmt.Errorf("data is not a %s account: discriminator mismatch", name)
	}
	return data[8:], nil
}
