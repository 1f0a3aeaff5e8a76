package wordset

import (
	"bufio"
	"io"
)

// bitWriter writes bits most significant first.
type bitWriter struct {
	out     *bufio.Writer
	pending byte
	used    uint8
	written uint64
}

func newBitWriter(out *bufio.Writer) *bitWriter {
	return &bitWriter{out: out}
}

func (w *bitWriter) WriteBit(bit uint64) error {
	w.pending = w.pending<<1 | byte(bit&1)
	w.used++
	w.written++

	if w.used == 8 {
		err := w.out.WriteByte(w.pending)
		w.pending, w.used = 0, 0
		return err
	}

	return nil
}

// WriteBits writes the n lowest bits of v.
func (w *bitWriter) WriteBits(n uint8, v uint64) error {
	for i := int(n) - 1; i >= 0; i-- {
		if err := w.WriteBit(v >> uint(i)); err != nil {
			return err
		}
	}

	return nil
}

// Align pads with zero bits up to the next byte boundary.
func (w *bitWriter) Align() error {
	for w.used != 0 {
		if err := w.WriteBit(0); err != nil {
			return err
		}
	}

	return nil
}

// Bits is the number of bits written so far, padding included.
func (w *bitWriter) Bits() uint64 {
	return w.written
}

// bitReader reads bits most significant first from an in-memory buffer. It is not safe for
// concurrent use; create one per query.
type bitReader struct {
	data []byte
	pos  uint64
}

func newBitReader(data []byte, pos uint64) *bitReader {
	return &bitReader{data: data, pos: pos}
}

func (r *bitReader) ReadBit() (uint64, error) {
	if r.pos >= uint64(len(r.data))*8 {
		return 0, io.ErrUnexpectedEOF
	}

	b := r.data[r.pos/8] >> (7 - r.pos%8) & 1
	r.pos++
	return uint64(b), nil
}

func (r *bitReader) ReadBits(n uint8) (uint64, error) {
	v := uint64(0)
	for i := uint8(0); i < n; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | b
	}

	return v, nil
}

// riceEncoder writes values as a unary quotient followed by a fixed width remainder.
type riceEncoder struct {
	w     *bitWriter
	p     uint64
	log2p uint8
}

func (e *riceEncoder) Encode(v uint64) error {
	for q := v / e.p; q > 0; q-- {
		if err := e.w.WriteBit(1); err != nil {
			return err
		}
	}
	if err := e.w.WriteBit(0); err != nil {
		return err
	}

	return e.w.WriteBits(e.log2p, v%e.p)
}

func readRice(r *bitReader, p uint64, log2p uint8) (uint64, error) {
	v := uint64(0)
	for {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		v += p
	}

	rem, err := r.ReadBits(log2p)
	if err != nil {
		return 0, err
	}

	return v + rem, nil
}
