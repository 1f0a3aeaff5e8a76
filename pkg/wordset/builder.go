// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package wordset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
)

// Builder collects hashes and writes them out as a wordset.
type Builder struct {
	probability uint64
	granularity uint64
	values      []uint64
	stat        *status
}

// NewBuilder creates a builder with a false positive rate of 1 in probability and an index
// point every granularity entries (16 bytes each). A zero granularity disables the index.
func NewBuilder(probability uint64, granularity uint64) (*Builder, error) {
	if probability < 2 {
		return nil, ErrProbability
	}

	return &Builder{
		probability: probability,
		granularity: granularity,
		stat:        newStatus(),
	}, nil
}

// Grow reserves room for n more entries.
func (b *Builder) Grow(n uint64) {
	if free := uint64(cap(b.values) - len(b.values)); free < n {
		values := make([]uint64, len(b.values), uint64(len(b.values))+n)
		copy(values, b.values)
		b.values = values
	}
}

func (b *Builder) Add(word string) {
	b.values = append(b.values, HashWord(word))
}

func (b *Builder) AddHash(h uint64) {
	b.values = append(b.values, h)
}

// Len is the number of entries added so far, duplicates included.
func (b *Builder) Len() int {
	return len(b.values)
}

// ReadWords adds one password per line. Lines are used as is except for the line ending;
// empty lines are skipped.
func (b *Builder) ReadWords(r io.Reader) (uint64, error) {
	return b.read(r, func(line string) error {
		b.Add(line)
		return nil
	})
}

// ReadHashes adds one hex SHA-1 per line, optionally followed by ":count" as in breach
// dumps.
func (b *Builder) ReadHashes(r io.Reader) (uint64, error) {
	return b.read(r, func(line string) error {
		hash, _, _ := strings.Cut(line, ":")
		h, err := HashHex(strings.TrimSpace(hash))
		if err != nil {
			return err
		}
		b.AddHash(h)
		return nil
	})
}

func (b *Builder) read(r io.Reader, add func(string) error) (uint64, error) {
	b.stat.StageWork("Read", 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	count := uint64(0)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := add(line); err != nil {
			return count, err
		}
		count++
		b.stat.Incr()
	}

	return count, scanner.Err()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo encodes the set. The builder keeps its entries and can be written again.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	out := bufio.NewWriter(cw)

	values := make([]uint64, len(b.values))
	copy(values, b.values)

	b.stat.Stage("Deduplicate")
	sorty.SortSlice(values)
	values = dedup(values)
	n := uint64(len(values))
	log.Debug().Msgf("wordset will have %d items", n)

	if n > 0 {
		b.stat.Stage("Normalise")
		for i, v := range values {
			values[i] = normalise(v, n, b.probability)
		}
		sorty.SortSlice(values)
		values = dedup(values)
	}

	bw := newBitWriter(out)
	enc := &riceEncoder{w: bw, p: b.probability, log2p: remainderBits(b.probability)}

	b.stat.StageWork("Encode", uint64(len(values)))
	var index []indexPair
	last := uint64(0)
	for i, v := range values {
		if err := enc.Encode(v - last); err != nil {
			return cw.n, err
		}
		last = v

		if b.granularity > 0 && uint64(i+1)%b.granularity == 0 {
			index = append(index, indexPair{value: v, bitPos: bw.Bits()})
		}
		b.stat.Incr()
	}

	// A zero gap marks the end of data.
	if err := enc.Encode(0); err != nil {
		return cw.n, err
	}
	if err := bw.Align(); err != nil {
		return cw.n, err
	}
	endOfData := bw.Bits() / 8

	b.stat.Stage("Write Index")
	log.Debug().Msgf("index will have %d items", len(index))
	for _, pair := range index {
		if err := writeUint64(out, pair.value, pair.bitPos); err != nil {
			return cw.n, err
		}
	}

	if err := writeUint64(out, n, b.probability, endOfData, uint64(len(index))); err != nil {
		return cw.n, err
	}
	if _, err := out.WriteString(magic); err != nil {
		return cw.n, err
	}

	err := out.Flush()
	b.stat.Done()
	return cw.n, err
}

func writeUint64(w io.Writer, values ...uint64) error {
	buf := make([]byte, 8)
	for _, v := range values {
		binary.BigEndian.PutUint64(buf, v)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// EstimateLines guesses the number of lines in a file from its first 16MiB, so memory can
// be checked before reading it. The file offset is restored to the start.
func EstimateLines(f *os.File) (uint64, error) {
	const sampleLimit = 16 * 1024 * 1024

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	size := info.Size()
	if size == 0 {
		return 0, nil
	}

	sample := make([]byte, min(size, sampleLimit))
	read, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	lines := uint64(bytes.Count(sample[:read], []byte{'\n'}))
	return lines * uint64(size) / uint64(max(read, 1)), nil
}
