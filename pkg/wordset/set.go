// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package wordset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Set is a loaded wordset. It is read only and safe for concurrent queries.
type Set struct {
	num         uint64
	probability uint64
	log2p       uint8
	data        []byte
	index       []indexPair
}

// Open loads a wordset file fully into memory.
func Open(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing wordset file")
		}
	}(file)

	set, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("error loading wordset %s: %w", path, err)
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("Ready for queries on %s items with a 1 in %s false-positive rate.",
		p.Sprintf("%d", set.num), p.Sprintf("%d", set.probability))
	return set, nil
}

func Load(r io.Reader) (*Set, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(buf) < footerLen || string(buf[len(buf)-8:]) != magic {
		return nil, ErrNotWordset
	}

	footer := buf[len(buf)-footerLen:]
	s := &Set{
		num:         binary.BigEndian.Uint64(footer[0:8]),
		probability: binary.BigEndian.Uint64(footer[8:16]),
	}
	endOfData := binary.BigEndian.Uint64(footer[16:24])
	indexLen := binary.BigEndian.Uint64(footer[24:32])

	log.Debug().Msgf("Number of items: %d", s.num)
	log.Debug().Msgf("Probability: %d", s.probability)
	log.Debug().Msgf("End of Data: %d", endOfData)
	log.Debug().Msgf("Index Length: %d", indexLen)

	body := uint64(len(buf) - footerLen)
	if s.probability < 2 || endOfData > body || (body-endOfData)/16 != indexLen || (body-endOfData)%16 != 0 {
		return nil, ErrNotWordset
	}

	s.log2p = remainderBits(s.probability)
	s.data = buf[:endOfData]
	s.index = make([]indexPair, 0, indexLen)
	for i := uint64(0); i < indexLen; i++ {
		at := endOfData + i*16
		s.index = append(s.index, indexPair{
			value:  binary.BigEndian.Uint64(buf[at : at+8]),
			bitPos: binary.BigEndian.Uint64(buf[at+8 : at+16]),
		})
	}

	return s, nil
}

// Len is the number of distinct entries the set was built from.
func (s *Set) Len() uint64 {
	return s.num
}

// FalsePositiveRate is P in "1 in P".
func (s *Set) FalsePositiveRate() uint64 {
	return s.probability
}

func (s *Set) Contains(word string) (bool, error) {
	return s.ContainsHash(HashWord(word))
}

// ContainsHash checks a hash as returned by HashWord or HashHex.
func (s *Set) ContainsHash(h uint64) (bool, error) {
	if s.num == 0 {
		return false, nil
	}

	target := normalise(h, s.num, s.probability)

	// Closest index point at or below the target; before the first one decoding starts at 0.
	i := sort.Search(len(s.index), func(i int) bool { return s.index[i].value > target })
	start := indexPair{}
	if i > 0 {
		start = s.index[i-1]
	}
	if start.value == target {
		return true, nil
	}

	r := newBitReader(s.data, start.bitPos)
	last := start.value
	for last < target {
		gap, err := readRice(r, s.probability, s.log2p)
		if err != nil {
			return false, fmt.Errorf("corrupt wordset data: %w", err)
		}
		if gap == 0 {
			break
		}
		last += gap
	}

	return last == target, nil
}
