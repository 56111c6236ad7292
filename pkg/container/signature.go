// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package container

import (
	"bytes"
	"fmt"
)

// Signature describes the magic bytes of a container at a fixed offset.
//
// Mask, when set, has the same length as Pattern: 0xFF marks a byte that must
// match and 0x00 marks a position that may hold any value.
type Signature struct {
	Container Type
	Offset    int
	Pattern   []byte
	Mask      []byte
}

// Segment is a contiguous run of significant signature bytes.
type Segment struct {
	Offset int
	Bytes  []byte
}

// Span returns the minimum buffer length needed to test the signature.
func (s Signature) Span() int {
	return s.Offset + len(s.Pattern)
}

// Match reports whether buf carries the signature.
// A signature with a negative offset or a mask not parallel to its
// pattern never matches.
func (s Signature) Match(buf []byte) bool {
	if s.Offset < 0 || (s.Mask != nil && len(s.Mask) != len(s.Pattern)) {
		return false
	}
	if len(buf) < s.Span() {
		return false
	}

	window := buf[s.Offset:s.Span()]
	if s.Mask == nil {
		return bytes.Equal(window, s.Pattern)
	}

	for i, m := range s.Mask {
		if m != 0 && window[i] != s.Pattern[i] {
			return false
		}
	}
	return true
}

// Segments groups the significant bytes of the signature into runs,
// with offsets relative to the start of the buffer.
func (s Signature) Segments() []Segment {
	if s.Mask == nil {
		return []Segment{{Offset: s.Offset, Bytes: bytes.Clone(s.Pattern)}}
	}

	var segs []Segment
	start := -1
	for i := 0; i <= len(s.Mask); i++ {
		significant := i < len(s.Mask) && s.Mask[i] != 0
		switch {
		case significant && start < 0:
			start = i
		case !significant && start >= 0:
			segs = append(segs, Segment{
				Offset: s.Offset + start,
				Bytes:  bytes.Clone(s.Pattern[start:i]),
			})
			start = -1
		}
	}
	return segs
}

func (s Signature) clone() Signature {
	s.Pattern = bytes.Clone(s.Pattern)
	if s.Mask != nil {
		s.Mask = bytes.Clone(s.Mask)
	}
	return s
}

func (s Signature) validate() error {
	switch {
	case s.Container == Unknown:
		return fmt.Errorf("signature has no container")
	case s.Offset < 0:
		return fmt.Errorf("%s: negative offset %d", s.Container, s.Offset)
	case len(s.Pattern) == 0:
		return fmt.Errorf("%s: empty pattern", s.Container)
	case s.Mask != nil && len(s.Mask) != len(s.Pattern):
		return fmt.Errorf("%s: mask length %d differs from pattern length %d", s.Container, len(s.Mask), len(s.Pattern))
	}

	for i, m := range s.Mask {
		if m != 0x00 && m != 0xFF {
			return fmt.Errorf("%s: invalid mask byte 0x%02x at %d", s.Container, m, i)
		}
	}
	return nil
}

// syncTrain builds a masked signature made of count sync bytes spaced
// stride bytes apart, the first one at offset.
func syncTrain(t Type, offset, stride, count int, sync byte) Signature {
	n := stride*(count-1) + 1
	pattern := make([]byte, n)
	mask := make([]byte, n)
	for i := 0; i < count; i++ {
		pattern[i*stride] = sync
		mask[i*stride] = 0xFF
	}
	return Signature{Container: t, Offset: offset, Pattern: pattern, Mask: mask}
}

// ftypSignatures builds one signature per brand of an ISO base media
// file type box, i.e. "ftyp" followed by the major brand at offset 4.
func ftypSignatures(t Type, brands ...string) []Signature {
	sigs := make([]Signature, len(brands))
	for i, brand := range brands {
		sigs[i] = Signature{
			Container: t,
			Offset:    4,
			Pattern:   []byte("ftyp" + brand),
		}
	}
	return sigs
}

// Major brands of MP4 files. Other ISO base media files, such as HEIF and
// AVIF images, QuickTime movies and 3GP, share the ftyp box but not these
// brands.
var mp4Brands = []string{
	"avc1", "dash", "iso2", "iso3", "iso4", "iso5", "iso6", "isom",
	"mmp4", "mp41", "mp42", "mp4v", "mp71", "MSNV", "NDAS", "NDSC",
	"NSDC", "NSDH", "NDSM", "NDSP", "NDSS", "NDXC", "NDXH", "NDXM",
	"NDXP", "NDXS", "F4V ", "F4P ",
}

const (
	tsPacketSize   = 188
	m2tsPacketSize = 192
	m2tsTimestamp  = 4
	syncByte       = 0x47
	syncPackets    = 8
)

// signatures is ordered by decreasing specificity; the first match wins.
// GXF precedes PS since both open with 00 00, and M2TS precedes TS so that
// a buffer carrying both sync trains resolves to the longer one.
var signatures = append(append([]Signature{
	{
		// MXF header partition pack key (SMPTE 377M).
		Container: MXF,
		Pattern: []byte{
			0x06, 0x0E, 0x2B, 0x34, 0x02, 0x05, 0x01, 0x01,
			0x0D, 0x01, 0x02, 0x01, 0x01, 0x02,
		},
	},
	{
		// {75B22630-668E-11CF-A6D9-00AA0062CE6C}
		Container: ASF,
		Pattern: []byte{
			0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
			0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
		},
	},
	{
		// WTV header GUID.
		Container: WTV,
		Pattern: []byte{
			0xB7, 0xD8, 0x00, 0x20, 0x37, 0x49, 0xDA, 0x11,
			0xA6, 0x4E, 0x00, 0x07, 0xE9, 0x5E, 0xAD, 0x8D,
		},
	},
	{
		// Bytes 3..7 hold the creating program and format version.
		Container: RCWT,
		Pattern:   []byte{0xCC, 0xCC, 0xED, 0, 0, 0, 0, 0, 0, 0, 0},
		Mask:      []byte{0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF},
	},
	{
		Container: GXF,
		Pattern:   []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xBC},
	},
}, ftypSignatures(MP4, mp4Brands...)...), []Signature{
	{
		// EBML header.
		Container: MKV,
		Pattern:   []byte{0x1A, 0x45, 0xDF, 0xA3},
	},
	{
		// Segment element of a stream without EBML header.
		Container: MKV,
		Pattern:   []byte{0x18, 0x53, 0x80, 0x67},
	},
	{
		Container: TivoPS,
		Pattern:   []byte("TiVo"),
	},
	{
		// Pack header start code.
		Container: PS,
		Pattern:   []byte{0x00, 0x00, 0x01, 0xBA},
	},
	syncTrain(M2TS, m2tsTimestamp, m2tsPacketSize, syncPackets, syncByte),
	syncTrain(TS, 0, tsPacketSize, syncPackets, syncByte),
}...)

var prefixLen = maxSpan(signatures)

// PrefixLen returns the number of leading bytes needed to test every
// signature. Readers never consume more than PrefixLen bytes.
func PrefixLen() int {
	return prefixLen
}

func maxSpan(sigs []Signature) int {
	n := 0
	for _, sig := range sigs {
		if err := sig.validate(); err != nil {
			panic("container: malformed signature table: " + err.Error())
		}
		n = max(n, sig.Span())
	}
	return n
}

// Signatures returns a copy of the signature table in priority order.
func Signatures() []Signature {
	sigs := make([]Signature, len(signatures))
	for i, sig := range signatures {
		sigs[i] = sig.clone()
	}
	return sigs
}
