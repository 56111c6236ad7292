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
	"fmt"
	"strings"
)

// Type identifies a media container format.
// The zero value, Unknown, is never returned as a successful result.
type Type uint8

const (
	Unknown Type = iota
	MKV          // Matroska stream file
	ASF          // Advanced Systems Format
	GXF          // General eXchange Format
	WTV          // Windows Recorded TV Show
	RCWT         // Raw Captions With Time (CCExtractor)
	MP4          // MPEG-4 Part 14
	TS           // MPEG Transport Stream
	M2TS         // MPEG-2 Transport Stream with timestamped packets
	PS           // MPEG Program Stream
	TivoPS       // TiVo Program Stream
	MXF          // Material Exchange Format
)

var allTypes = []Type{MKV, ASF, GXF, WTV, RCWT, MP4, TS, M2TS, PS, TivoPS, MXF}

var typeNames = map[Type]string{
	Unknown: "Unknown",
	MKV:     "MKV",
	ASF:     "ASF",
	GXF:     "GXF",
	WTV:     "WTV",
	RCWT:    "RCWT",
	MP4:     "MP4",
	TS:      "TS",
	M2TS:    "M2TS",
	PS:      "PS",
	TivoPS:  "TivoPS",
	MXF:     "MXF",
}

var typeDescriptions = map[Type]string{
	MKV:    "Matroska (MKV)",
	ASF:    "Advanced Systems Format (ASF)",
	GXF:    "General Exchange Format (GXF)",
	WTV:    "Windows Recorded TV Show (WTV)",
	RCWT:   "Raw Captions With Time (RCWT)",
	MP4:    "MPEG-4 Part 14 (MP4)",
	TS:     "MPEG Transport Stream (TS)",
	M2TS:   "MPEG-2 Transport Stream (M2TS)",
	PS:     "Program Stream (PS)",
	TivoPS: "Tivo Program Stream (Tivo PS)",
	MXF:    "Material Exchange Format (MXF)",
}

// Types returns every supported container type in declaration order.
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Description returns a human readable name, e.g. "Matroska (MKV)".
func (t Type) Description() string {
	if desc, ok := typeDescriptions[t]; ok {
		return desc
	}
	return t.String()
}

// Parse maps a short, case-insensitive container name to its Type.
// "bin" is accepted as an alias of RCWT, the extension CCExtractor uses.
func Parse(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "mkv":
		return MKV, nil
	case "asf":
		return ASF, nil
	case "gxf":
		return GXF, nil
	case "wtv":
		return WTV, nil
	case "rcwt", "bin":
		return RCWT, nil
	case "mp4":
		return MP4, nil
	case "ts":
		return TS, nil
	case "m2ts":
		return M2TS, nil
	case "ps":
		return PS, nil
	case "tivops":
		return TivoPS, nil
	case "mxf":
		return MXF, nil
	}
	return Unknown, fmt.Errorf("unknown container type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
