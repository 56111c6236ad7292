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
	"errors"
	"io"
	"os"
)

// FromBytes returns the container of the first signature, in priority
// order, that matches buf. It never reads past PrefixLen bytes of buf.
func FromBytes(buf []byte) (Type, error) {
	for _, sig := range signatures {
		if sig.Match(buf) {
			return sig.Container, nil
		}
	}
	return Unknown, ErrUnrecognized
}

// Candidates returns every container whose signature matches buf,
// in priority order and without duplicates.
func Candidates(buf []byte) []Type {
	var types []Type
	for _, sig := range signatures {
		if !sig.Match(buf) || containsType(types, sig.Container) {
			continue
		}
		types = append(types, sig.Container)
	}
	return types
}

func containsType(types []Type, t Type) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// FromPath opens the file at path and classifies its first PrefixLen bytes.
// Files shorter than that are classified on what they hold.
func FromPath(path string) (Type, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	t, err := FromFile(f)

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		ioErr.Path = path
	}
	return t, err
}

// FromFile classifies the next PrefixLen bytes of r.
//
// Reading starts at the current position of r, which is never repositioned:
// callers wanting the start of a file must seek there first, and the cursor
// is left after the consumed bytes.
func FromFile(r io.Reader) (Type, error) {
	buf := make([]byte, prefixLen)

	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, &IOError{Op: "read", Err: err}
	}
	return FromBytes(buf[:n])
}
