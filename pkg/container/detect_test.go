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
package container_test

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/ostafen/mediainfer/pkg/container"
	"github.com/stretchr/testify/require"
)

func syncTrain(size, first, stride int) []byte {
	buf := make([]byte, size)
	for i := 0; i < 8; i++ {
		buf[first+i*stride] = 0x47
	}
	return buf
}

var samples = map[container.Type][][]byte{
	container.MKV: {
		{0x1A, 0x45, 0xDF, 0xA3, 0x00, 0x01},
		{0x18, 0x53, 0x80, 0x67, 0x0A},
	},
	container.ASF: {
		{
			0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
			0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
			0x34, 0x00,
		},
	},
	container.GXF: {
		{0x00, 0x00, 0x00, 0x00, 0x01, 0xBC, 0x09},
	},
	container.WTV: {
		{
			0xB7, 0xD8, 0x00, 0x20, 0x37, 0x49, 0xDA, 0x11,
			0xA6, 0x4E, 0x00, 0x07, 0xE9, 0x5E, 0xAD, 0x8D,
		},
	},
	container.RCWT: {
		{0xCC, 0xCC, 0xED, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0xCC, 0xCC, 0xED, 0xCC, 0x00, 0x50, 0x00, 0x01, 0x00, 0x00, 0x00},
	},
	container.MP4: {
		{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p', 'M', 'S', 'N', 'V', 0x09, 0x22},
		{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x57},
	},
	container.TS: {
		syncTrain(192*9, 0, 188),
	},
	container.M2TS: {
		syncTrain(192*9, 4, 192),
	},
	container.PS: {
		{0x00, 0x00, 0x01, 0xBA, 0x44, 0x00},
	},
	container.TivoPS: {
		{'T', 'i', 'V', 'o', 0x00},
	},
	container.MXF: {
		{
			0x06, 0x0E, 0x2B, 0x34, 0x02, 0x05, 0x01, 0x01,
			0x0D, 0x01, 0x02, 0x01, 0x01, 0x02, 0x09, 0x03,
		},
	},
}

func TestFromBytes(t *testing.T) {
	for _, typ := range container.Types() {
		bufs := samples[typ]
		require.NotEmpty(t, bufs, "missing sample for %s", typ)

		for _, buf := range bufs {
			got, err := container.FromBytes(buf)
			require.NoError(t, err)
			require.Equal(t, typ, got)
		}
	}
}

func TestFromBytesMP4Brands(t *testing.T) {
	for _, brand := range []string{"isom", "MSNV", "mp42", "avc1", "dash", "F4V "} {
		buf := append([]byte{0x00, 0x00, 0x00, 0x18}, "ftyp"+brand+"\x00\x00\x00\x00"...)

		typ, err := container.FromBytes(buf)
		require.NoError(t, err, brand)
		require.Equal(t, container.MP4, typ, brand)
	}
}

func TestFromBytesOtherISOBrandsUnrecognized(t *testing.T) {
	// still images, QuickTime and 3GP share the ftyp box
	for _, brand := range []string{"avif", "heic", "mif1", "qt  ", "3gp4", "M4A "} {
		buf := append([]byte{0x00, 0x00, 0x00, 0x1C}, "ftyp"+brand+"\x00\x00\x00\x00"...)

		typ, err := container.FromBytes(buf)
		require.ErrorIs(t, err, container.ErrUnrecognized, brand)
		require.Equal(t, container.Unknown, typ, brand)
	}
}

// ASF and WTV are identified by their complete 16-byte header GUIDs.
// A 4-byte GUID prefix alone is not enough.
func TestFromBytesGUIDPrefixUnrecognized(t *testing.T) {
	for _, buf := range [][]byte{
		{0x30, 0x26, 0xB2, 0x75, 0x34, 0x00},
		{0xB7, 0xD8, 0x00, 0x20, 0x00},
		append([]byte{0x30, 0x26, 0xB2, 0x75}, make([]byte, 12)...),
		append([]byte{0xB7, 0xD8, 0x00, 0x20}, make([]byte, 12)...),
	} {
		typ, err := container.FromBytes(buf)
		require.ErrorIs(t, err, container.ErrUnrecognized)
		require.Equal(t, container.Unknown, typ)
	}
}

func TestFromBytesShortInput(t *testing.T) {
	for _, buf := range [][]byte{nil, {}, {0x1A}, {0x47}} {
		typ, err := container.FromBytes(buf)
		require.ErrorIs(t, err, container.ErrUnrecognized)
		require.Equal(t, container.Unknown, typ)
	}
}

func TestFromBytesGarbage(t *testing.T) {
	_, err := container.FromBytes(make([]byte, 1024*1024))
	require.ErrorIs(t, err, container.ErrUnrecognized)

	_, err = container.FromBytes(bytes.Repeat([]byte{0x5A}, 4096))
	require.ErrorIs(t, err, container.ErrUnrecognized)
}

func TestFromBytesOneByteShort(t *testing.T) {
	for _, sig := range container.Signatures() {
		buf := sample(sig)
		require.NotContains(t, container.Candidates(buf[:len(buf)-1]), sig.Container,
			"%s matched a truncated signature", sig.Container)
	}
}

func TestFromBytesTrailingBytes(t *testing.T) {
	trailer := bytes.Repeat([]byte{0x5A}, 2*container.PrefixLen())

	for _, sig := range container.Signatures() {
		buf := sample(sig)

		want, err := container.FromBytes(buf)
		require.NoError(t, err)

		got, err := container.FromBytes(append(buf, trailer...))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestFromBytesDeterministic(t *testing.T) {
	buf := samples[container.MP4][0]
	for i := 0; i < 100; i++ {
		typ, err := container.FromBytes(buf)
		require.NoError(t, err)
		require.Equal(t, container.MP4, typ)
	}
}

func TestM2TSTakesPriorityOverTS(t *testing.T) {
	buf := syncTrain(192*9, 0, 188)
	for i := 0; i < 8; i++ {
		buf[4+i*192] = 0x47
	}

	require.Equal(t, []container.Type{container.M2TS, container.TS}, container.Candidates(buf))

	for i := 0; i < 10; i++ {
		typ, err := container.FromBytes(buf)
		require.NoError(t, err)
		require.Equal(t, container.M2TS, typ)
	}
}

func TestCandidatesDeduplicatesContainers(t *testing.T) {
	require.Equal(t, []container.Type{container.MKV}, container.Candidates(samples[container.MKV][0]))
	require.Empty(t, container.Candidates(nil))
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestFromPathNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mkv")

	typ, err := container.FromPath(path)
	require.Equal(t, container.Unknown, typ)
	require.NotErrorIs(t, err, container.ErrUnrecognized)
	require.ErrorIs(t, err, fs.ErrNotExist)

	var ioErr *container.IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "open", ioErr.Op)
	require.Equal(t, path, ioErr.Path)
}

func TestFromPathEmptyFile(t *testing.T) {
	_, err := container.FromPath(writeFile(t, nil))
	require.ErrorIs(t, err, container.ErrUnrecognized)

	var ioErr *container.IOError
	require.False(t, errors.As(err, &ioErr))
}

func TestFromPathDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := container.FromPath(dir)

	var ioErr *container.IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "read", ioErr.Op)
	require.Equal(t, dir, ioErr.Path)
}

func TestFromPathAgreesWithFromBytes(t *testing.T) {
	for typ, bufs := range samples {
		for _, buf := range bufs {
			fromBytes, err := container.FromBytes(buf)
			require.NoError(t, err)

			fromPath, err := container.FromPath(writeFile(t, buf))
			require.NoError(t, err)
			require.Equal(t, fromBytes, fromPath)
			require.Equal(t, typ, fromPath)
		}
	}
}

func TestFromFileReadsFromCurrentPosition(t *testing.T) {
	junk := []byte("junk")
	mkv := samples[container.MKV][0]
	data := append(append([]byte{}, junk...), mkv...)

	f, err := os.Open(writeFile(t, data))
	require.NoError(t, err)
	defer f.Close()

	typ, err := container.FromFile(f)
	require.ErrorIs(t, err, container.ErrUnrecognized)
	require.Equal(t, container.Unknown, typ)

	_, err = f.Seek(int64(len(junk)), io.SeekStart)
	require.NoError(t, err)

	typ, err = container.FromFile(f)
	require.NoError(t, err)
	require.Equal(t, container.MKV, typ)

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), pos)
}

func TestFromFileConsumesAtMostPrefix(t *testing.T) {
	data := append(samples[container.TS][0], bytes.Repeat([]byte{0x5A}, 4096)...)
	r := bytes.NewReader(data)

	typ, err := container.FromFile(r)
	require.NoError(t, err)
	require.Equal(t, container.TS, typ)
	require.Equal(t, len(data)-container.PrefixLen(), r.Len())
}

func TestFromFileShortReads(t *testing.T) {
	buf := samples[container.M2TS][0]

	typ, err := container.FromFile(iotest.OneByteReader(bytes.NewReader(buf)))
	require.NoError(t, err)
	require.Equal(t, container.M2TS, typ)

	typ, err = container.FromFile(iotest.DataErrReader(bytes.NewReader(samples[container.PS][0])))
	require.NoError(t, err)
	require.Equal(t, container.PS, typ)
}

func TestFromFileReadError(t *testing.T) {
	cause := errors.New("disk on fire")

	typ, err := container.FromFile(iotest.ErrReader(cause))
	require.Equal(t, container.Unknown, typ)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, container.ErrUnrecognized)

	var ioErr *container.IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "read", ioErr.Op)
	require.Empty(t, ioErr.Path)
	require.Equal(t, "read: disk on fire", err.Error())
}
