/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package reader

import (
	"io"
)

// Source is the minimal contract for an underlying seekable byte source.
// The source is assumed to keep a constant length for the whole lifetime
// of the Reader built on top of it.
type Source interface {
	io.Reader
	io.Seeker
}

// Sizer reports the total length of a byte source known in advance.
// Sources not implementing it are measured once by seeking to the end,
// and the result is cached.
type Sizer interface {
	Size() int64
}

// Reader is a cloneable cursor over a single shared seekable source.
//
// Every clone owns an independent logical position while all clones share
// the same underlying source, guarded by one mutex. The source is seeked
// to the holder position before each physical read, which makes any number
// of clones usable from concurrent goroutines. ReadAt honors the full-read
// contract of io.ReaderAt, so a Reader can directly back archive/zip.
type Reader interface {
	io.Reader
	io.Seeker
	io.ReaderAt
	Sizer

	// Clone returns a new independent cursor, starting at position zero,
	// sharing the same underlying source.
	Clone() Reader
}

// New wraps the given source into a cloneable seekable Reader.
// The Reader takes ownership of the source: no other code must move its
// position afterwards.
func New(src Source) (Reader, error) {
	if src == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	return &rdr{
		i: &inr{
			r: src,
			l: -1,
		},
	}, nil
}
