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

package httpseek

import (
	"io"
)

// crs is one holder cursor onto the shared engine. The logical position
// lives here, outside the engine mutex, so cursors never see each other.
type crs struct {
	e *eng
	p int64
}

func (o *crs) Clone() Reader {
	return &crs{
		e: o.e,
	}
}

func (o *crs) Size() int64 {
	return o.e.Size()
}

func (o *crs) Read(p []byte) (int, error) {
	n, err := o.ReadAt(p, o.p)
	o.p += int64(n)

	return n, err
}

func (o *crs) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrorSeekInvalid.Error(nil)
	}

	n, err := o.e.readAt(p, uint64(off))

	if n == len(p) && err == io.EOF {
		err = nil
	}

	return n, err
}

func (o *crs) Seek(offset int64, whence int) (int64, error) {
	var n int64

	switch whence {
	case io.SeekStart:
		n = offset
	case io.SeekCurrent:
		n = o.p + offset
	case io.SeekEnd:
		n = o.e.Size() + offset
	default:
		return 0, ErrorSeekInvalid.Error(nil)
	}

	if n < 0 {
		return 0, ErrorSeekInvalid.Error(nil)
	}

	o.p = n
	return n, nil
}
