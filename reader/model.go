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
	"sync"
)

// inr is the shared state behind all clones of one Reader.
// Invariant: once any call returns, p matches the true position of r.
type inr struct {
	m sync.Mutex
	r Source
	p int64 // physical position of r
	l int64 // cached total length, -1 until resolved
}

// sizeLocked resolves the source length once and caches it.
// The caller must hold the mutex.
func (o *inr) sizeLocked() (int64, error) {
	if o.l >= 0 {
		return o.l, nil
	}

	if s, k := o.r.(Sizer); k {
		o.l = s.Size()
		return o.l, nil
	}

	// measure by seeking to the end, then restore the physical position
	e, err := o.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ErrorSourceSeek.ErrorParent(err)
	} else if _, err = o.r.Seek(o.p, io.SeekStart); err != nil {
		return 0, ErrorSourceSeek.ErrorParent(err)
	}

	o.l = e
	return e, nil
}

func (o *inr) size() (int64, error) {
	o.m.Lock()
	defer o.m.Unlock()

	return o.sizeLocked()
}

// readAt reconciles the physical position with the holder position when
// they differ, then reads. Source I/O errors are returned unchanged so
// that io.EOF keeps its meaning for callers.
func (o *inr) readAt(off int64, p []byte) (int, error) {
	o.m.Lock()
	defer o.m.Unlock()

	if off != o.p {
		if _, err := o.r.Seek(off, io.SeekStart); err != nil {
			return 0, err
		}
		o.p = off
	}

	n, err := o.r.Read(p)
	o.p += int64(n)

	return n, err
}

type rdr struct {
	i *inr
	p int64 // logical position of this holder only
}

func (o *rdr) Clone() Reader {
	return &rdr{
		i: o.i,
	}
}

func (o *rdr) Read(p []byte) (int, error) {
	n, err := o.i.readAt(o.p, p)
	o.p += int64(n)

	return n, err
}

func (o *rdr) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrorSeekInvalid.Error(nil)
	}

	var n int

	for n < len(p) {
		k, err := o.i.readAt(off+int64(n), p[n:])
		n += k

		if err != nil {
			if n == len(p) && err == io.EOF {
				err = nil
			}
			return n, err
		} else if k == 0 {
			return n, io.EOF
		}
	}

	return n, nil
}

// Seek is purely arithmetic on the holder position: the source itself is
// only moved on the next Read. Seeking beyond the end is allowed, the
// following read then returns no bytes.
func (o *rdr) Seek(offset int64, whence int) (int64, error) {
	var n int64

	switch whence {
	case io.SeekStart:
		n = offset
	case io.SeekCurrent:
		n = o.p + offset
	case io.SeekEnd:
		l, err := o.i.size()
		if err != nil {
			return 0, err
		}
		n = l + offset
	default:
		return 0, ErrorSeekInvalid.Error(nil)
	}

	if n < 0 {
		return 0, ErrorSeekInvalid.Error(nil)
	}

	o.p = n
	return n, nil
}

func (o *rdr) Size() int64 {
	if l, err := o.i.size(); err != nil {
		return 0
	} else {
		return l
	}
}
