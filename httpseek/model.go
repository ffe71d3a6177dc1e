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
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-retryablehttp"
	libatm "github.com/nabbar/golib/atomic"
	libsiz "github.com/nabbar/golib/size"
	"github.com/sirupsen/logrus"
)

const (
	// forwardSkipBudget is how far ahead of the active stream a read may
	// land and still be served by consuming and discarding, instead of
	// paying a new HTTP request round trip.
	forwardSkipBudget = 1 << 20

	// fetch chunk sizes per access pattern
	chunkRandom     = 64 << 10
	chunkSequential = 1 << 20
)

type eng struct {
	u string
	c *retryablehttp.Client
	l logrus.FieldLogger
	z uint64      // total remote length, fixed at construction
	a libsiz.Size // readahead limit, 0 = unbounded

	p libatm.Value[AccessPattern]

	sr atomic.Uint64 // rewinds
	sc atomic.Uint64 // cache shrinks
	sf atomic.Uint64 // total fetched bytes

	m sync.Mutex
	w uint64 // absolute offset of b[0]
	b []byte // resident bytes, [w, w+len(b)) of the remote
	f *ftc   // active response stream, nil when none
	n uint64 // next absolute byte the active stream will deliver
}

func (o *eng) Size() int64 {
	return int64(o.z)
}

func (o *eng) Reader() Reader {
	return &crs{
		e: o,
	}
}

func (o *eng) SetExpectedAccessPattern(p AccessPattern) {
	o.p.Store(p)
}

func (o *eng) Stats() Stats {
	return Stats{
		Rewinds:      o.sr.Load(),
		CacheShrinks: o.sc.Load(),
		TotalFetched: o.sf.Load(),
	}
}

func (o *eng) Close() error {
	o.m.Lock()
	defer o.m.Unlock()

	return o.dropFetcher()
}

func (o *eng) dropFetcher() error {
	if o.f == nil {
		return nil
	}

	err := o.f.Close()
	o.f = nil

	return err
}

func (o *eng) pattern() AccessPattern {
	if p := o.p.Load(); p == SequentialIsh {
		return SequentialIsh
	}

	return RandomAccess
}

// readAt is the single entry point every cursor funnels into. It holds the
// engine mutex for the whole operation, network reads included: extraction
// demand is ordered by the byte layout of the archive, so overlapping
// ranged fetches would only defeat the shared cache.
func (o *eng) readAt(p []byte, off uint64) (int, error) {
	o.m.Lock()
	defer o.m.Unlock()

	var n int

	for n < len(p) {
		pos := off + uint64(n)
		if pos >= o.z {
			return n, io.EOF
		}

		// cache hit
		if pos >= o.w && pos < o.w+uint64(len(o.b)) {
			n += copy(p[n:], o.b[pos-o.w:])
			continue
		}

		if err := o.position(pos); err != nil {
			return n, err
		}

		if err := o.fill(pos, uint64(len(p)-n)); err != nil {
			return n, err
		}
	}

	return n, nil
}

// position makes sure the active stream can reach pos by appending forward:
// either the stream is already within the skip budget of pos, or it is
// abandoned and a fresh one is opened at pos.
func (o *eng) position(pos uint64) error {
	if o.f != nil && pos >= o.n && pos-o.n <= forwardSkipBudget {
		return nil
	}

	if o.f != nil {
		_ = o.dropFetcher()
		o.sr.Add(1)
		o.l.WithFields(logrus.Fields{
			"uri":    o.u,
			"offset": pos,
		}).Debug("rewinding http stream")
	}

	f, err := o.startFetch(pos)
	if err != nil {
		return err
	}

	o.f = f
	o.n = pos
	o.w = pos
	o.b = o.b[:0]

	return nil
}

// fill consumes the active stream into the cache until pos+want is resident
// or the remote ends, then evicts leading bytes down to the readahead limit.
func (o *eng) fill(pos, want uint64) error {
	need := pos + want
	if need > o.z {
		need = o.z
	}

	// grow toward the pattern target, never below the demand itself
	target := need

	if o.pattern() == SequentialIsh {
		// greedy readahead past the demand, bounded by the limit
		t := uint64(chunkSequential)
		if l := uint64(o.a); l > 0 && l < t {
			t = l
		}
		if t += pos; t > target {
			target = t
		}
	} else {
		// no speculation, just a transfer floor so tiny central
		// directory reads do not degenerate into byte-sized recv calls
		t := uint64(chunkRandom)
		if l := uint64(o.a); l > 0 && l < t {
			t = l
		}
		if t += o.n; t > target {
			target = t
		}
	}

	if target > o.z {
		target = o.z
	}

	size := target - o.n

	buf := make([]byte, size)

	k, err := io.ReadFull(o.f, buf)
	if k > 0 {
		o.b = append(o.b, buf[:k]...)
		o.n += uint64(k)
		o.sf.Add(uint64(k))
	}

	if err != nil && o.n < need {
		_ = o.dropFetcher()
		return ErrorResponseRead.ErrorParent(err)
	}

	o.evict(pos)
	return nil
}

// evict drops leading resident bytes until the buffer fits the readahead
// limit again, never dropping past the position currently being served.
func (o *eng) evict(pos uint64) {
	l := uint64(o.a)
	if l == 0 || uint64(len(o.b)) <= l {
		return
	}

	drop := uint64(len(o.b)) - l
	if max := pos - o.w; drop > max {
		drop = max
	}

	if drop == 0 {
		return
	}

	o.b = append(make([]byte, 0, uint64(len(o.b))-drop), o.b[drop:]...)
	o.w += drop
	o.sc.Add(1)
}

// ReadSkipExpected advances the fetch window past bytes known to be
// unwanted. Small skips are consumed and discarded on the live stream;
// larger ones just drop the stream so the next demanded read starts fresh
// further ahead. Dropping here does not count as a rewind.
func (o *eng) ReadSkipExpected(n uint64) {
	if n == 0 {
		return
	}

	o.m.Lock()
	defer o.m.Unlock()

	if o.f == nil {
		return
	}

	if n > forwardSkipBudget || o.n+n > o.z {
		_ = o.dropFetcher()
		o.b = o.b[:0]
		o.n = min64(o.n+n, o.z)
		o.w = o.n
		return
	}

	k, err := io.CopyN(io.Discard, o.f, int64(n))
	if k > 0 {
		o.n += uint64(k)
		o.sf.Add(uint64(k))
	}

	// the skipped range is a hole: restart the window after it
	o.w = o.n
	o.b = o.b[:0]

	if err != nil {
		_ = o.dropFetcher()
	}
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}

	return b
}
