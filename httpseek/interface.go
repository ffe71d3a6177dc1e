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
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	libatm "github.com/nabbar/golib/atomic"
	liberr "github.com/nabbar/golib/errors"
	libsiz "github.com/nabbar/golib/size"
	"github.com/sirupsen/logrus"
)

// AccessPattern tells the engine what shape of reads to expect, so it can
// trade memory for fewer HTTP round trips. Transitions are explicit calls on
// the Engine, never heuristics.
type AccessPattern uint8

const (
	// RandomAccess reads what each caller demands, topped up to a 64 KiB
	// transfer floor (clamped by the readahead limit) past the stream
	// position, and buffers nothing beyond that floor. This is the right
	// mode while an archive central directory is being probed.
	RandomAccess AccessPattern = iota + 1
	// SequentialIsh buffers ahead greedily, up to the configured readahead
	// limit, on the expectation that callers consume the resource in
	// roughly ascending order.
	SequentialIsh
)

// Stats is a snapshot of the engine monotonic counters.
type Stats struct {
	// Rewinds counts active response streams abandoned because a read
	// landed before the window or beyond the forward skip budget.
	Rewinds uint64
	// CacheShrinks counts evictions of resident bytes forced by the
	// readahead limit. A nonzero value after a run means the limit was
	// too small for the observed access pattern.
	CacheShrinks uint64
	// TotalFetched is the number of body bytes consumed from the remote,
	// including bytes discarded by forward skips.
	TotalFetched uint64
}

// Reader is a cloneable cursor onto a shared Engine, with the same
// semantics as reader.Reader: seeking is arithmetic on the holder position,
// physical I/O happens on read only.
type Reader interface {
	io.Reader
	io.Seeker
	io.ReaderAt

	Size() int64
	Clone() Reader
}

// Engine services ranged reads against one remote HTTP resource for any
// number of concurrent cursors, while keeping at most one response stream
// open and at most ReadAhead bytes resident.
type Engine interface {
	// Size returns the total length of the remote resource as reported
	// at construction time.
	Size() int64

	// Reader returns a new independent cursor at position zero.
	Reader() Reader

	// SetExpectedAccessPattern switches the fetch policy. The caller is
	// expected to announce SequentialIsh right before a bulk sequential
	// phase begins.
	SetExpectedAccessPattern(p AccessPattern)

	// ReadSkipExpected hints that the next n bytes of the stream will not
	// be demanded, letting the engine advance its fetch window without
	// delivering them. Purely advisory.
	ReadSkipExpected(n uint64)

	// Stats returns a snapshot of the engine counters.
	Stats() Stats

	// Close drops the active response stream, if any.
	Close() error
}

// Options tunes a new Engine.
type Options struct {
	// ReadAhead bounds the resident buffer. Zero means unbounded, which
	// callers should avoid for large archives.
	ReadAhead libsiz.Size
	// Pattern is the initial access pattern, RandomAccess when unset.
	Pattern AccessPattern
	// Client overrides the HTTP client used for ranged fetches.
	Client *retryablehttp.Client
	// Logger overrides the default logrus standard logger.
	Logger logrus.FieldLogger
}

// New probes the given URI with a ranged request and returns a live Engine.
//
// When the server does not honor ranges, or does not report a usable total
// length, the returned error is a fallback signal (see IsFallback), not a
// hard failure: the caller is expected to download the resource to a local
// file and wrap it with the reader package instead.
func New(uri string, opt Options) (Engine, error) {
	if uri == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	var (
		cli = opt.Client
		log = opt.Logger
	)

	if cli == nil {
		cli = DefaultClient()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := &eng{
		u: uri,
		c: cli,
		l: log,
		a: opt.ReadAhead,
		p: libatm.NewValue[AccessPattern](),
	}
	e.p.Store(opt.Pattern)

	rsp, err := e.doRange(0)
	if err != nil {
		return nil, err
	}

	switch rsp.StatusCode {
	case http.StatusPartialContent:
		z, ok := responseTotal(rsp)
		if !ok {
			_ = rsp.Body.Close()
			return nil, ErrorLengthUnknown.Error(nil)
		}

		e.z = z
		e.f = newFetcher(rsp.Body, 0)

		return e, nil

	case http.StatusOK:
		_ = rsp.Body.Close()

		// byte zero came back regardless of the requested range
		if rsp.ContentLength > 0 {
			return nil, ErrorRangeNotSupported.Error(nil)
		}

		return nil, ErrorLengthUnknown.Error(nil)

	default:
		_ = rsp.Body.Close()
		return nil, newStatusError(rsp)
	}
}

// IsFallback reports whether the given construction error only means the
// server lacks the capabilities the engine needs, so the caller can switch
// to a whole-resource download instead of failing.
func IsFallback(err error) bool {
	if e, k := err.(liberr.Error); k {
		return e.HasCode(ErrorRangeNotSupported) || e.HasCode(ErrorLengthUnknown)
	}

	return false
}

// DefaultClient returns the retrying HTTP client used when Options.Client
// is left empty.
func DefaultClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = nil

	return c
}
