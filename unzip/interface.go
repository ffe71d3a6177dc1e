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

package unzip

import (
	"archive/zip"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	libsiz "github.com/nabbar/golib/size"
	"github.com/sabouaram/punzip/httpseek"
	"github.com/sabouaram/punzip/reader"
	"github.com/sirupsen/logrus"
)

// FilenameFilter decides whether an entry, identified by its validated
// relative name, must be extracted. It is consulted at most once per entry
// (entries with unsafe names fail before reaching it) and must be safe for
// concurrent calls.
type FilenameFilter func(name string) bool

// Reporter receives extraction progress callbacks. Implementations must be
// safe for concurrent calls.
type Reporter interface {
	// ExtractionStarting fires right before an entry begins extracting.
	ExtractionStarting(name string)
	// ExtractionFinished fires once an entry is fully written, directory
	// entries included.
	ExtractionFinished(name string)
	// TotalBytesExpected announces the total compressed length of the
	// archive, once, before any entry starts.
	TotalBytesExpected(total uint64)
	// BytesExtracted reports additional progress in compressed bytes.
	// The count is a delta, never a running total; summed over a whole
	// entry it equals that entry compressed size.
	BytesExtracted(count uint64)
}

// Options tunes an extraction engine. The zero value extracts everything
// into the current directory, in parallel, without progress callbacks,
// logging to the logrus standard logger.
type Options struct {
	// OutputDirectory is the root of the extracted tree. Empty means the
	// current working directory.
	OutputDirectory string

	// SingleThreaded collapses the worker pool to strict in-order
	// sequential extraction.
	SingleThreaded bool

	// ReadAhead bounds the memory the HTTP backing may buffer ahead.
	// Zero means unbounded. Ignored for local files.
	ReadAhead libsiz.Size

	// Bandwidth throttles each output file write stream to the given
	// bytes per second. Zero means unlimited.
	Bandwidth libsiz.Size

	// Reporter receives progress callbacks. Nil discards them.
	Reporter Reporter

	// OnRewindWarning is invoked once after an extraction over HTTP when
	// the readahead window proved too small (the engine had to shrink its
	// cache). Advisory only.
	OnRewindWarning func()

	// Client overrides the HTTP client used for ranged reads and for the
	// whole-archive fallback download.
	Client *retryablehttp.Client

	// Logger overrides the default logrus standard logger.
	Logger logrus.FieldLogger
}

// Unzip extracts a ZIP archive entry-per-task in parallel.
type Unzip interface {
	// Length returns the total compressed length of the archive source,
	// the number TotalBytesExpected announces.
	Length() uint64

	// List returns the raw entry names of the archive, in central
	// directory order.
	List() ([]string, error)

	// Extract unpacks every entry.
	Extract() error

	// ExtractSelective unpacks the entries admitted by the given filter.
	// Errors do not abort the other entries: every failure is logged and
	// the first one is returned once all tasks have settled.
	ExtractSelective(filter FilenameFilter) error
}

// New builds an extraction engine over an opened local file. The engine
// takes ownership of the handle.
func New(f *os.File, opt Options) (Unzip, error) {
	if f == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	i, err := f.Stat()
	if err != nil {
		return nil, ErrorFileStat.ErrorParent(err)
	}

	return newFileEngine(f, uint64(i.Size()), opt)
}

// NewURI builds an extraction engine over a remote archive.
//
// When the server honors byte ranges, entries stream straight out of the
// ranged reads. Otherwise the archive is downloaded once into an unlinked
// temporary file and extracted from there.
func NewURI(uri string, opt Options) (Unzip, error) {
	if uri == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	var (
		log = opt.logger()
		cli = opt.Client
	)

	if cli == nil {
		cli = httpseek.DefaultClient()
	}

	e, err := httpseek.New(uri, httpseek.Options{
		ReadAhead: opt.ReadAhead,
		Pattern:   httpseek.RandomAccess,
		Client:    cli,
		Logger:    log,
	})

	if err == nil {
		z, er := zip.NewReader(e.Reader(), e.Size())
		if er != nil {
			_ = e.Close()
			return nil, ErrorArchiveOpen.ErrorParent(er)
		}

		return newURIEngine(e, z, opt), nil
	} else if !httpseek.IsFallback(err) {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"uri": uri,
	}).Info("server cannot serve ranged reads, downloading whole archive")

	f, sz, err := downloadTemp(cli, uri)
	if err != nil {
		return nil, err
	}

	return newFileEngine(f, sz, opt)
}

func newFileEngine(f *os.File, size uint64, opt Options) (Unzip, error) {
	r, err := reader.New(f)
	if err != nil {
		return nil, err
	}

	z, err := zip.NewReader(r, int64(size))
	if err != nil {
		return nil, ErrorArchiveOpen.ErrorParent(err)
	}

	return &unz{
		opt: opt,
		log: opt.logger(),
		zip: z,
		siz: size,
		dir: new(dirCreator),
		skp: func(uint64) {},
		pre: func() {},
		end: func() {},
	}, nil
}

func newURIEngine(e httpseek.Engine, z *zip.Reader, opt Options) Unzip {
	o := &unz{
		opt: opt,
		log: opt.logger(),
		zip: z,
		siz: uint64(e.Size()),
		dir: new(dirCreator),
		skp: e.ReadSkipExpected,
	}

	o.pre = func() {
		e.SetExpectedAccessPattern(httpseek.SequentialIsh)
	}

	o.end = func() {
		s := e.Stats()

		o.log.WithFields(logrus.Fields{
			"rewinds":      s.Rewinds,
			"cacheShrinks": s.CacheShrinks,
			"fetched":      s.TotalFetched,
		}).Debug("http engine counters")

		if s.CacheShrinks > 0 {
			o.log.Warn("readahead buffer was too small, performance was impaired by http stream rewinds")

			if opt.OnRewindWarning != nil {
				opt.OnRewindWarning()
			}
		}
	}

	return o
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}

	return logrus.StandardLogger()
}
