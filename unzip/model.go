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
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type unz struct {
	opt Options
	log logrus.FieldLogger
	zip *zip.Reader
	siz uint64 // total compressed length of the archive source
	dir *dirCreator

	skp func(n uint64) // skip hint toward the http backing, no-op on files
	pre func()         // fires before dispatch (access pattern switch)
	end func()         // fires after the last task (counter checks)
}

func (o *unz) Length() uint64 {
	return o.siz
}

func (o *unz) List() ([]string, error) {
	res := make([]string, 0, len(o.zip.File))

	for _, f := range o.zip.File {
		res = append(res, f.Name)
	}

	return res, nil
}

func (o *unz) Extract() error {
	return o.ExtractSelective(nil)
}

func (o *unz) ExtractSelective(filter FilenameFilter) error {
	if filter == nil {
		filter = func(string) bool {
			return true
		}
	}

	o.log.WithFields(logrus.Fields{
		"entries": len(o.zip.File),
		"length":  o.siz,
	}).Info("starting extract")

	o.reporter().TotalBytesExpected(o.siz)
	o.pre()

	var errs []error

	if o.opt.SingleThreaded {
		for i := range o.zip.File {
			if err := o.extractIndex(i, filter); err != nil {
				errs = append(errs, err)
			}
		}
	} else {
		var mux sync.Mutex

		grp := new(errgroup.Group)
		grp.SetLimit(runtime.GOMAXPROCS(0))

		// entries are handed out in ascending index order so that worker
		// demand follows the byte order of the archive
		for i := range o.zip.File {
			i := i
			grp.Go(func() error {
				if err := o.extractIndex(i, filter); err != nil {
					mux.Lock()
					errs = append(errs, err)
					mux.Unlock()
				}
				return nil
			})
		}

		_ = grp.Wait()
	}

	o.end()

	for _, e := range errs {
		o.log.WithError(e).Error("entry extraction failed")
	}

	if len(errs) > 0 {
		return errs[0]
	}

	return nil
}

func (o *unz) reporter() Reporter {
	if o.opt.Reporter != nil {
		return o.opt.Reporter
	}

	return discardReporter{}
}

type discardReporter struct{}

func (discardReporter) ExtractionStarting(string) {}
func (discardReporter) ExtractionFinished(string) {}
func (discardReporter) TotalBytesExpected(uint64) {}
func (discardReporter) BytesExtracted(uint64)     {}
