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

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// barReporter renders the aggregate compressed-byte progress of one
// extraction as a single mpb bar. The total is the archive length, and the
// engine feeds compressed-byte deltas, so the bar advances even while large
// entries are still inflating.
type barReporter struct {
	p *mpb.Progress
	b *mpb.Bar
}

func newBarReporter() *barReporter {
	return &barReporter{
		p: mpb.New(mpb.WithWidth(64)),
	}
}

func (o *barReporter) TotalBytesExpected(total uint64) {
	o.b = o.p.New(int64(total),
		mpb.BarStyle(),
		mpb.PrependDecorators(
			decor.Name("extracting "),
			decor.CountersKibiByte("% .2f / % .2f"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
}

func (o *barReporter) BytesExtracted(count uint64) {
	if o.b != nil {
		o.b.IncrInt64(int64(count))
	}
}

func (o *barReporter) ExtractionStarting(name string) {
	logrus.WithField("entry", name).Debug("extracting")
}

func (o *barReporter) ExtractionFinished(name string) {
	logrus.WithField("entry", name).Debug("extracted")
}

// Done completes the bar at its current value: the central directory bytes
// are never extracted, so the counter lands short of the archive length.
func (o *barReporter) Done() {
	if o.b != nil {
		o.b.SetTotal(-1, true)
	}

	o.p.Wait()
}
