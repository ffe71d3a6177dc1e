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

// tickGranularity is how many uncompressed bytes accumulate before a
// compressed progress tick is emitted.
const tickGranularity = 1 << 20

// progressUpdater converts uncompressed byte counts, the only granularity a
// decompression stream can report, into an equivalent compressed byte
// stream for the aggregate progress accounting.
//
// Every tickGranularity uncompressed bytes emit the proportional amount of
// compressed bytes; Finish settles the remainder so that one entry always
// reports exactly its compressed size in total. An updater belongs to a
// single entry task and is not safe for concurrent use.
type progressUpdater struct {
	fct func(n uint64)
	cmp uint64 // compressed size of the entry
	unc uint64 // uncompressed size of the entry
	grn uint64 // tick granularity, in uncompressed bytes
	acc uint64 // uncompressed bytes below the next tick boundary
	snt uint64 // compressed bytes reported so far
}

func newProgressUpdater(fct func(n uint64), compressed, uncompressed, granularity uint64) *progressUpdater {
	if fct == nil {
		fct = func(uint64) {}
	}
	if granularity == 0 {
		granularity = tickGranularity
	}

	return &progressUpdater{
		fct: fct,
		cmp: compressed,
		unc: uncompressed,
		grn: granularity,
	}
}

// Progress accounts n more uncompressed bytes written.
func (o *progressUpdater) Progress(n uint64) {
	if o.unc == 0 {
		return
	}

	o.acc += n

	for o.acc >= o.grn {
		o.acc -= o.grn

		if t := o.grn * o.cmp / o.unc; t > 0 {
			o.snt += t
			o.fct(t)
		}
	}
}

// Finish emits whatever proportional amount is still owed, so the entry
// total lands exactly on the compressed size. Always reports once, even a
// zero remainder.
func (o *progressUpdater) Finish() {
	var t uint64

	if o.snt < o.cmp {
		t = o.cmp - o.snt
	}

	o.snt += t
	o.fct(t)
}
