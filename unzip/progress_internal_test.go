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
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Progress Updater", func() {
	collect := func() (*[]uint64, func(uint64)) {
		out := new([]uint64)
		return out, func(n uint64) {
			*out = append(*out, n)
		}
	}

	sum := func(s []uint64) uint64 {
		var t uint64
		for _, n := range s {
			t += n
		}
		return t
	}

	It("should total exactly the compressed size whatever the write pattern", func() {
		out, fct := collect()
		upd := newProgressUpdater(fct, 1000, 10000, 1024)

		for i := 0; i < 10; i++ {
			upd.Progress(1000)
		}
		upd.Finish()

		Expect(sum(*out)).To(Equal(uint64(1000)))
	})

	It("should emit proportional ticks while crossing granularity boundaries", func() {
		out, fct := collect()
		upd := newProgressUpdater(fct, 500, 4096, 1024)

		upd.Progress(2048)
		Expect(*out).To(HaveLen(2))
		Expect((*out)[0]).To(Equal(uint64(1024 * 500 / 4096)))

		upd.Finish()
		Expect(sum(*out)).To(Equal(uint64(500)))
	})

	It("should report everything at finish when the uncompressed size is zero", func() {
		out, fct := collect()
		upd := newProgressUpdater(fct, 77, 0, 1024)

		upd.Progress(10)
		Expect(*out).To(BeEmpty())

		upd.Finish()
		Expect(*out).To(Equal([]uint64{77}))
	})

	It("should still report once for an entirely empty entry", func() {
		out, fct := collect()
		upd := newProgressUpdater(fct, 0, 0, 1024)

		upd.Finish()
		Expect(*out).To(Equal([]uint64{0}))
	})
})

var _ = Describe("Directory Creator", func() {
	It("should create nested directories idempotently", func() {
		var (
			d = new(dirCreator)
			p = filepath.Join(GinkgoT().TempDir(), "a", "b", "c")
		)

		Expect(d.CreateAll(p)).ToNot(HaveOccurred())
		Expect(d.CreateAll(p)).ToNot(HaveOccurred())
		Expect(pathExists(p)).To(BeTrue())
	})

	It("should survive many goroutines racing on overlapping paths", func() {
		var (
			d  = new(dirCreator)
			td = GinkgoT().TempDir()
			wg sync.WaitGroup
		)

		for i := 0; i < 32; i++ {
			wg.Add(1)

			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()

				p := filepath.Join(td, "x", "y", "z")
				if i%2 == 0 {
					p = filepath.Join(p, "deep")
				}

				Expect(d.CreateAll(p)).ToNot(HaveOccurred())
			}(i)
		}

		wg.Wait()
		Expect(pathExists(filepath.Join(td, "x", "y", "z", "deep"))).To(BeTrue())
	})
})

var _ = Describe("Entry name validation", func() {
	It("should accept plain relative names", func() {
		n, err := safeName("test/c.txt")
		Expect(err).To(BeNil())
		Expect(n).To(Equal("test/c.txt"))
	})

	It("should strip the trailing slash of directory entries", func() {
		n, err := safeName("test/")
		Expect(err).To(BeNil())
		Expect(n).To(Equal("test"))
	})

	It("should refuse traversal and absolute names", func() {
		for _, raw := range []string{"../evil", "a/../../evil", "/etc/passwd", "..", ""} {
			_, err := safeName(raw)
			Expect(err).ToNot(BeNil(), raw)
		}
	})

	It("should collapse inner dot segments instead of refusing them", func() {
		n, err := safeName("a/./b/../c.txt")
		Expect(err).To(BeNil())
		Expect(n).To(Equal("a/c.txt"))
	})
})
