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

package httpseek_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libsiz "github.com/nabbar/golib/size"
	"github.com/sabouaram/punzip/httpseek"
)

var _ = Describe("Seekable Http Reader Engine", func() {
	Describe("Construction", func() {
		It("should refuse an empty uri", func() {
			_, err := httpseek.New("", httpseek.Options{})
			Expect(err).To(HaveOccurred())
			Expect(httpseek.IsFallback(err)).To(BeFalse())
		})

		It("should probe the remote length on a ranging server", func() {
			srv := newRangeServer(patternBody(4096), modeRanges)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			Expect(e.Size()).To(Equal(int64(4096)))
			Expect(srv.Requests()).To(Equal(int64(1)))
		})

		It("should signal fallback when ranges are not honored", func() {
			srv := newRangeServer(patternBody(4096), modeNoRanges)
			defer srv.Close()

			_, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).To(HaveOccurred())
			Expect(httpseek.IsFallback(err)).To(BeTrue())
		})

		It("should signal fallback without a content length", func() {
			srv := newRangeServer(patternBody(4096), modeNoLength)
			defer srv.Close()

			_, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).To(HaveOccurred())
			Expect(httpseek.IsFallback(err)).To(BeTrue())
		})

		It("should not mistake a hard failure for a fallback", func() {
			srv := newRangeServer(patternBody(16), modeNotFound)
			defer srv.Close()

			_, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).To(HaveOccurred())
			Expect(httpseek.IsFallback(err)).To(BeFalse())
		})
	})

	Describe("Ascending reads", func() {
		It("should serve any ascending sequence out of a single fetch", func() {
			var (
				body = patternBody(256 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{
				Pattern: httpseek.SequentialIsh,
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			var (
				r   = e.Reader()
				out = make([]byte, len(body))
			)

			for off := 0; off < len(body); off += 4096 {
				_, err = r.ReadAt(out[off:off+4096], int64(off))
				Expect(err).ToNot(HaveOccurred())
			}

			Expect(out).To(Equal(body))
			Expect(srv.Requests()).To(Equal(int64(1)))
			Expect(e.Stats().Rewinds).To(Equal(uint64(0)))
		})

		It("should read the whole resource through the io.Reader face", func() {
			var (
				body = patternBody(64 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{
				Pattern: httpseek.SequentialIsh,
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			out, err := io.ReadAll(e.Reader())
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body))
			Expect(srv.Requests()).To(Equal(int64(1)))
		})

		It("should return EOF past the end", func() {
			srv := newRangeServer(patternBody(1024), modeRanges)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			n, err := e.Reader().ReadAt(make([]byte, 16), 1024)
			Expect(n).To(Equal(0))
			Expect(err).To(Equal(io.EOF))
		})
	})

	Describe("Rewinds and eviction", func() {
		It("should rewind when a read lands before the window", func() {
			var (
				body = patternBody(256 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{
				ReadAhead: libsiz.Size(4 << 10),
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			var (
				r    = e.Reader()
				out  = make([]byte, 1024)
				tail = int64(len(body) - 1024)
			)

			_, err = r.ReadAt(out, tail)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[tail:]))

			_, err = r.ReadAt(out, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[:1024]))

			Expect(e.Stats().Rewinds).To(Equal(uint64(1)))
			Expect(srv.Requests()).To(Equal(int64(2)))
		})

		It("should shrink the cache under a tight readahead limit", func() {
			var (
				body = patternBody(256 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{
				ReadAhead: libsiz.Size(16 << 10),
				Pattern:   httpseek.SequentialIsh,
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			var (
				r   = e.Reader()
				out = make([]byte, len(body))
			)

			for off := 0; off < len(body); off += 4096 {
				_, err = r.ReadAt(out[off:off+4096], int64(off))
				Expect(err).ToNot(HaveOccurred())
			}

			Expect(out).To(Equal(body))
			Expect(e.Stats().CacheShrinks).To(BeNumerically(">", 0))
			Expect(e.Stats().Rewinds).To(Equal(uint64(0)))
			Expect(srv.Requests()).To(Equal(int64(1)))
		})
	})

	Describe("Skip hints", func() {
		It("should jump the window forward without a new request", func() {
			var (
				body = patternBody(512 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{
				ReadAhead: libsiz.Size(1 << 10),
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			var (
				r   = e.Reader()
				out = make([]byte, 1024)
			)

			_, err = r.ReadAt(out, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[:1024]))

			e.ReadSkipExpected(100 << 10)

			pos := int64(1024 + (100 << 10))
			_, err = r.ReadAt(out, pos)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[pos : pos+1024]))

			Expect(srv.Requests()).To(Equal(int64(1)))
			Expect(e.Stats().Rewinds).To(Equal(uint64(0)))
		})

		It("should drop the stream on a skip beyond the forward budget", func() {
			var (
				body = patternBody(64 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{
				ReadAhead: libsiz.Size(1 << 10),
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			var (
				r   = e.Reader()
				out = make([]byte, 512)
			)

			_, err = r.ReadAt(out, 0)
			Expect(err).ToNot(HaveOccurred())

			e.ReadSkipExpected(2 << 20)

			// the stream is gone, a fresh fetch serves the next read but
			// none of it counts as a rewind
			_, err = r.ReadAt(out, 4096)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[4096:4608]))
			Expect(e.Stats().Rewinds).To(Equal(uint64(0)))
		})
	})

	Describe("Cursors", func() {
		It("should keep clone positions independent", func() {
			var (
				body = patternBody(8 << 10)
				srv  = newRangeServer(body, modeRanges)
			)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			var (
				r1  = e.Reader()
				r2  = r1.Clone()
				out = make([]byte, 16)
			)

			_, err = io.ReadFull(r1, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[:16]))

			_, err = io.ReadFull(r2, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[:16]))

			_, err = r2.Seek(-16, io.SeekEnd)
			Expect(err).ToNot(HaveOccurred())

			_, err = io.ReadFull(r2, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[len(body)-16:]))

			_, err = io.ReadFull(r1, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(body[16:32]))
		})

		It("should fail seeking further back than the whole length", func() {
			srv := newRangeServer(patternBody(128), modeRanges)
			defer srv.Close()

			e, err := httpseek.New(srv.URL(), httpseek.Options{})
			Expect(err).ToNot(HaveOccurred())
			defer func() {
				_ = e.Close()
			}()

			_, err = e.Reader().Seek(-129, io.SeekEnd)
			Expect(err).To(HaveOccurred())
		})
	})
})
