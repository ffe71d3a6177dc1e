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

// Package httpseek turns a remote HTTP resource into a seekable, shareable
// byte source for concurrent readers.
//
// Many goroutines issuing arbitrary ranged reads would naively translate
// into many small HTTP requests. The engine in this package instead keeps at
// most one ranged GET open at a time, serves reads from a bounded window of
// buffered bytes, consumes and discards the stream for short forward jumps,
// and only reopens the stream (a rewind) when a read lands before the window
// or beyond the forward skip budget. An access pattern switch lets the owner
// announce bulk sequential phases so the engine buffers ahead greedily.
//
// Construction probes the server with a ranged request. Servers that ignore
// the Range header, or that report no usable total length, are signaled as a
// fallback condition (IsFallback) so the caller can download the resource to
// a local file instead.
package httpseek
