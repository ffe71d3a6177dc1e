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

// Package unzip extracts ZIP archives in parallel, from a local file or
// straight out of an HTTP server.
//
// The archive is opened once against a shared seekable backing: a cloneable
// reader over the local file, or the httpseek engine for remote archives.
// One task per central directory entry is then dispatched to a bounded
// worker pool, in ascending index order, because entry data offsets grow
// with the index and ascending demand is what keeps the remote byte window
// moving forward instead of rewinding.
//
// Entries filtered out are not decompressed at all; over HTTP their
// compressed size is handed to the backing as a skip hint, so the engine
// discards those bytes from its live stream, or drops the stream when the
// skip exceeds its forward budget, instead of buffering them. Per-entry failures never abort the other tasks: every error
// is collected, logged and the first one is returned.
//
// Servers without byte range support degrade transparently to a one-shot
// download into an unlinked temporary file.
package unzip
