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
	"os"
	"sync"
)

// dirCreator serializes directory creation across worker goroutines.
//
// Archive entries routinely share parents, and POSIX does not define which
// of two racing mkdir callers receives EEXIST. The stat fast path keeps the
// common case lock-free; the re-check under the mutex collapses the race.
type dirCreator struct {
	m sync.Mutex
}

func (o *dirCreator) CreateAll(p string) error {
	if p == "" || pathExists(p) {
		return nil
	}

	o.m.Lock()
	defer o.m.Unlock()

	if pathExists(p) {
		return nil
	}

	if err := os.MkdirAll(p, 0755); err != nil {
		return ErrorDirCreate.ErrorParent(err)
	}

	return nil
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
