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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// ftc wraps one in-flight ranged response body: a forward-only stream
// whose first byte corresponds to the requested start offset.
type ftc struct {
	b io.ReadCloser
	o uint64 // absolute offset of the first byte delivered
}

func newFetcher(body io.ReadCloser, off uint64) *ftc {
	return &ftc{
		b: body,
		o: off,
	}
}

func (o *ftc) StartOffset() uint64 {
	return o.o
}

func (o *ftc) Read(p []byte) (int, error) {
	return o.b.Read(p)
}

func (o *ftc) Close() error {
	return o.b.Close()
}

// doRange issues a GET with a half-open byte range starting at off.
func (o *eng) doRange(off uint64) (*http.Response, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, o.u, nil)
	if err != nil {
		return nil, ErrorRequestPrepare.ErrorParent(err)
	}

	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", off))

	rsp, err := o.c.Do(req)
	if err != nil {
		return nil, ErrorRequestDo.ErrorParent(err)
	}

	return rsp, nil
}

// startFetch opens a new response stream at the given offset, for use after
// construction already proved the server honors ranges.
func (o *eng) startFetch(off uint64) (*ftc, error) {
	rsp, err := o.doRange(off)
	if err != nil {
		return nil, err
	}

	if rsp.StatusCode != http.StatusPartialContent {
		_ = rsp.Body.Close()
		return nil, newStatusError(rsp)
	}

	return newFetcher(rsp.Body, off), nil
}

// responseTotal extracts the total resource length from a 206 response,
// preferring the Content-Range trailer part over Content-Length.
func responseTotal(rsp *http.Response) (uint64, bool) {
	cr := rsp.Header.Get("Content-Range")

	if i := strings.LastIndexByte(cr, '/'); i >= 0 {
		if t := cr[i+1:]; t != "" && t != "*" {
			if z, err := strconv.ParseUint(t, 10, 64); err == nil {
				return z, true
			}
		}
	}

	if rsp.ContentLength > 0 {
		return uint64(rsp.ContentLength), true
	}

	return 0, false
}

func newStatusError(rsp *http.Response) error {
	return ErrorResponseStatus.ErrorParent(fmt.Errorf("unexpected status %s", rsp.Status))
}
