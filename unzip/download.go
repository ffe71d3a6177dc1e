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
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
)

// downloadTemp fetches the whole resource into an unlinked temporary file,
// for servers that cannot serve ranged reads. The file vanishes when the
// process releases the handle.
func downloadTemp(cli *retryablehttp.Client, uri string) (*os.File, uint64, error) {
	rsp, err := cli.Get(uri)
	if err != nil {
		return nil, 0, ErrorDownload.ErrorParent(err)
	}

	defer func() {
		_ = rsp.Body.Close()
	}()

	if rsp.StatusCode != http.StatusOK {
		return nil, 0, ErrorDownload.ErrorParent(fmt.Errorf("unexpected status %s", rsp.Status))
	}

	f, err := os.CreateTemp("", "punzip-*.zip")
	if err != nil {
		return nil, 0, ErrorTempFile.ErrorParent(err)
	}

	_ = os.Remove(f.Name())

	n, err := io.Copy(f, rsp.Body)
	if err != nil {
		_ = f.Close()
		return nil, 0, ErrorDownload.ErrorParent(err)
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, 0, ErrorTempFile.ErrorParent(err)
	}

	return f, uint64(n), nil
}
