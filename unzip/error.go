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

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinAvailable + 200
	ErrorFileStat
	ErrorArchiveOpen
	ErrorEntryOpen
	ErrorUnsafePath
	ErrorDirCreate
	ErrorFileCreate
	ErrorFileWrite
	ErrorFileClose
	ErrorFilePerm
	ErrorTempFile
	ErrorDownload
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision punzip/unzip"))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorFileStat:
		return "cannot stat archive file"
	case ErrorArchiveOpen:
		return "cannot open zip archive"
	case ErrorEntryOpen:
		return "cannot open zip entry"
	case ErrorUnsafePath:
		return "entry path not safe to extract"
	case ErrorDirCreate:
		return "make directory occurs error"
	case ErrorFileCreate:
		return "cannot create output file"
	case ErrorFileWrite:
		return "cannot write output file"
	case ErrorFileClose:
		return "closing output file occurs error"
	case ErrorFilePerm:
		return "cannot set output file permissions"
	case ErrorTempFile:
		return "cannot prepare temporary file"
	case ErrorDownload:
		return "cannot download archive"
	}

	return liberr.NullMessage
}
