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
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	liberr "github.com/nabbar/golib/errors"
	libbdw "github.com/nabbar/golib/file/bandwidth"
	libfpg "github.com/nabbar/golib/file/progress"
	"github.com/sirupsen/logrus"
)

const (
	// creatorUnix is the zip CreatorVersion host marking unix mode bits
	// as meaningful.
	creatorUnix = 3

	permMask = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky
)

// safeName validates a raw entry name against parent directory escape and
// returns the cleaned relative slash path used for every later join.
func safeName(raw string) (string, liberr.Error) {
	n := path.Clean(raw)

	if n == "." || n == "" || strings.HasPrefix(raw, "/") {
		return "", ErrorUnsafePath.Error(nil)
	} else if n == ".." || strings.HasPrefix(n, "../") {
		return "", ErrorUnsafePath.Error(nil)
	}

	return n, nil
}

// extractIndex runs one entry task: validate, filter, then either skip,
// create a directory, or stream the decompressed bytes out.
func (o *unz) extractIndex(i int, filter FilenameFilter) error {
	f := o.zip.File[i]

	name, err := safeName(f.Name)
	if err != nil {
		return annotate(err, f.Name)
	}

	if !filter(name) {
		o.skp(f.CompressedSize64)
		return nil
	}

	if e := o.extractEntry(f, name); e != nil {
		return annotate(e, name)
	}

	return nil
}

func (o *unz) extractEntry(f *zip.File, name string) error {
	var (
		rep = o.reporter()
		out = filepath.Join(o.opt.OutputDirectory, filepath.FromSlash(name))
	)

	rep.ExtractionStarting(name)

	o.log.WithFields(logrus.Fields{
		"entry":  name,
		"offset": dataOffset(f),
		"size":   f.CompressedSize64,
	}).Debug("starting entry extract")

	if strings.HasSuffix(f.Name, "/") {
		if err := o.dir.CreateAll(out); err != nil {
			return err
		}

		rep.ExtractionFinished(name)
		return nil
	}

	if p := filepath.Dir(out); p != "" {
		if err := o.dir.CreateAll(p); err != nil {
			return err
		}
	}

	if err := o.writeEntry(f, out, rep); err != nil {
		return err
	}

	if m := entryMode(f); m != 0 {
		if err := os.Chmod(out, m&permMask); err != nil {
			return ErrorFilePerm.ErrorParent(err)
		}
	}

	o.log.WithFields(logrus.Fields{
		"entry": name,
	}).Debug("finished entry extract")

	rep.ExtractionFinished(name)
	return nil
}

// writeEntry streams the decompressed bytes of one regular entry into the
// output file, feeding the uncompressed increments through the progress
// updater so the reporter sees compressed byte ticks.
func (o *unz) writeEntry(f *zip.File, out string, rep Reporter) error {
	rc, err := f.Open()
	if err != nil {
		return ErrorEntryOpen.ErrorParent(err)
	}

	defer func() {
		_ = rc.Close()
	}()

	fpg, err := libfpg.New(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return ErrorFileCreate.ErrorParent(err)
	}

	upd := newProgressUpdater(rep.BytesExtracted, f.CompressedSize64, f.UncompressedSize64, tickGranularity)

	inc := func(n int64) {
		if n > 0 {
			upd.Progress(uint64(n))
		}
	}

	if o.opt.Bandwidth > 0 {
		libbdw.New(o.opt.Bandwidth).RegisterIncrement(fpg, inc)
	} else {
		fpg.RegisterFctIncrement(inc)
	}

	if _, err = io.Copy(fpg, rc); err != nil {
		_ = fpg.Close()
		return ErrorFileWrite.ErrorParent(err)
	}

	if err = fpg.Close(); err != nil {
		return ErrorFileClose.ErrorParent(err)
	}

	upd.Finish()
	return nil
}

// entryMode returns the posix mode bits carried by the entry, or zero when
// the archive was not produced on a unix host.
func entryMode(f *zip.File) fs.FileMode {
	if f.CreatorVersion>>8 != creatorUnix {
		return 0
	}

	return f.Mode()
}

func dataOffset(f *zip.File) int64 {
	if n, err := f.DataOffset(); err == nil {
		return n
	}

	return -1
}

func annotate(err error, name string) error {
	if e, k := err.(liberr.Error); k {
		e.Add(fmt.Errorf("entry %q", name))
		return e
	}

	return fmt.Errorf("entry %q: %w", name, err)
}
