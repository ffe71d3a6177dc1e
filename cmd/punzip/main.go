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

// Command punzip unpacks ZIP archives as fast as the host allows, from a
// local file or directly out of an HTTP(S) server supporting byte ranges.
package main

import (
	"fmt"
	"os"
	"strings"

	liberr "github.com/nabbar/golib/errors"
	libsiz "github.com/nabbar/golib/size"
	"github.com/sabouaram/punzip/unzip"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func main() {
	liberr.SetModeReturnError(liberr.ErrorReturnCodeErrorFull)

	if err := rootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("punzip failed")
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "punzip",
		Short:         "unzip all files within a zip file as quickly as possible",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool("quiet") {
				logrus.SetLevel(logrus.ErrorLevel)
			} else if viper.GetBool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	flg := root.PersistentFlags()
	flg.StringP("output-directory", "d", "", "directory receiving the extracted tree")
	flg.Bool("single-threaded", false, "extract entries strictly in order, one at a time")
	flg.StringP("readahead", "r", "64M", "memory the remote backing may buffer ahead (0 = unbounded)")
	flg.String("bandwidth", "0", "per-file write throttle in bytes per second (0 = unlimited)")
	flg.BoolP("quiet", "q", false, "only report errors, no progress bar")
	flg.BoolP("verbose", "v", false, "verbose logging")

	_ = viper.BindPFlags(flg)
	viper.SetEnvPrefix("PUNZIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(fileCommand(), uriCommand(), listCommand())

	return root
}

func fileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "file <zipfile>",
		Short: "unzips a local zip file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}

			opt, rep := buildOptions()

			u, err := unzip.New(f, opt)
			if err != nil {
				return err
			}

			return finish(u.Extract(), rep)
		},
	}
}

func uriCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uri <uri>",
		Short: "downloads and unzips a zip file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, rep := buildOptions()

			opt.OnRewindWarning = func() {
				fmt.Fprintln(os.Stderr, "warning: unable to fetch data as quickly as needed; consider a bigger --readahead")
			}

			u, err := unzip.NewURI(args[0], opt)
			if err != nil {
				return err
			}

			return finish(u.Extract(), rep)
		},
	}
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <zipfile|uri>",
		Short: "lists the entry names of a zip file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				u   unzip.Unzip
				err error
				opt = unzip.Options{}
			)

			if strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://") {
				u, err = unzip.NewURI(args[0], opt)
			} else {
				var f *os.File
				if f, err = os.Open(args[0]); err == nil {
					u, err = unzip.New(f, opt)
				}
			}

			if err != nil {
				return err
			}

			lst, err := u.List()
			if err != nil {
				return err
			}

			for _, n := range lst {
				fmt.Println(n)
			}

			return nil
		},
	}
}

func buildOptions() (unzip.Options, *barReporter) {
	opt := unzip.Options{
		OutputDirectory: viper.GetString("output-directory"),
		SingleThreaded:  viper.GetBool("single-threaded"),
	}

	if s, err := libsiz.ParseSize(viper.GetString("readahead")); err == nil {
		opt.ReadAhead = s
	}

	if s, err := libsiz.ParseSize(viper.GetString("bandwidth")); err == nil {
		opt.Bandwidth = s
	}

	// no bar when quiet, or when stdout is a pipe or a CI log
	if viper.GetBool("quiet") || !term.IsTerminal(int(os.Stdout.Fd())) {
		return opt, nil
	}

	rep := newBarReporter()
	opt.Reporter = rep

	return opt, rep
}

func finish(err error, rep *barReporter) error {
	if rep != nil {
		rep.Done()
	}

	return err
}
