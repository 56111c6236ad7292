// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/ostafen/mediainfer/internal/logger"
	"github.com/ostafen/mediainfer/pkg/container"
	"github.com/spf13/cobra"
)

const stdinPath = "-"

func DefineDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <file>...",
		Short: "Detect the container format of media files",
		Long: `The 'detect' command reads the first bytes of each file and matches them against the known container signatures.
Use "-" to read from standard input. Files that cannot be read make the command fail; unrecognized files do not.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunDetect,
	}

	cmd.Flags().Bool("json", false, "print one JSON object per input")
	return cmd
}

type detectResult struct {
	Path        string `json:"path"`
	Container   string `json:"container,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`

	err error
}

func RunDetect(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	logLevel, _ := cmd.Flags().GetString("log-level")

	log := logger.New(cmd.ErrOrStderr(), logger.ParseLevel(logLevel))

	var out resultWriter
	if asJSON {
		out = newJSONWriter(cmd.OutOrStdout())
	} else {
		out = newTableWriter(cmd.OutOrStdout())
	}

	failed := 0
	for _, path := range args {
		res := detectResult{Path: path}

		typ, err := detect(cmd.InOrStdin(), path)

		var ioErr *container.IOError
		switch {
		case err == nil:
			res.Container = typ.String()
			res.Description = typ.Description()
			log.Debug("container detected", "path", path, "container", typ)
		case errors.As(err, &ioErr):
			failed++
			log.Error("unable to read input", "path", path, "err", err)
		default:
			log.Info("no signature matched", "path", path)
		}

		if err != nil {
			res.Error = err.Error()
			res.err = err
		}

		if err := out.Write(res); err != nil {
			return err
		}
	}

	if err := out.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs could not be read", failed, len(args))
	}
	return nil
}

func detect(stdin io.Reader, path string) (container.Type, error) {
	if path == stdinPath {
		return container.FromFile(stdin)
	}
	return container.FromPath(path)
}

type resultWriter interface {
	Write(res detectResult) error
	Flush() error
}

type tableWriter struct {
	w *tabwriter.Writer
}

func newTableWriter(w io.Writer) *tableWriter {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tCONTAINER\tDESCRIPTION")

	return &tableWriter{w: tw}
}

func (t *tableWriter) Write(res detectResult) error {
	var err error
	switch {
	case res.Container != "":
		_, err = fmt.Fprintf(t.w, "%s\t%s\t%s\n", res.Path, res.Container, res.Description)
	case errors.Is(res.err, container.ErrUnrecognized):
		_, err = fmt.Fprintf(t.w, "%s\tunknown\t-\n", res.Path)
	default:
		_, err = fmt.Fprintf(t.w, "%s\terror\t%s\n", res.Path, res.Error)
	}
	return err
}

func (t *tableWriter) Flush() error {
	return t.w.Flush()
}

type jsonWriter struct {
	enc *json.Encoder
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{enc: json.NewEncoder(w)}
}

func (j *jsonWriter) Write(res detectResult) error {
	return j.enc.Encode(res)
}

func (j *jsonWriter) Flush() error {
	return nil
}
