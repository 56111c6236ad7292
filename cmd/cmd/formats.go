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
	"encoding/hex"
	"fmt"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/ostafen/mediainfer/pkg/container"
	"github.com/spf13/cobra"
)

func DefineFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List all supported container formats",
		Long: `The 'formats' command displays the signature table in the order it is matched: the first matching entry wins.
Each signature is shown as offset:hex segments; bytes between segments may hold any value.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunFormats,
	}

	cmd.Flags().Bool("json", false, "print the table as JSON")
	return cmd
}

type formatEntry struct {
	Priority    int      `json:"priority"`
	Container   string   `json:"container"`
	Description string   `json:"description"`
	Span        int      `json:"span"`
	Segments    []string `json:"segments"`
}

func RunFormats(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	sigs := container.Signatures()

	entries := make([]formatEntry, len(sigs))
	for i, sig := range sigs {
		entries[i] = formatEntry{
			Priority:    i + 1,
			Container:   sig.Container.String(),
			Description: sig.Container.Description(),
			Span:        sig.Span(),
			Segments:    formatSegments(sig),
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCONTAINER\tDESCRIPTION\tSIGNATURE")

	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.Priority,
			e.Container,
			e.Description,
			strings.Join(e.Segments, ","),
		)
	}
	return w.Flush()
}

func formatSegments(sig container.Signature) []string {
	segs := sig.Segments()

	out := make([]string, len(segs))
	for i, seg := range segs {
		out[i] = fmt.Sprintf("%d:%s", seg.Offset, hex.EncodeToString(seg.Bytes))
	}
	return out
}
