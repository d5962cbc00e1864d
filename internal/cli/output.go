package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printTable prints rows under header in aligned columns, followed by a
// total line naming noun.
func printTable(w io.Writer, header []string, rows [][]string, noun string) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No %s found.\n", noun)
		return
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()

	writeTrimmed(w, sb.String())
	fmt.Fprintf(w, "Total: %d %s\n", len(rows), noun)
}

// printDetail prints one record as label: value lines.
func printDetail(w io.Writer, labels, values []string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 1, ' ', 0)
	for i, l := range labels {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		fmt.Fprintf(tw, "%s:\t%s\n", l, v)
	}
	tw.Flush()
	writeTrimmed(w, sb.String())
}

// writeTrimmed writes s trimming trailing whitespace from each line.
func writeTrimmed(w io.Writer, s string) {
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
