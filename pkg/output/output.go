package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"github.com/skillshare/cli/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

var writer io.Writer = color.Output

// SetWriter redirects all output, e.g. to a buffer in tests
func SetWriter(w io.Writer) {
	writer = w
}

// Writer returns the current output destination
func Writer() io.Writer {
	return writer
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Field is one labelled value of a record
type Field struct {
	Label string
	Value interface{}
}

// PrintRecord outputs a single record. JSON output encodes v; the other
// formats render fields in order.
func PrintRecord(title string, fields []Field, v interface{}) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return PrintJSON(v)
	case FormatTable:
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Label, fmt.Sprint(f.Value)})
		}
		printTable([]string{"Field", "Value"}, rows)
		return nil
	default:
		if title != "" {
			color.New(color.Bold, color.Underline).Fprintln(writer, title)
		}
		bold := color.New(color.Bold)
		for _, f := range fields {
			bold.Fprint(writer, f.Label+": ")
			fmt.Fprintf(writer, "%v\n", f.Value)
		}
		return nil
	}
}

// PrintList outputs a list. JSON output encodes items; table output prints
// headers and rows; text output prints the rows aligned under the title.
func PrintList(title string, items interface{}, headers []string, rows [][]string) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return PrintJSON(items)
	case FormatTable:
		printTable(headers, rows)
		return nil
	default:
		if title != "" {
			color.New(color.Bold, color.Underline).Fprintln(writer, title)
		}
		if len(rows) == 0 {
			color.New(color.Faint).Fprintln(writer, "  (none)")
			return nil
		}
		w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
		for _, row := range rows {
			fmt.Fprintln(w, "  "+strings.Join(row, "\t"))
		}
		return w.Flush()
	}
}

// PrintJSON writes v as indented JSON
func PrintJSON(v interface{}) error {
	data, err := json.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(writer, msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(writer, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(writer, msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(writer, "Warning: "+msg+"\n", args...)
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// Truncate shortens s to at most n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
