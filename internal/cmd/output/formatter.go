// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/carebridge/nutrimap/internal/cmd/table"
	"github.com/carebridge/nutrimap/pkg/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formatter writes data in one format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats render
// as a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{Wide: format == FormatWide}
	}
}

// Write renders structured for JSON and YAML and tabular otherwise, so a
// command can hand over both its result and a purpose-built table.
func Write(w io.Writer, format Format, structured, tabular any) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, structured)
	default:
		return NewFormatter(format).Format(w, tabular)
	}
}

// ParseFormat validates a --format value. The empty string means detect.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case "", FormatTable, FormatWide, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml, wide")
}

// DetectFormat returns explicit when set, a table on a terminal and JSON
// when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// JSONFormatter writes indented JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter writes YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// TableFormatter draws table.Data. Structs are shown as property/value
// pairs and slices of structs as one row per element; anything else falls
// back to JSON.
type TableFormatter struct {
	Wide bool
}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return render(w, v)
	case *table.Data:
		return render(w, *v)
	}
	if d, ok := reflectTable(data); ok {
		return render(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func render(w io.Writer, data table.Data) error {
	var cfg tablewriter.Config
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			align[i] = twAlign(a)
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: align}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(data.Headers) > 0 {
		tbl.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := tbl.Append(cells(row)...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

func twAlign(a table.Align) tw.Align {
	switch a {
	case table.AlignLeft:
		return tw.AlignLeft
	case table.AlignCenter:
		return tw.AlignCenter
	case table.AlignRight:
		return tw.AlignRight
	default:
		return tw.Skip
	}
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

func reflectTable(data any) (table.Data, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return table.Data{}, false
		}
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Struct:
		d := table.Data{Headers: []string{"Property", "Value"}}
		forEachField(v, func(label string, field reflect.Value) {
			d.Rows = append(d.Rows, []string{label, fmt.Sprint(field.Interface())})
		})
		return d, true

	case v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct:
		var d table.Data
		forEachField(v.Index(0), func(label string, _ reflect.Value) {
			d.Headers = append(d.Headers, label)
		})
		for i := 0; i < v.Len(); i++ {
			var row []string
			forEachField(v.Index(i), func(_ string, field reflect.Value) {
				row = append(row, fmt.Sprint(field.Interface()))
			})
			d.Rows = append(d.Rows, row)
		}
		return d, true
	}
	return table.Data{}, false
}

// forEachField visits exported fields, labelled by their json name in
// title case ("daily_calories_needed" becomes "Daily Calories Needed").
func forEachField(v reflect.Value, fn func(label string, field reflect.Value)) {
	caser := cases.Title(language.English)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		label := sf.Name
		if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" && tag != "-" {
			label = caser.String(strings.ReplaceAll(tag, "_", " "))
		}
		fn(label, v.Field(i))
	}
}
