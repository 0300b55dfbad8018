// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/ux"
	"go.uber.org/zap"
)

const (
	FormatTable  = "table"
	FormatSparse = "sparse"
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatNames  = "names"

	LongValuesElided = "elided"
	LongValuesFull   = "full"
)

var Formats = []string{FormatTable, FormatSparse, FormatJSON, FormatCSV, FormatNames}

// Field maps a column title to one or more dotted JSON paths. The first
// path yielding a value is used.
type Field struct {
	Title string
	Paths []string
}

func F(title string, paths ...string) Field {
	return Field{Title: title, Paths: paths}
}

// View is the presentation of one resource type.
type View struct {
	Summary     []Field
	Detail      []Field
	DefaultSort string
}

// SortFields returns every valid --sort_by value for the view.
func (v View) SortFields() []string {
	var out []string
	for _, f := range v.Summary {
		out = append(out, f.Title, "-"+f.Title)
	}
	return out
}

type Printer struct {
	w          io.Writer
	format     string
	longValues string
	project    string
	namer      *Namer
	log        *zap.Logger
}

func NewPrinter(w io.Writer, format, longValues, project string, namer *Namer, log *zap.Logger) *Printer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Printer{w: w, format: format, longValues: longValues, project: project, namer: namer, log: log}
}

// present formats a value for a table cell.
func (p *Printer) present(value any) string {
	s, ok := value.(string)
	if !ok {
		return scalarString(value)
	}
	s = strings.Trim(p.namer.StripBaseURL(s), "/")
	if strings.HasPrefix(s, "projects/"+p.project) {
		parts := strings.Split(s, "/")
		if len(parts) > 3 {
			s = strings.Join(parts[3:], "/")
		} else {
			s = parts[len(parts)-1]
		}
	}
	half := (constants.MaxColumnWidth - 2) / 2
	if p.longValues != LongValuesFull && len(s) > constants.MaxColumnWidth {
		return s[:half] + ".." + s[len(s)-half:]
	}
	return s
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func (p *Printer) extract(value any, path []string) []string {
	if len(path) == 0 {
		return []string{p.present(value)}
	}
	var obj map[string]any
	switch m := value.(type) {
	case map[string]any:
		obj = m
	case Resource:
		obj = m
	default:
		return nil
	}
	element, ok := obj[path[0]]
	if !ok {
		return nil
	}
	if list, ok := element.([]any); ok {
		var out []string
		for _, x := range list {
			out = append(out, p.extract(x, path[1:])...)
		}
		return out
	}
	return p.extract(element, path[1:])
}

// Flatten extracts one cell per field from obj.
func (p *Printer) Flatten(obj Resource, fields []Field) []string {
	row := make([]string, len(fields))
	for i, f := range fields {
		var elements []string
		for _, path := range f.Paths {
			elements = p.extract(obj, strings.Split(path, "."))
			if len(elements) > 0 {
				break
			}
		}
		row[i] = strings.Join(elements, ",")
	}
	return row
}

func (p *Printer) renderTable(header []string, rows [][]string) error {
	if p.format == FormatCSV {
		cw := csv.NewWriter(p.w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	}
	return ux.RenderTable(p.w, header, rows, p.format == FormatSparse)
}

func titles(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Title
	}
	return out
}

func (p *Printer) printJSON(result any) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(b))
	return err
}

func (p *Printer) printNames(result Resource) error {
	items := []Resource{result}
	if result.IsList() {
		items = result.Items()
	}
	for _, item := range items {
		if name := item.Name(); name != "" {
			if _, err := fmt.Fprintln(p.w, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Print shows the result of a non-list command using view for its
// resources.
func (p *Printer) Print(result Resource, view View) error {
	if p.format == FormatJSON {
		return p.printJSON(result)
	}
	if len(result) == 0 {
		return nil
	}
	switch {
	case p.format == FormatNames:
		return p.printNames(result)
	case result.IsList():
		return p.printBatch(result, view)
	default:
		return p.printDetail(result, view)
	}
}

// printBatch shows batch results, with operations in their own table.
func (p *Printer) printBatch(result Resource, view View) error {
	resources, ops := PartitionResults(result)
	resHeader, opsHeader := "", ""
	if len(resources) > 0 && len(ops) > 0 {
		resHeader = "\nTable of resources:\n"
		opsHeader = "\nTable of operations:\n"
	}
	if len(resources) > 0 || len(ops) == 0 {
		if err := p.printSummary(resources, resHeader, view.Summary); err != nil {
			return err
		}
	}
	if len(ops) > 0 {
		return p.printSummary(ops, opsHeader, OperationView.Summary)
	}
	return nil
}

func (p *Printer) printSummary(values []Resource, header string, fields []Field) error {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = p.Flatten(v, fields)
	}
	if header != "" {
		if _, err := fmt.Fprintln(p.w, header); err != nil {
			return err
		}
	}
	return p.renderTable(titles(fields), rows)
}

func (p *Printer) printDetail(result Resource, view View) error {
	fields := view.Detail
	if result.IsOperation() {
		fields = OperationView.Detail
	}
	if len(fields) == 0 {
		return nil
	}
	values := p.Flatten(result, fields)
	rows := make([][]string, 0, len(fields))
	for i, f := range fields {
		rows = append(rows, []string{f.Title, values[i]})
	}
	if result.IsOperation() && result.HasErrorField() {
		rows = append(rows, []string{"", ""}, []string{"errors", ""})
		for _, e := range result.Errors() {
			rows = append(rows,
				[]string{"", ""},
				[]string{"  error", e.Code},
				[]string{"  message", e.Message},
			)
		}
	}
	return p.renderTable([]string{"property", "value"}, rows)
}

// ListOptions controls sorting and truncation of list output.
type PrintListOptions struct {
	SortBy     string
	MaxResults int
	FetchAll   bool
}

// PrintList shows the result of a list command: rows are sorted by the
// requested or default column and truncated to MaxResults.
func (p *Printer) PrintList(result Resource, view View, opts PrintListOptions) error {
	if p.format == FormatJSON {
		return p.printJSON(result)
	}
	if p.format == FormatNames {
		return p.printNames(result)
	}

	columns := titles(view.Summary)
	items := result.Items()
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = p.Flatten(item, view.Summary)
	}

	sortCol := opts.SortBy
	if sortCol == "" {
		sortCol = view.DefaultSort
	}
	if sortCol != "" {
		reverse := strings.HasPrefix(sortCol, "-")
		sortCol = strings.TrimPrefix(sortCol, "-")
		idx := indexOf(columns, sortCol)
		if idx < 0 {
			p.log.Warn("Invalid sort column: " + sortCol)
		} else {
			sort.SliceStable(rows, func(i, j int) bool {
				if reverse {
					return rows[i][idx] > rows[j][idx]
				}
				return rows[i][idx] < rows[j][idx]
			})
		}
	}

	if !opts.FetchAll && opts.MaxResults > 0 && len(rows) > opts.MaxResults {
		rows = rows[:opts.MaxResults]
	}
	return p.renderTable(columns, rows)
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}
