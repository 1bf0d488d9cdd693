/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rendering

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/navespenhw/tanstack-table-demo/core/views"
)

// indent is the prefix per nesting level in the first column.
const indent = "  "

// ToAscii returns the view model as a table with ASCII borders. Group rows
// are marked with "+" when collapsed and "-" when expanded, and nested rows
// are indented in the first column.
func ToAscii(vm *views.TableViewModel) string {
	var sb strings.Builder
	_ = WriteAscii(&sb, vm)
	return sb.String()
}

// WriteAscii writes ToAscii's output to w.
func WriteAscii(w io.Writer, vm *views.TableViewModel) error {
	headers := make([]string, len(vm.Headers))
	for i, h := range vm.Headers {
		headers[i] = headerText(h)
	}
	lines := make([][]string, len(vm.Rows))
	for i, row := range vm.Rows {
		lines[i] = rowText(row)
	}

	colWidths := calculateColumnWidths(headers, lines)
	rightAligned := make([]bool, len(vm.Headers))
	for i, h := range vm.Headers {
		rightAligned[i] = h.TextAlign == "right"
	}

	var sb strings.Builder
	border := borderLine(colWidths)
	sb.WriteString(border)
	writeLine(&sb, headers, colWidths, nil)
	sb.WriteString(border)
	for _, line := range lines {
		writeLine(&sb, line, colWidths, rightAligned)
	}
	sb.WriteString(border)
	fmt.Fprintf(&sb, "Page %d of %d, rows %d-%d of %d", vm.PageNumber(), vm.PageCount, vm.FirstRow, vm.LastRow, vm.TopLevelRowCount)
	if vm.ShowHiddenCount {
		fmt.Fprintf(&sb, " (%d hidden by filters)", vm.HiddenByFilters)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func headerText(h views.HeaderViewModel) string {
	text := h.Header
	switch h.SortDirection {
	case "asc":
		text += " ^"
	case "desc":
		text += " v"
	}
	if h.SortIndex > 0 {
		text += fmt.Sprint(h.SortIndex)
	}
	if h.IsFiltered {
		text += " *"
	}
	return text
}

func rowText(row views.RowViewModel) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.Text
	}
	if len(cells) == 0 {
		return cells
	}
	prefix := strings.Repeat(indent, row.Depth)
	if row.IsGroup {
		marker := "+ "
		if row.IsExpanded {
			marker = "- "
		}
		prefix += marker
	}
	cells[0] = prefix + cells[0]
	return cells
}

// calculateColumnWidths calculates the width needed for each column
func calculateColumnWidths(headers []string, lines [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(1, utf8.RuneCountInString(h))
	}
	for _, line := range lines {
		for i, cell := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}
	return widths
}

func borderLine(widths []int) string {
	var sb strings.Builder
	for _, w := range widths {
		sb.WriteString("+")
		sb.WriteString(strings.Repeat("-", w+2))
	}
	sb.WriteString("+\n")
	return sb.String()
}

func writeLine(sb *strings.Builder, cells []string, widths []int, rightAligned []bool) {
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", w-utf8.RuneCountInString(cell))
		sb.WriteString("| ")
		if rightAligned != nil && rightAligned[i] {
			sb.WriteString(pad + cell)
		} else {
			sb.WriteString(cell + pad)
		}
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
}
