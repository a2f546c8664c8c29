package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable renders rows under headers with rounded borders. Rows shorter
// than the header are padded with empty cells.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	writer := table.NewWriter()
	writer.SetStyle(table.StyleRounded)

	headerRow := make(table.Row, 0, len(headers))
	for _, header := range headers {
		headerRow = append(headerRow, header)
	}

	writer.AppendHeader(headerRow)

	for _, row := range rows {
		cells := make(table.Row, len(headers))

		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}

		writer.AppendRow(cells)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))

	for i := range headers {
		alignment := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			alignment = text.AlignRight
		}

		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       alignment,
			AlignHeader: text.AlignLeft,
		})
	}

	writer.SetColumnConfigs(configs)

	return writer.Render()
}
