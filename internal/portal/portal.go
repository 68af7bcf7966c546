// Package portal defines the page-automation capability the scraper depends
// on and the Navigator that locates a faculty's score table through it.
//
// Every method is a blocking round trip to the automation backend. Errors
// returned from these methods are session failures and abort the run; the
// only locally absorbed condition is types.ErrNoTable from Page.Table.
package portal

import (
	"context"
	"time"
)

// Cell tags understood by Row.Cells.
const (
	TagHeader = "th"
	TagData   = "td"
)

// Page is one open admissions portal page.
type Page interface {
	// Options returns every entry of the faculty select list, in page order,
	// including the leading placeholder.
	Options(ctx context.Context) ([]Option, error)

	// Table waits up to wait for the score table. It returns
	// types.ErrNoTable when the table does not appear in time.
	Table(ctx context.Context, wait time.Duration) (Table, error)
}

// Option is one entry of the faculty select list.
type Option interface {
	Select(ctx context.Context) error
	Label(ctx context.Context) (string, error)
}

// Table is a located score table.
type Table interface {
	// Rows returns every row of the table, header region included.
	Rows(ctx context.Context) ([]Row, error)

	// BodyRows returns the rows of the table body. A table without a body
	// yields no rows.
	BodyRows(ctx context.Context) ([]Row, error)
}

// Row is one table row.
type Row interface {
	// Cells returns the row's cells with the given tag (TagHeader or TagData).
	Cells(ctx context.Context, tag string) ([]Cell, error)
}

// Cell is a text-bearing table cell.
type Cell interface {
	Text(ctx context.Context) (string, error)
}

// CellTexts reads the text of every cell of row with the given tag.
func CellTexts(ctx context.Context, row Row, tag string) ([]string, error) {
	cells, err := row.Cells(ctx, tag)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(cells))
	for _, cell := range cells {
		text, err := cell.Text(ctx)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, nil
}
