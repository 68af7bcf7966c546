// Package portaltest provides an in-memory portal.Page for tests.
package portaltest

import (
	"context"
	"time"

	"github.com/IshaanNene/netsat/internal/portal"
	"github.com/IshaanNene/netsat/internal/types"
)

// Table is the content shown for one faculty. Rows are header-region rows
// (read with TagHeader), Body rows are data rows (read with TagData).
type Table struct {
	Head [][]string
	Body [][]string
}

// Faculty is one select option and the table shown after selecting it.
// A nil Table means the table never appears.
type Faculty struct {
	Label string
	Table *Table

	// SelectErr, when set, is returned by Option.Select.
	SelectErr error
}

// Page is a fake portal page. The first option is the placeholder.
type Page struct {
	Placeholder string
	Faculties   []Faculty

	// OptionsErr, when set, is returned by Options.
	OptionsErr error

	// Selections records option labels in the order they were selected.
	Selections []string

	// Waits records the wait passed to every Table call.
	Waits []time.Duration

	selected int // index into Faculties, -1 for none
}

// NewPage creates a fake page with a placeholder option and faculties.
func NewPage(faculties ...Faculty) *Page {
	return &Page{
		Placeholder: "-- select faculty --",
		Faculties:   faculties,
		selected:    -1,
	}
}

func (p *Page) Options(ctx context.Context) ([]portal.Option, error) {
	if p.OptionsErr != nil {
		return nil, p.OptionsErr
	}
	opts := []portal.Option{&option{page: p, index: -1, label: p.Placeholder}}
	for i, f := range p.Faculties {
		opts = append(opts, &option{page: p, index: i, label: f.Label})
	}
	return opts, nil
}

func (p *Page) Table(ctx context.Context, wait time.Duration) (portal.Table, error) {
	p.Waits = append(p.Waits, wait)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.selected < 0 || p.Faculties[p.selected].Table == nil {
		return nil, types.ErrNoTable
	}
	return &table{t: p.Faculties[p.selected].Table}, nil
}

type option struct {
	page  *Page
	index int
	label string
}

func (o *option) Select(ctx context.Context) error {
	if o.index >= 0 && o.page.Faculties[o.index].SelectErr != nil {
		return o.page.Faculties[o.index].SelectErr
	}
	o.page.selected = o.index
	o.page.Selections = append(o.page.Selections, o.label)
	return nil
}

func (o *option) Label(ctx context.Context) (string, error) {
	return o.label, nil
}

type table struct {
	t *Table
}

func (t *table) Rows(ctx context.Context) ([]portal.Row, error) {
	rows := make([]portal.Row, 0, len(t.t.Head)+len(t.t.Body))
	for _, cells := range t.t.Head {
		rows = append(rows, row{tag: portal.TagHeader, cells: cells})
	}
	for _, cells := range t.t.Body {
		rows = append(rows, row{tag: portal.TagData, cells: cells})
	}
	return rows, nil
}

func (t *table) BodyRows(ctx context.Context) ([]portal.Row, error) {
	rows := make([]portal.Row, 0, len(t.t.Body))
	for _, cells := range t.t.Body {
		rows = append(rows, row{tag: portal.TagData, cells: cells})
	}
	return rows, nil
}

type row struct {
	tag   string
	cells []string
}

func (r row) Cells(ctx context.Context, tag string) ([]portal.Cell, error) {
	if tag != r.tag {
		return nil, nil
	}
	cells := make([]portal.Cell, len(r.cells))
	for i, text := range r.cells {
		cells[i] = cell(text)
	}
	return cells, nil
}

type cell string

func (c cell) Text(ctx context.Context) (string, error) {
	return string(c), nil
}
