// Package snapshot implements portal.Page over a saved copy of the portal
// page, so a table can be decoded without a live browser.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/netsat/internal/portal"
	"github.com/IshaanNene/netsat/internal/types"
)

// Page is a parsed HTML document that answers portal queries. Selecting an
// option has no effect: a snapshot shows whatever table it was saved with.
type Page struct {
	source        string
	root          *html.Node
	doc           *goquery.Document
	facultySelect string
	tableXPath    string
	logger        *slog.Logger
}

// Parse reads an HTML document. facultySelect is a CSS selector for the
// faculty list, tableXPath locates the score table.
func Parse(source string, body []byte, facultySelect, tableXPath string, logger *slog.Logger) (*Page, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ParseError{Source: source, Err: err}
	}
	if _, err := htmlquery.QueryAll(root, tableXPath); err != nil {
		return nil, &types.ParseError{Source: source, Err: fmt.Errorf("invalid table xpath %q: %w", tableXPath, err)}
	}

	return &Page{
		source:        source,
		root:          root,
		doc:           goquery.NewDocumentFromNode(root),
		facultySelect: facultySelect,
		tableXPath:    tableXPath,
		logger:        logger.With("component", "snapshot", "source", source),
	}, nil
}

// SelectedFaculty returns the label of the option marked selected, if any.
func (p *Page) SelectedFaculty() string {
	sel := p.doc.Find(p.facultySelect).First().Find("option[selected]").First()
	return strings.TrimSpace(sel.Text())
}

func (p *Page) Options(ctx context.Context) ([]portal.Option, error) {
	list := p.doc.Find(p.facultySelect).First()
	if list.Length() == 0 {
		return nil, types.ErrNoSelect
	}

	var opts []portal.Option
	list.Find("option").Each(func(i int, sel *goquery.Selection) {
		opts = append(opts, option{sel: sel})
	})
	return opts, nil
}

// Table ignores wait: a snapshot either contains the table or never will.
func (p *Page) Table(ctx context.Context, wait time.Duration) (portal.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	node := htmlquery.FindOne(p.root, p.tableXPath)
	if node == nil {
		p.logger.Debug("table xpath matched nothing", "xpath", p.tableXPath)
		return nil, types.ErrNoTable
	}
	return table{sel: goquery.NewDocumentFromNode(node).Selection}, nil
}

type option struct {
	sel *goquery.Selection
}

func (o option) Select(ctx context.Context) error { return ctx.Err() }

func (o option) Label(ctx context.Context) (string, error) {
	return strings.TrimSpace(o.sel.Text()), nil
}

type table struct {
	sel *goquery.Selection
}

func (t table) Rows(ctx context.Context) ([]portal.Row, error) {
	return rows(t.sel.Find("tr")), nil
}

func (t table) BodyRows(ctx context.Context) ([]portal.Row, error) {
	body := t.sel.Find("tbody").First()
	if body.Length() == 0 {
		return nil, nil
	}
	return rows(body.Find("tr")), nil
}

func rows(sel *goquery.Selection) []portal.Row {
	out := make([]portal.Row, 0, sel.Length())
	sel.Each(func(i int, tr *goquery.Selection) {
		out = append(out, row{sel: tr})
	})
	return out
}

type row struct {
	sel *goquery.Selection
}

func (r row) Cells(ctx context.Context, tag string) ([]portal.Cell, error) {
	var cells []portal.Cell
	r.sel.Find(tag).Each(func(i int, c *goquery.Selection) {
		cells = append(cells, cell{sel: c})
	})
	return cells, nil
}

type cell struct {
	sel *goquery.Selection
}

// Text mirrors a browser's innerText closely enough for table cells:
// whitespace runs collapse and the ends are trimmed.
func (c cell) Text(ctx context.Context) (string, error) {
	return strings.Join(strings.Fields(c.sel.Text()), " "), nil
}
