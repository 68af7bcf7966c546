package portal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/IshaanNene/netsat/internal/types"
)

// Grid is a located score table split into the regions the decoder needs.
type Grid struct {
	// All is every row of the table, header region included.
	All []Row

	// Body is the subset of rows inside the table body.
	Body []Row
}

// Navigator finds the score table for the currently selected faculty.
type Navigator struct {
	page      Page
	wait      time.Duration
	headerRow int
	logger    *slog.Logger
}

// NewNavigator creates a Navigator over page. wait bounds the table lookup;
// headerRow is the index of the row carrying subject labels.
func NewNavigator(page Page, wait time.Duration, headerRow int, logger *slog.Logger) *Navigator {
	return &Navigator{
		page:      page,
		wait:      wait,
		headerRow: headerRow,
		logger:    logger.With("component", "navigator"),
	}
}

// Locate returns the table's rows, or (nil, false, nil) when the table does
// not appear within the wait window.
func (n *Navigator) Locate(ctx context.Context) (*Grid, bool, error) {
	table, err := n.page.Table(ctx, n.wait)
	if errors.Is(err, types.ErrNoTable) {
		n.logger.Debug("no score table", "wait", n.wait)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &types.SessionError{Op: "locate table", Err: err}
	}

	all, err := table.Rows(ctx)
	if err != nil {
		return nil, false, &types.SessionError{Op: "read table rows", Err: err}
	}
	body, err := table.BodyRows(ctx)
	if err != nil {
		return nil, false, &types.SessionError{Op: "read body rows", Err: err}
	}

	n.logger.Debug("score table located", "rows", len(all), "body_rows", len(body))
	return &Grid{All: all, Body: body}, true, nil
}

// HeaderLabels returns the header cell texts of the header row. Tables with
// too few rows, or a negative header row, yield nil.
func (n *Navigator) HeaderLabels(ctx context.Context, grid *Grid) ([]string, error) {
	if n.headerRow < 0 || n.headerRow >= len(grid.All) {
		return nil, nil
	}
	labels, err := CellTexts(ctx, grid.All[n.headerRow], TagHeader)
	if err != nil {
		return nil, &types.SessionError{Op: "read header", Err: err}
	}
	return labels, nil
}

// RowTexts returns the data cell texts of one body row.
func (n *Navigator) RowTexts(ctx context.Context, row Row) ([]string, error) {
	texts, err := CellTexts(ctx, row, TagData)
	if err != nil {
		return nil, &types.SessionError{Op: "read row", Err: err}
	}
	return texts, nil
}
