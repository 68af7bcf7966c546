package portal_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/netsat/internal/portal"
	"github.com/IshaanNene/netsat/internal/portal/portaltest"
	"github.com/IshaanNene/netsat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func selectFirst(t *testing.T, page *portaltest.Page) {
	t.Helper()
	opts, err := page.Options(context.Background())
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if err := opts[1].Select(context.Background()); err != nil {
		t.Fatalf("select: %v", err)
	}
}

func TestNavigatorLocate(t *testing.T) {
	page := portaltest.NewPage(portaltest.Faculty{
		Label: "Engineering",
		Table: &portaltest.Table{
			Head: [][]string{
				{"Program list"},
				{"Regular", "Special", "Math 1", "Eng 2"},
			},
			Body: [][]string{
				{"01010101", "Civil Engineering*", "40", "10", "25", "0"},
			},
		},
	})
	selectFirst(t, page)

	nav := portal.NewNavigator(page, 3*time.Second, 1, testLogger)
	grid, found, err := nav.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if !found {
		t.Fatal("expected table to be found")
	}
	if len(grid.All) != 3 || len(grid.Body) != 1 {
		t.Errorf("expected 3 rows / 1 body row, got %d / %d", len(grid.All), len(grid.Body))
	}
	if diff := cmp.Diff([]time.Duration{3 * time.Second}, page.Waits); diff != "" {
		t.Errorf("wait mismatch (-want +got):\n%s", diff)
	}

	labels, err := nav.HeaderLabels(context.Background(), grid)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if diff := cmp.Diff([]string{"Regular", "Special", "Math 1", "Eng 2"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	texts, err := nav.RowTexts(context.Background(), grid.Body[0])
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if len(texts) != 6 || texts[0] != "01010101" {
		t.Errorf("unexpected row texts: %v", texts)
	}
}

func TestNavigatorNoTable(t *testing.T) {
	page := portaltest.NewPage(portaltest.Faculty{Label: "Empty"})
	selectFirst(t, page)

	nav := portal.NewNavigator(page, time.Second, 1, testLogger)
	grid, found, err := nav.Locate(context.Background())
	if err != nil {
		t.Fatalf("missing table must not be an error: %v", err)
	}
	if found || grid != nil {
		t.Error("expected no table")
	}
}

func TestNavigatorSessionFailure(t *testing.T) {
	page := portaltest.NewPage(portaltest.Faculty{Label: "X"})
	selectFirst(t, page)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav := portal.NewNavigator(page, time.Second, 1, testLogger)
	_, _, err := nav.Locate(ctx)
	var sessErr *types.SessionError
	if !errors.As(err, &sessErr) {
		t.Fatalf("expected SessionError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestNavigatorShortHeader(t *testing.T) {
	page := portaltest.NewPage(portaltest.Faculty{
		Label: "Short",
		Table: &portaltest.Table{Head: [][]string{{"Only title"}}},
	})
	selectFirst(t, page)

	nav := portal.NewNavigator(page, time.Second, 1, testLogger)
	grid, found, err := nav.Locate(context.Background())
	if err != nil || !found {
		t.Fatalf("locate: found=%v err=%v", found, err)
	}
	labels, err := nav.HeaderLabels(context.Background(), grid)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if labels != nil {
		t.Errorf("expected no labels for a one-row table, got %v", labels)
	}
}

func TestNavigatorNegativeHeaderRow(t *testing.T) {
	page := portaltest.NewPage(portaltest.Faculty{
		Label: "Engineering",
		Table: &portaltest.Table{
			Head: [][]string{{"Program list"}, {"Regular", "Special", "Math 1"}},
			Body: [][]string{{"01010101", "Civil Engineering", "40", "10", "25"}},
		},
	})
	selectFirst(t, page)

	nav := portal.NewNavigator(page, time.Second, -1, testLogger)
	grid, found, err := nav.Locate(context.Background())
	if err != nil || !found {
		t.Fatalf("locate: found=%v err=%v", found, err)
	}
	labels, err := nav.HeaderLabels(context.Background(), grid)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if labels != nil {
		t.Errorf("expected no labels for a negative header row, got %v", labels)
	}
}
