// Package pager implements the two pagination schemes used by the upstream
// services: cursor-token pagination (threat feed) and zero-based page-number
// pagination (inventory). Both drain eagerly into a full slice; feed sizes are
// thousands of rows, not millions.
package pager

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Cursor is the opaque continuation token returned by a cursor-paginated
// endpoint. The wire value may arrive as a string, a number, a boolean, or
// null; all forms are normalized to a string on decode.
type Cursor string

// UnmarshalJSON accepts the token in any of its observed wire forms
func (c *Cursor) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*c = ""
	case string:
		*c = Cursor(v)
	case bool:
		// A boolean next-cursor only ever signals "done".
		*c = ""
	case float64:
		*c = Cursor(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported cursor value %v", raw)
	}

	return nil
}

// IsTerminal reports whether the token ends pagination. The upstream contract
// treats any falsy value as "no more pages", so an empty token and a literal
// "0" both terminate. A feed that ever issues "0" as a real cursor would be
// truncated here; that matches the observed service behavior and is covered
// by a regression test.
func (c Cursor) IsTerminal() bool {
	return c == "" || c == "0"
}

// PageError reports a failed page fetch with enough context to log and to
// decide the failure policy at the call site.
type PageError struct {
	Stage     string // which fetch the page belongs to, e.g. "threat-feed"
	PageIndex int
	Cause     error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: page %d fetch failed: %v", e.Stage, e.PageIndex, e.Cause)
}

// Unwrap exposes the underlying fetch failure
func (e *PageError) Unwrap() error {
	return e.Cause
}

// CursorPage is one page of a cursor-paginated result
type CursorPage[T any] struct {
	Items []T    `json:"items"`
	Next  Cursor `json:"nextCursor"`
}

// NumberedPage is one page of a page-number-paginated result
type NumberedPage[T any] struct {
	Items      []T `json:"items"`
	PageIndex  int `json:"pageIndex"`
	TotalPages int `json:"totalPages"`
}

// DrainCursor fetches every page of a cursor-paginated endpoint and returns
// the concatenation in feed order. Any page failure aborts the whole drain
// with a *PageError and no partial result: the threat feed is only usable
// when complete. There is no retry; a failure is terminal for the run.
func DrainCursor[T any](ctx context.Context, stage string, fetch func(context.Context, Cursor) (CursorPage[T], error)) ([]T, error) {
	var all []T
	var cursor Cursor
	pageIndex := 0

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, &PageError{Stage: stage, PageIndex: pageIndex, Cause: err}
		}

		all = append(all, page.Items...)

		if page.Next.IsTerminal() {
			return all, nil
		}

		cursor = page.Next
		pageIndex++
	}
}

// DrainNumbered fetches pages 0..totalPages-1 of a page-number-paginated
// endpoint in order. The failure policy is asymmetric on purpose:
//
//   - a failure on page 0 returns (nil, *PageError) so the caller can choose
//     between "resource degrades to empty" and "fatal";
//   - a failure on a later page stops pagination and returns what was
//     accumulated so far with a nil error; partial inventory beats none.
func DrainNumbered[T any](ctx context.Context, stage string, logger *zap.Logger, fetch func(context.Context, int) (NumberedPage[T], error)) ([]T, error) {
	first, err := fetch(ctx, 0)
	if err != nil {
		return nil, &PageError{Stage: stage, PageIndex: 0, Cause: err}
	}

	all := append([]T(nil), first.Items...)

	// totalPages absent or zero means a single-page or empty result
	for pageIndex := 1; pageIndex < first.TotalPages; pageIndex++ {
		page, err := fetch(ctx, pageIndex)
		if err != nil {
			logger.Sugar().Warnf("%s: page %d/%d failed, keeping %d items fetched so far: %v",
				stage, pageIndex, first.TotalPages, len(all), err)
			return all, nil
		}
		all = append(all, page.Items...)
	}

	return all, nil
}
