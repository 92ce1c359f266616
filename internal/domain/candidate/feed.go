package candidate

import "context"

// Feed loads the raw rows of one spreadsheet tab. Rows are keyed by header name and
// returned in sheet order.
type Feed interface {
	FetchRecords(ctx context.Context, sheetID, gid string) ([]Record, error)
}
