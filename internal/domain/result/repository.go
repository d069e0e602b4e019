package result

import "context"

// Store reads what has already been collected for an endpoint. The backing
// tables are owned by the ingest side and may be split per league or season;
// implementations union the splits behind one logical view.
type Store interface {
	// Columns lists the physical column names available for the endpoint.
	// ok is false when nothing has been collected yet, which resolution
	// treats as an empty collected set rather than an error.
	Columns(ctx context.Context, endpoint string) (cols []string, ok bool, err error)
	// Distinct returns the distinct value tuples over the given columns, in
	// column order.
	Distinct(ctx context.Context, endpoint string, columns []string) ([][]string, error)
}
