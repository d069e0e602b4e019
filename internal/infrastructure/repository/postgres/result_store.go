package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	qb "github.com/courtdata/statsync/internal/platform/querybuilder"
	"github.com/courtdata/statsync/internal/usecase"
)

// ResultStore reads and writes collected endpoint payloads. The ingest side
// may split one endpoint across several physical tables (per league, per
// season block); the endpoint's table plus every underscore-suffixed split
// table is treated as one logical result set.
type ResultStore struct {
	db *sqlx.DB
}

func NewResultStore(db *sqlx.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (r *ResultStore) Columns(ctx context.Context, endpointName string) ([]string, bool, error) {
	tables, err := r.tablesFor(ctx, endpointName)
	if err != nil {
		return nil, false, err
	}
	if len(tables) == 0 {
		return nil, false, nil
	}

	// Split tables share a schema; the first one is representative.
	cols, err := tableColumns(ctx, r.db, tables[0])
	if err != nil {
		return nil, false, err
	}
	return cols, true, nil
}

func (r *ResultStore) Distinct(ctx context.Context, endpointName string, columns []string) ([][]string, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("distinct requires at least one column")
	}

	tables, err := r.tablesFor(ctx, endpointName)
	if err != nil {
		return nil, err
	}

	selected := make([]string, 0, len(columns))
	conditions := make([]qb.Condition, 0, len(columns))
	order := make([]string, 0, len(columns))
	for _, col := range columns {
		selected = append(selected, quoteIdent(col)+"::text")
		conditions = append(conditions, qb.NotNull(quoteIdent(col)))
		order = append(order, quoteIdent(col))
	}

	seen := make(map[string]struct{})
	var out [][]string
	for _, table := range tables {
		query, args, err := qb.Select(selected...).
			Distinct().
			From(quoteIdent(table)).
			Where(conditions...).
			OrderBy(order...).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build distinct query for %s: %w", table, err)
		}

		rows, err := r.db.QueryxContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("select distinct from %s: %w", table, err)
		}

		for rows.Next() {
			raw, err := rows.SliceScan()
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan distinct row from %s: %w", table, err)
			}

			tuple := make([]string, len(raw))
			for i, v := range raw {
				switch t := v.(type) {
				case nil:
					tuple[i] = ""
				case []byte:
					tuple[i] = string(t)
				case string:
					tuple[i] = t
				default:
					tuple[i] = fmt.Sprintf("%v", t)
				}
			}

			key := strings.Join(tuple, "\x00")
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tuple)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate distinct rows from %s: %w", table, err)
		}
		rows.Close()
	}
	return out, nil
}

// Write lands a fetched payload. The table is created on first write from
// the payload headers plus the call parameters, every column TEXT; the
// upstream owns the real typing and this store only needs projectable
// values.
func (r *ResultStore) Write(ctx context.Context, endpointName string, params map[string]string, payload usecase.Payload) error {
	if payload.Empty() {
		return nil
	}

	table := sanitizeIdent(endpointName)

	paramKeys := make([]string, 0, len(params))
	for k := range params {
		paramKeys = append(paramKeys, k)
	}
	sort.Strings(paramKeys)

	columns := make([]string, 0, len(payload.Columns)+len(paramKeys))
	payloadIdx := make([]int, 0, len(payload.Columns))
	seen := make(map[string]struct{}, cap(columns))
	for i, col := range payload.Columns {
		name := sanitizeIdent(col)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
		payloadIdx = append(payloadIdx, i)
	}
	extraParams := make([]string, 0, len(paramKeys))
	for _, k := range paramKeys {
		name := sanitizeIdent(k)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
		extraParams = append(extraParams, k)
	}

	if err := r.ensureTable(ctx, table, columns); err != nil {
		return err
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}

	insert := qb.InsertInto(quoteIdent(table)).Columns(quoted...)
	for _, row := range payload.Rows {
		values := make([]any, 0, len(columns))
		for _, i := range payloadIdx {
			if i < len(row) {
				values = append(values, row[i])
			} else {
				values = append(values, "")
			}
		}
		for _, k := range extraParams {
			values = append(values, params[k])
		}
		insert.Values(values...)
	}

	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert for %s: %w", table, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert payload into %s: %w", table, err)
	}
	return nil
}

func (r *ResultStore) ensureTable(ctx context.Context, table string, columns []string) error {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, quoteIdent(col)+" TEXT")
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

// tablesFor matches the endpoint's own table and its split tables
// (base_suffix) only. Underscores stay literal and the base name never
// matches as a bare prefix, so a sibling endpoint whose name merely extends
// this one (leaguestandings vs leaguestandingsv3) is never absorbed into the
// collected set.
func (r *ResultStore) tablesFor(ctx context.Context, endpointName string) ([]string, error) {
	const query = `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND (table_name = $1 OR table_name LIKE $2 ESCAPE '\')
		ORDER BY table_name`

	base := sanitizeIdent(endpointName)
	var tables []string
	if err := r.db.SelectContext(ctx, &tables, query, base, splitTablePattern(base)); err != nil {
		return nil, fmt.Errorf("discover result tables for %s: %w", endpointName, err)
	}
	return tables, nil
}
