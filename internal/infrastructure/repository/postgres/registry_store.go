package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/statsync/internal/domain/registry"
	qb "github.com/courtdata/statsync/internal/platform/querybuilder"
	"github.com/courtdata/statsync/internal/platform/schemamap"
	"github.com/courtdata/statsync/internal/usecase"
)

// defaultRegistryTables maps each entity domain to the table its canonical
// identifier list lives in.
var defaultRegistryTables = map[registry.Domain]string{
	registry.DomainGame:   "master_games",
	registry.DomainPlayer: "master_players",
	registry.DomainTeam:   "master_teams",
}

// RegistryStore reads entity registries from Postgres. The identifier column
// is located through the schema reconciler at read time, never assumed, so a
// registry filled by an older collector with a different column spelling
// still resolves.
type RegistryStore struct {
	db     *sqlx.DB
	schema *schemamap.Reconciler
	tables map[registry.Domain]string
}

func NewRegistryStore(db *sqlx.DB, schema *schemamap.Reconciler, tables map[registry.Domain]string) *RegistryStore {
	if schema == nil {
		schema = schemamap.New(nil)
	}
	if len(tables) == 0 {
		tables = defaultRegistryTables
	}
	return &RegistryStore{db: db, schema: schema, tables: tables}
}

func (r *RegistryStore) Get(ctx context.Context, domain registry.Domain) (registry.Snapshot, error) {
	table, err := r.tableFor(domain)
	if err != nil {
		return registry.Snapshot{}, err
	}

	cols, err := tableColumns(ctx, r.db, table)
	if err != nil {
		return registry.Snapshot{}, err
	}
	column, err := classifyRegistrySchema(domain, table, cols, r.schema)
	if err != nil {
		return registry.Snapshot{}, err
	}

	query, args, err := qb.Select(quoteIdent(column) + "::text").
		Distinct().
		From(table).
		Where(qb.NotNull(quoteIdent(column))).
		OrderBy(quoteIdent(column)).
		ToSQL()
	if err != nil {
		return registry.Snapshot{}, fmt.Errorf("build registry select for %s: %w", domain, err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return registry.Snapshot{}, fmt.Errorf("select %s registry: %w", domain, err)
	}

	return registry.Snapshot{Domain: domain, Column: column, IDs: ids}, nil
}

func (r *RegistryStore) Exists(ctx context.Context, domain registry.Domain) (bool, error) {
	table, err := r.tableFor(domain)
	if err != nil {
		return false, err
	}
	return tableExists(ctx, r.db, table)
}

func (r *RegistryStore) RowCount(ctx context.Context, domain registry.Domain) (int, error) {
	table, err := r.tableFor(domain)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count %s registry: %w", domain, err)
	}
	return count, nil
}

// classifyRegistrySchema resolves a registry table's identifier column,
// mapping schema problems onto the resolution taxonomy: an absent table is
// ErrRegistryUnavailable, a table with no recognizable identifier spelling is
// ErrSchemaAmbiguous. Direct Get callers see the same classification the
// resolve flow does.
func classifyRegistrySchema(domain registry.Domain, table string, cols []string, schema *schemamap.Reconciler) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("%w: registry table %s does not exist", usecase.ErrRegistryUnavailable, table)
	}
	column, ok := schema.ResolveColumn(string(domain), cols)
	if !ok {
		return "", fmt.Errorf("%w: no %s identifier column in %s (have %v)", usecase.ErrSchemaAmbiguous, domain, table, cols)
	}
	return column, nil
}

func (r *RegistryStore) tableFor(domain registry.Domain) (string, error) {
	table, ok := r.tables[domain]
	if !ok || table == "" {
		return "", fmt.Errorf("no registry table configured for %s", domain)
	}
	return table, nil
}

func tableExists(ctx context.Context, db *sqlx.DB, table string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	)`

	var exists bool
	if err := db.GetContext(ctx, &exists, query, table); err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return exists, nil
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	const query = `SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`

	var cols []string
	if err := db.SelectContext(ctx, &cols, query, table); err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	return cols, nil
}
