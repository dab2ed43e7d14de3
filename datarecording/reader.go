package datarecording

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/fatih/structs"
)

// ErrUnknownTable is returned when a query names a table the database does
// not hold.
var ErrUnknownTable = errors.New("unknown table")

// QueryParams narrows down a query on one table. Where and OrderBy are SQL
// fragments without their keywords, for example "Time > ?" and "Seq DESC".
// Args fill the placeholders of Where. A zero Limit returns every row.
type QueryParams struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

func (p QueryParams) filter() string {
	if p.Where == "" {
		return ""
	}

	return " WHERE " + p.Where
}

func (p QueryParams) window() string {
	var b strings.Builder

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	switch {
	case p.Limit > 0:
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", p.Limit, p.Offset)
	case p.Offset > 0:
		fmt.Fprintf(&b, " LIMIT -1 OFFSET %d", p.Offset)
	}

	return b.String()
}

// A Reader reads back the tables of a recording. Rows are read into the same
// struct types the recorder wrote them from.
type Reader struct {
	db *sql.DB
}

// NewReader opens an existing recording, such as "run.sqlite3", read-only.
func NewReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open recording: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a Reader over an open database.
func NewReaderWithDB(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Tables returns the names of the tables in the recording, sorted.
func (r *Reader) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

func (r *Reader) tableMustExist(ctx context.Context, table string) error {
	tables, err := r.Tables(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(tables, table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	return nil
}

// Count returns the number of rows of table that match params.Where. Limit
// and Offset are ignored.
func (r *Reader) Count(
	ctx context.Context,
	table string,
	params QueryParams,
) (int, error) {
	if err := r.tableMustExist(ctx, table); err != nil {
		return 0, err
	}

	var n int

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+params.filter(),
		params.Args...,
	).Scan(&n)

	return n, err
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Query reads the rows of table that match params into values of T. The
// columns read are the fields of T, so T is usually the record type the
// table was created with.
func Query[T any](
	ctx context.Context,
	r *Reader,
	table string,
	params QueryParams,
) ([]T, error) {
	var sample T
	if err := checkStructFields(sample); err != nil {
		return nil, err
	}

	if err := r.tableMustExist(ctx, table); err != nil {
		return nil, err
	}

	columns := structs.Names(sample)
	query := "SELECT " + strings.Join(columns, ", ") + " FROM " + table +
		params.filter() + params.window()

	rows, err := r.db.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []T

	for rows.Next() {
		var rec T

		fields := reflect.ValueOf(&rec).Elem()
		targets := make([]any, len(columns))

		for i, column := range columns {
			targets[i] = fields.FieldByName(column).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}
