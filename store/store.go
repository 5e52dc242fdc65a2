// Package store loads tabular CSV sources into an in-memory SQLite engine
// and exposes schema metadata plus read-only query execution.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// Store owns the in-memory engine for one session. Tables are created only
// during load; Execute never mutates the engine by construction of the
// queries that reach it (callers must validate first).
type Store struct {
	db     *sql.DB
	schema *Schema
	log    *logrus.Logger
}

// Open creates an empty in-memory store.
func Open(log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory engine: %w", err)
	}
	// The in-memory database lives and dies with this single connection.
	db.SetMaxOpenConns(1)
	return &Store{
		db:     db,
		schema: NewSchema(),
		log:    log,
	}, nil
}

// Schema returns the metadata for all loaded tables. Read-only after load.
func (s *Store) Schema() *Schema {
	return s.schema
}

// Execute runs a query and collects every row into a ResultSet. Callers must
// only pass queries that passed validation.
func (s *Store) Execute(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &ExecutionError{Query: query, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{Query: query, Err: err}
	}

	rs := &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, &ExecutionError{Query: query, Err: err}
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Query: query, Err: err}
	}
	return rs, nil
}

// Close releases the engine.
func (s *Store) Close() error {
	return s.db.Close()
}

// ResultSet is the ordered output of one executed query.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
}

func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

func (rs *ResultSet) Empty() bool {
	return len(rs.Rows) == 0
}

// Render writes the rows as an aligned text table.
func (rs *ResultSet) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(rs.Columns)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		table.Append(cells)
	}
	table.Render()
}

// String returns the rendered table, used as answer-synthesis input and for
// display.
func (rs *ResultSet) String() string {
	var sb strings.Builder
	rs.Render(&sb)
	return sb.String()
}
