package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoadDir ingests every .csv file in dir, naming each table after the file's
// base name. A malformed file fails with a LoadError for that source only;
// the remaining sources still load. The returned slice lists the tables that
// loaded successfully.
func (s *Store) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		f, err := os.Open(path)
		if err != nil {
			s.log.WithError(err).WithField("source", path).Warn("skipping unreadable source")
			continue
		}
		err = s.LoadCSV(name, f)
		f.Close()
		if err != nil {
			s.log.WithError(err).WithField("source", path).Warn("skipping malformed source")
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

// LoadCSV ingests one tabular source as the named table. An existing table
// of the same name is replaced (last-wins, no merge).
func (s *Store) LoadCSV(name string, r io.Reader) error {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return &LoadError{Source: name, Err: err}
	}
	if len(records) == 0 {
		return &LoadError{Source: name, Err: fmt.Errorf("source is empty")}
	}

	header := records[0]
	dataRows := records[1:]
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		if header[i] == "" {
			return &LoadError{Source: name, Err: fmt.Errorf("blank column name at position %d", i+1)}
		}
	}

	types := make([]string, len(header))
	for i := range header {
		values := make([]string, 0, len(dataRows))
		for _, row := range dataRows {
			values = append(values, row[i])
		}
		types[i] = inferColumnType(values)
	}

	if err := s.createTable(name, header, types, dataRows); err != nil {
		return &LoadError{Source: name, Err: err}
	}

	info := TableInfo{
		Name:     name,
		RowCount: len(dataRows),
	}
	for i, col := range header {
		info.Columns = append(info.Columns, Column{Name: col, Type: types[i]})
	}
	for i := 0; i < len(dataRows) && i < SampleRowLimit; i++ {
		sample := make([]string, len(dataRows[i]))
		copy(sample, dataRows[i])
		info.Sample = append(info.Sample, sample)
	}
	s.schema.Add(info)

	s.log.WithFields(logrus.Fields{
		"table":   name,
		"columns": len(header),
		"rows":    len(dataRows),
	}).Info("loaded table")
	return nil
}

func (s *Store) createTable(name string, header, types []string, dataRows [][]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(name))); err != nil {
		return err
	}

	defs := make([]string, len(header))
	for i, col := range header {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col), types[i])
	}
	ddl := fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.Exec(ddl); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, quoteIdent(name), placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range dataRows {
		args := make([]interface{}, len(row))
		for i, raw := range row {
			args[i] = convertValue(raw, types[i])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// inferColumnType picks the narrowest SQLite type that fits every non-blank
// value in the column: INTEGER, then REAL, otherwise TEXT.
func inferColumnType(values []string) string {
	sawValue := false
	sawReal := false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			sawReal = true
			continue
		}
		return "TEXT"
	}
	if !sawValue {
		return "TEXT"
	}
	if sawReal {
		return "REAL"
	}
	return "INTEGER"
}

// convertValue coerces a raw CSV field to the column's inferred type. Blank
// fields become NULL so aggregates ignore them. Trimming is only applied for
// NULL detection and numeric parsing; stored TEXT keeps the field verbatim.
func convertValue(raw, colType string) interface{} {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	switch colType {
	case "INTEGER":
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case "REAL":
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return raw
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
