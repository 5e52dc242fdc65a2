package store

// SampleRowLimit is the number of sample rows kept per table for schema
// descriptions. Samples are used only for prompting, never for computation.
const SampleRowLimit = 3

// Column is a single column of a loaded table.
type Column struct {
	Name string
	Type string
}

// TableInfo is the per-table metadata captured at load time.
type TableInfo struct {
	Name     string
	Columns  []Column
	RowCount int
	Sample   [][]string
}

// Schema holds metadata for every loaded table, preserving load order.
type Schema struct {
	names  []string
	tables map[string]TableInfo
}

func NewSchema() *Schema {
	return &Schema{tables: make(map[string]TableInfo)}
}

// Add registers table metadata. Re-adding a name replaces the previous
// entry but keeps its original position.
func (s *Schema) Add(info TableInfo) {
	if _, ok := s.tables[info.Name]; !ok {
		s.names = append(s.names, info.Name)
	}
	s.tables[info.Name] = info
}

// Tables returns table names in load order.
func (s *Schema) Tables() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Info returns the metadata for one table.
func (s *Schema) Info(name string) (TableInfo, bool) {
	info, ok := s.tables[name]
	return info, ok
}

// Len returns the number of loaded tables.
func (s *Schema) Len() int {
	return len(s.names)
}
