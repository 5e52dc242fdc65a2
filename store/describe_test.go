package store

import (
	"strings"
	"testing"
)

func sampleSchema() *Schema {
	s := NewSchema()
	s.Add(TableInfo{
		Name: "patients",
		Columns: []Column{
			{Name: "id", Type: "TEXT"},
			{Name: "qol_score", Type: "INTEGER"},
		},
		RowCount: 2,
		Sample: [][]string{
			{"P001", "72"},
			{"P002", "40"},
		},
	})
	s.Add(TableInfo{
		Name: "seizures",
		Columns: []Column{
			{Name: "patient_id", Type: "TEXT"},
			{Name: "daily_total", Type: "INTEGER"},
		},
		RowCount: 4,
		Sample: [][]string{
			{"P001", "3"},
		},
	})
	return s
}

func TestDescribeContents(t *testing.T) {
	text := Describe(sampleSchema())

	for _, want := range []string{
		"Table: patients",
		"Columns: id, qol_score",
		"Row count: 2",
		"  - qol_score: INTEGER",
		"Row 1: id=P001, qol_score=72",
		"Row 2: id=P002, qol_score=40",
		"Table: seizures",
		"Row count: 4",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Describe() missing %q:\n%s", want, text)
		}
	}
}

func TestDescribeIdempotent(t *testing.T) {
	schema := sampleSchema()
	first := Describe(schema)
	second := Describe(schema)
	if first != second {
		t.Error("Describe() not byte-identical across calls on an unchanged schema")
	}
}

func TestDescribePreservesLoadOrder(t *testing.T) {
	text := Describe(sampleSchema())
	if strings.Index(text, "Table: patients") > strings.Index(text, "Table: seizures") {
		t.Error("Describe() does not follow load order")
	}
}

func TestSampleRowsCapped(t *testing.T) {
	s, err := Open(testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	csv := "id\n1\n2\n3\n4\n5\n"
	if err := s.LoadCSV("many", strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	info, _ := s.Schema().Info("many")
	if len(info.Sample) != SampleRowLimit {
		t.Errorf("sample has %d rows, want %d", len(info.Sample), SampleRowLimit)
	}
}
