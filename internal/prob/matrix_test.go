package prob

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewMatrix_NormalizesDriftedRow(t *testing.T) {
	rows := []Row{
		{MatchID: "m1", P: [NumOutcomes]float64{0.5, 0.3, 0.2}},
		{MatchID: "m2", P: [NumOutcomes]float64{0.50002, 0.29999, 0.19999}},
	}

	m, err := NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix returned error: %v", err)
	}

	for i := 0; i < m.Len(); i++ {
		row := m.Row(i)
		sum := row.P[Home] + row.P[Draw] + row.P[Away]
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sum = %.12f, want 1", i, sum)
		}
	}
}

func TestNewMatrix_ScalesUnnormalizedRow(t *testing.T) {
	m, err := NewMatrix([]Row{{MatchID: "m1", P: [NumOutcomes]float64{0.4, 0.2, 0.2}}})
	if err != nil {
		t.Fatalf("NewMatrix returned error: %v", err)
	}
	row := m.Row(0)
	if math.Abs(row.P[Home]-0.5) > 1e-9 || math.Abs(row.P[Draw]-0.25) > 1e-9 {
		t.Errorf("unexpected normalized row: %v", row.P)
	}
}

func TestNewMatrix_RejectsNegativeProbability(t *testing.T) {
	_, err := NewMatrix([]Row{
		{MatchID: "m1", P: [NumOutcomes]float64{0.5, 0.3, 0.2}},
		{MatchID: "bad", P: [NumOutcomes]float64{-0.1, 0.6, 0.5}},
	})
	if err == nil {
		t.Fatalf("expected error for negative probability")
	}

	var rowErr *InvalidProbabilityRowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected InvalidProbabilityRowError, got %T: %v", err, err)
	}
	if rowErr.MatchID != "bad" {
		t.Errorf("error should identify match 'bad', got %q", rowErr.MatchID)
	}
}

func TestNewMatrix_RejectsNaNAndZeroSum(t *testing.T) {
	if _, err := NewMatrix([]Row{{MatchID: "nan", P: [NumOutcomes]float64{math.NaN(), 0.5, 0.5}}}); err == nil {
		t.Errorf("expected error for NaN probability")
	}
	if _, err := NewMatrix([]Row{{MatchID: "zero", P: [NumOutcomes]float64{0, 0, 0}}}); err == nil {
		t.Errorf("expected error for all-zero row")
	}
	if _, err := NewMatrix(nil); err == nil {
		t.Errorf("expected error for empty matrix")
	}
}

func TestLoadCSV_SchemaAndValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probabilities.csv")
	content := "match_id,p_home,p_draw,p_away\nm1,0.5,0.3,0.2\nm2,0.4,0.3,0.3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", m.Len())
	}
	if m.Row(1).MatchID != "m2" {
		t.Errorf("unexpected match id: %q", m.Row(1).MatchID)
	}
	if math.Abs(m.Row(0).P[Home]-0.5) > 1e-9 {
		t.Errorf("unexpected p_home: %g", m.Row(0).P[Home])
	}
}

func TestLoadCSV_MissingColumnFailsFast(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probabilities.csv")
	content := "match_id,p_home,p_away\nm1,0.5,0.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadCSV(path); err == nil {
		t.Fatalf("expected error for missing p_draw column")
	}
}
