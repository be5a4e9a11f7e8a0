package segment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTrainingDataHeaders(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "underscore headers",
			csv:  "age,annual_income,spending_score\n30,100,90\n50,100,10\n",
		},
		{
			name: "dataset headers with units",
			csv:  "CustomerID,Genre,Age,Annual Income (k$),Spending Score (1-100)\n1,Male,30,100,90\n2,Female,50,100,10\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv")
			if err := os.WriteFile(path, []byte(tt.csv), 0o644); err != nil {
				t.Fatalf("write csv: %v", err)
			}
			rows, err := LoadTrainingData(path)
			if err != nil {
				t.Fatalf("LoadTrainingData: %v", err)
			}
			if len(rows) != 2 {
				t.Fatalf("got %d rows, want 2", len(rows))
			}
			if rows[0].Age != 30 || rows[0].AnnualIncome != 100 || rows[0].SpendingScore != 90 {
				t.Errorf("row 0 = %+v", rows[0])
			}
		})
	}
}

func TestLoadTrainingDataMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := LoadTrainingData(path); err == nil {
		t.Error("missing columns must fail")
	}
}
