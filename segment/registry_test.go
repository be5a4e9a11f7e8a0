package segment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/shop"
	"github.com/rushteam/shopkit/store"
)

func writeTrainingCSV(t *testing.T, path string, rows []Demographics) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer f.Close()
	fmt.Fprintln(f, "age,annual_income,spending_score")
	for _, d := range rows {
		fmt.Fprintf(f, "%.2f,%.2f,%.2f\n", d.Age, d.AnnualIncome, d.SpendingScore)
	}
}

func trainedRegistry(t *testing.T) *Registry {
	t.Helper()
	dir := t.TempDir()
	rows := testClusters()
	model, scaler, err := Train(rows, TrainOptions{K: 3})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	cfg := Config{
		ModelPath:        filepath.Join(dir, "kmeans.json"),
		ScalerPath:       filepath.Join(dir, "scaler.json"),
		TrainingDataPath: filepath.Join(dir, "customers.csv"),
	}
	if err := SaveArtifacts(model, scaler, cfg); err != nil {
		t.Fatalf("SaveArtifacts: %v", err)
	}
	writeTrainingCSV(t, cfg.TrainingDataPath, rows)
	return NewRegistry(cfg, zerolog.Nop())
}

func TestRegistryMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		ModelPath:  filepath.Join(dir, "missing-model.json"),
		ScalerPath: filepath.Join(dir, "missing-scaler.json"),
	}
	r := NewRegistry(cfg, zerolog.Nop())
	if r.Loaded() {
		t.Fatal("registry must not be loaded without artifacts")
	}
	_, err := r.PredictSegment(30, 100, 50)
	if !errors.Is(err, core.ErrModelUnavailable) {
		t.Errorf("err = %v, want ErrModelUnavailable", err)
	}
	// 未就绪时标签退化为 Unknown
	if got := r.ClusterName(0); got != "Cluster 0 (Unknown Segment)" {
		t.Errorf("ClusterName = %q", got)
	}
}

func TestRegistryPredict(t *testing.T) {
	r := trainedRegistry(t)
	if !r.Loaded() {
		t.Fatal("registry should be loaded")
	}

	// 同一输入必须给出同一簇
	c1, err := r.PredictSegment(30, 100, 90)
	if err != nil {
		t.Fatalf("PredictSegment: %v", err)
	}
	c2, err := r.PredictSegment(30, 100, 90)
	if err != nil {
		t.Fatalf("PredictSegment: %v", err)
	}
	if c1 != c2 {
		t.Errorf("predictions differ: %d vs %d", c1, c2)
	}

	// 远离的画像应落入不同的簇
	c3, err := r.PredictSegment(50, 100, 10)
	if err != nil {
		t.Fatalf("PredictSegment: %v", err)
	}
	if c1 == c3 {
		t.Error("distinct profiles mapped to the same cluster")
	}
}

func TestRegistryPredictInvalidInput(t *testing.T) {
	r := trainedRegistry(t)
	tests := []struct {
		name               string
		age, income, score float64
	}{
		{"NaN age", math.NaN(), 100, 50},
		{"Inf income", 30, math.Inf(1), 50},
		{"negative Inf score", 30, 100, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.PredictSegment(tt.age, tt.income, tt.score)
			if !errors.Is(err, core.ErrInvalidDemographics) {
				t.Errorf("err = %v, want ErrInvalidDemographics", err)
			}
		})
	}
}

func TestRegistryStatsDrivenLabels(t *testing.T) {
	r := trainedRegistry(t)
	if r.Stats() == nil {
		t.Fatal("stats should be derived from training data")
	}

	// 高收入低消费画像应得到 Careful Spender 标签
	cluster, err := r.PredictSegment(50, 100, 10)
	if err != nil {
		t.Fatalf("PredictSegment: %v", err)
	}
	if got := r.ClusterName(cluster); got != "Careful Spender (High Income, Low Spend)" {
		t.Errorf("label = %q, want Careful Spender (High Income, Low Spend)", got)
	}

	// 低收入高消费画像应得到 Impulse Buyer 标签
	cluster, err = r.PredictSegment(25, 20, 80)
	if err != nil {
		t.Fatalf("PredictSegment: %v", err)
	}
	if got := r.ClusterName(cluster); got != "Impulse Buyer (Low Income, High Spend)" {
		t.Errorf("label = %q, want Impulse Buyer (Low Income, High Spend)", got)
	}
}

func TestRegistryAssign(t *testing.T) {
	r := trainedRegistry(t)
	mem := store.NewMemoryStore()
	defer mem.Close()
	segments := shop.NewStoreSegments(mem, "segments")

	ctx := context.Background()
	seg, err := r.Assign(ctx, segments, "u1", 30, 100, 90)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if seg.UserID != "u1" || seg.Cluster < 0 {
		t.Errorf("segment = %+v, want assigned cluster", seg)
	}
	if seg.Label == "" {
		t.Error("assigned segment must carry a label")
	}

	// 再次读取应得到持久化的分群
	got, created, err := segments.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created {
		t.Error("Assign must persist the segment")
	}
	if got.Cluster != seg.Cluster || got.Label != seg.Label {
		t.Errorf("persisted = %+v, want %+v", got, seg)
	}
}

type stubProvider struct {
	age, income, score float64
	err                error
}

func (p *stubProvider) Demographics(ctx context.Context, userID string) (float64, float64, float64, error) {
	return p.age, p.income, p.score, p.err
}

func TestRegistryPredictForUser(t *testing.T) {
	r := trainedRegistry(t)

	cluster, err := r.PredictForUser(context.Background(), "u1", &stubProvider{age: 30, income: 100, score: 90})
	if err != nil {
		t.Fatalf("PredictForUser: %v", err)
	}
	want, err := r.PredictSegment(30, 100, 90)
	if err != nil {
		t.Fatalf("PredictSegment: %v", err)
	}
	if cluster != want {
		t.Errorf("cluster = %d, want %d", cluster, want)
	}

	if _, err := r.PredictForUser(context.Background(), "u2", &stubProvider{err: errors.New("feature store down")}); err == nil {
		t.Error("provider error must propagate")
	}
}
