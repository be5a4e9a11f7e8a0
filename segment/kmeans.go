package segment

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// StandardScaler 是特征标准化器：x' = (x - mean) / std。
// 预测时必须使用与训练时相同的 scaler，否则簇分配没有意义。
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler 在训练数据上拟合标准化参数。
func FitScaler(rows [][]float64) *StandardScaler {
	if len(rows) == 0 {
		return &StandardScaler{}
	}
	dims := len(rows[0])
	mean := make([]float64, dims)
	std := make([]float64, dims)

	for _, row := range rows {
		for d := 0; d < dims; d++ {
			mean[d] += row[d]
		}
	}
	n := float64(len(rows))
	for d := 0; d < dims; d++ {
		mean[d] /= n
	}
	for _, row := range rows {
		for d := 0; d < dims; d++ {
			diff := row[d] - mean[d]
			std[d] += diff * diff
		}
	}
	for d := 0; d < dims; d++ {
		std[d] = math.Sqrt(std[d] / n)
	}
	return &StandardScaler{Mean: mean, Std: std}
}

// Transform 标准化一行特征。std 为 0 的维度输出 0。
func (s *StandardScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for d := range row {
		if d >= len(s.Mean) {
			break
		}
		if s.Std[d] == 0 {
			out[d] = 0
			continue
		}
		out[d] = (row[d] - s.Mean[d]) / s.Std[d]
	}
	return out
}

// KMeans 是离线训练好的聚类模型：预测即最近质心分配。
// 质心位于标准化后的特征空间中。
type KMeans struct {
	Centroids [][]float64 `json:"centroids"`
}

// K 返回簇数。
func (m *KMeans) K() int { return len(m.Centroids) }

// Predict 返回与 scaled 欧氏距离最近的质心下标。
// 等距时取下标更小的质心，保证确定性。
func (m *KMeans) Predict(scaled []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range m.Centroids {
		d := sqDist(scaled, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// TrainKMeans 在标准化后的数据上训练 KMeans。
// 使用 k-means++ 初始化与固定 seed，同一数据集训练结果可复现。
func TrainKMeans(scaled [][]float64, k, maxIter int, seed int64) (*KMeans, error) {
	if len(scaled) == 0 {
		return nil, fmt.Errorf("kmeans: empty training data")
	}
	if k <= 0 || k > len(scaled) {
		return nil, fmt.Errorf("kmeans: invalid k=%d for %d rows", k, len(scaled))
	}
	if maxIter <= 0 {
		maxIter = 300
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := initPlusPlus(scaled, k, rng)
	dims := len(scaled[0])
	assign := make([]int, len(scaled))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range scaled {
			best := 0
			bestDist := math.Inf(1)
			for c := range centroids {
				d := sqDist(row, centroids[c])
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// 重算质心；空簇保持原质心
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range scaled {
			c := assign[i]
			counts[c]++
			for d := 0; d < dims; d++ {
				sums[c][d] += row[d]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return &KMeans{Centroids: centroids}, nil
}

// initPlusPlus 实现 k-means++ 初始化：新质心按与已有质心的距离平方加权采样。
func initPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rows[rng.Intn(len(rows))]
	centroids = append(centroids, append([]float64(nil), first...))

	for len(centroids) < k {
		dists := make([]float64, len(rows))
		var total float64
		for i, row := range rows {
			best := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(row, c); d < best {
					best = d
				}
			}
			dists[i] = best
			total += best
		}
		if total == 0 {
			// 所有点与质心重合，随机补齐
			pick := rows[rng.Intn(len(rows))]
			centroids = append(centroids, append([]float64(nil), pick...))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		picked := len(rows) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				picked = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), rows[picked]...))
	}
	return centroids
}

// SaveJSON 将模型/工件序列化为 JSON 文件。
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadModel 从 JSON 文件反序列化 KMeans 模型。
func LoadModel(path string) (*KMeans, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m KMeans
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if len(m.Centroids) == 0 {
		return nil, fmt.Errorf("model %s: no centroids", path)
	}
	return &m, nil
}

// LoadScaler 从 JSON 文件反序列化 StandardScaler。
func LoadScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s StandardScaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scaler %s: %w", path, err)
	}
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Std) {
		return nil, fmt.Errorf("scaler %s: malformed mean/std", path)
	}
	return &s, nil
}
