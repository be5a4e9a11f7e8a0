package segment

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Demographics 是一条客户画像样本，特征固定顺序：年龄、年收入、消费评分。
type Demographics struct {
	Age           float64
	AnnualIncome  float64
	SpendingScore float64
}

func (d Demographics) row() []float64 {
	return []float64{d.Age, d.AnnualIncome, d.SpendingScore}
}

// LoadTrainingData 从 CSV 读取训练样本。
// 按表头定位列，兼容原始数据集的列名（如 "Annual Income (k$)"）
// 与下划线风格的列名（如 "annual_income"）。
func LoadTrainingData(path string) ([]Demographics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	ageIdx, incomeIdx, scoreIdx := -1, -1, -1
	for i, col := range header {
		switch normalizeColumn(col) {
		case "age":
			ageIdx = i
		case "annualincome":
			incomeIdx = i
		case "spendingscore":
			scoreIdx = i
		}
	}
	if ageIdx < 0 || incomeIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("%s: missing age/annual_income/spending_score columns", path)
	}

	var rows []Demographics
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		age, err1 := strconv.ParseFloat(rec[ageIdx], 64)
		income, err2 := strconv.ParseFloat(rec[incomeIdx], 64)
		score, err3 := strconv.ParseFloat(rec[scoreIdx], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		rows = append(rows, Demographics{Age: age, AnnualIncome: income, SpendingScore: score})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no usable rows", path)
	}
	return rows, nil
}

// normalizeColumn 归一化表头列名：小写、去掉非字母字符与单位后缀。
func normalizeColumn(col string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(col) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	switch {
	case strings.HasPrefix(s, "annualincome"):
		return "annualincome"
	case strings.HasPrefix(s, "spendingscore"):
		return "spendingscore"
	}
	return s
}

// TrainOptions 控制离线训练。
type TrainOptions struct {
	K       int   // 簇数，默认 5
	MaxIter int   // 最大迭代次数，默认 300
	Seed    int64 // 随机种子，默认 42，保证训练可复现
}

// Train 在样本上拟合 scaler 并训练 KMeans。
// 返回的模型与 scaler 需成对持久化与加载。
func Train(rows []Demographics, opts TrainOptions) (*KMeans, *StandardScaler, error) {
	if opts.K <= 0 {
		opts.K = 5
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 300
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	raw := make([][]float64, len(rows))
	for i, d := range rows {
		raw[i] = d.row()
	}
	scaler := FitScaler(raw)
	scaled := make([][]float64, len(raw))
	for i, row := range raw {
		scaled[i] = scaler.Transform(row)
	}
	model, err := TrainKMeans(scaled, opts.K, opts.MaxIter, opts.Seed)
	if err != nil {
		return nil, nil, err
	}
	return model, scaler, nil
}

// SaveArtifacts 将模型与 scaler 写入 cfg 指定的路径。
func SaveArtifacts(model *KMeans, scaler *StandardScaler, cfg Config) error {
	if err := SaveJSON(cfg.ModelPath, model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := SaveJSON(cfg.ScalerPath, scaler); err != nil {
		return fmt.Errorf("save scaler: %w", err)
	}
	return nil
}
