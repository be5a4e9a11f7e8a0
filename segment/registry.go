package segment

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/shopkit/core"
)

// Config 指定聚类工件的位置。
type Config struct {
	ModelPath        string `yaml:"model_path" json:"model_path"`
	ScalerPath       string `yaml:"scaler_path" json:"scaler_path"`
	TrainingDataPath string `yaml:"training_data_path" json:"training_data_path"`
}

// LoadConfig 从 YAML 文件加载工件配置。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DemographicsProvider 按用户 ID 提供画像特征（年龄、年收入、消费评分）。
// 线上实现见 feast 包。
type DemographicsProvider interface {
	Demographics(ctx context.Context, userID string) (age, income, score float64, err error)
}

// Registry 持有加载好的聚类模型、scaler 与簇统计，进程内只加载一次。
//
// 设计原则:
//   - 工件缺失或损坏不阻止构建：Registry 以"未就绪"状态存在，
//     预测时显式返回 ErrModelUnavailable，失败暴露在调用点而不是启动点
//   - 加载后全部字段只读，并发预测无需加锁
type Registry struct {
	cfg    Config
	model  *KMeans
	scaler *StandardScaler
	stats  *core.ClusterStatistics
	logger zerolog.Logger
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default 返回进程级单例。首次调用按 cfg 构建并加载工件，
// 后续调用忽略入参直接复用已有实例。
func Default(cfg Config, logger zerolog.Logger) *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(cfg, logger)
	})
	return defaultRegistry
}

// NewRegistry 构建 Registry 并立即加载工件。加载失败不报错，
// 通过 Loaded() 与预测时的 ErrModelUnavailable 暴露。
func NewRegistry(cfg Config, logger zerolog.Logger) *Registry {
	r := &Registry{cfg: cfg, logger: logger}
	r.load()
	return r
}

func (r *Registry) load() {
	model, err := LoadModel(r.cfg.ModelPath)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", r.cfg.ModelPath).Msg("cluster model not loaded")
		return
	}
	scaler, err := LoadScaler(r.cfg.ScalerPath)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", r.cfg.ScalerPath).Msg("scaler not loaded")
		return
	}
	r.model = model
	r.scaler = scaler
	r.logger.Info().Int("k", model.K()).Msg("cluster model loaded")

	// 统计量只用于标签，缺失训练数据时退化为 Unknown Segment
	if r.cfg.TrainingDataPath == "" {
		return
	}
	rows, err := LoadTrainingData(r.cfg.TrainingDataPath)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", r.cfg.TrainingDataPath).Msg("cluster statistics unavailable")
		return
	}
	r.stats = r.deriveStats(rows)
	r.logger.Info().Int("clusters", len(r.stats.Clusters)).Msg("cluster statistics derived")
}

// deriveStats 把训练数据按当前模型重新分簇，计算簇内与全体均值。
func (r *Registry) deriveStats(rows []Demographics) *core.ClusterStatistics {
	stats := &core.ClusterStatistics{Clusters: make(map[int]core.ClusterStats)}
	var totalIncome, totalScore float64
	sums := make(map[int]*core.ClusterStats)
	for _, d := range rows {
		c := r.model.Predict(r.scaler.Transform(d.row()))
		s := sums[c]
		if s == nil {
			s = &core.ClusterStats{}
			sums[c] = s
		}
		s.MeanIncome += d.AnnualIncome
		s.MeanScore += d.SpendingScore
		s.MeanAge += d.Age
		s.Count++
		totalIncome += d.AnnualIncome
		totalScore += d.SpendingScore
	}
	for c, s := range sums {
		n := float64(s.Count)
		stats.Clusters[c] = core.ClusterStats{
			MeanIncome: s.MeanIncome / n,
			MeanScore:  s.MeanScore / n,
			MeanAge:    s.MeanAge / n,
			Count:      s.Count,
		}
	}
	n := float64(len(rows))
	stats.OverallMeanIncome = totalIncome / n
	stats.OverallMeanScore = totalScore / n
	return stats
}

// Loaded 返回模型与 scaler 是否可用。
func (r *Registry) Loaded() bool { return r.model != nil && r.scaler != nil }

// Stats 返回簇统计，不可用时为 nil。
func (r *Registry) Stats() *core.ClusterStatistics { return r.stats }

// PredictSegment 把画像特征映射到簇编号。
// 特征顺序与训练一致：年龄、年收入、消费评分。
func (r *Registry) PredictSegment(age, income, score float64) (int, error) {
	if !r.Loaded() {
		return 0, core.ErrModelUnavailable
	}
	for _, v := range []float64{age, income, score} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, core.ErrInvalidDemographics
		}
	}
	scaled := r.scaler.Transform([]float64{age, income, score})
	return r.model.Predict(scaled), nil
}

// ClusterName 返回簇的业务标签。
func (r *Registry) ClusterName(cluster int) string {
	return LabelFor(cluster, r.stats)
}

// PredictForUser 从画像服务取特征后预测簇编号。
func (r *Registry) PredictForUser(ctx context.Context, userID string, p DemographicsProvider) (int, error) {
	age, income, score, err := p.Demographics(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("demographics for %s: %w", userID, err)
	}
	return r.PredictSegment(age, income, score)
}

// Assign 为用户计算分群并持久化到 SegmentStore。
// 已有记录时覆盖簇与标签，保留首次创建时间语义由存储层负责。
func (r *Registry) Assign(ctx context.Context, store core.SegmentStore, userID string, age, income, score float64) (*core.CustomerSegment, error) {
	cluster, err := r.PredictSegment(age, income, score)
	if err != nil {
		return nil, err
	}
	seg, _, err := store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	seg.Cluster = cluster
	seg.Label = r.ClusterName(cluster)
	seg.Age = age
	seg.AnnualIncome = income
	seg.SpendingScore = score
	if err := store.Save(ctx, seg); err != nil {
		return nil, err
	}
	return seg, nil
}
