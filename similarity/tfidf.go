package similarity

import (
	"math"
	"regexp"
	"strings"
)

// 非字母数字统一折叠为空格
var nonWord = regexp.MustCompile(`[^a-z0-9\s]+`)

// 英文停用词表（常见虚词；与离线向量化保持一致即可，不追求完备）
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "did", "do",
		"does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"him", "his", "how", "i", "if", "in", "into", "is", "it", "its",
		"itself", "just", "me", "more", "most", "my", "myself", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
		"ours", "out", "over", "own", "same", "she", "should", "so", "some",
		"such", "than", "that", "the", "their", "theirs", "them", "then",
		"there", "these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "whom", "why", "will", "with", "you",
		"your", "yours",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// Tokenize 把文档切成词元：小写、去标点、去停用词、去单字符词。
func Tokenize(doc string) []string {
	doc = nonWord.ReplaceAllString(strings.ToLower(doc), " ")
	fields := strings.Fields(doc)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) < 2 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Vector 是稀疏 TF-IDF 向量：词元索引 -> 权重，已做 L2 归一化。
type Vector map[int]float64

// Vectorize 对一组文档建立 TF-IDF 向量空间。
//
// 权重：tf(词频) × idf，idf 使用平滑形式 ln((1+n)/(1+df)) + 1，
// 再做 L2 归一化——归一化后两向量的余弦相似度即内积。
func Vectorize(docs []string) []Vector {
	n := len(docs)
	vocab := make(map[string]int)
	df := make(map[int]int)
	termCounts := make([]map[int]float64, n)

	for i, doc := range docs {
		counts := make(map[int]float64)
		for _, w := range Tokenize(doc) {
			idx, ok := vocab[w]
			if !ok {
				idx = len(vocab)
				vocab[w] = idx
			}
			counts[idx]++
		}
		for idx := range counts {
			df[idx]++
		}
		termCounts[i] = counts
	}

	idf := make(map[int]float64, len(df))
	for idx, d := range df {
		idf[idx] = math.Log(float64(1+n)/float64(1+d)) + 1
	}

	vectors := make([]Vector, n)
	for i, counts := range termCounts {
		v := make(Vector, len(counts))
		var norm float64
		for idx, tf := range counts {
			w := tf * idf[idx]
			v[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range v {
				v[idx] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors
}

// Cosine 计算两个 L2 归一化向量的余弦相似度（即内积）。
func Cosine(a, b Vector) float64 {
	// 遍历较小的一侧
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, va := range a {
		if vb, ok := b[idx]; ok {
			dot += va * vb
		}
	}
	return dot
}
