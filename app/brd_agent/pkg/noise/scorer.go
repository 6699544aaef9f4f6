package noise

import (
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultNoiseThreshold 噪声判定阈值，得分高于该值的文档视为噪声
const DefaultNoiseThreshold = 0.6

// 句子与关键词文档的相似度下限，低于该值的句子被过滤
const similarityThreshold = 0.3

// Scorer 噪声评分器。优先走 TF-IDF 相似度，文本过于退化时回落到关键词计数。
type Scorer struct {
	threshold float64
}

// NewScorer 创建评分器，threshold <= 0 时使用默认阈值
func NewScorer(threshold float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultNoiseThreshold
	}
	return &Scorer{threshold: threshold}
}

var (
	sentenceBreak = regexp.MustCompile(`([.!?])\s+`)
	tokenPattern  = regexp.MustCompile(`[a-zA-Z0-9_]{2,}`)
)

// SplitSentences 按句末标点与换行切句，丢弃长度不超过 10 的碎片
func SplitSentences(text string) []string {
	marked := sentenceBreak.ReplaceAllString(text, "$1\n")
	var out []string
	for _, s := range strings.Split(marked, "\n") {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			out = append(out, s)
		}
	}
	return out
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	var out []string
	for _, t := range raw {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

// KeywordScore 关键词法噪声分：噪声命中数 / (噪声命中数 + 相关命中数)。
// 两类均无命中时返回 0.5。
func (s *Scorer) KeywordScore(text string) float64 {
	lower := strings.ToLower(text)
	noiseHits := 0
	for _, kw := range NoiseKeywords {
		if strings.Contains(lower, kw) {
			noiseHits++
		}
	}
	relevanceHits := 0
	for _, kw := range RelevanceKeywords {
		if strings.Contains(lower, kw) {
			relevanceHits++
		}
	}
	total := noiseHits + relevanceHits
	if total == 0 {
		return 0.5
	}
	return float64(noiseHits) / float64(total)
}

// IsNoise 按关键词分判断文档是否为纯噪声
func (s *Scorer) IsNoise(text string) bool {
	return s.KeywordScore(text) > s.threshold
}

// FilterRelevant 计算每个句子与业务词表的 TF-IDF 余弦相似度，
// 保留相似度达标的句子；全部不达标时保留相似度最高的前一半（至少一句）。
// 返回过滤后的文本与文档整体相关度（全部句子相似度的均值）。
func (s *Scorer) FilterRelevant(text string) (string, float64) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return "", 1.0 - s.KeywordScore(text)
	}

	query := strings.Join(RelevanceKeywords, " ")
	docs := make([][]string, 0, len(sentences)+1)
	for _, sent := range sentences {
		docs = append(docs, tokenize(sent))
	}
	docs = append(docs, tokenize(query))

	vecs, ok := tfidfVectors(docs)
	if !ok {
		return strings.Join(sentences, " "), 1.0 - s.KeywordScore(text)
	}

	queryVec := vecs[len(vecs)-1]
	sims := make([]float64, len(sentences))
	for i := range sentences {
		sims[i] = floats.Dot(vecs[i], queryVec)
	}

	var kept []string
	for i, sent := range sentences {
		if sims[i] >= similarityThreshold {
			kept = append(kept, sent)
		}
	}
	if len(kept) == 0 {
		kept = topHalf(sentences, sims)
	}

	return strings.Join(kept, " "), stat.Mean(sims, nil)
}

// Score 文档噪声分 = 1 - 整体相关度
func (s *Scorer) Score(text string) float64 {
	_, relevance := s.FilterRelevant(text)
	score := 1.0 - relevance
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// tfidfVectors 对语料计算 L2 归一化的 TF-IDF 向量。
// 词表为空（例如全是停用词）时返回 ok=false。
func tfidfVectors(docs [][]string) ([][]float64, bool) {
	vocab := map[string]int{}
	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, t := range doc {
			if _, exists := vocab[t]; !exists {
				vocab[t] = len(vocab)
			}
			if !seen[t] {
				df[t]++
				seen[t] = true
			}
		}
	}
	if len(vocab) == 0 {
		return nil, false
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for t, idx := range vocab {
		idf[idx] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vecs := make([][]float64, len(docs))
	for i, doc := range docs {
		vec := make([]float64, len(vocab))
		for _, t := range doc {
			vec[vocab[t]] += 1
		}
		for j := range vec {
			vec[j] *= idf[j]
		}
		if norm := floats.Norm(vec, 2); norm > 0 {
			floats.Scale(1/norm, vec)
		}
		vecs[i] = vec
	}
	return vecs, true
}

// topHalf 按相似度降序取前一半句子，至少保留一句，输出保持原文顺序
func topHalf(sentences []string, sims []float64) []string {
	k := len(sentences) / 2
	if k < 1 {
		k = 1
	}
	// 找出相似度第 k 高的门槛值
	sorted := append([]float64(nil), sims...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	cutoff := sorted[k-1]

	var kept []string
	for i, sent := range sentences {
		if sims[i] >= cutoff && len(kept) < k {
			kept = append(kept, sent)
		}
	}
	return kept
}
