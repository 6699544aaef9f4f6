package ingest

import "strings"

// 默认分块参数，按词计数
const (
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50
)

// Chunk 把文本按词切成带重叠的块。词数不超过 size 时原文原样返回，
// 末块到达文本尾部即停止，不会再产生只含重叠部分的尾巴块。
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
		start = end - overlap
	}
	return chunks
}
