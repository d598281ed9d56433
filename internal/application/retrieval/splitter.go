package retrieval

import "strings"

// splitByRunes 把判决书全文切成带重叠的定长分块。
// 按 rune 计数，中文判例文本不会在多字节字符中间截断。
func splitByRunes(s string, maxRunes, overlapRunes int) []string {
	text := strings.TrimSpace(s)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []string{text}
	}

	step := maxRunes
	if overlapRunes > 0 && overlapRunes < maxRunes {
		step = maxRunes - overlapRunes
	}

	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; ; start += step {
		end := min(start+maxRunes, len(runes))
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			return chunks
		}
	}
}
