package advisory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseResult 从模型输出中解析评估结果。
// 分值超出 0-100 的输出按无效处理，不做静默截断。
func ParseResult(rawText string) (*Result, error) {
	jsonText := extractJSONObject(rawText)
	if strings.TrimSpace(jsonText) == "" {
		return nil, fmt.Errorf("empty advisory output")
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, fmt.Errorf("failed to parse advisory json: %w", err)
	}
	if result.Score < 0 || result.Score > 100 {
		return nil, fmt.Errorf("advisory score out of range: %.2f", result.Score)
	}
	return &result, nil
}

// extractJSONObject 尝试从一段可能包含"前后缀噪音"的文本中提取顶层 JSON 对象。
// 约定：若无法确认 JSON 有效性，则回退为原始输入（trim 后）。
func extractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		if d, ok := tok.(json.Delim); ok && d == '{' {
			return raw
		}
	}

	dec = json.NewDecoder(strings.NewReader(raw))
	for {
		_, e := dec.Token()
		if e != nil {
			if errors.Is(e, io.EOF) {
				break
			}
			return strings.TrimSpace(s)
		}
	}
	return raw
}
