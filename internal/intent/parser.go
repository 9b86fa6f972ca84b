package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"genassist/internal/models"
)

// llmPayload 模型返回的 JSON 结构
type llmPayload struct {
	Intent     string         `json:"intent"`
	Entities   map[string]any `json:"entities"`
	Confidence any            `json:"confidence"`
	Domain     string         `json:"domain"`
}

// RepairJSON 去除 Markdown 代码块与对象外的说明文字
func RepairJSON(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") {
		lines := strings.Split(cleaned, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			cleaned = strings.Join(lines, "\n")
		}
	}

	cleaned = strings.TrimSpace(cleaned)
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start > 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

// parseLLMResponse 解析并规范化模型输出
// 未知意图映射为 General_Query，缺失或非法领域按意图推导，置信度截断到 [0,1]
func parseLLMResponse(content string) (*Result, models.Entities, error) {
	cleaned := RepairJSON(content)
	if cleaned == "" {
		return nil, nil, fmt.Errorf("模型返回为空")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.UseNumber()
	var payload llmPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("解析模型输出失败: %w", err)
	}

	intent := models.Intent(strings.TrimSpace(payload.Intent))
	if !intent.Valid() {
		intent = models.IntentGeneralQuery
	}

	domain := models.Domain(strings.TrimSpace(payload.Domain))
	if !domain.Valid() {
		domain = intent.Domain()
	}

	return &Result{
		Intent:     intent,
		Domain:     domain,
		Confidence: parseConfidence(payload.Confidence),
		Source:     SourceLLM,
	}, models.FromMap(payload.Entities), nil
}

// defaultLLMConfidence 模型未给出置信度时使用
const defaultLLMConfidence = 0.5

func parseConfidence(raw any) float64 {
	var c float64
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return defaultLLMConfidence
		}
		c = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return defaultLLMConfidence
		}
		c = f
	default:
		return defaultLLMConfidence
	}

	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
