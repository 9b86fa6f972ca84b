// Package intent 将自然语言指令映射为意图、领域与实体
//
// 主路径调用一次语言模型；模型不可用、出错或返回无法解析的内容时，
// 退回到基于关键字与正则的本地规则，调用方永远拿到一个结果。
package intent

import "genassist/internal/models"

// Source 分类结果来源
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
	SourceCache    Source = "cache"
)

// Result 分类结果
type Result struct {
	Intent     models.Intent   `json:"intent"`
	Domain     models.Domain   `json:"domain"`
	Entities   models.Entities `json:"entities"`
	Confidence float64         `json:"confidence"`
	Source     Source          `json:"source"`
}

// Clone 深拷贝
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Entities = r.Entities.Clone()
	if out.Entities == nil {
		out.Entities = models.Entities{}
	}
	return &out
}
