package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EntityKind 实体值类型
type EntityKind string

const (
	EntityString EntityKind = "string"
	EntityNumber EntityKind = "number"
	EntityDate   EntityKind = "date"
	EntityMap    EntityKind = "map"
)

// dateOnlyLayout 仅日期格式
const dateOnlyLayout = "2006-01-02"

// EntityValue 从指令中提取的实体值，只能是字符串、数字、日期或嵌套映射之一
type EntityValue struct {
	Kind   EntityKind
	Str    string
	Num    float64
	Time   time.Time
	Nested Entities
}

// Entities 实体名到实体值的映射
type Entities map[string]EntityValue

// StringValue 构造字符串实体
func StringValue(s string) EntityValue { return EntityValue{Kind: EntityString, Str: s} }

// NumberValue 构造数字实体
func NumberValue(n float64) EntityValue { return EntityValue{Kind: EntityNumber, Num: n} }

// DateValue 构造日期实体
func DateValue(t time.Time) EntityValue { return EntityValue{Kind: EntityDate, Time: t.UTC()} }

// MapValue 构造嵌套实体
func MapValue(m Entities) EntityValue { return EntityValue{Kind: EntityMap, Nested: m} }

// String 返回实体的展示文本
func (v EntityValue) String() string {
	switch v.Kind {
	case EntityString:
		return v.Str
	case EntityNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case EntityDate:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format(dateOnlyLayout)
		}
		return v.Time.Format(time.RFC3339)
	case EntityMap:
		keys := v.Nested.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+v.Nested[k].String())
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// IsZero 判断实体是否为空值
func (v EntityValue) IsZero() bool {
	switch v.Kind {
	case EntityString:
		return strings.TrimSpace(v.Str) == ""
	case EntityDate:
		return v.Time.IsZero()
	case EntityMap:
		return len(v.Nested) == 0
	case EntityNumber:
		return false
	default:
		return true
	}
}

// Equal 深比较
func (v EntityValue) Equal(o EntityValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case EntityString:
		return v.Str == o.Str
	case EntityNumber:
		return v.Num == o.Num
	case EntityDate:
		return v.Time.Equal(o.Time)
	case EntityMap:
		return v.Nested.Equal(o.Nested)
	}
	return true
}

// MarshalJSON 以自然 JSON 形式输出
func (v EntityValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case EntityString:
		return json.Marshal(v.Str)
	case EntityNumber:
		return json.Marshal(v.Num)
	case EntityDate:
		return json.Marshal(v.String())
	case EntityMap:
		if v.Nested == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Nested)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON 从自然 JSON 解析实体值
func (v *EntityValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, ok := FromAny(raw)
	if !ok {
		return fmt.Errorf("不支持的实体值: %s", string(data))
	}
	*v = val
	return nil
}

// FromAny 将任意 JSON 解码结果转换为实体值，字符串保持字符串
// 布尔值转为字符串，数组按逗号拼接，null 返回 false
func FromAny(raw any) (EntityValue, bool) {
	return fromAny(raw, false)
}

func fromAny(raw any, detectDates bool) (EntityValue, bool) {
	switch x := raw.(type) {
	case nil:
		return EntityValue{}, false
	case string:
		if detectDates {
			if t, ok := ParseDate(x); ok {
				return DateValue(t), true
			}
		}
		return StringValue(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return StringValue(x.String()), true
		}
		return NumberValue(f), true
	case float64:
		return NumberValue(x), true
	case int:
		return NumberValue(float64(x)), true
	case int64:
		return NumberValue(float64(x)), true
	case bool:
		return StringValue(strconv.FormatBool(x)), true
	case time.Time:
		return DateValue(x), true
	case map[string]any:
		nested := make(Entities, len(x))
		for k, item := range x {
			if ev, ok := fromAny(item, detectDates); ok {
				nested[k] = ev
			}
		}
		return MapValue(nested), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if ev, ok := fromAny(item, false); ok && !ev.IsZero() {
				parts = append(parts, ev.String())
			}
		}
		return StringValue(strings.Join(parts, ", ")), true
	default:
		return StringValue(fmt.Sprint(x)), true
	}
}

// ParseDate 解析 RFC3339 或 YYYY-MM-DD 格式日期
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Keys 返回排序后的键
func (e Entities) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get 返回实体的字符串形式，不存在或为空时返回 false
func (e Entities) Get(name string) (string, bool) {
	v, ok := e[name]
	if !ok || v.IsZero() {
		return "", false
	}
	return v.String(), true
}

// Clone 深拷贝
func (e Entities) Clone() Entities {
	if e == nil {
		return nil
	}
	out := make(Entities, len(e))
	for k, v := range e {
		if v.Kind == EntityMap {
			v.Nested = v.Nested.Clone()
		}
		out[k] = v
	}
	return out
}

// Equal 深比较
func (e Entities) Equal(o Entities) bool {
	if len(e) != len(o) {
		return false
	}
	for k, v := range e {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// FromMap 从模型输出构造实体集合，日期形式的字符串识别为日期，无法表示的值被忽略
func FromMap(m map[string]any) Entities {
	out := make(Entities, len(m))
	for k, raw := range m {
		if ev, ok := fromAny(raw, true); ok {
			out[k] = ev
		}
	}
	return out
}
