package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// typedValue 带类型标记的实体值，用于持久化与缓存
type typedValue struct {
	Kind   EntityKind            `json:"kind"`
	Str    string                `json:"str,omitempty"`
	Num    float64               `json:"num,omitempty"`
	Time   *time.Time            `json:"time,omitempty"`
	Nested map[string]typedValue `json:"nested,omitempty"`
}

func toTyped(e Entities) map[string]typedValue {
	out := make(map[string]typedValue, len(e))
	for k, v := range e {
		tv := typedValue{Kind: v.Kind}
		switch v.Kind {
		case EntityString:
			tv.Str = v.Str
		case EntityNumber:
			tv.Num = v.Num
		case EntityDate:
			t := v.Time.UTC()
			tv.Time = &t
		case EntityMap:
			tv.Nested = toTyped(v.Nested)
		}
		out[k] = tv
	}
	return out
}

func fromTyped(m map[string]typedValue) (Entities, error) {
	out := make(Entities, len(m))
	for k, tv := range m {
		switch tv.Kind {
		case EntityString:
			out[k] = StringValue(tv.Str)
		case EntityNumber:
			out[k] = NumberValue(tv.Num)
		case EntityDate:
			if tv.Time == nil {
				return nil, fmt.Errorf("实体 %s 缺少日期", k)
			}
			out[k] = DateValue(*tv.Time)
		case EntityMap:
			nested, err := fromTyped(tv.Nested)
			if err != nil {
				return nil, err
			}
			out[k] = MapValue(nested)
		default:
			return nil, fmt.Errorf("实体 %s 类型未知: %q", k, tv.Kind)
		}
	}
	return out, nil
}

// MarshalTyped 以带类型标记的形式序列化，反序列化后各字段与原值相等
func (e Entities) MarshalTyped() ([]byte, error) {
	return json.Marshal(toTyped(e))
}

// UnmarshalTypedEntities 解析 MarshalTyped 的输出
func UnmarshalTypedEntities(data []byte) (Entities, error) {
	var m map[string]typedValue
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return fromTyped(m)
}
