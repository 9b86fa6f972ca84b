package intent

import (
	"strconv"

	"genassist/internal/models"

	"go.uber.org/zap"
)

// Slot 意图声明的实体槽位
type Slot struct {
	Name string
	Kind models.EntityKind
	// DateOrText 日期槽位同时接受 "Monday" 这类无法解析为日期的描述
	DateOrText bool
}

func text(name string) Slot { return Slot{Name: name, Kind: models.EntityString} }
func date(name string) Slot { return Slot{Name: name, Kind: models.EntityDate, DateOrText: true} }

var slotSchema = map[models.Intent][]Slot{
	models.IntentHROnboarding:    {text("employee_name"), text("role"), date("start_date"), text("department")},
	models.IntentHROffboarding:   {text("employee_name"), date("end_date")},
	models.IntentITTicket:        {text("issue_type"), text("priority"), text("description")},
	models.IntentITPasswordReset: {text("system"), text("username")},
	models.IntentFinanceExpense:  {text("amount"), text("category"), text("description")},
	models.IntentFinanceApproval: {text("amount"), text("request_id"), text("approver")},
	models.IntentMeetingSchedule: {date("date"), text("time"), text("attendees"), text("subject")},
	models.IntentGeneralQuery:    {},
}

// Slots 返回意图声明的槽位
func Slots(intent models.Intent) []Slot {
	return slotSchema[intent]
}

// ValidateEntities 按槽位声明转换实体类型
// 无法转换的声明槽位会被丢弃并记录警告，未声明的键原样保留
func ValidateEntities(intent models.Intent, raw models.Entities, zl *zap.Logger) models.Entities {
	out := make(models.Entities, len(raw))
	declared := make(map[string]Slot)
	for _, s := range slotSchema[intent] {
		declared[s.Name] = s
	}

	for key, value := range raw {
		if value.IsZero() {
			continue
		}
		slot, ok := declared[key]
		if !ok {
			out[key] = value
			continue
		}
		coerced, ok := coerce(slot, value)
		if !ok {
			zl.Warn("实体类型不匹配，已丢弃",
				zap.String("intent", string(intent)),
				zap.String("slot", key),
				zap.String("kind", string(value.Kind)),
			)
			continue
		}
		out[key] = coerced
	}
	return out
}

func coerce(slot Slot, v models.EntityValue) (models.EntityValue, bool) {
	switch slot.Kind {
	case models.EntityString:
		switch v.Kind {
		case models.EntityString:
			return v, true
		case models.EntityNumber:
			return models.StringValue(strconv.FormatFloat(v.Num, 'f', -1, 64)), true
		case models.EntityDate:
			return models.StringValue(v.String()), true
		}
	case models.EntityDate:
		switch v.Kind {
		case models.EntityDate:
			return v, true
		case models.EntityString:
			if t, ok := models.ParseDate(v.Str); ok {
				return models.DateValue(t), true
			}
			if slot.DateOrText {
				return v, true
			}
		}
	case models.EntityNumber:
		switch v.Kind {
		case models.EntityNumber:
			return v, true
		case models.EntityString:
			if n, err := strconv.ParseFloat(v.Str, 64); err == nil {
				return models.NumberValue(n), true
			}
		}
	}
	return models.EntityValue{}, false
}
