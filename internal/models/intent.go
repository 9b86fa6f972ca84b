package models

// Intent 指令意图标签
type Intent string

const (
	IntentHROnboarding    Intent = "HR_Onboarding"
	IntentHROffboarding   Intent = "HR_Offboarding"
	IntentITTicket        Intent = "IT_Ticket"
	IntentITPasswordReset Intent = "IT_Password_Reset"
	IntentFinanceExpense  Intent = "Finance_Expense"
	IntentFinanceApproval Intent = "Finance_Approval"
	IntentMeetingSchedule Intent = "Meeting_Schedule"
	IntentGeneralQuery    Intent = "General_Query"
)

// AllIntents 固定的意图枚举，顺序即提示词中的顺序
var AllIntents = []Intent{
	IntentHROnboarding,
	IntentHROffboarding,
	IntentITTicket,
	IntentITPasswordReset,
	IntentFinanceExpense,
	IntentFinanceApproval,
	IntentMeetingSchedule,
	IntentGeneralQuery,
}

// Valid 是否为已知意图
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

// Domain 返回意图所属部门
func (i Intent) Domain() Domain {
	switch i {
	case IntentHROnboarding, IntentHROffboarding:
		return DomainHR
	case IntentITTicket, IntentITPasswordReset:
		return DomainIT
	case IntentFinanceExpense, IntentFinanceApproval:
		return DomainFinance
	default:
		return DomainGeneral
	}
}

// Domain 部门分类，开放集合
type Domain string

const (
	DomainHR      Domain = "HR"
	DomainIT      Domain = "IT"
	DomainFinance Domain = "Finance"
	DomainGeneral Domain = "General"
)

// Valid 是否为已知部门
func (d Domain) Valid() bool {
	switch d {
	case DomainHR, DomainIT, DomainFinance, DomainGeneral:
		return true
	}
	return false
}
