package intent

import (
	"regexp"
	"strings"

	"genassist/internal/models"
)

// 本地规则的置信度
const (
	fallbackMatchConfidence   = 0.8
	fallbackDefaultConfidence = 0.5
)

type keywordRule struct {
	intent   models.Intent
	keywords []string
}

// 按顺序匹配，先命中者胜出
var fallbackRules = []keywordRule{
	{models.IntentHROnboarding, []string{"onboard", "hire", "new employee", "join"}},
	{models.IntentITTicket, []string{"ticket", "issue", "problem", "bug", "error"}},
	{models.IntentFinanceExpense, []string{"expense", "reimburse", "receipt", "payment"}},
}

// Fallback 基于关键字的本地分类，结果完全由输入决定
func Fallback(text string) *Result {
	lower := strings.ToLower(text)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return &Result{
					Intent:     rule.intent,
					Domain:     rule.intent.Domain(),
					Entities:   extractEntities(rule.intent, text),
					Confidence: fallbackMatchConfidence,
					Source:     SourceFallback,
				}
			}
		}
	}
	return &Result{
		Intent:     models.IntentGeneralQuery,
		Domain:     models.DomainGeneral,
		Entities:   models.Entities{},
		Confidence: fallbackDefaultConfidence,
		Source:     SourceFallback,
	}
}

func extractEntities(intent models.Intent, text string) models.Entities {
	out := models.Entities{}
	set := func(name, value string) {
		if value != "" {
			out[name] = models.StringValue(value)
		}
	}

	switch intent {
	case models.IntentHROnboarding:
		set("employee_name", extractName(text))
		set("role", extractRole(text))
		if v, ok := extractStartDate(text); ok {
			out["start_date"] = v
		}
		set("department", extractDepartment(text))
	case models.IntentITTicket:
		set("issue_type", matchTable(issueTypes, text))
		set("priority", matchTable(priorities, text))
		set("description", extractDescription(text))
	case models.IntentFinanceExpense:
		set("amount", extractAmount(text))
		set("category", matchTable(expenseCategories, text))
		set("description", extractDescription(text))
	}
	return out
}

var (
	capitalizedWord = regexp.MustCompile(`^[A-Z][a-z]+$`)
	trailingPunct   = regexp.MustCompile(`[.,;:!?)"']+$`)
	leadingPunct    = regexp.MustCompile(`^[("']+`)
)

// nameStopWords 指令、岗位等不会出现在人名中的词
var nameStopWords = toSet(
	"onboard", "onboarding", "hire", "hiring", "new", "employee", "join", "joining",
	"please", "welcome", "start", "starting", "starts", "create", "open", "submit", "file",
	"raise", "log", "report", "schedule", "book", "set", "setup", "add", "register", "process",
	"as", "our", "the", "a", "an", "on", "for", "to", "in", "at", "from", "with", "and", "next",
	"team", "department", "dept",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "today", "tomorrow",
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
	"developer", "engineer", "manager", "analyst", "designer", "intern",
	"senior", "junior", "lead", "principal", "staff", "chief", "head",
	"engineering", "sales", "marketing", "finance", "operations", "support", "legal", "product", "design",
)

// extractName 返回第一组相邻且都不是停用词的首字母大写单词
func extractName(text string) string {
	tokens := strings.Fields(text)
	for i := 0; i+1 < len(tokens); i++ {
		first := leadingPunct.ReplaceAllString(tokens[i], "")
		if trailingPunct.MatchString(first) {
			continue
		}
		second := trailingPunct.ReplaceAllString(tokens[i+1], "")
		if isNameWord(first) && isNameWord(second) {
			return first + " " + second
		}
	}
	return ""
}

func isNameWord(w string) bool {
	if !capitalizedWord.MatchString(w) {
		return false
	}
	_, stop := nameStopWords[strings.ToLower(w)]
	return !stop
}

var rolePattern = regexp.MustCompile(`(?i)\b(?:(senior|junior|lead|principal|staff)\s+)?(developer|engineer|manager|analyst|designer|intern)s?\b`)

// extractRole 识别岗位，保留资历前缀，如 "Senior Developer"
func extractRole(text string) string {
	m := rolePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	role := titleWord(m[2])
	if m[1] != "" {
		role = titleWord(m[1]) + " " + role
	}
	return role
}

var (
	isoDatePattern  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	dayWordPattern  = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow)\b`)
	departmentMatch = regexp.MustCompile(`(?i)\b(engineering|sales|marketing|finance|operations|support|legal|product|design|hr|it)\s+(?:team|department|dept)\b`)
)

// extractStartDate ISO 日期优先，否则返回星期或 today/tomorrow
func extractStartDate(text string) (models.EntityValue, bool) {
	if m := isoDatePattern.FindString(text); m != "" {
		if t, ok := models.ParseDate(m); ok {
			return models.DateValue(t), true
		}
	}
	if m := dayWordPattern.FindString(text); m != "" {
		return models.StringValue(titleWord(m)), true
	}
	return models.EntityValue{}, false
}

func extractDepartment(text string) string {
	m := departmentMatch.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	switch d := strings.ToLower(m[1]); d {
	case "hr", "it":
		return strings.ToUpper(d)
	default:
		return titleWord(d)
	}
}

var (
	currencyAmount = regexp.MustCompile(`\$\s?(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)
	bareAmount     = regexp.MustCompile(`\b(\d+(?:\.\d{1,2})?)\b`)
)

// extractAmount 优先取带 $ 的金额，否则取第一个数字，统一输出为 "$N"
func extractAmount(text string) string {
	if m := currencyAmount.FindStringSubmatch(text); m != nil {
		return "$" + strings.ReplaceAll(m[1], ",", "")
	}
	if m := bareAmount.FindStringSubmatch(text); m != nil {
		return "$" + m[1]
	}
	return ""
}

var descriptionPattern = regexp.MustCompile(`(?i).*\b(?:about|regarding|for|with)\s+(.+)$`)

// extractDescription 取最后一个 about/regarding/for/with 之后的内容
func extractDescription(text string) string {
	m := descriptionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	desc := strings.TrimSpace(trailingPunct.ReplaceAllString(m[1], ""))
	if desc == "" || amountOnly.MatchString(desc) {
		return ""
	}
	return desc
}

var amountOnly = regexp.MustCompile(`^\$?\s?\d+(?:,\d{3})*(?:\.\d{1,2})?$`)

type tableEntry struct {
	pattern *regexp.Regexp
	value   string
}

func keywordEntry(value string, keywords ...string) tableEntry {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return tableEntry{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		value:   value,
	}
}

var issueTypes = []tableEntry{
	keywordEntry("Network Issue", "network", "wifi", "wi-fi", "vpn", "internet"),
	keywordEntry("Access Issue", "password", "login", "log in", "locked out", "access", "account"),
	keywordEntry("Email Issue", "email", "outlook", "mailbox"),
	keywordEntry("Hardware Issue", "laptop", "printer", "monitor", "keyboard", "mouse", "hardware"),
	keywordEntry("Software Issue", "software", "install", "application", "app", "crash", "crashes"),
}

var priorities = []tableEntry{
	keywordEntry("High", "urgent", "critical", "asap", "emergency", "high priority"),
	keywordEntry("Low", "low priority", "whenever", "no rush"),
	keywordEntry("Medium", "medium priority", "normal priority"),
}

var expenseCategories = []tableEntry{
	keywordEntry("Travel", "travel", "flight", "hotel", "taxi", "uber", "mileage", "train"),
	keywordEntry("Meals", "lunch", "dinner", "breakfast", "meal", "meals", "food", "coffee"),
	keywordEntry("Office Supplies", "supplies", "stationery", "office"),
	keywordEntry("Software", "software", "subscription", "license"),
	keywordEntry("Equipment", "laptop", "monitor", "equipment", "hardware"),
}

func matchTable(table []tableEntry, text string) string {
	for _, e := range table {
		if e.pattern.MatchString(text) {
			return e.value
		}
	}
	return ""
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	lower := strings.ToLower(w)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func toSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
