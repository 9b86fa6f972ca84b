package intent

import (
	"testing"
	"time"

	"genassist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback_GeneralQueryWhenNoKeyword(t *testing.T) {
	inputs := []string{
		"What is the weather like",
		"Tell me a joke",
		"How many vacation days do I have left?",
		"Remind me about lunch",
	}
	for _, in := range inputs {
		r := Fallback(in)
		assert.Equal(t, models.IntentGeneralQuery, r.Intent, in)
		assert.Equal(t, models.DomainGeneral, r.Domain, in)
		assert.Equal(t, 0.5, r.Confidence, in)
		assert.Empty(t, r.Entities, in)
		assert.NotNil(t, r.Entities, in)
		assert.Equal(t, SourceFallback, r.Source)
	}
}

func TestFallback_OnboardingExtractsName(t *testing.T) {
	cases := []struct {
		text string
		name string
	}{
		{"Onboard John Doe as Senior Developer", "John Doe"},
		{"please onboard Maria Garcia next week", "Maria Garcia"},
		{"ONBOARD Wei Chen", "Wei Chen"},
		{"We need to onboard Priya Patel, starting Monday", "Priya Patel"},
	}
	for _, tc := range cases {
		r := Fallback(tc.text)
		assert.Equal(t, models.IntentHROnboarding, r.Intent, tc.text)
		assert.Equal(t, models.DomainHR, r.Domain, tc.text)
		assert.Equal(t, 0.8, r.Confidence, tc.text)
		name, ok := r.Entities.Get("employee_name")
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.name, name, tc.text)
	}
}

func TestFallback_OnboardingSlots(t *testing.T) {
	r := Fallback("Onboard John Doe as Senior Developer in the Engineering team starting 2026-04-01")

	role, _ := r.Entities.Get("role")
	assert.Equal(t, "Senior Developer", role)

	dept, _ := r.Entities.Get("department")
	assert.Equal(t, "Engineering", dept)

	start := r.Entities["start_date"]
	assert.Equal(t, models.EntityDate, start.Kind)
	assert.True(t, start.Time.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	r = Fallback("hire Anna Smith as an intern, starts tomorrow")
	role, _ = r.Entities.Get("role")
	assert.Equal(t, "Intern", role)
	day, _ := r.Entities.Get("start_date")
	assert.Equal(t, "Tomorrow", day)
}

func TestFallback_KeywordOrder(t *testing.T) {
	// onboarding 规则先于 ticket
	r := Fallback("open a ticket to onboard the contractor")
	assert.Equal(t, models.IntentHROnboarding, r.Intent)

	r = Fallback("There is a bug in the expense tool")
	assert.Equal(t, models.IntentITTicket, r.Intent)
	assert.Equal(t, models.DomainIT, r.Domain)
}

func TestFallback_TicketSlots(t *testing.T) {
	r := Fallback("Create an urgent ticket for VPN not connecting")
	assert.Equal(t, models.IntentITTicket, r.Intent)

	issue, _ := r.Entities.Get("issue_type")
	assert.Equal(t, "Network Issue", issue)
	priority, _ := r.Entities.Get("priority")
	assert.Equal(t, "High", priority)
	desc, _ := r.Entities.Get("description")
	assert.Equal(t, "VPN not connecting", desc)
}

func TestFallback_ExpenseAmount(t *testing.T) {
	cases := []struct {
		text   string
		amount string
	}{
		{"Submit expense of $45.50 for client lunch", "$45.50"},
		{"reimburse me $1,200 for the flight", "$1200"},
		{"expense 30 dollars taxi", "$30"},
	}
	for _, tc := range cases {
		r := Fallback(tc.text)
		assert.Equal(t, models.IntentFinanceExpense, r.Intent, tc.text)
		assert.Equal(t, models.DomainFinance, r.Domain, tc.text)
		amount, ok := r.Entities.Get("amount")
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.amount, amount, tc.text)
	}

	r := Fallback("Submit expense of $45.50 for client lunch")
	category, _ := r.Entities.Get("category")
	assert.Equal(t, "Meals", category)
	desc, _ := r.Entities.Get("description")
	assert.Equal(t, "client lunch", desc)
}

func TestFallback_Deterministic(t *testing.T) {
	text := "Onboard John Doe as Senior Developer"
	a, b := Fallback(text), Fallback(text)
	assert.Equal(t, a.Intent, b.Intent)
	assert.True(t, a.Entities.Equal(b.Entities))
}

func TestFallback_RoleWordsAreNotAName(t *testing.T) {
	r := Fallback("Onboard Senior Developer")
	require.Equal(t, models.IntentHROnboarding, r.Intent)
	_, ok := r.Entities.Get("employee_name")
	assert.False(t, ok)
	role, ok := r.Entities.Get("role")
	require.True(t, ok)
	assert.Equal(t, "Senior Developer", role)
}
