package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"genassist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates_StepCounts(t *testing.T) {
	table, err := DefaultTemplates()
	require.NoError(t, err)

	cases := map[models.Intent]int{
		models.IntentHROnboarding:    5,
		models.IntentITTicket:        4,
		models.IntentFinanceExpense:  4,
		models.IntentMeetingSchedule: 4,
		models.IntentHROffboarding:   2,
		models.IntentGeneralQuery:    2,
	}
	for in, n := range cases {
		r, err := table.Render(in, nil)
		require.NoError(t, err)
		assert.Len(t, r.Steps, n, in)
	}
}

func TestRender_SlotsAndPlaceholders(t *testing.T) {
	table, err := DefaultTemplates()
	require.NoError(t, err)

	r, err := table.Render(models.IntentHROnboarding, nil)
	require.NoError(t, err)
	assert.Equal(t, "Employee Onboarding - New Employee", r.Title)
	assert.Equal(t, "Setting up accounts, scheduling orientation, and preparing workspace for new role.", r.Description)

	r, err = table.Render(models.IntentFinanceExpense, models.Entities{
		"amount":      models.StringValue("$45.50"),
		"description": models.StringValue("client lunch"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Expense Report - client lunch", r.Title)
	assert.Equal(t, "Processing expense report for $45.50.", r.Description)

	r, err = table.Render(models.IntentITTicket, models.Entities{"issue_type": models.StringValue(" ")})
	require.NoError(t, err)
	assert.Equal(t, "IT Support Ticket - Technical Issue", r.Title)

	r, err = table.Render(models.IntentITPasswordReset, nil)
	require.NoError(t, err)
	assert.Equal(t, "Workflow - IT_Password_Reset", r.Title)
	assert.Equal(t, "Processing workflow request.", r.Description)
}

func TestLoadTemplates_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `
templates:
  IT_Password_Reset:
    title: 'Password Reset - {{.Slot "system" "Account"}}'
    description: 'Resetting credentials.'
    steps: [Verify identity, Reset password]
default:
  title: 'Request - {{.Intent}}'
  description: 'Generic.'
  steps: [Handle]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.True(t, table.Has(models.IntentITPasswordReset))
	assert.False(t, table.Has(models.IntentHROnboarding))

	r, err := table.Render(models.IntentITPasswordReset, models.Entities{"system": models.StringValue("VPN")})
	require.NoError(t, err)
	assert.Equal(t, "Password Reset - VPN", r.Title)
	assert.Len(t, r.Steps, 2)

	r, err = table.Render(models.IntentHROnboarding, nil)
	require.NoError(t, err)
	assert.Equal(t, "Request - HR_Onboarding", r.Title)
}

func TestParseTemplates_Invalid(t *testing.T) {
	_, err := ParseTemplates([]byte("templates: {}"))
	assert.Error(t, err)

	_, err = ParseTemplates([]byte(`
templates:
  IT_Ticket:
    title: '{{.Slot "x"'
    steps: [a]
default:
  title: d
  steps: [a]
`))
	assert.Error(t, err)
}
