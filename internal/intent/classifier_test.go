package intent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"genassist/internal/models"
	"genassist/pkg/aiinterface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeModel struct {
	content string
	err     error
	calls   int
	lastReq *aiinterface.ChatCompletionRequest
}

func (f *fakeModel) ChatCompletion(ctx context.Context, req *aiinterface.ChatCompletionRequest) (*aiinterface.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &aiinterface.ChatCompletionResponse{Content: f.content}, nil
}

func (f *fakeModel) Name() string { return "fake" }
func (f *fakeModel) Close() error { return nil }

type memoryCache struct {
	mu    sync.Mutex
	items map[string]*Result
}

func newMemoryCache() *memoryCache { return &memoryCache{items: map[string]*Result{}} }

func (m *memoryCache) Get(ctx context.Context, text string) (*Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[CacheKey(text)]
	if !ok {
		return nil, false, nil
	}
	return r.Clone(), true, nil
}

func (m *memoryCache) Set(ctx context.Context, text string, r *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[CacheKey(text)] = r.Clone()
	return nil
}

func TestClassify_NoClientUsesFallback(t *testing.T) {
	c := NewClassifier(nil, WithLogger(zaptest.NewLogger(t)))
	r, err := c.Classify(context.Background(), "Onboard John Doe as Senior Developer")
	require.NoError(t, err)
	assert.Equal(t, models.IntentHROnboarding, r.Intent)
	assert.Equal(t, SourceFallback, r.Source)
}

func TestClassify_ModelResult(t *testing.T) {
	model := &fakeModel{content: "```json\n" + `{
		"intent": "HR_Onboarding",
		"entities": {"employee_name": "John Doe", "role": "Developer", "start_date": "2026-05-04", "badge": 42},
		"confidence": 0.95,
		"domain": "HR"
	}` + "\n```"}
	c := NewClassifier(model, WithLogger(zaptest.NewLogger(t)))

	r, err := c.Classify(context.Background(), "Onboard John Doe as Developer")
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, SourceLLM, r.Source)
	assert.Equal(t, models.IntentHROnboarding, r.Intent)
	assert.Equal(t, models.DomainHR, r.Domain)
	assert.InDelta(t, 0.95, r.Confidence, 1e-9)
	assert.Equal(t, models.EntityDate, r.Entities["start_date"].Kind)
	// 未声明的键保留
	assert.Equal(t, models.EntityNumber, r.Entities["badge"].Kind)

	req := model.lastReq
	require.NotNil(t, req)
	assert.Equal(t, 0.1, req.Temperature)
	assert.Equal(t, 500, req.MaxTokens)
	assert.Equal(t, 0.9, req.TopP)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "Onboard John Doe as Developer")
}

func TestClassify_NormalizesModelOutput(t *testing.T) {
	model := &fakeModel{content: `{"intent": "Payroll_Run", "entities": {}, "confidence": 3, "domain": "Sales"}`}
	c := NewClassifier(model)

	r, err := c.Classify(context.Background(), "run payroll")
	require.NoError(t, err)
	assert.Equal(t, models.IntentGeneralQuery, r.Intent)
	assert.Equal(t, models.DomainGeneral, r.Domain)
	assert.Equal(t, 1.0, r.Confidence)

	model.content = `{"intent": "IT_Password_Reset", "confidence": "0.7"}`
	r, err = c.Classify(context.Background(), "reset my password")
	require.NoError(t, err)
	assert.Equal(t, models.IntentITPasswordReset, r.Intent)
	assert.Equal(t, models.DomainIT, r.Domain)
	assert.InDelta(t, 0.7, r.Confidence, 1e-9)
}

func TestClassify_ModelFailureFallsBack(t *testing.T) {
	cases := map[string]*fakeModel{
		"api error": {err: &aiinterface.ClientError{Type: aiinterface.ErrorTypeRateLimit, Message: "429"}},
		"network":   {err: errors.New("dial tcp: connection refused")},
		"bad json":  {content: "I think this is about onboarding."},
		"empty":     {content: "   "},
	}
	for name, model := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewClassifier(model, WithLogger(zaptest.NewLogger(t)))
			r, err := c.Classify(context.Background(), "Onboard John Doe as Senior Developer")
			require.NoError(t, err)
			assert.Equal(t, 1, model.calls, "no retry")
			assert.Equal(t, SourceFallback, r.Source)
			assert.Equal(t, models.IntentHROnboarding, r.Intent)
			employee, _ := r.Entities.Get("employee_name")
			assert.Equal(t, "John Doe", employee)
		})
	}
}

func TestClassify_CachesModelResults(t *testing.T) {
	model := &fakeModel{content: `{"intent": "IT_Ticket", "entities": {"priority": "High"}, "confidence": 0.9, "domain": "IT"}`}
	cache := newMemoryCache()
	c := NewClassifier(model, WithCache(cache))

	first, err := c.Classify(context.Background(), "My laptop is broken")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, first.Source)

	second, err := c.Classify(context.Background(), "  my LAPTOP is   broken ")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, models.IntentITTicket, second.Intent)
	assert.Equal(t, 1, model.calls)
}

func TestClassify_FallbackNotCached(t *testing.T) {
	model := &fakeModel{err: errors.New("down")}
	cache := newMemoryCache()
	c := NewClassifier(model, WithCache(cache))

	_, err := c.Classify(context.Background(), "file a bug")
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "file a bug")
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls)
	assert.Empty(t, cache.items)
}

func TestRepairJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, RepairJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, RepairJSON("Sure! Here it is: {\"a\":1} Hope that helps."))
	assert.Equal(t, `{"a":1}`, RepairJSON("  {\"a\":1}  "))
}
