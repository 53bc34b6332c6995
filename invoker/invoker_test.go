package invoker

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockInvokerReplaysScriptedResultsAndRecordsCalls(t *testing.T) {
	m := NewMockInvoker(
		MockResult{Response: &Response{StatusCode: 200, Body: "tok-abc"}},
		MockResult{Response: &Response{StatusCode: 404}},
	)

	resp, err := m.Invoke(context.Background(), Request{Target: Target{OperationID: "login"}})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = m.Invoke(context.Background(), Request{Target: Target{OperationID: "getPets"}})
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, "login", m.Calls()[0].Target.OperationID)
	assert.Equal(t, "getPets", m.Calls()[1].Target.OperationID)
}

func TestMockInvokerRepeatsLastResultWhenExhausted(t *testing.T) {
	m := NewMockInvoker(MockResult{Response: &Response{StatusCode: 503}})

	for i := 0; i < 3; i++ {
		resp, err := m.Invoke(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
	}
	assert.Equal(t, 3, m.CallCount())
}

type staticResolver struct {
	method, url string
}

func (s staticResolver) Resolve(Target) (string, string, error) {
	return s.method, s.url, nil
}

func TestApplyPathAndQueryParams(t *testing.T) {
	resolved, err := applyPathAndQueryParams("https://api.example.com/pets/{petId}", map[ParamLocation][]Param{
		ParamPath:  {{Name: "petId", Value: 7}},
		ParamQuery: {{Name: "limit", Value: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/pets/7?limit=10", resolved)
}

func TestHTTPInvokerDefaults(t *testing.T) {
	h := NewHTTPInvoker(staticResolver{method: http.MethodGet, url: "https://x/y"})
	assert.Equal(t, uint(2), h.MaxRetries)
	assert.NotNil(t, h.Client)
}
