package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(prompt string) (string, error) {
	return f.text, f.err
}

func TestFeedbackService_Fallbacks(t *testing.T) {
	svc := NewFeedbackService(&fakeGenerator{err: errors.New("upstream down")})

	assert.Equal(t, JournalFallback, svc.JournalFeedback("오늘 발성 연습", "teacher"))
	assert.Equal(t, EvaluationFallback, svc.EvaluationSummary(`[{"acting_skill":4}]`))
}

func TestFeedbackService_PassesThroughText(t *testing.T) {
	svc := NewFeedbackService(&fakeGenerator{text: "좋은 수업이었습니다."})

	assert.Equal(t, "좋은 수업이었습니다.", svc.JournalFeedback("내용", "student"))
	assert.Equal(t, "좋은 수업이었습니다.", svc.EvaluationSummary("{}"))
}

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "generateContent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"generated feedback"}]}}]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	text, err := client.Generate("prompt")
	assert.NoError(t, err)
	assert.Equal(t, "generated feedback", text)
}

func TestClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	_, err := client.Generate("prompt")
	assert.Error(t, err)
}

func TestClient_Generate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	_, err := client.Generate("prompt")
	assert.Error(t, err)
}
