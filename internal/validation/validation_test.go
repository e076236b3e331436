package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type portHolder struct {
	Port    string `validate:"tcpport"`
	AltPort int    `validate:"tcpport"`
}

func TestTCPPort_Valid(t *testing.T) {
	v := New()

	if err := v.Struct(portHolder{Port: "5000", AltPort: 5432}); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestTCPPort_Invalid(t *testing.T) {
	v := New()

	cases := []portHolder{
		{Port: "0", AltPort: 80},
		{Port: "65536", AltPort: 80},
		{Port: "http", AltPort: 80},
		{Port: "80", AltPort: -1},
	}
	for _, c := range cases {
		if err := v.Struct(c); err == nil {
			t.Fatalf("expected validation error for %+v, got nil", c)
		}
	}
}

func TestErrorsToMap_FieldNames(t *testing.T) {
	v := New()

	m := ErrorsToMap(v.Struct(portHolder{Port: "x", AltPort: 1}))
	if _, ok := m["portHolder.Port"]; !ok {
		t.Fatalf("expected portHolder.Port in %v", m)
	}
}

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/survey", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindSurveyAnswers_Object(t *testing.T) {
	c, w := newTestContext(`{"lifestyle":"driver","q10_likelihood":4}`)

	answers, err := BindSurveyAnswers(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := answers["lifestyle"]; got == nil || *got != "driver" {
		t.Fatalf("lifestyle = %v, want driver", got)
	}
	if got := answers["q10_likelihood"]; got == nil || *got != "4" {
		t.Fatalf("q10_likelihood = %v, want 4", got)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("binder should not write on success, got %s", w.Body.String())
	}
}

func TestBindSurveyAnswers_RejectsNonObject(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"text"`, `{"lifestyle":`} {
		c, w := newTestContext(body)

		if _, err := BindSurveyAnswers(c); err == nil {
			t.Fatalf("expected error for body %s", body)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 for body %s", w.Code, body)
		}
		if !strings.Contains(w.Body.String(), MsgInvalidBody) {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	}
}

func TestBindSurveyAnswers_BodyLimit(t *testing.T) {
	prefix, suffix := `{"lifestyle":"`, `"}`
	atLimit := prefix + strings.Repeat("a", MaxBodyBytes-len(prefix)-len(suffix)) + suffix

	c, w := newTestContext(atLimit)
	if _, err := BindSurveyAnswers(c); err != nil {
		t.Fatalf("body at limit rejected: %v (status %d)", err, w.Code)
	}

	c, w = newTestContext(atLimit + " ")
	if _, err := BindSurveyAnswers(c); err == nil {
		t.Fatalf("expected error for body over limit")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	if !strings.Contains(w.Body.String(), MsgBodyTooLarge) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
