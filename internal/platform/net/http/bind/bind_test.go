package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "scheduling/internal/platform/errors"
	"scheduling/internal/platform/testkit"
)

type slotsPayload struct {
	MeetingType string `json:"meeting_type" validate:"required,meeting_ref"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON_Success(t *testing.T) {
	got, err := ParseJSON[slotsPayload](post(`{"meeting_type":"intro-call","date":"2025-06-02"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MeetingType != "intro-call" || got.Date != "2025-06-02" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_EmptyBody(t *testing.T) {
	_, err := ParseJSON[slotsPayload](httptest.NewRequest(http.MethodPost, "/", http.NoBody))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON error, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseJSON_AllowEmptyBody(t *testing.T) {
	type note struct {
		Note string `json:"note"`
	}
	got, err := ParseJSON[note](httptest.NewRequest(http.MethodPost, "/", http.NoBody), JSONOptions{AllowEmptyBody: true})
	if err != nil || got != (note{}) {
		t.Fatalf("got %+v err %v", got, err)
	}
}

func TestParseJSON_DecodeFailures(t *testing.T) {
	for _, body := range []string{
		`{`,
		`{"meeting_type":"intro","date":"2025-06-02","extra":1}`,
		`{"meeting_type":12}`,
	} {
		if _, err := ParseJSON[slotsPayload](post(body)); perr.CodeOf(err) != perr.ErrorCodeJSON {
			t.Fatalf("body %s: expected JSON code, got %v (%v)", body, perr.CodeOf(err), err)
		}
	}
}

func TestParseJSON_UnknownFieldsAllowed(t *testing.T) {
	body := `{"meeting_type":"intro","date":"2025-06-02","extra":1}`
	if _, err := ParseJSON[slotsPayload](post(body), JSONOptions{}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestParseJSON_TrailingData_Seam(t *testing.T) {
	testkit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })
	_, err := ParseJSON[slotsPayload](post(`{"meeting_type":"intro","date":"2025-06-02"}`))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected trailing data error, got %v", err)
	}
}

func TestParseJSON_MaxBytes(t *testing.T) {
	_, err := ParseJSON[slotsPayload](post(`{"meeting_type":"intro","date":"2025-06-02"}`), JSONOptions{MaxBytes: 10})
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected truncated body to fail decode, got %v", err)
	}
}

func TestParseJSON_ValidationCarriesField(t *testing.T) {
	cases := []struct {
		body  string
		field string
		msg   string
	}{
		{`{"date":"2025-06-02"}`, "meeting_type", "meeting_type is a required field"},
		{`{"meeting_type":"Intro Call","date":"2025-06-02"}`, "meeting_type", "meeting_type must be a meeting type id or slug"},
		{`{"meeting_type":"intro","date":"06/02/2025"}`, "date", "date must match 2006-01-02"},
	}
	for _, c := range cases {
		_, err := ParseJSON[slotsPayload](post(c.body))
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("body %s: expected validation error, got %v", c.body, err)
		}
		if e.Field() != c.field || e.Message() != c.msg {
			t.Fatalf("body %s: field %q msg %q", c.body, e.Field(), e.Message())
		}
	}
}

func TestParseJSON_InvalidValidationTarget(t *testing.T) {
	// a non-struct target makes the validator return InvalidValidationError
	_, err := ParseJSON[[]int](post(`[1,2]`))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected JSON code for invalid validation, got %v", err)
	}
}

func TestIsMeetingRef(t *testing.T) {
	ok := []string{"intro", "intro-call", "a1-b2-c3", "3f0c1f8e-5a7d-4c7e-9a57-21a3b8f9c001"}
	bad := []string{"", "Intro", "intro_call", "-intro", "intro-", "a--b", "has space", strings.Repeat("a", 65)}
	for _, s := range ok {
		if !IsMeetingRef(s) {
			t.Fatalf("%q should be a meeting ref", s)
		}
	}
	for _, s := range bad {
		if IsMeetingRef(s) {
			t.Fatalf("%q should not be a meeting ref", s)
		}
	}
}

func TestTagNameFunc(t *testing.T) {
	type tags struct {
		A string `json:"alpha" validate:"required"`
		B string `json:"-" validate:"required"`
	}
	err := Get().Validator.Struct(tags{B: "x"})
	if f, _ := ValidationFieldAndMessage(err); f != "alpha" {
		t.Fatalf("json tag not used: %q", f)
	}
	err = Get().Validator.Struct(tags{A: "x"})
	if f, _ := ValidationFieldAndMessage(err); f != "B" {
		t.Fatalf("dash tag should fall back to field name: %q", f)
	}
}

func TestValidationFieldAndMessage_Generic(t *testing.T) {
	if f, m := ValidationFieldAndMessage(errors.New("x")); f != "" || m != "x" {
		t.Fatalf("generic: %q %q", f, m)
	}
	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil: %q %q", f, m)
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := RegisterValidation("always_no", func(FieldLevel) bool { return false }); err != nil {
		t.Fatalf("register: %v", err)
	}
	type x struct {
		V string `json:"v" validate:"always_no"`
	}
	if err := Get().Validator.Struct(x{V: "a"}); err == nil {
		t.Fatalf("custom tag not applied")
	}
}
