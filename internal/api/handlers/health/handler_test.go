package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/wb-go/wbf/ginext"
)

type fakeTools []string

func (f fakeTools) Missing() []string { return f }

func check(t *testing.T, tools fakeTools) (int, Status) {
	t.Helper()

	r := ginext.New()
	r.GET("/healthz", NewHandler(tools).Check)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, st
}

func TestCheck(t *testing.T) {
	code, st := check(t, nil)
	if code != http.StatusOK || st.Status != "ok" || len(st.Missing) != 0 {
		t.Fatalf("got %d %+v", code, st)
	}

	code, st = check(t, fakeTools{"ffprobe"})
	if code != http.StatusServiceUnavailable || st.Status != "unavailable" || !slices.Equal(st.Missing, []string{"ffprobe"}) {
		t.Fatalf("got %d %+v", code, st)
	}
}
