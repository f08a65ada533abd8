package wayback

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	httpclient "github.com/handiism/noway/internal/http"
)

func newTestIndex(transport *httpmock.MockTransport) *Index {
	return NewIndex(httpclient.NewClient(httpclient.WithTransport(transport)))
}

func TestListSnapshots_ConcreteScenario(t *testing.T) {
	transport := httpmock.NewMockTransport()
	var query map[string]string
	transport.RegisterResponder("GET", DefaultEndpoint, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		query = map[string]string{
			"url":       q.Get("url"),
			"matchType": q.Get("matchType"),
			"filter":    q.Get("filter"),
			"output":    q.Get("output"),
		}
		return httpmock.NewStringResponse(http.StatusOK, `[
			["timestamp","original"],
			["20200101000000","http://example.com/a"],
			["20200601000000","http://example.com/b"]
		]`), nil
	})

	urls, err := newTestIndex(transport).ListSnapshots(context.Background(), "example.com", MatchPrefix)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}

	want := []string{
		"https://web.archive.org/web/20200101000000/http://example.com/a",
		"https://web.archive.org/web/20200601000000/http://example.com/b",
	}
	if !slices.Equal(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}

	wantQuery := map[string]string{
		"url":       "example.com",
		"matchType": "prefix",
		"filter":    "statuscode:200",
		"output":    "json",
	}
	for k, v := range wantQuery {
		if query[k] != v {
			t.Errorf("query %s = %q, want %q", k, query[k], v)
		}
	}
}

func TestListSnapshots_EncodesTarget(t *testing.T) {
	transport := httpmock.NewMockTransport()
	var rawQuery string
	transport.RegisterResponder("GET", DefaultEndpoint, func(req *http.Request) (*http.Response, error) {
		rawQuery = req.URL.RawQuery
		return httpmock.NewStringResponse(http.StatusOK, `[]`), nil
	})

	target := "http://example.com/a b?x=1&y=2"
	if _, err := newTestIndex(transport).ListSnapshots(context.Background(), target, MatchExact); err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if !slices.Contains(strings.Split(rawQuery, "&"), "url=http%3A%2F%2Fexample.com%2Fa+b%3Fx%3D1%26y%3D2") {
		t.Errorf("target not percent-encoded in query %q", rawQuery)
	}
}

func TestListSnapshots_ColumnsLocatedByName(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", DefaultEndpoint, httpmock.NewStringResponder(http.StatusOK, `[
		["urlkey","original","mimetype","timestamp","statuscode"],
		["com,example)/a","http://example.com/a","text/html","20200101000000","200"]
	]`))

	urls, err := newTestIndex(transport).ListSnapshots(context.Background(), "example.com", MatchPrefix)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	want := []string{"https://web.archive.org/web/20200101000000/http://example.com/a"}
	if !slices.Equal(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
}

func TestListSnapshots_ArchiveBaseOption(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://cdx.test/search", httpmock.NewStringResponder(http.StatusOK,
		`[["timestamp","original"],["1999","http://example.com/"]]`))

	ix := NewIndex(
		httpclient.NewClient(httpclient.WithTransport(transport)),
		WithEndpoint("http://cdx.test/search"),
		WithArchiveBase("http://archive.test/"),
	)
	urls, err := ix.ListSnapshots(context.Background(), "example.com", MatchHost)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if want := "http://archive.test/web/1999/http://example.com/"; len(urls) != 1 || urls[0] != want {
		t.Errorf("urls = %v, want [%s]", urls, want)
	}
}

func TestListSnapshots_NoCaptures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "whitespace body", body: "\n"},
		{name: "empty array", body: "[]"},
		{name: "header only", body: `[["timestamp","original"]]`},
		{name: "header only without columns", body: `[["urlkey"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", DefaultEndpoint, httpmock.NewStringResponder(http.StatusOK, tt.body))

			urls, err := newTestIndex(transport).ListSnapshots(context.Background(), "example.com", MatchPrefix)
			if err != nil {
				t.Fatalf("ListSnapshots() error = %v, want nil", err)
			}
			if urls == nil || len(urls) != 0 {
				t.Errorf("urls = %#v, want empty non-nil slice", urls)
			}
		})
	}
}

func TestListSnapshots_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantIs    error
	}{
		{
			name:      "malformed json",
			responder: httpmock.NewStringResponder(http.StatusOK, `[["timestamp","original"],`),
		},
		{
			name:      "not an array of arrays",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"error":"bad"}`),
		},
		{
			name:      "missing timestamp column",
			responder: httpmock.NewStringResponder(http.StatusOK, `[["urlkey","original"],["k","http://example.com/"]]`),
			wantIs:    ErrMissingColumn,
		},
		{
			name:      "missing original column",
			responder: httpmock.NewStringResponder(http.StatusOK, `[["timestamp"],["20200101000000"]]`),
			wantIs:    ErrMissingColumn,
		},
		{
			name:      "short row",
			responder: httpmock.NewStringResponder(http.StatusOK, `[["timestamp","original"],["20200101000000"]]`),
			wantIs:    ErrShortRow,
		},
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(http.StatusBadRequest, "invalid matchType"),
		},
		{
			name:      "network failure",
			responder: httpmock.NewErrorResponder(errors.New("dial tcp: no route to host")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", DefaultEndpoint, tt.responder)

			urls, err := newTestIndex(transport).ListSnapshots(context.Background(), "example.com", "bogus")
			if err == nil {
				t.Fatalf("ListSnapshots() = %v, want error", urls)
			}
			var listingErr *ListingError
			if !errors.As(err, &listingErr) {
				t.Fatalf("error %T is not *ListingError", err)
			}
			if listingErr.Target != "example.com" {
				t.Errorf("Target = %q", listingErr.Target)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v does not wrap %v", err, tt.wantIs)
			}
		})
	}
}

func TestListSnapshots_EmptyTarget(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", DefaultEndpoint, httpmock.NewStringResponder(http.StatusOK, "[]"))

	_, err := newTestIndex(transport).ListSnapshots(context.Background(), "  ", MatchPrefix)
	if !errors.Is(err, ErrEmptyTarget) {
		t.Fatalf("error = %v, want ErrEmptyTarget", err)
	}
	if n := transport.GetTotalCallCount(); n != 0 {
		t.Errorf("made %d requests for an empty target, want 0", n)
	}
}
