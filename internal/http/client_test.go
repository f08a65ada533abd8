package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

const snapshotURL = "https://web.archive.org/web/20200101000000/http://example.com/a"

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()

	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
	if c.UserAgent() != DefaultUserAgent {
		t.Errorf("user agent = %q, want %q", c.UserAgent(), DefaultUserAgent)
	}
}

func TestNewClient_Options(t *testing.T) {
	c := NewClient(WithTimeout(3*time.Second), WithUserAgent("custom/1.0"), WithUserAgent(""))

	if c.httpClient.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", c.httpClient.Timeout)
	}
	if c.UserAgent() != "custom/1.0" {
		t.Errorf("empty user agent option should be ignored, got %q", c.UserAgent())
	}
}

func TestGet_SendsUserAgentAndReturnsBody(t *testing.T) {
	transport := httpmock.NewMockTransport()
	var gotUA string
	transport.RegisterResponder("GET", snapshotURL, func(req *http.Request) (*http.Response, error) {
		gotUA = req.Header.Get("User-Agent")
		return httpmock.NewStringResponse(http.StatusOK, "<html>archived</html>"), nil
	})

	c := NewClient(WithTransport(transport))
	body, err := c.Get(context.Background(), snapshotURL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "<html>archived</html>" {
		t.Errorf("body = %q", body)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
}

func TestGet_Failures(t *testing.T) {
	tests := []struct {
		name       string
		responder  httpmock.Responder
		wantStatus int
	}{
		{
			name:       "not found",
			responder:  httpmock.NewStringResponder(http.StatusNotFound, "missing"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			responder:  httpmock.NewStringResponder(http.StatusBadGateway, ""),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "connection reset",
			responder:  httpmock.NewErrorResponder(errors.New("connection reset by peer")),
			wantStatus: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", snapshotURL, tt.responder)

			c := NewClient(WithTransport(transport))
			body, err := c.Fetch(context.Background(), snapshotURL)
			if err == nil {
				t.Fatalf("Fetch() returned body %q, want error", body)
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("error %T is not *FetchError", err)
			}
			if fetchErr.URL != snapshotURL {
				t.Errorf("URL = %q, want %q", fetchErr.URL, snapshotURL)
			}
			if fetchErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, tt.wantStatus)
			}
		})
	}
}
