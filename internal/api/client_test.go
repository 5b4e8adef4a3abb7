package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/consensus-export/internal/auth"
)

func testCreds(t *testing.T) *auth.Credentials {
	t.Helper()
	creds, err := auth.NewCredentials("test-key", "test-secret")
	if err != nil {
		t.Fatalf("NewCredentials failed: %v", err)
	}
	return creds
}

// encodeExport produces the base64(gzip(data)) body served by export links.
func encodeExport(t *testing.T, data string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	return payload
}

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com/apigw/api/v1/", testCreds(t))

		if c.BaseURL() != "https://api.example.com/apigw/api/v1" {
			t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
		}
		if c.rest.GetClient().Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.rest.GetClient().Timeout, 30*time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", nil, WithTimeout(5*time.Second))
		if c.rest.GetClient().Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.rest.GetClient().Timeout, 5*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", nil, WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", nil, WithHTTPClient(custom))
		if c.rest.GetClient() != custom {
			t.Error("custom HTTP client not set")
		}
		if c.rest.GetClient().Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want custom client's %v", c.rest.GetClient().Timeout, 10*time.Second)
		}
	})

	t.Run("timeout survives option order", func(t *testing.T) {
		tests := []struct {
			name string
			opts []ClientOption
		}{
			{"timeout first", []ClientOption{WithTimeout(5 * time.Second), WithHTTPClient(&http.Client{})}},
			{"client first", []ClientOption{WithHTTPClient(&http.Client{}), WithTimeout(5 * time.Second)}},
			{"overrides client timeout", []ClientOption{WithTimeout(5 * time.Second), WithHTTPClient(&http.Client{Timeout: time.Minute})}},
		}

		for _, tt := range tests {
			c := NewClient("https://api.example.com", nil, tt.opts...)
			if got := c.rest.GetClient().Timeout; got != 5*time.Second {
				t.Errorf("%s: Timeout = %v, want %v", tt.name, got, 5*time.Second)
			}
		}
	})

	t.Run("custom client without timeout gets default", func(t *testing.T) {
		c := NewClient("https://api.example.com", nil, WithHTTPClient(&http.Client{}))
		if got := c.rest.GetClient().Timeout; got != DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", got, DefaultTimeout)
		}
	})
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{mode: "prod", want: "https://clearconsensus.io/apigw/api/v1"},
		{mode: "metadata", want: "https://metadata.cfvr.io/apigw/api/v1"},
		{mode: "", wantErr: true},
		{mode: "Prod", wantErr: true},
		{mode: "staging", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := BaseURL(tt.mode)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("BaseURL(%q) error = %v, want ErrUnknownMode", tt.mode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BaseURL(%q) unexpected error: %v", tt.mode, err)
			}
			if got != tt.want {
				t.Errorf("BaseURL(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		want := "consensus api error 404: Not Found"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("Error includes short body", func(t *testing.T) {
		err := &APIError{StatusCode: 400, Message: "Bad Request", Body: []byte(`{"error":"bad date"}`)}
		if !strings.Contains(err.Error(), "bad date") {
			t.Errorf("Error() = %q, should contain body", err.Error())
		}
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code int
			want bool
		}{
			{401, true},
			{403, true},
			{400, false},
			{404, false},
			{500, false},
		}
		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsUnauthorized(); got != tt.want {
				t.Errorf("IsUnauthorized() for %d = %v, want %v", tt.code, got, tt.want)
			}
		}
	})
}

func TestListAssets(t *testing.T) {
	t.Run("flattens catalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/apigw/api/v1/assets/list" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/apigw/api/v1/assets/list")
			}
			if r.Header.Get(auth.HeaderAPIKey) != "test-key" {
				t.Errorf("x-api-key = %q, want %q", r.Header.Get(auth.HeaderAPIKey), "test-key")
			}
			if r.Header.Get(auth.HeaderAPIToken) == "" {
				t.Error("x-api-token is empty")
			}
			if !strings.HasPrefix(r.Header.Get("User-Agent"), "consensus-export/") {
				t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
			}
			if got := decodeBody(t, r)["snap_time"]; got != "London 4 PM" {
				t.Errorf("snap_time = %v, want %q", got, "London 4 PM")
			}

			w.Write([]byte(`{"data":{"assets":[
				{"name":"Rates","services":[
					{"name":"IR Vol","subAssets":[
						{"name":"Swaptions","id":"a-1","traceName":"IR_SWAPTION"},
						{"name":"Caps & Floors","id":"a-2","traceName":"IR_CAPFLOOR"}
					]}
				]},
				{"name":"FX","services":[
					{"name":"FX Vol","subAssets":[
						{"name":"Options","id":"a-3","traceName":"FX_OPTION"}
					]}
				]}
			]}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL+"/apigw/api/v1/", testCreds(t))
		assets, err := c.ListAssets(context.Background(), "London 4 PM")
		if err != nil {
			t.Fatalf("ListAssets failed: %v", err)
		}

		if len(assets) != 3 {
			t.Fatalf("len(assets) = %d, want 3", len(assets))
		}
		a := assets[1]
		if a.Name != "Rates" || a.Service != "IR Vol" || a.SubAsset != "Caps & Floors" || a.ID != "a-2" || a.TraceName != "IR_CAPFLOOR" {
			t.Errorf("assets[1] = %+v", a)
		}
		if assets[2].Name != "FX" || assets[2].TraceName != "FX_OPTION" {
			t.Errorf("assets[2] = %+v", assets[2])
		}
	})

	t.Run("unrecognized payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"something":"else"}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		_, err := c.ListAssets(context.Background(), "London 4 PM")
		if !errors.Is(err, ErrUnrecognizedPayload) {
			t.Errorf("error = %v, want ErrUnrecognizedPayload", err)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"invalid token"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		_, err := c.ListAssets(context.Background(), "London 4 PM")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if !apiErr.IsUnauthorized() {
			t.Errorf("StatusCode = %d, want unauthorized", apiErr.StatusCode)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewClient(url, testCreds(t), WithTimeout(time.Second))
		if _, err := c.ListAssets(context.Background(), "London 4 PM"); err == nil {
			t.Error("expected error for closed server")
		}
	})
}

func TestFileHistory(t *testing.T) {
	t.Run("parses table", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/file-history" {
				t.Errorf("path = %q, want /file-history", r.URL.Path)
			}
			payload := decodeBody(t, r)
			if payload["client"] != "ACME" || payload["asset_id"] != "a-1" || payload["file_date"] != "2024-07-31" {
				t.Errorf("payload = %v", payload)
			}
			if limit, _ := payload["limit"].(map[string]any); limit["value"] != float64(100) {
				t.Errorf("limit = %v, want {value: 100}", payload["limit"])
			}
			if payload["offset"] != float64(0) {
				t.Errorf("offset = %v, want 0", payload["offset"])
			}

			w.Write([]byte(`{"data":{
				"columns":[{"columnName":"File Name"},{"columnName":"Uploaded Time"},{"columnName":"Consensus Run Timestamps"}],
				"rows":[
					{"values":["a.csv","2024-07-31 15:02:11.120000",["2024-07-31 16:30:00.000000",null,""]]},
					{"values":["b.csv","2024-07-31 15:40:00.000000","2024-07-31 17:00:00.000000"]},
					{"values":["c.csv","2024-07-31 15:50:00.000000",null]}
				]}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		rows, err := c.FileHistory(context.Background(), FileHistoryRequest{
			Client:   "ACME",
			AssetID:  "a-1",
			FileDate: "2024-07-31",
		})
		if err != nil {
			t.Fatalf("FileHistory failed: %v", err)
		}

		if len(rows) != 3 {
			t.Fatalf("len(rows) = %d, want 3", len(rows))
		}
		if len(rows[0].ConsensusRunTimestamps) != 1 || rows[0].ConsensusRunTimestamps[0] != "2024-07-31 16:30:00.000000" {
			t.Errorf("rows[0].ConsensusRunTimestamps = %v", rows[0].ConsensusRunTimestamps)
		}
		if rows[0].UploadedTime != "2024-07-31 15:02:11.120000" {
			t.Errorf("rows[0].UploadedTime = %q", rows[0].UploadedTime)
		}
		if len(rows[1].ConsensusRunTimestamps) != 1 {
			t.Errorf("rows[1] scalar timestamp not accepted: %v", rows[1].ConsensusRunTimestamps)
		}
		if len(rows[2].ConsensusRunTimestamps) != 0 {
			t.Errorf("rows[2].ConsensusRunTimestamps = %v, want empty", rows[2].ConsensusRunTimestamps)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"columns":[],"rows":[]}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		rows, err := c.FileHistory(context.Background(), FileHistoryRequest{AssetID: "a-1"})
		if err != nil {
			t.Fatalf("FileHistory failed: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("len(rows) = %d, want 0", len(rows))
		}
	})

	t.Run("catalog shape is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"assets":[]}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		_, err := c.FileHistory(context.Background(), FileHistoryRequest{AssetID: "a-1"})
		if !errors.Is(err, ErrUnrecognizedPayload) {
			t.Errorf("error = %v, want ErrUnrecognizedPayload", err)
		}
	})
}

func TestExportLink(t *testing.T) {
	t.Run("returns request url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/export" {
				t.Errorf("path = %q, want /export", r.URL.Path)
			}
			payload := decodeBody(t, r)
			if payload["includeHeader"] != "True" {
				t.Errorf("includeHeader = %v, want %q", payload["includeHeader"], "True")
			}
			if payload["consensus_run_timestamp"] != "2024-07-31 16:30:00.000000" {
				t.Errorf("consensus_run_timestamp = %v", payload["consensus_run_timestamp"])
			}
			if payload["submission_date"] != "2024-07-31 15:02:11.120000" {
				t.Errorf("submission_date = %v", payload["submission_date"])
			}
			w.Write([]byte(`{"data":{"getRequestUrl":"https://files.example.com/x?sig=abc"}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		link, err := c.ExportLink(context.Background(), ExportRequest{
			AssetID:               "a-1",
			ConsensusRunTimestamp: "2024-07-31 16:30:00.000000",
			SubmissionDate:        "2024-07-31 15:02:11.120000",
		})
		if err != nil {
			t.Fatalf("ExportLink failed: %v", err)
		}
		if link != "https://files.example.com/x?sig=abc" {
			t.Errorf("link = %q", link)
		}
	})

	t.Run("missing link", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testCreds(t))
		_, err := c.ExportLink(context.Background(), ExportRequest{AssetID: "a-1"})
		if !errors.Is(err, ErrNoDownloadLink) {
			t.Errorf("error = %v, want ErrNoDownloadLink", err)
		}
	})
}

func TestFetchExport(t *testing.T) {
	const csv = "trade_id,price\n1,0.25\n"

	t.Run("decodes body without api headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("method = %s, want GET", r.Method)
			}
			if r.Header.Get(auth.HeaderAPIKey) != "" {
				t.Errorf("x-api-key should not be sent to export links, got %q", r.Header.Get(auth.HeaderAPIKey))
			}
			if r.URL.Query().Get("sig") != "abc" {
				t.Errorf("sig = %q, want %q", r.URL.Query().Get("sig"), "abc")
			}
			io.WriteString(w, encodeExport(t, csv))
		}))
		defer server.Close()

		c := NewClient("https://api.example.com", testCreds(t))
		data, err := c.FetchExport(context.Background(), server.URL+"/files/x?sig=abc")
		if err != nil {
			t.Fatalf("FetchExport failed: %v", err)
		}
		if string(data) != csv {
			t.Errorf("data = %q, want %q", data, csv)
		}
	})

	t.Run("expired link", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		c := NewClient("https://api.example.com", testCreds(t))
		_, err := c.FetchExport(context.Background(), server.URL)

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
			t.Errorf("error = %v, want 403 APIError", err)
		}
	})
}

func TestDecodeExport(t *testing.T) {
	t.Run("tolerates line breaks", func(t *testing.T) {
		encoded := encodeExport(t, "a,b\n1,2\n")
		wrapped := encoded[:8] + "\n" + encoded[8:] + "\n"

		data, err := DecodeExport([]byte(wrapped))
		if err != nil {
			t.Fatalf("DecodeExport failed: %v", err)
		}
		if string(data) != "a,b\n1,2\n" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		if _, err := DecodeExport([]byte("not base64!!")); err == nil {
			t.Error("expected error for invalid base64")
		}
	})

	t.Run("not gzip", func(t *testing.T) {
		body := base64.StdEncoding.EncodeToString([]byte("plain,csv\n"))
		if _, err := DecodeExport([]byte(body)); err == nil {
			t.Error("expected error for non-gzip payload")
		}
	})
}
