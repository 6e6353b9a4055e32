package oracle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.OracleConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestClassify(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: `{"status": "resolved", "message": "ok", "confidence": 0.9}`}}}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Classify(context.Background(), []byte("fake-image"), "Customer: WM001, Order: ORD007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, `"status": "resolved"`) {
		t.Errorf("unexpected verdict text %q", text)
	}

	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("expected one content with prompt and image parts, got %+v", captured.Contents)
	}
	if !strings.Contains(captured.Contents[0].Parts[0].Text, "Customer: WM001, Order: ORD007") {
		t.Errorf("expected context in prompt, got %q", captured.Contents[0].Parts[0].Text)
	}
	inline := captured.Contents[0].Parts[1].InlineData
	if inline == nil {
		t.Fatal("expected inline image data")
	}
	if inline.Data != base64.StdEncoding.EncodeToString([]byte("fake-image")) {
		t.Errorf("unexpected image payload %q", inline.Data)
	}
}

func TestClassify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), []byte("img"), "ctx")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestClassify_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Classify(context.Background(), []byte("img"), "ctx")
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("expected no-candidates error, got %v", err)
	}
}
