package openaiEmbedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBatchEmbedding_OrdersAndNormalizes(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"m","data":[
			{"object":"embedding","index":1,"embedding":[0,2]},
			{"object":"embedding","index":0,"embedding":[3,4]}
		]}`))
	}))
	defer srv.Close()

	e, err := New(Config{BaseURL: srv.URL + "/v1", APIKey: "k", Model: "all-MiniLM-L6-v2"})
	if err != nil {
		t.Fatal(err)
	}

	vectors, err := e.BatchEmbedding(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("BatchEmbedding failed: %v", err)
	}
	if gotModel != "all-MiniLM-L6-v2" {
		t.Errorf("model got %q", gotModel)
	}
	if math.Abs(float64(vectors[0][0])-0.6) > 1e-6 || vectors[1][1] != 1 {
		t.Errorf("unexpected vectors %v", vectors)
	}
}

func TestBatchEmbedding_RejectsBlank(t *testing.T) {
	e, _ := New(Config{BaseURL: "http://127.0.0.1:1/v1", Model: "m"})
	if _, err := e.GetEmbedding(context.Background(), " "); err == nil {
		t.Error("expected error for blank input")
	}
}
