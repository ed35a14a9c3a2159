package ars

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"translator/pkg/common"
)

func TestClientSubmit(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody QuerySubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode submission: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "data": "q-abc"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	id, err := client.Submit(context.Background(), QuerySubmission{
		Type:      "drug",
		Curie:     "MONDO:0005277",
		Direction: "increased",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "q-abc" {
		t.Fatalf("got query id %q, want q-abc", id)
	}
	if gotMethod != http.MethodPost || gotPath != "/query" {
		t.Fatalf("got %s %s, want POST /query", gotMethod, gotPath)
	}
	if gotBody.Curie != "MONDO:0005277" || gotBody.Type != "drug" {
		t.Fatalf("unexpected submission payload: %+v", gotBody)
	}
}

func TestClientSubmitEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "data": ""})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Submit(context.Background(), QuerySubmission{}); err == nil {
		t.Fatal("empty submission id should be an error")
	}
}

func TestClientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query/q1/status" {
			t.Errorf("got path %s, want /query/q1/status", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": common.StatusRunning,
			"data": map[string]any{
				"aras":      []string{"ara-1", "ara-2"},
				"timestamp": "2024-06-01T00:00:00Z",
			},
		})
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).Status(context.Background(), "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != common.StatusRunning {
		t.Fatalf("got status %q, want %q", status.Status, common.StatusRunning)
	}
	if len(status.Data.ARAs) != 2 {
		t.Fatalf("got %d aras, want 2", len(status.Data.ARAs))
	}
}

func TestClientResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query/q1/result" {
			t.Errorf("got path %s, want /query/q1/result", r.URL.Path)
		}
		json.NewEncoder(w).Encode(common.ResultSet{
			Status: common.StatusSuccess,
			Data: common.ResultSetData{
				Results: []common.Result{{ID: "r1"}},
			},
		})
	}))
	defer srv.Close()

	set, err := NewClient(srv.URL).Result(context.Background(), "q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Status != common.StatusSuccess || len(set.Data.Results) != 1 {
		t.Fatalf("unexpected result payload: %+v", set)
	}
}

func TestClientErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "query not found", http.StatusNotFound)
			},
			want: "unexpected status 404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			want: "failed to decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL).Status(context.Background(), "q1")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got error %q, want it to contain %q", err, tt.want)
			}
		})
	}
}
