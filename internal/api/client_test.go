// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chatlore/chatlore-tui/internal/model"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClientWithConfig(&ClientConfig{
		BaseURL:           srv.URL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	})
	return client, srv
}

func TestProcessChat(t *testing.T) {
	var gotPath string
	var gotBody ProcessChatRequest
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ProcessChatResponse{
			Messages: []Message{
				{Timestamp: "2025-03-14T09:26:53Z", Sender: "alice", Content: "hello", MessageType: "text"},
			},
			TotalMessages: 1,
			Statistics:    json.RawMessage(`{"senders":["alice"]}`),
		})
	}))
	defer srv.Close()

	resp, err := client.ProcessChat(context.Background(), "[14/3/2025, 9:26:53 AM] alice: hello")
	if err != nil {
		t.Fatalf("ProcessChat: %v", err)
	}
	if gotPath != "/api/chat/process" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.ChatText == "" {
		t.Error("chat_text not sent")
	}
	if resp.TotalMessages != 1 || len(resp.Messages) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Messages[0].Sender != "alice" {
		t.Errorf("sender = %q", resp.Messages[0].Sender)
	}
	if len(resp.Statistics) == 0 {
		t.Error("statistics not preserved")
	}
}

func TestAnalyzeSecurity(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/security/analyze" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(AnalyzeResponse{
			SecurityScore: 67,
			TotalFindings: 2,
			Findings: []WireFinding{
				{Type: "phishing_link", RiskLevel: "high"},
				{Type: "location_share", RiskLevel: "low"},
			},
			RiskLevels:      RiskLevelCounts{High: 1, Low: 1},
			Recommendations: []WireRecommendation{{Title: "Be careful with links"}},
		})
	}))
	defer srv.Close()

	resp, err := client.AnalyzeSecurity(context.Background(), nil)
	if err != nil {
		t.Fatalf("AnalyzeSecurity: %v", err)
	}
	if resp.SecurityScore != 67 {
		t.Errorf("score = %d", resp.SecurityScore)
	}

	a := resp.ToModel("chat-1")
	if a.ChatID != "chat-1" || a.SecurityScore != 67 {
		t.Errorf("model = %+v", a)
	}
	if len(a.Findings) != 2 || a.Findings[0].RiskLevel != model.RiskHigh {
		t.Errorf("findings = %+v", a.Findings)
	}
	if a.ID == "" {
		t.Error("analysis ID not assigned")
	}
}

func TestSensitiveData(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{
			"Phone Numbers":   {"+1 555 0100"},
			"Email Addresses": {"a@example.com", "b@example.com"},
		})
	}))
	defer srv.Close()

	resp, err := client.SensitiveData(context.Background(), nil)
	if err != nil {
		t.Fatalf("SensitiveData: %v", err)
	}
	if len(resp["Email Addresses"]) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSemanticSearch(t *testing.T) {
	var gotReq SemanticSearchRequest
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search/semantic" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode([]SearchResult{
			{
				Message:    Message{Sender: "bob", Content: "dinner at 8?"},
				Similarity: 0.91,
				Context:    SearchContext{Before: []string{"hey"}, After: []string{"sure"}},
			},
		})
	}))
	defer srv.Close()

	results, err := client.SemanticSearch(context.Background(), SemanticSearchRequest{
		Query: "dinner plans",
		Limit: 5,
	})
	if err != nil {
		t.Fatalf("SemanticSearch: %v", err)
	}
	if gotReq.Query != "dinner plans" || gotReq.Limit != 5 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(results) != 1 || results[0].Similarity != 0.91 {
		t.Fatalf("results = %+v", results)
	}
	if len(results[0].Context.Before) != 1 {
		t.Errorf("context = %+v", results[0].Context)
	}
}

func TestSimilarMessages(t *testing.T) {
	var gotReq SimilarMessagesRequest
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search/similar" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode([]SearchResult{
			{Message: Message{Sender: "bob", Content: "dinner tonight?"}, Similarity: 0.88},
		})
	}))
	defer srv.Close()

	results, err := client.SimilarMessages(context.Background(), SimilarMessagesRequest{
		Message:  Message{Sender: "alice", Content: "dinner at 8?"},
		Messages: []Message{{Sender: "bob", Content: "dinner tonight?"}},
		Limit:    3,
	})
	if err != nil {
		t.Fatalf("SimilarMessages: %v", err)
	}
	if gotReq.Message.Content != "dinner at 8?" || gotReq.Limit != 3 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(results) != 1 || results[0].Similarity != 0.88 {
		t.Fatalf("results = %+v", results)
	}
}

func TestTopicClusters(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search/topics" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]TopicCluster{
			{TopicID: 0, Summary: "travel plans"},
			{TopicID: 1, Summary: "dinner"},
		})
	}))
	defer srv.Close()

	clusters, err := client.TopicClusters(context.Background(), nil)
	if err != nil {
		t.Fatalf("TopicClusters: %v", err)
	}
	if len(clusters) != 2 || clusters[1].Summary != "dinner" {
		t.Fatalf("clusters = %+v", clusters)
	}
}

func TestServerErrorSurfacesDetail(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "chat_text must not be empty"})
	}))
	defer srv.Close()

	_, err := client.ProcessChat(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T", err)
	}
	if ce.Type != ErrTypeBadRequest {
		t.Errorf("type = %d", ce.Type)
	}
	if want := "chat_text must not be empty"; !strings.Contains(ce.Message, want) {
		t.Errorf("message %q does not surface detail", ce.Message)
	}
}

func TestServerError5xx(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := client.AnalyzeSecurity(context.Background(), nil)
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeServer {
		t.Fatalf("err = %v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{
		// Reserved TEST-NET address, nothing listens there.
		BaseURL: "http://192.0.2.1:1",
		Timeout: 200 * time.Millisecond,
	})

	_, err := client.ProcessChat(context.Background(), "x")
	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T %v", err, err)
	}
	if ce.Type != ErrTypeUnavailable && ce.Type != ErrTypeTimeout {
		t.Errorf("type = %d", ce.Type)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := client.ProcessChat(context.Background(), "x")
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeInvalidResponse {
		t.Fatalf("err = %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ProcessChat(ctx, "x")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestWireMessageRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	m := model.NewMessage("chat-1", "alice", "hello", model.TypeText, ts)

	wire := FromModel(m)
	if wire.Timestamp != "2025-03-14T09:26:53Z" {
		t.Errorf("timestamp = %q", wire.Timestamp)
	}
	if wire.MessageType != "text" {
		t.Errorf("message_type = %q", wire.MessageType)
	}

	back := wire.ToModel("chat-2")
	if back.ChatID != "chat-2" {
		t.Errorf("chatID = %q", back.ChatID)
	}
	if !back.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v", back.Timestamp)
	}
}

func TestWireMessagePythonTimestamp(t *testing.T) {
	wire := Message{Timestamp: "2025-03-14T09:26:53", Sender: "alice"}
	m := wire.ToModel("chat-1")
	want := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if !m.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", m.Timestamp, want)
	}
}

func TestWireMessageBadTimestampKept(t *testing.T) {
	wire := Message{Timestamp: "yesterday-ish", Sender: "alice", Content: "hi"}
	m := wire.ToModel("chat-1")
	if !m.Timestamp.IsZero() {
		t.Errorf("timestamp = %v, want zero", m.Timestamp)
	}
	if m.Content != "hi" {
		t.Error("message dropped on bad timestamp")
	}
}
