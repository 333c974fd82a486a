package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestListingHTML_Success(t *testing.T) {
	t.Setenv("CAT_UA", "test-agent/1.0")
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	cl := New(Options{Timeout: 2 * time.Second, Attempts: 1})
	body, err := cl.ListingHTML(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Fatalf("body = %q", body)
	}
	if gotUA != "test-agent/1.0" {
		t.Fatalf("user-agent = %q", gotUA)
	}
}

func TestListingHTML_RetryThenSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cl := New(Options{Timeout: 2 * time.Second, Attempts: 3, RetryDelay: 10 * time.Millisecond})
	body, err := cl.ListingHTML(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if body != "ok" {
		t.Fatalf("body = %q", body)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestListingHTML_ExhaustsAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	delay := 50 * time.Millisecond
	cl := New(Options{Timeout: 2 * time.Second, Attempts: 3, RetryDelay: delay})
	start := time.Now()
	_, err := cl.ListingHTML(context.Background(), srv.URL)
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("calls = %d, want exactly 3", n)
	}
	// 3 次尝试之间应有 2 段等待；最后一次失败后不再等待
	if elapsed < 2*delay {
		t.Fatalf("elapsed %v, want >= %v", elapsed, 2*delay)
	}
}

func TestListingHTML_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cl := New(Options{Timeout: 50 * time.Millisecond, Attempts: 1})
	if _, err := cl.ListingHTML(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestListingHTML_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cl := New(Options{Timeout: time.Second, Attempts: 3, RetryDelay: time.Hour})
	start := time.Now()
	if _, err := cl.ListingHTML(ctx, srv.URL); err == nil {
		t.Fatal("expected error on canceled context")
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancel did not short-circuit the retry sleep")
	}
}
