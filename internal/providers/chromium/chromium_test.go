package chromium

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsWindowSize(t *testing.T) {
	_, err := New(context.Background(), Config{Width: 0, Height: 550})
	assert.Error(t, err)
}

func TestLoadError(t *testing.T) {
	assert.Equal(t, "net::ERR_CONNECTION_REFUSED", (&LoadError{Text: "net::ERR_CONNECTION_REFUSED"}).Error())
	assert.Equal(t, "net::ERR_ABORTED (canceled)", (&LoadError{Text: "net::ERR_ABORTED", Canceled: true}).Error())
}

func TestProgressLine(t *testing.T) {
	tests := []struct {
		name proto.PageLifecycleEventName
		want string
		ok   bool
	}{
		{"init", "Login - 10%", true},
		{"DOMContentLoaded", "Login - 60%", true},
		{"load", "Login - 90%", true},
		{"networkIdle", "Login - 100%", true},
		{"firstMeaningfulPaintCandidate", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			line, ok := progressLine("Login", tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, line)
		})
	}
}

// TestBrowserSession drives a locally installed Chromium. It is skipped
// when none is found.
func TestBrowserSession(t *testing.T) {
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no Chromium installation found")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "s3cr3t", Path: "/", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: "user", Value: "b01234567", Path: "/"})
		http.Redirect(w, r, "/portal", http.StatusFound)
	})
	mux.HandleFunc("/portal", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><title>portal</title></head></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	r, err := New(ctx, Config{Bin: bin, Headless: true, Title: "test", Width: 1050, Height: 550})
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Load(ctx, srv.URL+"/login"))

	var redirected bool
	for finished := false; !finished; {
		select {
		case ev := <-r.Events():
			switch ev.Kind {
			case renderer.LoadRedirected:
				redirected = true
			case renderer.LoadFinished:
				finished = ev.URL == srv.URL+"/portal"
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for the portal")
		}
	}
	assert.True(t, redirected)

	value, ok, err := r.EvaluateCookie(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b01234567", value)

	_, ok, err = r.EvaluateCookie(ctx, "PHPSESSID")
	require.NoError(t, err)
	assert.False(t, ok)

	cookies, err := r.Cookies(ctx, r.URL())
	require.NoError(t, err)
	var session *renderer.Cookie
	for i := range cookies {
		if cookies[i].Name == "PHPSESSID" {
			session = &cookies[i]
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HTTPOnly)
}
