package tts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"dubber/internal/services"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "espeak", APIKey: "k"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("New = %v, want ErrConfiguration", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{Provider: "openai"})
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("New = %v, want ErrAuth", err)
	}
}

func TestNewDefaultVoices(t *testing.T) {
	cases := map[string]string{
		"openai":     "nova",
		"elevenlabs": "21m00Tcm4TlvDq8ikWAM",
		"fpt":        "banmai",
	}
	for name, want := range cases {
		provider, err := New(Config{Provider: name, APIKey: "k"})
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		var voice string
		switch p := provider.(type) {
		case *openAIProvider:
			voice = p.cfg.Voice
		case *elevenLabsProvider:
			voice = p.cfg.Voice
		case *fptProvider:
			voice = p.cfg.Voice
		}
		if voice != want {
			t.Errorf("%s default voice = %q, want %q", name, voice, want)
		}
	}
}

func TestOpenAISynthesize(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	provider, err := New(Config{Provider: "openai", APIKey: "sk-test", Voice: "onyx", Speed: 1.2, OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*openAIProvider).baseURL = server.URL

	clip, err := provider.Synthesize(context.Background(), "xin chào")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotPayload["model"] != "tts-1" || gotPayload["voice"] != "onyx" || gotPayload["speed"] != 1.2 || gotPayload["input"] != "xin chào" {
		t.Fatalf("payload = %v", gotPayload)
	}
	data, err := os.ReadFile(clip)
	if err != nil || string(data) != "mp3-bytes" {
		t.Fatalf("clip content = %q, %v", data, err)
	}
	if !strings.HasSuffix(clip, ".mp3") {
		t.Fatalf("clip name = %q, want .mp3 suffix", clip)
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte("xi-mp3"))
	}))
	defer server.Close()

	provider, err := New(Config{Provider: "elevenlabs", APIKey: "xi-key", OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*elevenLabsProvider).baseURL = server.URL

	clip, err := provider.Synthesize(context.Background(), "tạm biệt")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotPath != "/21m00Tcm4TlvDq8ikWAM" || gotKey != "xi-key" {
		t.Fatalf("path = %q, key = %q", gotPath, gotKey)
	}
	if gotPayload["model_id"] != "eleven_multilingual_v2" {
		t.Fatalf("payload = %v", gotPayload)
	}
	settings, ok := gotPayload["voice_settings"].(map[string]any)
	if !ok || settings["stability"] != 0.5 || settings["similarity_boost"] != 0.75 {
		t.Fatalf("voice settings = %v", gotPayload["voice_settings"])
	}
	if data, _ := os.ReadFile(clip); string(data) != "xi-mp3" {
		t.Fatalf("clip content = %q", data)
	}
}

func TestElevenLabsAppliesSpeedAdjuster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("xi-mp3"))
	}))
	defer server.Close()

	var adjustedPath string
	adjuster := func(_ context.Context, path string, speed float64) (string, error) {
		adjustedPath = path
		if speed != 1.2 {
			t.Errorf("speed = %f, want 1.2", speed)
		}
		return path + ".adjusted", nil
	}
	provider, err := New(
		Config{Provider: "elevenlabs", APIKey: "k", Speed: 1.2, OutputDir: t.TempDir()},
		WithSpeedAdjuster(adjuster),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*elevenLabsProvider).baseURL = server.URL

	clip, err := provider.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if adjustedPath == "" || clip != adjustedPath+".adjusted" {
		t.Fatalf("clip = %q, adjusted = %q", clip, adjustedPath)
	}
}

func TestFPTSynthesize(t *testing.T) {
	mux := http.NewServeMux()
	var gotHeaders http.Header
	var gotBody string
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/synth", func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprintf(w, `{"async": %q, "error": 0}`, server.URL+"/audio.mp3")
	})
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("fpt-mp3"))
	})

	provider, err := New(
		Config{Provider: "fpt", APIKey: "fpt-key", Voice: "leminh", Speed: 1.0, OutputDir: t.TempDir()},
		WithSleep(noSleep),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*fptProvider).baseURL = server.URL + "/synth"

	clip, err := provider.Synthesize(context.Background(), "xin chào các bạn")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotHeaders.Get("api-key") != "fpt-key" || gotHeaders.Get("voice") != "leminh" || gotHeaders.Get("speed") != "1" {
		t.Fatalf("headers = %v", gotHeaders)
	}
	if gotBody != "xin chào các bạn" {
		t.Fatalf("request body = %q", gotBody)
	}
	if data, _ := os.ReadFile(clip); string(data) != "fpt-mp3" {
		t.Fatalf("clip content = %q", data)
	}
}

func TestFPTAudioNotReady(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/synth", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"async": %q}`, server.URL+"/audio.mp3")
	})
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	provider, err := New(Config{Provider: "fpt", APIKey: "k", OutputDir: t.TempDir()}, WithSleep(noSleep))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*fptProvider).baseURL = server.URL + "/synth"

	if _, err := provider.Synthesize(context.Background(), "text"); err == nil || !strings.Contains(err.Error(), "not ready") {
		t.Fatalf("Synthesize = %v, want not-ready error", err)
	}
}

func TestFPTMissingAsyncURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error": 1, "message": "invalid voice"}`))
	}))
	defer server.Close()

	provider, err := New(Config{Provider: "fpt", APIKey: "k"}, WithSleep(noSleep))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*fptProvider).baseURL = server.URL

	if _, err := provider.Synthesize(context.Background(), "text"); !errors.Is(err, services.ErrResponseParse) {
		t.Fatalf("Synthesize = %v, want ErrResponseParse", err)
	}
}

func TestUnauthorizedMapsToAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider, err := New(Config{Provider: "openai", APIKey: "bad"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	provider.(*openAIProvider).baseURL = server.URL

	if _, err := provider.Synthesize(context.Background(), "x"); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("Synthesize = %v, want ErrAuth", err)
	}
}

func TestVoicesCatalog(t *testing.T) {
	if got := Providers(); len(got) != 3 || got[0] != "elevenlabs" || got[1] != "fpt" || got[2] != "openai" {
		t.Fatalf("Providers = %v", got)
	}
	if voices := Voices("fpt"); len(voices) != 8 || voices[0].ID != "banmai" {
		t.Fatalf("fpt voices = %v", voices)
	}
	if voices := Voices("unknown"); len(voices) != 0 {
		t.Fatalf("unknown voices = %v", voices)
	}
}
