package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"

	"github.com/nikhilbhutani/linguavox/internal/config"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"short", "  Bonjour  ", 100, []string{"Bonjour"}},
		{"empty", "   ", 100, nil},
		{"punctuation first", "Hello world. This is a test", 15, []string{"Hello world.", "This is a test"}},
		{"whitespace fallback", "aaaa bbbb cccc", 10, []string{"aaaa bbbb", "cccc"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"full width stop", "你好。世界你好", 4, []string{"你好。", "世界你好"}},
		{"decimal not split", "pi 3.14159 ok", 8, []string{"pi", "3.14159", "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitText(tt.text, tt.limit)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("splitText(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestGTranslateTTS_Synthesize(t *testing.T) {
	var mu sync.Mutex
	var queries []map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" || r.Header.Get("Referer") == "" {
			t.Errorf("missing browser headers")
		}
		q := r.URL.Query()
		mu.Lock()
		queries = append(queries, map[string]string{
			"ie": q.Get("ie"), "client": q.Get("client"), "tl": q.Get("tl"),
			"q": q.Get("q"), "idx": q.Get("idx"), "total": q.Get("total"),
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("[" + q.Get("idx") + "]"))
	}))
	defer srv.Close()

	text := strings.Repeat("Bonjour le monde. ", 8)
	res, err := NewGTranslateTTS(srv.URL).Synthesize(context.Background(), SynthesisRequest{Input: text, Language: "fr"})
	if err != nil {
		t.Fatalf("Synthesize() unexpected error: %v", err)
	}

	if len(queries) != 2 {
		t.Fatalf("made %d requests, want 2", len(queries))
	}
	for i, q := range queries {
		if q["ie"] != "UTF-8" || q["client"] != "tw-ob" || q["tl"] != "fr" || q["total"] != "2" {
			t.Errorf("request %d query = %v", i, q)
		}
		if n := utf8.RuneCountInString(q["q"]); n == 0 || n > gtranslateMaxChars {
			t.Errorf("request %d sent %d runes", i, n)
		}
	}
	if string(res.Audio) != "[0][1]" || res.ContentType != "audio/mpeg" || res.Ext != ".mp3" {
		t.Errorf("result = %q %s %s", res.Audio, res.ContentType, res.Ext)
	}
}

func TestGTranslateTTS_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGTranslateTTS(srv.URL).Synthesize(context.Background(), SynthesisRequest{Input: "Hola", Language: "es"})
	if err == nil || err.Error() != "tts failed (status 429): rate limited" {
		t.Errorf("Synthesize() error = %v", err)
	}
}

func TestOpenAITTS_Synthesize(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %q, want /audio/speech", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	p := NewOpenAITTS(OpenAITTSConfig{APIKey: "sk-test", BaseURL: srv.URL})
	res, err := p.Synthesize(context.Background(), SynthesisRequest{Input: "Hallo", Language: "de"})
	if err != nil {
		t.Fatalf("Synthesize() unexpected error: %v", err)
	}
	if body["model"] != "tts-1" || body["voice"] != "alloy" || body["input"] != "Hallo" || body["response_format"] != "mp3" {
		t.Errorf("request body = %v", body)
	}
	if string(res.Audio) != "ID3audio" {
		t.Errorf("Audio = %q", res.Audio)
	}
}

type fakeSpeechClient struct {
	req  *texttospeechpb.SynthesizeSpeechRequest
	resp *texttospeechpb.SynthesizeSpeechResponse
	err  error
}

func (f *fakeSpeechClient) SynthesizeSpeech(_ context.Context, req *texttospeechpb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeSpeechClient) Close() error { return nil }

func TestGoogleTTS_Synthesize(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeSpeechClient
		wantErr string
	}{
		{
			name:   "success",
			client: &fakeSpeechClient{resp: &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte("mp3")}},
		},
		{
			name:    "rpc error",
			client:  &fakeSpeechClient{err: errors.New("permission denied")},
			wantErr: "google tts: permission denied",
		},
		{
			name:    "empty audio",
			client:  &fakeSpeechClient{resp: &texttospeechpb.SynthesizeSpeechResponse{}},
			wantErr: "google tts: empty audio content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GoogleTTS{client: tt.client, speakingRate: 1.0}
			res, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "你好", Language: "zh-CN", Locale: "cmn-CN"})
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Synthesize() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Synthesize() unexpected error: %v", err)
			}
			req := tt.client.req
			if req.GetVoice().GetLanguageCode() != "cmn-CN" || req.GetInput().GetText() != "你好" {
				t.Errorf("request = %v", req)
			}
			if req.GetAudioConfig().GetAudioEncoding() != texttospeechpb.AudioEncoding_MP3 {
				t.Errorf("encoding = %v", req.GetAudioConfig().GetAudioEncoding())
			}
			if string(res.Audio) != "mp3" {
				t.Errorf("Audio = %q", res.Audio)
			}
		})
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "piper")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocalTTS_Synthesize(t *testing.T) {
	bin := writeScript(t, `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_file" ]; then out="$2"; shift; fi
  shift
done
printf 'RIFF' > "$out"
cat >> "$out"
`)

	p := NewLocalTTS(LocalTTSConfig{PiperBinPath: bin, ModelPath: "voice.onnx"})
	res, err := p.Synthesize(context.Background(), SynthesisRequest{Input: "hello"})
	if err != nil {
		t.Fatalf("Synthesize() unexpected error: %v", err)
	}
	if string(res.Audio) != "RIFFhello" || res.ContentType != "audio/wav" || res.Ext != ".wav" {
		t.Errorf("result = %q %s %s", res.Audio, res.ContentType, res.Ext)
	}
}

func TestLocalTTS_Errors(t *testing.T) {
	if _, err := NewLocalTTS(LocalTTSConfig{}).Synthesize(context.Background(), SynthesisRequest{Input: "x"}); err == nil {
		t.Error("Synthesize() without model succeeded")
	}

	bin := writeScript(t, "echo 'model not found' >&2\nexit 1\n")
	_, err := NewLocalTTS(LocalTTSConfig{PiperBinPath: bin, ModelPath: "voice.onnx"}).
		Synthesize(context.Background(), SynthesisRequest{Input: "x"})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Synthesize() error = %v, want stderr in message", err)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{"", "gtranslate", false},
		{"gtranslate", "gtranslate", false},
		{"openai", "openai", false},
		{"local", "local-piper", false},
		{"festival", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			p, err := NewProvider(context.Background(), config.TTSConfig{Backend: tt.backend, OpenAIKey: "sk-test"})
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewProvider(%q) expected error", tt.backend)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider(%q) unexpected error: %v", tt.backend, err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}
