package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultGTranslateURL = "https://translate.google.com/translate_tts"
	gtranslateMaxChars   = 100
	// CJK stops are not followed by a space.
	fullWidthStops       = "。、，！？；："
	gtranslateUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// GTranslateTTS uses the keyless Google Translate speech endpoint. The
// endpoint caps each request at 100 characters, so longer input is sent in
// pieces and the MP3 frames are concatenated.
type GTranslateTTS struct {
	endpoint   string
	httpClient *http.Client
}

func NewGTranslateTTS(endpoint string) *GTranslateTTS {
	if endpoint == "" {
		endpoint = DefaultGTranslateURL
	}
	return &GTranslateTTS{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GTranslateTTS) Name() string { return "gtranslate" }

func (g *GTranslateTTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	parts := splitText(req.Input, gtranslateMaxChars)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no text to speak")
	}

	var buf bytes.Buffer
	for i, part := range parts {
		if err := g.fetch(ctx, &buf, part, req.Language, i, len(parts)); err != nil {
			return nil, err
		}
	}
	return mp3(buf.Bytes()), nil
}

func (g *GTranslateTTS) fetch(ctx context.Context, w io.Writer, text, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(text))))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("User-Agent", gtranslateUserAgent)
	httpReq.Header.Set("Referer", "https://translate.google.com/")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	return nil
}

// splitText cuts text into pieces of at most limit runes, preferring to
// cut after punctuation, then at whitespace, then anywhere.
func splitText(text string, limit int) []string {
	runes := []rune(strings.TrimSpace(text))
	var out []string

	for len(runes) > limit {
		cut := cutPoint(runes, limit)
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			out = append(out, piece)
		}
		runes = []rune(strings.TrimLeftFunc(string(runes[cut:]), unicode.IsSpace))
	}
	if piece := strings.TrimSpace(string(runes)); piece != "" {
		out = append(out, piece)
	}
	return out
}

func cutPoint(runes []rune, limit int) int {
	for i := limit; i > 0; i-- {
		if unicode.IsPunct(runes[i-1]) && (unicode.IsSpace(runes[i]) || strings.ContainsRune(fullWidthStops, runes[i-1])) {
			return i
		}
	}
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return limit
}
