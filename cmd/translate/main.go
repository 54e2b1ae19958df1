// Command translate runs one text or document through translation and
// speech synthesis and writes the audio to a file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nikhilbhutani/linguavox/internal/app"
	"github.com/nikhilbhutani/linguavox/internal/config"
	"github.com/nikhilbhutani/linguavox/internal/document"
	"github.com/nikhilbhutani/linguavox/internal/failure"
	"github.com/nikhilbhutani/linguavox/internal/language"
	"github.com/nikhilbhutani/linguavox/internal/pipeline"
)

func main() {
	text := flag.String("text", "", "text to translate")
	file := flag.String("file", "", "PDF, TXT, CSV or XLSX file to translate (takes precedence over -text)")
	lang := flag.String("lang", "English", "target language: "+strings.Join(languageNames(), ", "))
	out := flag.String("out", "translated_audio.mp3", "where to write the audio")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *text, *file, *lang, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if failure.KindOf(err) == failure.KindInput || failure.KindOf(err) == failure.KindUnsupportedFormat {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, text, file, lang, out string) error {
	src := pipeline.Source{Text: text}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		src.File = &document.Upload{Filename: filepath.Base(file), Data: data}
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Pipeline.Run(ctx, src, lang)
	if err != nil {
		return err
	}
	defer a.Store.Remove(res.Audio.ID)

	if err := copyFile(res.Audio.Path, out); err != nil {
		return err
	}

	fmt.Println(res.TranslatedText)
	fmt.Fprintf(os.Stderr, "audio written to %s\n", out)
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	defer in.Close()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := io.Copy(f, in); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func languageNames() []string {
	var names []string
	for _, l := range language.All() {
		names = append(names, l.Name)
	}
	return names
}
