package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Runner executes an external tool and returns its stdout. Abstracted so
// tests can fake the pdftotext/pdftoppm/tesseract toolchain.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools as subprocesses. stdin is wired up before the
// process starts and stderr is captured for error reporting.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes name with args.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// Extractor pulls text out of PDFs using poppler's pdftotext, with a
// pdftoppm+tesseract OCR pass for PDFs whose text layer is empty
// (scanned documents).
type Extractor struct {
	runner Runner

	// minTextLen is the threshold below which the text layer is
	// considered empty and OCR kicks in.
	minTextLen int

	// tempDir overrides where OCR page images land. Empty uses the
	// system default.
	tempDir string
}

// NewExtractor creates an extractor running the real tools.
func NewExtractor() *Extractor {
	return &Extractor{runner: ExecRunner{}, minTextLen: 32}
}

// NewExtractorWith creates an extractor with a custom tool runner.
func NewExtractorWith(runner Runner) *Extractor {
	return &Extractor{runner: runner, minTextLen: 32}
}

// Extract opens the PDF at path and returns it with its text populated.
func (e *Extractor) Extract(ctx context.Context, path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	doc := &Document{Path: path, Size: info.Size()}

	text, err := e.textLayer(ctx, path)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(text)) >= e.minTextLen {
		doc.Text = strings.TrimSpace(text)
		return doc, nil
	}

	log.Info("empty text layer, running OCR", "path", path)
	text, err = e.ocr(ctx, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	doc.Text = strings.TrimSpace(text)
	doc.OCR = true
	return doc, nil
}

// textLayer extracts the embedded text layer with pdftotext.
func (e *Extractor) textLayer(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return "", &ExtractError{Tool: "pdftotext", Err: err}
	}
	return string(out), nil
}

// ocr rasterizes each page to PNG and runs tesseract over it.
func (e *Extractor) ocr(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp(e.tempDir, "studypal-ocr-")
	if err != nil {
		return "", fmt.Errorf("create OCR workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if _, err := e.runner.Run(ctx, "pdftoppm", "-png", "-r", "300", path, prefix); err != nil {
		return "", &ExtractError{Tool: "pdftoppm", Err: err}
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", fmt.Errorf("list OCR pages: %w", err)
	}
	sort.Strings(pages)

	var b strings.Builder
	for _, page := range pages {
		out, err := e.runner.Run(ctx, "tesseract", page, "-")
		if err != nil {
			return "", &ExtractError{Tool: "tesseract", Err: err}
		}
		b.Write(out)
		b.WriteString("\n")
	}

	return b.String(), nil
}
