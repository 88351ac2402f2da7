package qr

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rail-qr-backend/domain"

	qrcode "github.com/skip2/go-qrcode"
)

// PixelSize is the edge length of every generated QR PNG. Printed labels are
// sized for this resolution, so it must not change between regenerations.
const PixelSize = 256

type (
	EncodeResult struct {
		Filename string
		Filepath string
		URL      string
	}

	// Encoder turns an item token into a scannable QR image bound to the
	// public resolution URL {baseURL}/scan/{token}.
	Encoder interface {
		EncodeToFile(token, baseURL string) (EncodeResult, error)
		EncodeBytes(token, baseURL string) ([]byte, error)
		EncodeDataURL(token, baseURL string) (string, error)
		ReadPNG(token string) ([]byte, error)
	}

	encoder struct {
		dir string
	}
)

func NewEncoder(dir string) Encoder {
	return &encoder{dir: dir}
}

// ResolveURL builds the public scan URL embedded in the QR image. This format
// is printed onto physical labels and must never change.
func ResolveURL(token, baseURL string) string {
	return fmt.Sprintf("%s/scan/%s", strings.TrimRight(baseURL, "/"), token)
}

func (e *encoder) EncodeBytes(token, baseURL string) ([]byte, error) {
	png, err := qrcode.Encode(ResolveURL(token, baseURL), qrcode.Medium, PixelSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}
	return png, nil
}

// EncodeToFile renders the QR PNG and persists it as <dir>/<token>.png,
// creating the directory if absent. The image is written to a temp file and
// renamed so a previously served image is never left half-overwritten.
func (e *encoder) EncodeToFile(token, baseURL string) (EncodeResult, error) {
	png, err := e.EncodeBytes(token, baseURL)
	if err != nil {
		return EncodeResult{}, err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return EncodeResult{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}

	filename := token + ".png"
	finalPath := filepath.Join(e.dir, filename)

	tmp, err := os.CreateTemp(e.dir, "qr-*.tmp")
	if err != nil {
		return EncodeResult{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}
	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return EncodeResult{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return EncodeResult{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		os.Remove(tmp.Name())
		return EncodeResult{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}

	return EncodeResult{
		Filename: filename,
		Filepath: finalPath,
		URL:      ResolveURL(token, baseURL),
	}, nil
}

// EncodeDataURL returns the same image as an inline base64 data URL without
// touching storage. Used for ephemeral previews.
func (e *encoder) EncodeDataURL(token, baseURL string) (string, error) {
	png, err := e.EncodeBytes(token, baseURL)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func (e *encoder) ReadPNG(token string) ([]byte, error) {
	return os.ReadFile(filepath.Join(e.dir, token+".png"))
}
