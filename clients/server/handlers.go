package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xob0t/GoStego/internal/config"
	"github.com/xob0t/GoStego/internal/log"
	"github.com/xob0t/GoStego/pkg/cover"
	"github.com/xob0t/GoStego/pkg/driver"
	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

type handlers struct {
	cfg *config.Config
}

// ── Hide ──

// handleHide embeds the "message" field (or "message_file" part) in the
// uploaded "image" and returns the stego image.
func (h *handlers) handleHide(w http.ResponseWriter, r *http.Request) {
	if !h.parseUpload(w, r) {
		return
	}

	format := h.cfg.OutputFormat
	if name := r.FormValue("format"); name != "" {
		f, err := imageio.ParseFormat(name)
		if err != nil {
			respondWithError(w, statusFor(err), err.Error())
			return
		}
		format = f
	}

	msg, err := formMessage(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if err := driver.HideStream(file, &buf, format, msg); err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}

	log.Debug("message hidden", zap.Int("bytes", len(msg)), zap.String("format", string(format)))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stego%s"`, format.Ext()))
	w.Write(buf.Bytes())
}

func formMessage(r *http.Request) ([]byte, error) {
	if vals, ok := r.MultipartForm.Value["message"]; ok && len(vals) > 0 {
		return []byte(vals[0]), nil
	}
	file, _, err := r.FormFile("message_file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errors.New("missing message or message_file")
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// ── Reveal ──

func (h *handlers) handleReveal(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadedImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	msg, err := driver.RevealStream(file)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(msg)))
	w.Write(msg)
}

// ── Capacity ──

func (h *handlers) handleCapacity(w http.ResponseWriter, r *http.Request) {
	file, ok := h.uploadedImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	info, err := driver.InspectStream(file)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, info)
}

// ── Cover ──

type coverRequest struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Color     string  `json:"color"`
	Grain     *int    `json:"grain"`
	Caption   string  `json:"caption"`
	TextColor string  `json:"text_color"`
	FontSize  float64 `json:"font_size"`
	Format    string  `json:"format"`
}

func (h *handlers) handleCover(w http.ResponseWriter, r *http.Request) {
	var req coverRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Width < 0 || req.Height < 0 {
		respondWithError(w, http.StatusBadRequest, "invalid cover dimensions")
		return
	}

	format := h.cfg.OutputFormat
	if req.Format != "" {
		f, err := imageio.ParseFormat(req.Format)
		if err != nil {
			respondWithError(w, statusFor(err), err.Error())
			return
		}
		format = f
	}

	cfg := cover.Config{
		Width:     req.Width,
		Height:    req.Height,
		Color:     req.Color,
		Grain:     3,
		Caption:   req.Caption,
		TextColor: req.TextColor,
		FontSize:  req.FontSize,
	}
	if req.Grain != nil {
		cfg.Grain = *req.Grain
	}

	// Render bounds the resolved size by cover.MaxPixels.
	var buf bytes.Buffer
	if err := cover.GenerateToWriter(&buf, format, cfg); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cover%s"`, format.Ext()))
	w.Header().Set("X-Capacity", strconv.Itoa(cover.Capacity(cfg)))
	w.Write(buf.Bytes())
}

// ── Helpers ──

// parseUpload bounds the body and parses the multipart form. It writes the
// error response itself and reports whether the handler may continue.
func (h *handlers) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "upload exceeds limit")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return false
	}
	return true
}

func (h *handlers) uploadedImage(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if !h.parseUpload(w, r) {
		return nil, false
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "missing image file")
		return nil, false
	}
	return file, true
}

// statusFor maps codec and format errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, stego.ErrCapacityExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, stego.ErrUnsupportedImage),
		errors.Is(err, imageio.ErrLossyFormat),
		errors.Is(err, imageio.ErrUnknownFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, stego.ErrNoMessageFound):
		return http.StatusNotFound
	case errors.Is(err, stego.ErrAmbiguousMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error("failed to encode response", zap.Error(err))
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", code), zap.String("error", message))
	} else {
		log.Debug("request rejected", zap.Int("status", code), zap.String("error", message))
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}
