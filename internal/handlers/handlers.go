package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/0xlayout/privacypuzzle/internal/config"
	"github.com/0xlayout/privacypuzzle/internal/education"
	"github.com/0xlayout/privacypuzzle/internal/failure"
	"github.com/0xlayout/privacypuzzle/internal/puzzle"
	"github.com/0xlayout/privacypuzzle/internal/steg"
)

const maxForm = 32 << 20

type Handler struct {
	defaults config.Puzzle
}

func NewHandler() *Handler {
	return &Handler{defaults: config.Default()}
}

// helper: JSON response
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a failure kind to a status code. The body never says more
// than failure.Public allows.
func writeError(w http.ResponseWriter, op string, err error) {
	code := http.StatusBadRequest
	if failure.Kind(err) == nil {
		code = http.StatusInternalServerError
		log.Printf("%s: %v", op, err)
	}
	writeJSON(w, code, map[string]string{"error": failure.Public(err)})
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxForm)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("%w: bad form: %v", failure.ErrValidation, err)
	}
	return nil
}

// intField reads an optional integer form value.
func intField(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", failure.ErrValidation, name)
	}
	return n, nil
}

// ------------------------------------------------------------
// HideHandler: form fields message, password, [size, cell_size, format]
// ------------------------------------------------------------
func (h *Handler) HideHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, "hide", err)
		return
	}

	// An empty message is allowed; only a missing field is rejected.
	if _, ok := r.Form["message"]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing message"})
		return
	}
	message := r.FormValue("message")
	if len(message) > config.MaxMessage {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message too large"})
		return
	}
	password := r.FormValue("password")
	if password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing password"})
		return
	}

	opts := puzzle.HideOptions{Message: []byte(message), Password: password, Puzzle: h.defaults}
	var err error
	if opts.Puzzle.Size, err = intField(r, "size", h.defaults.Size); err != nil {
		writeError(w, "hide", err)
		return
	}
	if opts.Puzzle.CellSize, err = intField(r, "cell_size", h.defaults.CellSize); err != nil {
		writeError(w, "hide", err)
		return
	}
	if f := r.FormValue("format"); f != "" {
		opts.Puzzle.Format = f
	}

	res, err := puzzle.Hide(opts)
	if err != nil {
		writeError(w, "hide", err)
		return
	}

	log.Printf("hide: %dx%d grid, %dx%d image, envelope %d of %d bytes",
		opts.Puzzle.Size, opts.Puzzle.Size, res.Width, res.Height, res.Envelope, res.Capacity)

	ext, _ := steg.Extension(res.Format)
	w.Header().Set("Content-Type", "image/"+res.Format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "puzzle"+ext))

	_, err = io.Copy(w, bytes.NewReader(res.Image))
	if err != nil {
		log.Printf("error writing image to response: %v", err)
	}
}

// ------------------------------------------------------------
// RevealHandler: multipart form: image (file), password (text)
// ------------------------------------------------------------
func (h *Handler) RevealHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}
	if err := r.ParseMultipartForm(maxForm); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad form: " + err.Error()})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing image file"})
		return
	}
	defer file.Close()

	password := r.FormValue("password")
	if password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing password"})
		return
	}

	plain, err := puzzle.Reveal(file, password)
	if err != nil {
		writeError(w, "reveal", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": string(plain)})
}

// CapacityResponse is the JSON body of /capacity.
type CapacityResponse struct {
	puzzle.Report
	Human string `json:"human"`
}

// ------------------------------------------------------------
// CapacityHandler: multipart form: image (file)
// ------------------------------------------------------------
func (h *Handler) CapacityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use POST"})
		return
	}
	if err := r.ParseMultipartForm(maxForm); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing image file"})
		return
	}
	defer file.Close()

	rep, err := puzzle.Capacity(file)
	if err != nil {
		writeError(w, "capacity", err)
		return
	}

	log.Printf("capacity: received image format=%s name=%s", rep.Format, header.Filename)
	writeJSON(w, http.StatusOK, CapacityResponse{Report: *rep, Human: humanize.Bytes(uint64(rep.Plaintext))})
}

func (h *Handler) EducateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "use GET"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, education.Full()+"\n")
}
