package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xlayout/privacypuzzle/internal/nonogram"
)

const password = "correct-horse-battery-staple"

func hideForm(t *testing.T, h *Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/hide", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HideHandler(rec, req)
	return rec
}

func imageRequest(t *testing.T, path string, img []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "puzzle.png")
	require.NoError(t, err)
	_, err = fw.Write(img)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHideThenReveal(t *testing.T) {
	h := NewHandler()
	rec := hideForm(t, h, url.Values{
		"message":   {"meet at the usual place"},
		"password":  {password},
		"size":      {"8"},
		"cell_size": {"16"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "puzzle.png")
	img := rec.Body.Bytes()

	rec = httptest.NewRecorder()
	h.RevealHandler(rec, imageRequest(t, "/reveal", img, map[string]string{"password": password}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "meet at the usual place", decodeJSON(t, rec)["message"])
}

func TestHideEmptyMessage(t *testing.T) {
	h := NewHandler()
	rec := hideForm(t, h, url.Values{"message": {""}, "password": {password}, "size": {"5"}, "cell_size": {"16"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	img := rec.Body.Bytes()
	rec = httptest.NewRecorder()
	h.RevealHandler(rec, imageRequest(t, "/reveal", img, map[string]string{"password": password}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "", decodeJSON(t, rec)["message"])
}

func TestRevealFailuresLookAlike(t *testing.T) {
	h := NewHandler()
	rec := hideForm(t, h, url.Values{"message": {"secret"}, "password": {password}, "size": {"6"}, "cell_size": {"16"}})
	require.Equal(t, http.StatusOK, rec.Code)
	stego := rec.Body.Bytes()

	p, err := nonogram.Generate(6, 6, nonogram.DefaultFill)
	require.NoError(t, err)
	plain, err := nonogram.RenderPNG(p.RowHints, p.ColHints, 10)
	require.NoError(t, err)

	wrongPassword := httptest.NewRecorder()
	h.RevealHandler(wrongPassword, imageRequest(t, "/reveal", stego, map[string]string{"password": "guess"}))
	nothingHidden := httptest.NewRecorder()
	h.RevealHandler(nothingHidden, imageRequest(t, "/reveal", plain, map[string]string{"password": password}))
	notAnImage := httptest.NewRecorder()
	h.RevealHandler(notAnImage, imageRequest(t, "/reveal", []byte("garbage"), map[string]string{"password": password}))

	for _, r := range []*httptest.ResponseRecorder{wrongPassword, nothingHidden, notAnImage} {
		require.Equal(t, http.StatusBadRequest, r.Code)
	}
	require.Equal(t, wrongPassword.Body.String(), nothingHidden.Body.String())
	require.Equal(t, wrongPassword.Body.String(), notAnImage.Body.String())
}

func TestHideValidation(t *testing.T) {
	h := NewHandler()
	cases := map[string]url.Values{
		"no message":     {"password": {password}},
		"no password":    {"message": {"m"}},
		"size too big":   {"message": {"m"}, "password": {password}, "size": {"31"}},
		"size not int":   {"message": {"m"}, "password": {password}, "size": {"ten"}},
		"bad format":     {"message": {"m"}, "password": {password}, "format": {"jpeg"}},
		"cell too small": {"message": {"m"}, "password": {password}, "cell_size": {"1"}},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			rec := hideForm(t, h, v)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHideTIFF(t *testing.T) {
	h := NewHandler()
	rec := hideForm(t, h, url.Values{"message": {"m"}, "password": {password}, "size": {"5"}, "cell_size": {"16"}, "format": {"tiff"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "image/tiff", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "puzzle.tiff")
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler()
	for path, fn := range map[string]http.HandlerFunc{
		"/hide":     h.HideHandler,
		"/reveal":   h.RevealHandler,
		"/capacity": h.CapacityHandler,
	} {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.EducateHandler(rec, httptest.NewRequest(http.MethodPost, "/educate", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCapacity(t *testing.T) {
	h := NewHandler()
	p, err := nonogram.Generate(5, 5, nonogram.DefaultFill)
	require.NoError(t, err)
	img, err := nonogram.RenderPNG(p.RowHints, p.ColHints, 10)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.CapacityHandler(rec, imageRequest(t, "/capacity", img, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeJSON(t, rec)
	require.Equal(t, "png", out["format"])
	require.Greater(t, out["plaintext"].(float64), 0.0)
	require.NotEmpty(t, out["human"])
}

func TestEducate(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().EducateHandler(rec, httptest.NewRequest(http.MethodGet, "/educate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Kerckhoffs")
}
