package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/soundtag-tech/soundtag/internal/render"
	"github.com/soundtag-tech/soundtag/internal/testutil"
	"github.com/soundtag-tech/soundtag/internal/utils"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(Config{CORSOrigin: "*", MaxUploadMB: 10})
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEncodeHandler(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.encodeHandler, EncodeRequest{MediaRef: 57639171874})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EncodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	want, err := codec.Encode(57639171874)
	require.NoError(t, err)
	assert.Equal(t, want, resp.Symbols)
}

func TestEncodeHandler_OutOfRange(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.encodeHandler, EncodeRequest{MediaRef: 1 << 40})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp EncodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestEncodeHandler_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/codes/encode", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	s.encodeHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeHandler(t *testing.T) {
	s := newTestServer(t)

	symbols, err := codec.Encode(67775490487)
	require.NoError(t, err)

	rec := postJSON(t, s.decodeHandler, DecodeRequest{Symbols: symbols})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint64(67775490487), resp.MediaRef)
}

func TestDecodeHandler_LengthError(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.decodeHandler, DecodeRequest{Symbols: []int{0, 1, 2}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeHandler_ChecksumMismatch(t *testing.T) {
	s := newTestServer(t)

	symbols, err := codec.Encode(57639171874)
	require.NoError(t, err)

	// A mutated data bar usually trips the checksum; some mutations land
	// on discarded matrix columns and stay invisible, so probe a few.
	sawMismatch := false
	for pos := 1; pos < 10 && !sawMismatch; pos++ {
		for h := 0; h <= codec.MaxBarHeight && !sawMismatch; h++ {
			if h == symbols[pos] {
				continue
			}
			mutated := append([]int(nil), symbols...)
			mutated[pos] = h

			rec := postJSON(t, s.decodeHandler, DecodeRequest{Symbols: mutated})
			if rec.Code == http.StatusUnprocessableEntity {
				sawMismatch = true
			}
		}
	}
	assert.True(t, sawMismatch, "no mutation produced a checksum mismatch")
}

func TestRenderHandler(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.renderHandler, RenderRequest{MediaRef: 26560102031})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestRenderHandler_BadColor(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.renderHandler, RenderRequest{MediaRef: 1, Background: "magenta"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uploadImage(t *testing.T, handler http.HandlerFunc, pngData []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "code.png")
	require.NoError(t, err)
	_, err = fw.Write(pngData)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/codes/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func renderPNG(t *testing.T, ref uint64) []byte {
	t.Helper()
	symbols, err := codec.Encode(ref)
	require.NoError(t, err)
	img, err := render.Render(symbols, render.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestScanHandler(t *testing.T) {
	s := newTestServer(t)

	rec := uploadImage(t, s.scanHandler, renderPNG(t, 57268659651))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint64(57268659651), resp.MediaRef)
	assert.False(t, resp.Detected)
}

func TestScanHandler_NoImage(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/codes/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandler_InvalidImage(t *testing.T) {
	s := newTestServer(t)

	rec := uploadImage(t, s.scanHandler, []byte("not a png"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandler_WithDetector(t *testing.T) {
	logoPath := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, utils.SavePNG(logoPath, render.DiscLogo(64, render.Palette["white"])))

	s, err := NewServer(Config{
		CORSOrigin:        "*",
		MaxUploadMB:       10,
		LogoPath:          logoPath,
		MinLogoConfidence: 0.4,
	})
	require.NoError(t, err)

	// Paste the barcode into a larger scene with a distractor blob so
	// direct scanning fails and the detector has to find it.
	cfg := testutil.DefaultSceneConfig()
	cfg.Offset = image.Pt(40, 60)
	cfg.Distractor = true
	scene := testutil.ComposeScene(t, 67775490487, cfg)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, scene))

	rec := uploadImage(t, s.scanHandler, buf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint64(67775490487), resp.MediaRef)
}

func TestSetupRoutes(t *testing.T) {
	s := newTestServer(t)
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
