package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/font/service"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/storage"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/response"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakePresigner struct {
	url string
	err error
}

func (p fakePresigner) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return p.url + key, p.err
}

func newEngine(t *testing.T, max int64, presign Presigner) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := service.New(store, service.Options{MaxBytes: max})

	g := gin.New()
	response.HandleMethodNotAllowed(g)
	RegisterFontRoutes(g.Group("/api"), svc, nil)
	RegisterUploadRoutes(g, svc, presign)
	return g
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "nothing here"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadFont(t *testing.T, g *gin.Engine, filename, content string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	body, ct := multipartBody(t, "font", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload-font", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type fontJSON struct {
	Name       string `json:"name"`
	Filename   string `json:"filename"`
	Path       string `json:"path"`
	UploadedAt string `json:"uploadedAt"`
}

func TestUploadListServeDelete(t *testing.T) {
	g := newEngine(t, 0, nil)

	w, env := uploadFont(t, g, "Foo Bar.ttf", "TTF-BYTES")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "Font uploaded successfully.", env.Message)
	var up fontJSON
	require.NoError(t, json.Unmarshal(env.Data, &up))
	require.Equal(t, "Foo Bar.ttf", up.Name)
	require.Regexp(t, `^FooBar_\d+\.ttf$`, up.Filename)
	require.Equal(t, "/uploads/"+up.Filename, up.Path)
	require.NotEmpty(t, up.UploadedAt)

	w, env = doJSON(t, g, http.MethodGet, "/api/get-fonts", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Fonts retrieved successfully.", env.Message)
	var list []fontJSON
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	require.Equal(t, up.Filename, list[0].Name)
	require.Empty(t, list[0].Filename)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/serve-font?filename="+up.Filename, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "font/ttf", w.Header().Get("Content-Type"))
	require.Equal(t, "TTF-BYTES", w.Body.String())

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, up.Path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "TTF-BYTES", w.Body.String())

	w, env = doJSON(t, g, http.MethodDelete, "/api/delete-font", `{"filename":"`+up.Filename+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Font deleted successfully.", env.Message)
	require.Equal(t, "null", string(env.Data))

	_, env = doJSON(t, g, http.MethodGet, "/api/get-fonts", "")
	require.JSONEq(t, `[]`, string(env.Data))
}

func TestUploadRejections(t *testing.T) {
	g := newEngine(t, 16, nil)

	w, env := uploadFont(t, g, "shape.otf", "data")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Only .ttf files are allowed.", env.Message)

	w, env = uploadFont(t, g, "big.ttf", strings.Repeat("x", 17))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "File size exceeds the maximum limit of 16 bytes.", env.Message)

	// a body past limit+multipartSlack is cut off while the form is parsed
	w, env = uploadFont(t, g, "huge.ttf", strings.Repeat("x", 3<<20))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "File size exceeds the maximum limit of 16 bytes.", env.Message)

	body, ct := multipartBody(t, "", "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-font", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"success":false,"message":"No file uploaded."}`, w.Body.String())
}

func TestFontErrors(t *testing.T) {
	g := newEngine(t, 0, nil)

	cases := []struct {
		name, method, path, body string
		status                   int
		msg                      string
	}{
		{"delete without filename", http.MethodPost, "/api/delete-font", `{}`, http.StatusBadRequest, "Filename is required."},
		{"delete bad json", http.MethodPost, "/api/delete-font", `{`, http.StatusBadRequest, "Filename is required."},
		{"delete unknown", http.MethodPost, "/api/delete-font", `{"filename":"nope.ttf"}`, http.StatusBadRequest, "Font file not found."},
		{"serve without filename", http.MethodGet, "/api/serve-font", "", http.StatusBadRequest, "Filename is required"},
		{"serve unknown", http.MethodGet, "/api/serve-font?filename=nope.ttf", "", http.StatusNotFound, "Font not found"},
		{"serve traversal", http.MethodGet, "/api/serve-font?filename=../../etc/passwd", "", http.StatusNotFound, "Font not found"},
		{"upload via GET", http.MethodGet, "/api/upload-font", "", http.StatusMethodNotAllowed, "Method not allowed."},
		{"list via POST", http.MethodPost, "/api/get-fonts", "", http.StatusMethodNotAllowed, "Method not allowed."},
		{"delete via PUT", http.MethodPut, "/api/delete-font", "", http.StatusMethodNotAllowed, "Method not allowed."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := doJSON(t, g, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, w.Code)
			require.False(t, env.Success)
			require.Equal(t, tc.msg, env.Message)
		})
	}
}

func TestFontFacesStylesheet(t *testing.T) {
	g := newEngine(t, 0, nil)
	_, env := uploadFont(t, g, "Body.ttf", "a")
	require.True(t, env.Success)
	_, env = uploadFont(t, g, "Head.ttf", "b")
	require.True(t, env.Success)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/font-faces.css", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/css"))
	css := w.Body.String()
	require.Equal(t, 2, strings.Count(css, "@font-face"))
	require.Contains(t, css, "font-family: 'font-Body_")
	require.Contains(t, css, "format('truetype')")
}

func TestUploadsRedirectsWhenPresigned(t *testing.T) {
	g := newEngine(t, 0, fakePresigner{url: "https://bucket.example/"})

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/Body_1.ttf", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "https://bucket.example/Body_1.ttf", w.Header().Get("Location"))
}

func TestUploadsFallsBackWhenPresignFails(t *testing.T) {
	g := newEngine(t, 0, fakePresigner{err: errors.New("offline")})
	_, env := uploadFont(t, g, "Body.ttf", "bytes")
	var up fontJSON
	require.NoError(t, json.Unmarshal(env.Data, &up))

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, up.Path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bytes", w.Body.String())
}

func TestWriteGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	g := gin.New()
	deny := func(c *gin.Context) { response.Fail(c, http.StatusUnauthorized, "Authentication required.") }
	RegisterFontRoutes(g.Group("/api"), service.New(store, service.Options{}), deny)

	w, _ := uploadFont(t, g, "Body.ttf", "a")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, g, http.MethodPost, "/api/delete-font", `{"filename":"x.ttf"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w, env := doJSON(t, g, http.MethodGet, "/api/get-fonts", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
}
