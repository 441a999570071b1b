package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"reach-backend/application/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageFixture() (*ImageHandler, *memImageStore) {
	store := newMemImageStore()
	svc := services.NewImageService(store, testLogger())
	return NewImageHandler(svc, testLogger()), store
}

func multipartImage(t *testing.T, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="profile.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestImageUploadEndpoint(t *testing.T) {
	handler, store := newImageFixture()
	body, contentType := multipartImage(t, "image/png", []byte("png-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/marie", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "image/png", store.puts["marie/profile.png"])

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s3://test-bucket/marie/profile.png", resp["location"])
}

func TestImageUploadEndpointRejectsBadType(t *testing.T) {
	handler, store := newImageFixture()
	body, contentType := multipartImage(t, "image/gif", []byte("gif-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/marie", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.puts)
}

func TestImageUploadEndpointMissingFile(t *testing.T) {
	handler, _ := newImageFixture()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no image here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/marie", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageGetEndpoint(t *testing.T) {
	handler, _ := newImageFixture()

	rec := doJSON(t, handler.Routes(), http.MethodGet, "/marie", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://example.com/marie/profile.png", resp["url"])
}

func TestImageDeleteEndpoint(t *testing.T) {
	handler, store := newImageFixture()
	store.puts["marie/profile.png"] = "image/png"

	rec := doJSON(t, handler.Routes(), http.MethodDelete, "/marie", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.puts)
}
