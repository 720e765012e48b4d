package server

import (
	"bytes"
	"encoding/json"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"

	"labocr/internal/extract"
	"labocr/internal/ocr"
)

type stubEngine struct {
	text string
	err  error
}

func (s *stubEngine) Recognize(_ image.Image, _ ocr.Config) (string, error) {
	return s.text, s.err
}

func (s *stubEngine) Close() error { return nil }

func newTestServer(t *testing.T, engine ocr.Engine) (*Server, string) {
	t.Helper()
	uploadDir := t.TempDir()
	extractor := extract.New(engine, ocr.DefaultConfig())
	return New(extractor, uploadDir), uploadDir
}

func multipartUpload(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, image.NewGray(image.Rect(0, 0, 10, 10)), imaging.PNG); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestServer_Index(t *testing.T) {
	// Arrange
	srv, _ := newTestServer(t, &stubEngine{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	// Act
	srv.Handler().ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Lab Test OCR API") {
		t.Errorf("index page missing title")
	}
}

func TestServer_GetOnProcessingEndpointIsRejected(t *testing.T) {
	// Arrange
	srv, _ := newTestServer(t, &stubEngine{})
	req := httptest.NewRequest(http.MethodGet, "/get-lab-tests", nil)
	rec := httptest.NewRecorder()

	// Act
	srv.Handler().ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	var body methodNotAllowedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Detail != "Method Not Allowed" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestServer_ProcessUpload(t *testing.T) {
	// Arrange
	srv, uploadDir := newTestServer(t, &stubEngine{text: "HEMOGLOBIN 9.5 g/dL (13.0-17.0)"})
	body, contentType := multipartUpload(t, "file", "report.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/get-lab-tests", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	// Act
	srv.Handler().ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp successResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !resp.IsSuccess {
		t.Errorf("expected is_success true")
	}
	if len(resp.Data) != 1 || resp.Data[0].TestName != "HEMOGLOBIN" || !resp.Data[0].LabTestOutOfRange {
		t.Errorf("unexpected data: %+v", resp.Data)
	}

	// The temporary upload must be released after the request.
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary upload left behind: %v", entries)
	}
}

func TestServer_CorruptUploadYieldsEmptyData(t *testing.T) {
	// Arrange: undecodable bytes degrade to empty text, not a failure
	srv, uploadDir := newTestServer(t, &stubEngine{text: "unreachable"})
	body, contentType := multipartUpload(t, "file", "broken.png", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/get-lab-tests", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	// Act
	srv.Handler().ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp successResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !resp.IsSuccess || len(resp.Data) != 0 {
		t.Errorf("expected successful empty result, got %+v", resp)
	}
	if raw := rec.Body.String(); !strings.Contains(raw, `"data":[]`) {
		t.Errorf("empty result must serialize as an empty array: %s", raw)
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary upload left behind: %v", entries)
	}
}

func TestServer_MissingFileFieldFails(t *testing.T) {
	// Arrange
	srv, _ := newTestServer(t, &stubEngine{})
	body, contentType := multipartUpload(t, "wrong_field", "report.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/get-lab-tests", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	// Act
	srv.Handler().ServeHTTP(rec, req)

	// Assert
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp failureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.IsSuccess || resp.Error == "" {
		t.Errorf("expected structured failure, got %+v", resp)
	}
}

func TestServer_ConcurrentUploadsDoNotCollide(t *testing.T) {
	// Arrange
	srv, uploadDir := newTestServer(t, &stubEngine{text: "GLUCOSE: 100"})
	png := pngBytes(t)

	type upload struct {
		body        *bytes.Buffer
		contentType string
	}
	uploads := make([]upload, 4)
	for i := range uploads {
		body, contentType := multipartUpload(t, "file", "report.png", png)
		uploads[i] = upload{body: body, contentType: contentType}
	}

	done := make(chan int, len(uploads))
	for _, up := range uploads {
		go func(up upload) {
			req := httptest.NewRequest(http.MethodPost, "/get-lab-tests", up.body)
			req.Header.Set(echo.HeaderContentType, up.contentType)
			rec := httptest.NewRecorder()

			// Act
			srv.Handler().ServeHTTP(rec, req)
			done <- rec.Code
		}(up)
	}

	// Assert
	for i := 0; i < len(uploads); i++ {
		if code := <-done; code != http.StatusOK {
			t.Errorf("request %d returned %d", i, code)
		}
	}
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary uploads left behind: %v", entries)
	}
}
