// Package server exposes the extraction pipeline over HTTP: an upload form,
// and a processing endpoint returning the structured lab test results.
package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"labocr/internal/extract"
	"labocr/internal/labtest"
	"labocr/internal/logger"
)

type Server struct {
	echo      *echo.Echo
	extractor *extract.Extractor
	uploadDir string
}

type successResponse struct {
	IsSuccess bool             `json:"is_success"`
	Data      []labtest.Result `json:"data"`
}

type failureResponse struct {
	IsSuccess bool   `json:"is_success"`
	Error     string `json:"error"`
}

type methodNotAllowedResponse struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func New(extractor *extract.Extractor, uploadDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())

	s := &Server{
		echo:      e,
		extractor: extractor,
		uploadDir: uploadDir,
	}

	e.GET("/", s.handleIndex)
	e.GET("/get-lab-tests", s.handleLabTestsGet)
	e.POST("/get-lab-tests", s.handleLabTests)

	return s
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return err
	}
	return s.echo.Start(addr)
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.HTML(http.StatusOK, indexHTML)
}

// handleLabTestsGet rejects GET against the processing endpoint with an
// explanatory body instead of attempting processing.
func (s *Server) handleLabTestsGet(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, methodNotAllowedResponse{
		Detail:  "Method Not Allowed",
		Message: "This endpoint only accepts POST requests with a file upload",
	})
}

// handleLabTests processes one uploaded report image. Every in-flight request
// owns a uuid-named temporary file, removed on success and failure alike.
// Any internal failure becomes a structured error body, never a raw crash.
func (s *Server) handleLabTests(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return s.fail(c, err)
	}
	logger.Infof("processing file: %s", fileHeader.Filename)

	tempPath, err := s.saveUpload(fileHeader)
	if err != nil {
		return s.fail(c, err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			logger.Warnf("removing temporary file %s: %v", tempPath, err)
		} else {
			logger.Infof("temporary file removed")
		}
	}()

	text := s.extractor.Text(tempPath)

	records := labtest.Parse(text)
	logger.Infof("found %d lab tests", len(records))

	results, err := labtest.Format(records)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, successResponse{IsSuccess: true, Data: results})
}

func (s *Server) fail(c echo.Context, err error) error {
	logger.Errorf("error processing request: %v", err)
	return c.JSON(http.StatusInternalServerError, failureResponse{IsSuccess: false, Error: err.Error()})
}

// saveUpload persists the multipart upload under a collision-free name so
// concurrent requests never share a temporary artifact.
func (s *Server) saveUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	tempPath := filepath.Join(s.uploadDir, uuid.New().String()+ext)

	dst, err := os.Create(tempPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	logger.Infof("file saved to %s, running OCR...", tempPath)
	return tempPath, nil
}
