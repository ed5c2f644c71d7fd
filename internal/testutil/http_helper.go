// Package testutil provides utility functions for testing HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// MakeJSONRequest is a helper function for making JSON requests in tests
func MakeJSONRequest(body gin.H, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	payload, _ := json.Marshal(body)

	req, _ := http.NewRequest(method, endpoint, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+authToken)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// MakeJSONListRequest is like MakeJSONRequest for endpoints returning arrays
func MakeJSONListRequest(authToken string, r *gin.Engine, endpoint string) (*httptest.ResponseRecorder, []map[string]interface{}) {
	req, _ := http.NewRequest(http.MethodGet, endpoint, nil)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := []map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// FileField describes one file part of a multipart request
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// MakeMultipartRequest builds a multipart form with text fields and one
// optional file, then serves it against the engine.
func MakeMultipartRequest(fields map[string]string, file *FileField, r *gin.Engine, endpoint string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}

	if file != nil {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + file.FieldName + `"; filename="` + file.FileName + `"`}
		h["Content-Type"] = []string{file.ContentType}
		part, _ := writer.CreatePart(h)
		_, _ = part.Write(file.Content)
	}

	_ = writer.Close()

	req, _ := http.NewRequest(http.MethodPost, endpoint, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}
