package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/kendall-kelly/restaurant-assistant-api/tests/testutil"
	"github.com/stretchr/testify/require"
)

// setupTestRouter creates a test router without middleware
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupTestStore(t *testing.T) *store.Store {
	return store.New(testutil.OpenTestDB(t))
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var response []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeObject(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected an error envelope, got %s", w.Body.String())
	return errObj["code"].(string)
}
