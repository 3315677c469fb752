package stub

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(8000, zap.NewNop()).Router()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON body, got error %v", err)
	}
	return body
}

func detectForm(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if withFile {
		part, err := w.CreateFormFile("file", "test.jpg")
		if err != nil {
			t.Fatalf("Expected to create file part, got %v", err)
		}
		part.Write([]byte("fake image bytes"))
	}

	for key, value := range fields {
		w.WriteField(key, value)
	}
	w.Close()

	return &buf, w.FormDataContentType()
}

func TestHandleHealth(t *testing.T) {
	router := testRouter()

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", body["status"])
	}
	if body["model_loaded"] != true {
		t.Errorf("Expected model_loaded true, got %v", body["model_loaded"])
	}
}

func TestHandleAvailableClasses(t *testing.T) {
	router := testRouter()

	req, _ := http.NewRequest("GET", "/available_classes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	total := int(body["total_classes"].(float64))
	classes := body["classes"].([]interface{})

	if total != 80 {
		t.Errorf("Expected 80 classes, got %d", total)
	}
	if len(classes) != total {
		t.Errorf("Expected classes list length %d, got %d", total, len(classes))
	}

	cats := body["categories"].(map[string]interface{})
	if len(cats) == 0 {
		t.Error("Expected at least one category")
	}
}

func TestHandleDetect(t *testing.T) {
	router := testRouter()

	buf, contentType := detectForm(t, map[string]string{
		"objects":    "car,person",
		"confidence": "0.5",
	}, true)

	req, _ := http.NewRequest("POST", "/detect", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	detections := body["detections"].([]interface{})
	if len(detections) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(detections))
	}

	first := detections[0].(map[string]interface{})
	if first["class_name"] != "car" {
		t.Errorf("Expected first detection 'car', got %v", first["class_name"])
	}
	if first["confidence"].(float64) < 0.5 {
		t.Error("Expected detections above the confidence threshold")
	}
	if body["filename"] != "test.jpg" {
		t.Errorf("Expected filename echo, got %v", body["filename"])
	}
}

func TestHandleDetectRequiresFile(t *testing.T) {
	router := testRouter()

	buf, contentType := detectForm(t, map[string]string{"objects": "car"}, false)

	req, _ := http.NewRequest("POST", "/detect", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without a file, got %d", w.Code)
	}
}

func TestHandleDetectRejectsBadConfidence(t *testing.T) {
	router := testRouter()

	buf, contentType := detectForm(t, map[string]string{
		"objects":    "car",
		"confidence": "1.5",
	}, true)

	req, _ := http.NewRequest("POST", "/detect", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for confidence > 1, got %d", w.Code)
	}
}

func TestHandleDetectFallbackToAll(t *testing.T) {
	router := testRouter()

	buf, contentType := detectForm(t, map[string]string{
		"objects":         "unicorn",
		"confidence":      "0.5",
		"fallback_to_all": "true",
	}, true)

	req, _ := http.NewRequest("POST", "/detect", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	detections := body["detections"].([]interface{})
	if len(detections) == 0 {
		t.Error("Expected fallback detections for an unknown class")
	}
}

func TestHandleDetectFiltersByThreshold(t *testing.T) {
	router := testRouter()

	// With a 0.9 threshold only the first synthetic detection (0.95)
	// survives.
	buf, contentType := detectForm(t, map[string]string{
		"objects":    "car,person,dog",
		"confidence": "0.9",
	}, true)

	req, _ := http.NewRequest("POST", "/detect", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := decodeBody(t, w)
	detections := body["detections"].([]interface{})
	if len(detections) != 1 {
		t.Errorf("Expected 1 detection above 0.9, got %d", len(detections))
	}
}
