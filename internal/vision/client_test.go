package vision_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KeyzarRasya/lativa/internal/config"
	"github.com/KeyzarRasya/lativa/internal/vision"
)

func TestCheckVideo_UploadsMultipartAndDecodesVerdict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Filename != "evidence.mp4" {
			t.Errorf("filename: got=%q", header.Filename)
		}
		body, _ := io.ReadAll(file)
		if string(body) != "fake video bytes" {
			t.Errorf("payload: got=%q", body)
		}

		w.Write([]byte(`{"detection": "crowd", "result_url": "http://example.com/r/1"}`))
	}))
	t.Cleanup(srv.Close)

	client := vision.NewClient(config.VisionConfig{
		CheckVideoURL: srv.URL,
		Timeout:       2 * time.Second,
	})

	result, err := client.CheckVideo(context.Background(), "evidence.mp4", strings.NewReader("fake video bytes"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Detection != "crowd" || result.ResultURL != "http://example.com/r/1" {
		t.Fatalf("result: %+v", result)
	}
}

func TestCheckVideo_BadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := vision.NewClient(config.VisionConfig{CheckVideoURL: srv.URL, Timeout: 2 * time.Second})

	if _, err := client.CheckVideo(context.Background(), "a.mp4", strings.NewReader("x")); err == nil {
		t.Fatalf("want error on non-200")
	}
}

func TestCheckVideo_Unconfigured(t *testing.T) {
	t.Parallel()

	client := vision.NewClient(config.VisionConfig{})

	if _, err := client.CheckVideo(context.Background(), "a.mp4", strings.NewReader("x")); err == nil {
		t.Fatalf("want error when endpoint is unset")
	}
}
