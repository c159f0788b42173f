// Package mediasvc - Test client media host với httptest server.
package mediasvc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteRemote_ThanhCong(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewMediaServiceWithConfig(server.URL, "key", "secret", 5)
	err := svc.DeleteRemote(context.Background(), "asset_123")
	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/resources/asset_123", gotPath)
}

func TestDeleteRemote_MediaHostTuChoi(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := NewMediaServiceWithConfig(server.URL, "key", "secret", 5)
	err := svc.DeleteRemote(context.Background(), "asset_123")
	assert.Error(t, err)
}

func TestFetchVideo_StreamVaContentType(t *testing.T) {
	payload := []byte("fake-video-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/quicktime")
		w.Write(payload)
	}))
	defer server.Close()

	svc := NewMediaServiceWithConfig(server.URL, "", "", 5)
	body, contentType, _, err := svc.FetchVideo(context.Background(), server.URL+"/v/clip.mov")
	assert.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "video/quicktime", contentType)
	data, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFetchVideo_KhongTonTai(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewMediaServiceWithConfig(server.URL, "", "", 5)
	_, _, _, err := svc.FetchVideo(context.Background(), server.URL+"/v/missing.mp4")
	assert.Error(t, err)
}
