package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmint/pkg/platform/sentinel"
)

func TestMockModeDeterministicCID(t *testing.T) {
	client := NewClient("", "", true, time.Second)

	first, err := client.UploadFile(context.Background(), []byte("pdf bytes"), "doc.pdf", nil)
	require.NoError(t, err)
	second, err := client.UploadFile(context.Background(), []byte("pdf bytes"), "doc.pdf", nil)
	require.NoError(t, err)
	other, err := client.UploadFile(context.Background(), []byte("different"), "doc.pdf", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.True(t, strings.HasPrefix(first, "Qmmock"))
}

func TestPinSendsAuthAndParsesHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-jwt", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "diploma.pdf", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf bytes"), data)

		json.NewEncoder(w).Encode(pinResponse{IpfsHash: "QmReal"})
	}))
	defer srv.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "diploma.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	client := NewClient("test-jwt", "", false, time.Second)
	cid, err := client.pin(context.Background(), srv.URL, &buf, writer.FormDataContentType())
	require.NoError(t, err)
	assert.Equal(t, "QmReal", cid)
}

func TestUploadJSONMock(t *testing.T) {
	client := NewClient("", "https://gw.example", true, time.Second)
	cid, err := client.UploadJSON(context.Background(), map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.NotEmpty(t, cid)
	assert.Equal(t, "https://gw.example/ipfs/"+cid, client.GatewayURL(cid))
}

func TestPinRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", "", false, time.Second)
	_, err := client.pin(context.Background(), srv.URL, strings.NewReader("{}"), "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUnpinMockIsNoop(t *testing.T) {
	client := NewClient("", "", true, time.Second)
	require.NoError(t, client.Unpin(context.Background(), "QmX"))
}

func TestFetchFileFromGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipfs/QmFile", r.URL.Path)
		_, _ = w.Write([]byte("%PDF-1.7 stored"))
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, false, time.Second)
	data, err := client.FetchFile(context.Background(), "QmFile")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 stored"), data)
}

func TestFetchFileMissingIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, false, time.Second)
	_, err := client.FetchFile(context.Background(), "QmGone")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFetchFileMockHasNoContent(t *testing.T) {
	client := NewClient("", "", true, time.Second)
	_, err := client.FetchFile(context.Background(), "QmmockX")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestGatewayURLDefault(t *testing.T) {
	client := NewClient("", "", true, time.Second)
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/QmX", client.GatewayURL("QmX"))
}
