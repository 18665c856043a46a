package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPythonBackend_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/summarize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "long meeting notes", body["text"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":            true,
			"summary":            "short",
			"word_count":         3,
			"summary_word_count": 1,
		})
	}))
	defer srv.Close()

	client := NewPythonBackend(srv.URL+"/", testLogger())
	got, err := client.Summarize(context.Background(), "long meeting notes")
	require.NoError(t, err)
	assert.Equal(t, "short", got.Summary)
	assert.Equal(t, 3, got.WordCount)
	assert.Equal(t, 1, got.SummaryWordCount)
}

func TestPythonBackend_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewPythonBackend(srv.URL, testLogger()).Summarize(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("success false", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false, "error": "boom"}`))
		}))
		defer srv.Close()

		_, err := NewPythonBackend(srv.URL, testLogger()).Summarize(context.Background(), "x")
		require.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true, "document": ""}`))
		}))
		defer srv.Close()

		_, err := NewPythonBackend(srv.URL, testLogger()).Generate(context.Background(), &services.GenerateRequest{
			Text:         "x",
			DocumentType: models.DocumentTypeBRD,
		})
		require.Error(t, err)
	})
}

func TestPythonBackend_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate-document", r.URL.Path)

		var body services.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.DocumentTypeSRS, body.DocumentType)
		assert.Equal(t, "Apollo", body.Metadata["project_name"])

		_, _ = w.Write([]byte(`{"success": true, "document": "BODY", "document_type": "srs", "filename": "srs_Apollo_20250101_000000.txt", "word_count": 1}`))
	}))
	defer srv.Close()

	got, err := NewPythonBackend(srv.URL, testLogger()).Generate(context.Background(), &services.GenerateRequest{
		Text:         "notes",
		DocumentType: models.DocumentTypeSRS,
		Metadata:     map[string]string{"project_name": "Apollo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "BODY", got.Document)
	assert.Equal(t, "srs_Apollo_20250101_000000.txt", got.Filename)
}

func TestPythonBackend_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transcribe", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "memo.wav", header.Filename)
		assert.Equal(t, "RIFF", string(data))
		assert.Equal(t, "fr", r.FormValue("language"))

		_, _ = w.Write([]byte(`{"success": true, "transcript": "bonjour", "language": "fr", "language_name": "French", "word_count": 1}`))
	}))
	defer srv.Close()

	got, err := NewPythonBackend(srv.URL, testLogger()).Transcribe(context.Background(), &services.AudioInput{
		Filename: "memo.wav",
		Language: "fr",
		Data:     strings.NewReader("RIFF"),
	})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", got.Transcript)
	assert.Equal(t, "French", got.LanguageName)
}
