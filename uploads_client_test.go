package brainrot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadsClientGenerateBrainRot(t *testing.T) {
	videoBytes := []byte("not really an mp4")
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/uploads/generateBrainRot", r.URL.Path)
				reqBody := map[string]interface{}{}
				err := json.NewDecoder(r.Body).Decode(&reqBody)
				require.NoError(t, err)
				require.Equal(t, "hello world", reqBody["text"])
				require.Contains(t, reqBody, "subtitle_options")
				require.Contains(t, reqBody, "video_options")
				require.Contains(t, reqBody, "audio_options")
				w.Header().Set("Content-Type", "video/mp4")
				w.Header().Set(
					"Content-Disposition",
					`attachment; filename="folder123"`,
				)
				w.Write(videoBytes)
			},
		),
	)
	defer server.Close()
	client := newTestClient(server.URL)
	result, err := client.Uploads().GenerateBrainRot(
		context.Background(),
		GenerateRequest{
			Title: "Your Title",
			Text:  "hello world",
			AudioOptions: AudioOptions{
				Voice: "onyx",
			},
		},
	)
	require.NoError(t, err)
	require.Equal(t, "video/mp4", result.ContentType)
	require.Equal(t, "folder123", result.FolderID)
	require.Equal(t, videoBytes, result.Data)
}

func TestUploadsClientGenerateInsufficientCredit(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(
					w,
					`{"detail": "Insufficient credits to process video"}`,
				)
			},
		),
	)
	defer server.Close()
	client := newTestClient(server.URL)
	_, err := client.Uploads().GenerateAudio(
		context.Background(),
		GenerateAudioRequest{Text: "hello"},
	)
	require.Error(t, err)
	require.IsType(t, &ErrBadRequest{}, err)
}

func TestUploadsClientRunsGenerateHook(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/ass")
				fmt.Fprint(w, "[Script Info]")
			},
		),
	)
	defer server.Close()
	client := newTestClient(server.URL)
	hookRan := false
	client.uploadsClient.onGenerate = func(context.Context) {
		hookRan = true
	}
	_, err := client.Uploads().GenerateSubtitles(
		context.Background(),
		GenerateSubtitlesRequest{FolderID: "folder123"},
	)
	require.NoError(t, err)
	require.True(t, hookRan)
}

func TestUploadsClientStaticFetches(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/uploads/static/folder123/speech":
					w.Write([]byte("RIFF"))
				case "/uploads/static/folder123/subtitles":
					w.Write([]byte("[Script Info]"))
				default:
					w.WriteHeader(http.StatusNotFound)
					fmt.Fprint(w, `{"detail": "File not found"}`)
				}
			},
		),
	)
	defer server.Close()
	client := newTestClient(server.URL)

	speech, err := client.Uploads().Speech(context.Background(), "folder123")
	require.NoError(t, err)
	require.Equal(t, []byte("RIFF"), speech.Data)

	subtitles, err := client.Uploads().Subtitles(
		context.Background(),
		"folder123",
	)
	require.NoError(t, err)
	require.Equal(t, []byte("[Script Info]"), subtitles.Data)

	_, err = client.Uploads().Speech(context.Background(), "bogus")
	require.Error(t, err)
	require.IsType(t, &ErrNotFound{}, err)
}

func TestDispositionFilename(t *testing.T) {
	require.Equal(
		t,
		"folder123",
		dispositionFilename(`attachment; filename="folder123"`),
	)
	require.Empty(t, dispositionFilename(""))
	require.Empty(t, dispositionFilename("garbage;;;"))
}
