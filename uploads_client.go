package brainrot

import (
	"context"
	"fmt"
	"io/ioutil"
	"mime"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// The server throttles generation endpoints aggressively; pacing requests
// client-side keeps a batch caller from tripping its limiter.
const uploadRequestInterval = 2 * time.Second
const uploadRequestBurst = 5

// UploadsClient talks to the Generation API. Payloads are returned opaque--
// a raw video, a subtitle definition, or an archive-- along with their
// content type. Extracting archives is the caller's concern.
type UploadsClient interface {
	// GenerateBrainRot renders text to a finished video in one round trip.
	GenerateBrainRot(
		ctx context.Context,
		req GenerateRequest,
	) (*GenerateResult, error)
	// GenerateAudio runs the text-to-speech stage of the pipeline.
	GenerateAudio(
		ctx context.Context,
		req GenerateAudioRequest,
	) (*GenerateResult, error)
	// GenerateSubtitles produces styled subtitles for previously synthesized
	// speech.
	GenerateSubtitles(
		ctx context.Context,
		req GenerateSubtitlesRequest,
	) (*GenerateResult, error)
	// GenerateDownload assembles and returns the final video.
	GenerateDownload(
		ctx context.Context,
		req GenerateDownloadRequest,
	) (*GenerateResult, error)
	// Speech fetches the synthesized speech file for a generation folder.
	Speech(ctx context.Context, folderID string) (*GenerateResult, error)
	// Subtitles fetches the subtitle definition file for a generation
	// folder.
	Subtitles(ctx context.Context, folderID string) (*GenerateResult, error)
}

type uploadsClient struct {
	*baseClient
	limiter *rate.Limiter
	// onGenerate, when set, runs after every successful generation call.
	// The session manager uses it to resynchronize the displayed credit
	// balance.
	onGenerate func(context.Context)
}

func newUploadsClient(baseClient *baseClient) *uploadsClient {
	return &uploadsClient{
		baseClient: baseClient,
		limiter: rate.NewLimiter(
			rate.Every(uploadRequestInterval),
			uploadRequestBurst,
		),
	}
}

func (u *uploadsClient) GenerateBrainRot(
	ctx context.Context,
	req GenerateRequest,
) (*GenerateResult, error) {
	return u.generate(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "uploads/generateBrainRot",
			authHeaders: u.bearerTokenAuthHeaders(),
			reqBodyObj:  req,
			successCode: http.StatusOK,
		},
	)
}

func (u *uploadsClient) GenerateAudio(
	ctx context.Context,
	req GenerateAudioRequest,
) (*GenerateResult, error) {
	return u.generate(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "uploads/generateAudio",
			authHeaders: u.bearerTokenAuthHeaders(),
			reqBodyObj:  req,
			successCode: http.StatusOK,
		},
	)
}

func (u *uploadsClient) GenerateSubtitles(
	ctx context.Context,
	req GenerateSubtitlesRequest,
) (*GenerateResult, error) {
	return u.generate(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "uploads/generateSubtitles",
			authHeaders: u.bearerTokenAuthHeaders(),
			reqBodyObj:  req,
			successCode: http.StatusOK,
		},
	)
}

func (u *uploadsClient) GenerateDownload(
	ctx context.Context,
	req GenerateDownloadRequest,
) (*GenerateResult, error) {
	return u.generate(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "uploads/generateDownload",
			authHeaders: u.bearerTokenAuthHeaders(),
			reqBodyObj:  req,
			successCode: http.StatusOK,
		},
	)
}

func (u *uploadsClient) Speech(
	ctx context.Context,
	folderID string,
) (*GenerateResult, error) {
	return u.generate(
		ctx,
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("uploads/static/%s/speech", folderID),
			authHeaders: u.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
		},
	)
}

func (u *uploadsClient) Subtitles(
	ctx context.Context,
	folderID string,
) (*GenerateResult, error) {
	return u.generate(
		ctx,
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("uploads/static/%s/subtitles", folderID),
			authHeaders: u.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
		},
	)
}

func (u *uploadsClient) generate(
	ctx context.Context,
	apiReq apiRequest,
) (*GenerateResult, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "error waiting for request budget")
	}
	resp, err := u.submitAPIRequest(ctx, apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response payload")
	}
	result := &GenerateResult{
		ContentType: resp.Header.Get("Content-Type"),
		FolderID:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		Data:        data,
	}
	if u.onGenerate != nil {
		u.onGenerate(ctx)
	}
	return result, nil
}

// dispositionFilename extracts the filename parameter the server uses to
// communicate the generation folder ID. Absence or malformation yields the
// empty string.
func dispositionFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
