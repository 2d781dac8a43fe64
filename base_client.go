package brainrot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

type baseClient struct {
	apiAddress string
	creds      *CredentialStore
	httpClient *http.Client
}

// bearerTokenAuthHeaders returns an Authorization header sourced from the
// credential store, or nil when no credential is held. The access credential
// also rides along as a cookie; the server accepts either transport.
func (b *baseClient) bearerTokenAuthHeaders() map[string]string {
	token := b.creds.Token()
	if token == "" {
		return nil
	}
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

func (b *baseClient) executeAPIRequest(
	ctx context.Context,
	apiReq apiRequest,
) error {
	resp, err := b.submitAPIRequest(ctx, apiReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if apiReq.respObj != nil {
		respBodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if err := json.Unmarshal(respBodyBytes, apiReq.respObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

func (b *baseClient) submitAPIRequest(
	ctx context.Context,
	apiReq apiRequest,
) (*http.Response, error) {
	var reqBodyReader io.Reader
	if apiReq.reqBodyObj != nil {
		switch rb := apiReq.reqBodyObj.(type) {
		case []byte:
			reqBodyReader = bytes.NewBuffer(rb)
		default:
			reqBodyBytes, err := json.Marshal(apiReq.reqBodyObj)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling request body")
			}
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequestWithContext(
		ctx,
		apiReq.method,
		fmt.Sprintf("%s/%s", b.apiAddress, apiReq.path),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			apiReq.method,
			apiReq.path,
		)
	}
	if len(apiReq.queryParams) > 0 {
		q := req.URL.Query()
		for k, v := range apiReq.queryParams {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	for k, v := range apiReq.authHeaders {
		req.Header.Add(k, v)
	}
	for k, v := range apiReq.headers {
		req.Header.Add(k, v)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	if (apiReq.successCode == 0 && resp.StatusCode != http.StatusOK) ||
		(apiReq.successCode != 0 && resp.StatusCode != apiReq.successCode) {
		// HTTP Response code hints at what sort of error might be in the body
		// of the response
		var apiErr error
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			apiErr = &ErrAuthentication{}
		case http.StatusForbidden:
			apiErr = &ErrAuthorization{}
		case http.StatusBadRequest:
			apiErr = &ErrBadRequest{}
		case http.StatusNotFound:
			apiErr = &ErrNotFound{}
		case http.StatusConflict:
			apiErr = &ErrConflict{}
		case http.StatusInternalServerError:
			apiErr = &ErrInternalServer{}
		default:
			return nil, errors.Errorf("received %d from API server", resp.StatusCode)
		}
		bodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error reading error response body")
		}
		resp.Body.Close()
		if len(bodyBytes) > 0 {
			if err = json.Unmarshal(bodyBytes, apiErr); err != nil {
				return nil, errors.Wrap(err, "error unmarshaling error response body")
			}
		}
		return nil, apiErr
	}
	return resp, nil
}
