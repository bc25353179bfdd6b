package edgex

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	apiVersion     = "v3"
	defaultTimeout = 10 * time.Second
)

var ErrEmptyResponse = errors.New("empty response")

// BaseResponse is the envelope every EdgeX v3 endpoint answers with.
type BaseResponse struct {
	APIVersion string `json:"apiVersion"`
	RequestID  string `json:"requestId,omitempty"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"statusCode"`
}

type client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

func newClient(baseURL string, timeout time.Duration, log *logrus.Entry) client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do sends body as JSON and returns the raw response body and status code.
func (c client) do(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	url := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build request")
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	c.log.WithFields(logrus.Fields{"Method": method, "URL": url}).Debug("calling edgex")
	response, err := c.http.Do(request)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s %s", method, url)
	}
	defer response.Body.Close()

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, errors.Wrap(err, "read response body")
	}
	return content, response.StatusCode, nil
}

func httpError(method, path string, status int, content []byte) error {
	return errors.Errorf("%s %s: unexpected status %d: %s", method, path, status, strings.TrimSpace(string(content)))
}
