package edgex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommandClient dispatches set commands through EdgeX core-command.
type CommandClient struct {
	client
}

func NewCommandClient(baseURL string, timeout time.Duration, log *logrus.Entry) *CommandClient {
	return &CommandClient{newClient(baseURL, timeout, log)}
}

// Send issues PUT /device/name/{device}/{command}. The statusCode in the
// response body is reported as is, HTTP success alone does not mean the
// device accepted the command. A failed HTTP status without a usable body
// is reported through the HTTP status.
func (c *CommandClient) Send(ctx context.Context, device, command string, payload map[string]interface{}) (entities.CommandResult, error) {
	path := "/api/" + apiVersion + "/device/name/" + url.PathEscape(device) + "/" + url.PathEscape(command)
	content, status, err := c.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return entities.CommandResult{}, err
	}
	failed := status < http.StatusOK || status >= http.StatusMultipleChoices
	if len(content) == 0 {
		if failed {
			return entities.CommandResult{StatusCode: status, Message: http.StatusText(status)}, nil
		}
		return entities.CommandResult{Message: ErrEmptyResponse.Error()}, nil
	}

	var response BaseResponse
	if err := json.Unmarshal(content, &response); err != nil {
		if failed {
			return entities.CommandResult{StatusCode: status, Message: strings.TrimSpace(string(content))}, nil
		}
		return entities.CommandResult{}, errors.Wrap(err, "decode command response")
	}
	if response.StatusCode == 0 && failed {
		response.StatusCode = status
	}
	c.log.WithFields(logrus.Fields{"Device": device, "Command": command, "Status": response.StatusCode}).Debug("command answered")
	return entities.CommandResult{StatusCode: response.StatusCode, Message: response.Message}, nil
}
