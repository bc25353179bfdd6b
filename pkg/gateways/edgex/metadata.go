package edgex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type deviceResponse struct {
	BaseResponse
	Device *entities.DeviceRecord `json:"device"`
}

type updateDeviceRequest struct {
	APIVersion string                 `json:"apiVersion"`
	Device     updateDeviceProtocols `json:"device"`
}

type updateDeviceProtocols struct {
	Name      string             `json:"name"`
	Protocols entities.Protocols `json:"protocols"`
}

// MetadataClient is the record store backed by EdgeX core-metadata.
type MetadataClient struct {
	client
}

func NewMetadataClient(baseURL string, timeout time.Duration, log *logrus.Entry) *MetadataClient {
	return &MetadataClient{newClient(baseURL, timeout, log)}
}

// GetDevice returns the device record. An unknown device yields an empty
// record without error.
func (m *MetadataClient) GetDevice(ctx context.Context, name string) (entities.DeviceRecord, error) {
	path := "/api/" + apiVersion + "/device/name/" + url.PathEscape(name)
	content, status, err := m.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return entities.DeviceRecord{}, err
	}
	if status == http.StatusNotFound {
		m.log.WithField("Device", name).Warn("device not found in core-metadata")
		return entities.DeviceRecord{Name: name}, nil
	}
	if status != http.StatusOK {
		return entities.DeviceRecord{}, httpError(http.MethodGet, path, status, content)
	}

	var response deviceResponse
	if err := json.Unmarshal(content, &response); err != nil {
		return entities.DeviceRecord{}, errors.Wrap(err, "decode device response")
	}
	if response.Device == nil {
		return entities.DeviceRecord{Name: name}, nil
	}
	return *response.Device, nil
}

// UpdateProtocols replaces the protocols field of the device. An empty
// answer from core-metadata counts as a failure.
func (m *MetadataClient) UpdateProtocols(ctx context.Context, name string, protocols entities.Protocols) error {
	path := "/api/" + apiVersion + "/device"
	body := []updateDeviceRequest{{
		APIVersion: apiVersion,
		Device:     updateDeviceProtocols{Name: name, Protocols: protocols},
	}}
	content, status, err := m.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return httpError(http.MethodPatch, path, status, content)
	}

	var responses []BaseResponse
	if len(content) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(content, &responses); err != nil {
		return errors.Wrap(err, "decode update response")
	}
	if len(responses) == 0 {
		return ErrEmptyResponse
	}
	for _, response := range responses {
		if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
			return errors.Errorf("update device %s: status %d: %s", name, response.StatusCode, response.Message)
		}
	}
	return nil
}
