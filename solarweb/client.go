package solarweb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.solarweb.com/swqapi"
	// MaxAttempts is the default number of attempts per request.
	MaxAttempts = 5

	defaultRetryWaitTime    = 2 * time.Second
	defaultRetryMaxWaitTime = 60 * time.Second
)

const (
	pvSystemPath = "/pvsystems/{pvSystemId}"
	devicesPath  = "/pvsystems/{pvSystemId}/devices"
	flowDataPath = "/pvsystems/{pvSystemId}/flowdata"
)

// Client queries the Solar.web query API for a single PV system.
type Client struct {
	accessKeyID    string
	accessKeyValue string
	pvSystemID     string

	baseURL          string
	token            string
	tokenExpires     time.Time
	retryCount       int
	retryWaitTime    time.Duration
	retryMaxWaitTime time.Duration

	http     *resty.Client
	validate *validator.Validate
	logger   *slog.Logger
}

func NewClient(accessKeyID, accessKeyValue, pvSystemID string, opts ...OptionFunc) (*Client, error) {
	if accessKeyID == "" || accessKeyValue == "" {
		return nil, fmt.Errorf("invalid or missing access key")
	}
	if pvSystemID == "" {
		return nil, fmt.Errorf("invalid or missing PV system id")
	}
	client := &Client{
		accessKeyID:      accessKeyID,
		accessKeyValue:   accessKeyValue,
		pvSystemID:       pvSystemID,
		baseURL:          DefaultBaseURL,
		retryCount:       MaxAttempts - 1,
		retryWaitTime:    defaultRetryWaitTime,
		retryMaxWaitTime: defaultRetryMaxWaitTime,
		logger:           slog.Default(),
	}
	for _, o := range opts {
		if err := o(client); err != nil {
			return nil, err
		}
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}
	if client.http == nil {
		client.http = resty.New()
	}

	client.http.
		SetBaseURL(client.baseURL).
		SetLogger(restyLogger{client.logger}).
		SetHeader("Accept", "application/json").
		SetHeaderVerbatim("AccessKeyId", accessKeyID).
		SetHeaderVerbatim("AccessKeyValue", accessKeyValue).
		SetRetryCount(client.retryCount).
		SetRetryWaitTime(client.retryWaitTime).
		SetRetryMaxWaitTime(client.retryMaxWaitTime).
		AddRetryCondition(retryable).
		AddRetryHook(func(resp *resty.Response, err error) {
			attrs := []any{slog.Any("error", err)}
			if resp != nil {
				attrs = append(attrs, slog.Int("status", resp.StatusCode()), slog.String("url", resp.Request.URL))
			}
			client.logger.Debug("retrying solar.web request", attrs...)
		})
	if client.token != "" {
		client.http.SetAuthToken(client.token)
	}
	client.validate = validator.New()
	return client, nil
}

func (c *Client) PvSystemID() string {
	return c.pvSystemID
}

// retryable retries network errors and unexpected HTTP statuses. 401 and 404 are final.
func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized, code == http.StatusNotFound:
		return false
	case code < 200 || code >= 300:
		return true
	}
	return false
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	if !c.tokenExpires.IsZero() && c.tokenExpires.Before(time.Now()) {
		return &Error{Kind: KindNotAuthorized, Path: path, Err: fmt.Errorf("token expired at %s", c.tokenExpires.Format(time.RFC3339))}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("pvSystemId", c.pvSystemID).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("solar.web %s: %w", path, ctx.Err())
		}
		return &Error{Kind: KindRetriesExhausted, Path: path, Err: err}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		c.logger.Debug("access unauthorised, check solar.web access key values")
		return &Error{Kind: KindNotAuthorized, Path: path, StatusCode: code, API: apiError(resp)}
	case code == http.StatusNotFound:
		c.logger.Debug("item not found, check your PV system id", slog.String("pvSystemId", c.pvSystemID))
		return &Error{Kind: KindNotFound, Path: path, StatusCode: code, API: apiError(resp)}
	case code < 200 || code >= 300:
		return &Error{Kind: KindRetriesExhausted, Path: path, StatusCode: code, API: apiError(resp)}
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return &Error{Kind: KindInvalidReply, Path: path, StatusCode: resp.StatusCode(), Err: err}
	}
	if err := c.validate.Struct(result); err != nil {
		return &Error{Kind: KindSchemaInvalid, Path: path, StatusCode: resp.StatusCode(), Err: err}
	}
	return nil
}

func apiError(resp *resty.Response) *APIError {
	var e APIError
	if err := json.Unmarshal(resp.Body(), &e); err != nil {
		return nil
	}
	if e.ResponseError == "" && e.ResponseMessage == "" {
		return nil
	}
	return &e
}

// GetPvSystemMetaData returns name, location and peak power of the PV system.
func (c *Client) GetPvSystemMetaData(ctx context.Context) (*PvSystemMetaData, error) {
	c.logger.Debug("listing PV system meta data", slog.String("pvSystemId", c.pvSystemID))
	var data PvSystemMetaData
	if err := c.get(ctx, pvSystemPath, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) GetDevicesMetaData(ctx context.Context) ([]DeviceMetaData, error) {
	c.logger.Debug("listing device meta data", slog.String("pvSystemId", c.pvSystemID))
	var data DevicesMetaData
	if err := c.get(ctx, devicesPath, &data); err != nil {
		return nil, err
	}
	return data.Devices, nil
}

func (c *Client) GetSystemFlowData(ctx context.Context) (*PvSystemFlowData, error) {
	c.logger.Debug("listing PV system flow data", slog.String("pvSystemId", c.pvSystemID))
	var data PvSystemFlowData
	if err := c.get(ctx, flowDataPath, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// restyLogger routes resty's own messages to slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
