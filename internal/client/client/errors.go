package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/dmitrijs2005/transcribed/internal/netx"
)

var ErrUnavailable = errors.New("server unavailable")

// sentinelFor maps an API status code back to the shared sentinel errors.
func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return common.ErrorUpstream
	default:
		return common.ErrorInternal
	}
}

// apiError turns a non-2xx response into "<sentinel>: <server message>".
func apiError(resp *http.Response) error {
	body := netx.ErrorBody(resp)

	var e struct {
		Error string `json:"error"`
	}
	msg := resp.Status
	if err := json.Unmarshal([]byte(body), &e); err == nil && e.Error != "" {
		msg = e.Error
	}
	return fmt.Errorf("%w: %s", sentinelFor(resp.StatusCode), msg)
}
