package client

import (
	"encoding/json"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battmon/pkg/config"
	"github.com/charlie0129/battmon/pkg/types"
)

// SetThreshold sets the unplug threshold and returns the daemon's message.
func (c *Client) SetThreshold(t int) (string, error) {
	ret, err := c.Put("/threshold", strconv.Itoa(t))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to set threshold")
	}
	return unquote(ret), nil
}

func (c *Client) GetThreshold() (int, error) {
	ret, err := c.Get("/threshold")
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to get threshold")
	}
	var t int
	if err := json.Unmarshal([]byte(ret), &t); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to unmarshal threshold")
	}
	return t, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetStatus() (*types.Status, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get status")
	}

	var st types.Status
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal status")
	}

	return &st, nil
}

// Poll forces an immediate monitor cycle and returns it.
func (c *Client) Poll() (*types.CycleStatus, error) {
	ret, err := c.Post("/poll", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to poll battery")
	}

	var cs types.CycleStatus
	if err := json.Unmarshal([]byte(ret), &cs); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal cycle")
	}

	return &cs, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	return unquote(ret), nil
}

// unquote strips the JSON quotes around a string response. Anything that is
// not a JSON string is returned as is.
func unquote(s string) string {
	var v string
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
