package likeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
)

// Status is the tri-state classification of one like submission.
type Status string

const (
	// StatusSuccess: the API granted at least one like in this call.
	StatusSuccess Status = "success"
	// StatusMaxed: the call was recognized but zero likes were granted; the
	// account hit the upstream service's own daily allowance. This is not
	// the bot's quota.
	StatusMaxed Status = "maxlike"
	// StatusUnavailable: transport failure, timeout, non-200 response or an
	// unrecognized body. Transient; the caller may simply retry later.
	StatusUnavailable Status = "unavailable"
)

// Outcome carries everything either caller needs: the command handler renders
// the display fields, the auto-like job only aggregates status and count.
type Outcome struct {
	Status     Status
	Nickname   string
	UID        string
	Region     string
	LikesGiven int
	Before     int
	After      int
}

const (
	probeUID    = "6427406194"
	probeRegion = "IND"
)

// apiResponse mirrors the upstream body. Status stays raw because only its
// presence marks a recognized response.
type apiResponse struct {
	Status         json.RawMessage `json:"status"`
	PlayerNickname string          `json:"PlayerNickname"`
	UID            string          `json:"UID"`
	LikesGiven     int             `json:"LikesGivenByAPI"`
	LikesBefore    int             `json:"LikesbeforeCommand"`
	LikesAfter     int             `json:"LikesafterCommand"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("like api base url is empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse like api url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid like api url: %s", trimmed)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// RequestLike submits one like for uid in the given region. Transport and
// format failures are part of the outcome (StatusUnavailable), not errors;
// the error return covers only failures outside that taxonomy, such as a
// request that cannot be built.
func (c *Client) RequestLike(ctx context.Context, uid, region string) (Outcome, error) {
	if strings.TrimSpace(uid) == "" {
		return Outcome{}, errors.New("uid is required")
	}

	query := url.Values{}
	query.Set("uid", uid)
	query.Set("region", rules.WireRegion(region))
	fullURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("create like request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("like api request failed", zap.String("uid", uid), zap.Error(err))
		return unavailable(uid, region), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("like api returned non-200",
			zap.String("uid", uid), zap.Int("status_code", resp.StatusCode))
		return unavailable(uid, region), nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.logger.Warn("read like api response", zap.String("uid", uid), zap.Error(err))
		return unavailable(uid, region), nil
	}

	var body apiResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		c.logger.Warn("decode like api response", zap.String("uid", uid), zap.Error(err))
		return unavailable(uid, region), nil
	}
	if len(body.Status) == 0 {
		c.logger.Warn("like api response has no status marker", zap.String("uid", uid))
		return unavailable(uid, region), nil
	}

	outcome := Outcome{
		Nickname:   body.PlayerNickname,
		UID:        body.UID,
		Region:     region, // caller's code, even when IND went out as IN
		LikesGiven: body.LikesGiven,
		Before:     body.LikesBefore,
		After:      body.LikesAfter,
	}
	if outcome.Nickname == "" {
		outcome.Nickname = "Unknown"
	}
	if outcome.UID == "" {
		outcome.UID = uid
	}

	// The granted counter decides the outcome, not the API's status field:
	// a "success" body with zero granted likes means the account already hit
	// the upstream's own daily cap.
	if body.LikesGiven > 0 {
		outcome.Status = StatusSuccess
	} else {
		outcome.Status = StatusMaxed
	}
	return outcome, nil
}

// Ping runs the connectivity probe used at startup and by /testapi. Any
// recognized outcome counts as reachable, including upstream-maxed.
func (c *Client) Ping(ctx context.Context) bool {
	outcome, err := c.RequestLike(ctx, probeUID, probeRegion)
	if err != nil {
		return false
	}
	return outcome.Status != StatusUnavailable
}

func unavailable(uid, region string) Outcome {
	return Outcome{Status: StatusUnavailable, UID: uid, Region: region}
}
