// Package api wraps the vitapick REST endpoints in typed calls. Every call
// goes through a Doer, normally *client.Client, which owns authorization
// and session recovery.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/vitapick/internal/client/client"
	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"github.com/dmitrijs2005/vitapick/internal/common"
)

type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

type API struct {
	d Doer
}

func New(d Doer) *API {
	return &API{d: d}
}

func (a *API) Login(ctx context.Context, email, password string) (*client.TokenPair, error) {
	var pair client.TokenPair
	if err := a.d.Do(ctx, http.MethodPost, common.LoginPath, models.LoginRequest{Email: email, Password: password}, &pair); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &pair, nil
}

func (a *API) SocialSignup(ctx context.Context, req models.SocialSignupRequest) (*client.TokenPair, error) {
	var pair client.TokenPair
	if err := a.d.Do(ctx, http.MethodPost, common.SocialSignupPath, req, &pair); err != nil {
		return nil, fmt.Errorf("social signup: %w", err)
	}
	return &pair, nil
}

func (a *API) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.d.Do(ctx, http.MethodGet, common.MePath, nil, &u); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &u, nil
}

func (a *API) UpdateMe(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	var u models.User
	if err := a.d.Do(ctx, http.MethodPut, common.MePath, req, &u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

// UpsertFCMToken implements push.Upserter.
func (a *API) UpsertFCMToken(ctx context.Context, token, deviceType string) error {
	req := models.FCMTokenRequest{FCMToken: token, DeviceType: deviceType}
	if err := a.d.Do(ctx, http.MethodPut, common.FCMTokenPath, req, nil); err != nil {
		return fmt.Errorf("upsert push token: %w", err)
	}
	return nil
}

func (a *API) NotificationSettings(ctx context.Context) (*models.NotificationSettings, error) {
	var s models.NotificationSettings
	if err := a.d.Do(ctx, http.MethodGet, common.NotificationSettingsMe, nil, &s); err != nil {
		return nil, fmt.Errorf("get notification settings: %w", err)
	}
	return &s, nil
}

func (a *API) UpdateNotificationSettings(ctx context.Context, s models.NotificationSettings) (*models.NotificationSettings, error) {
	var out models.NotificationSettings
	if err := a.d.Do(ctx, http.MethodPut, common.NotificationSettingsMe, s, &out); err != nil {
		return nil, fmt.Errorf("update notification settings: %w", err)
	}
	return &out, nil
}

func (a *API) SearchSupplements(ctx context.Context, q models.SearchQuery) (*models.SupplementPage, error) {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}

	var page models.SupplementPage
	if err := a.d.Do(ctx, http.MethodGet, withQuery(common.SupplementSearchPath, v), nil, &page); err != nil {
		return nil, fmt.Errorf("search supplements: %w", err)
	}
	return &page, nil
}

func (a *API) PopularSupplements(ctx context.Context) ([]models.Supplement, error) {
	var out []models.Supplement
	if err := a.d.Do(ctx, http.MethodGet, common.PopularSupplementsPath, nil, &out); err != nil {
		return nil, fmt.Errorf("popular supplements: %w", err)
	}
	return out, nil
}

func (a *API) LikedSupplements(ctx context.Context) ([]models.Supplement, error) {
	var out []models.Supplement
	if err := a.d.Do(ctx, http.MethodGet, common.SupplementLikesMePath, nil, &out); err != nil {
		return nil, fmt.Errorf("liked supplements: %w", err)
	}
	return out, nil
}

// SetLiked adds (like=true) or removes a like on a supplement.
func (a *API) SetLiked(ctx context.Context, supplementID int64, like bool) error {
	method := http.MethodPost
	if !like {
		method = http.MethodDelete
	}
	path := fmt.Sprintf("%s/%d/likes", common.SupplementsPath, supplementID)
	if err := a.d.Do(ctx, method, path, nil, nil); err != nil {
		return fmt.Errorf("set like on %d: %w", supplementID, err)
	}
	return nil
}

func (a *API) AnalyzeCombination(ctx context.Context, ids []int64) (*models.CombinationAnalysis, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: a combination needs at least two supplements", common.ErrorValidation)
	}
	var out models.CombinationAnalysis
	if err := a.d.Do(ctx, http.MethodPost, common.CombinationAnalyzePath, models.AnalyzeRequest{SupplementIDs: ids}, &out); err != nil {
		return nil, fmt.Errorf("analyze combination: %w", err)
	}
	return &out, nil
}

func (a *API) RecommendCombinations(ctx context.Context) ([]models.Recommendation, error) {
	var out []models.Recommendation
	if err := a.d.Do(ctx, http.MethodGet, common.CombinationRecommend, nil, &out); err != nil {
		return nil, fmt.Errorf("recommend combinations: %w", err)
	}
	return out, nil
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
