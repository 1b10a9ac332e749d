package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bulkdozer/core/utils"

	"github.com/gofiber/fiber/v2"
)

// HTTPService talks to the Campaign Manager REST API
// (".../userprofiles/{profileId}/{resource}").
type HTTPService struct {
	baseURL   string
	profileID string
	token     string
	timeout   time.Duration
}

// NewHTTPService creates a Service from configuration. profileID overrides
// cfg.ProfileID when set.
func NewHTTPService(cfg Config, profileID string) (*HTTPService, error) {
	if profileID == "" {
		profileID = cfg.ProfileID
	}
	if profileID == "" {
		return nil, fmt.Errorf("remote profile id is not configured")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPService{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		profileID: profileID,
		token:     cfg.AccessToken,
		timeout:   timeout,
	}, nil
}

// ProfileID returns the user profile the service acts as.
func (s *HTTPService) ProfileID() string { return s.profileID }

func (s *HTTPService) List(ctx context.Context, typ, listField string, params Options) (Page, error) {
	resp, err := s.do(ctx, fiber.MethodGet, "list", typ, resourcePath(typ), encodeQuery(params), nil)
	if err != nil {
		return Page{}, err
	}

	page := Page{NextPageToken: utils.ToString(resp["nextPageToken"])}
	raw, _ := resp[listField].([]any)
	for _, item := range raw {
		if e, ok := item.(map[string]any); ok {
			page.Items = append(page.Items, e)
		}
	}
	return page, nil
}

func (s *HTTPService) Get(ctx context.Context, typ, id string) (Entity, error) {
	return s.do(ctx, fiber.MethodGet, "get", typ, resourcePath(typ)+"/"+url.PathEscape(id), "", nil)
}

func (s *HTTPService) Insert(ctx context.Context, typ string, obj Entity) (Entity, error) {
	return s.do(ctx, fiber.MethodPost, "insert", typ, resourcePath(typ), "", obj)
}

func (s *HTTPService) Update(ctx context.Context, typ string, obj Entity) (Entity, error) {
	return s.do(ctx, fiber.MethodPut, "update", typ, resourcePath(typ), "", obj)
}

func (s *HTTPService) do(ctx context.Context, method, op, typ, path, query string, body Entity) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uri := s.baseURL + "/userprofiles/" + url.PathEscape(s.profileID) + "/" + path
	if query != "" {
		uri += "?" + query
	}

	var a *fiber.Agent
	switch method {
	case fiber.MethodPost:
		a = fiber.Post(uri)
	case fiber.MethodPut:
		a = fiber.Put(uri)
	default:
		a = fiber.Get(uri)
	}
	a.Timeout(s.timeout)
	if s.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", typ, err)
		}
		a.ContentType(fiber.MIMEApplicationJSON).Body(b)
	}

	if err := a.Parse(); err != nil {
		return nil, &Error{Op: op, Type: typ, Message: err.Error()}
	}
	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, &Error{Op: op, Type: typ, Message: errs[0].Error()}
	}
	if code >= 400 {
		return nil, &Error{Op: op, Type: typ, StatusCode: code, Message: errorMessage(code, respBody)}
	}
	if len(strings.TrimSpace(string(respBody))) == 0 {
		return nil, &Error{Op: op, Type: typ, StatusCode: code, Message: "empty response"}
	}

	var out Entity
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &Error{Op: op, Type: typ, StatusCode: code, Message: "invalid response: " + err.Error()}
	}
	return out, nil
}

// resourcePath turns "Campaigns/1/CampaignCreativeAssociations" into
// "campaigns/1/campaignCreativeAssociations".
func resourcePath(typ string) string {
	parts := strings.Split(typ, "/")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "/")
}

func encodeQuery(params Options) string {
	q := url.Values{}
	for k, v := range params {
		switch vv := v.(type) {
		case []string:
			for _, s := range vv {
				q.Add(k, s)
			}
		case []any:
			for _, s := range vv {
				q.Add(k, utils.ToString(s))
			}
		default:
			q.Set(k, utils.ToString(vv))
		}
	}
	return q.Encode()
}

func errorMessage(code int, body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return http.StatusText(code)
	}
	return string(body)
}
