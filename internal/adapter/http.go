package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

const restEndpoint = "/webservice/rest/server.php"

type httpWebService struct {
	client *utils.HTTPClient
}

// NewHTTPWebService constructs the REST implementation of [WebService].
// Transient HTTP failures are retried adapterCfg.RetryCount times.
func NewHTTPWebService(adapterCfg config.ClientAdapter) WebService {
	client := utils.NewHTTPClient(adapterCfg.RequestTimeout, adapterCfg.RetryCount)
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil || resp == nil {
			return false
		}
		code := resp.StatusCode()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	})

	return &httpWebService{client: client}
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidSiteURL)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSiteURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: address must include host and scheme", ErrInvalidSiteURL)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Call implements [WebService]. Parameters are sent form-encoded the way the
// REST server expects nested values: list[0][name]=value.
func (h *httpWebService) Call(ctx context.Context, site models.Site, method string, params map[string]any, result any) error {
	log := logger.FromContext(ctx).With().
		Str("func", "httpWebService.Call").
		Str("site_id", site.ID).
		Str("wsfunction", method).
		Logger()

	baseURL, err := normalizeBaseURL(site.URL)
	if err != nil {
		return err
	}

	form, err := encodeParams(params)
	if err != nil {
		return err
	}
	form.Set("wstoken", site.Token)
	form.Set("wsfunction", method)
	form.Set("moodlewsrestformat", "json")

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(baseURL + restEndpoint)
	if err != nil {
		log.Warn().Err(err).Msg("web service request failed")
		return mapTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode()).Msg("web service answered with an http error")
		return err
	}
	if err = mapWSException(resp.Body()); err != nil {
		log.Debug().Err(err).Msg("web service rejected the call")
		return err
	}

	if result == nil {
		return nil
	}
	if err = json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodeResponse, method, err)
	}
	return nil
}

// encodeParams flattens params into form values. Values go through JSON
// first so structs are encoded by their json tags.
func encodeParams(params map[string]any) (url.Values, error) {
	values := url.Values{}
	if len(params) == 0 {
		return values, nil
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode web service params: %w", err)
	}
	var generic map[string]any
	if err = json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("encode web service params: %w", err)
	}

	for _, key := range sortedKeys(generic) {
		flatten(values, key, generic[key])
	}
	return values, nil
}

func flatten(values url.Values, prefix string, v any) {
	switch v := v.(type) {
	case nil:
	case map[string]any:
		for _, key := range sortedKeys(v) {
			flatten(values, prefix+"["+key+"]", v[key])
		}
	case []any:
		for i, item := range v {
			flatten(values, prefix+"["+strconv.Itoa(i)+"]", item)
		}
	case bool:
		if v {
			values.Set(prefix, "1")
		} else {
			values.Set(prefix, "0")
		}
	case float64:
		values.Set(prefix, strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		values.Set(prefix, v)
	default:
		values.Set(prefix, fmt.Sprint(v))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
