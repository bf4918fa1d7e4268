package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/utils"
)

const maxResponseBytes = 4 << 20

// MenuBackend is the set of menu REST operations the screens depend on.
type MenuBackend interface {
	ListDishes(ctx context.Context) ([]models.Dish, error)
	CreateDish(ctx context.Context, in models.DishInput) (*models.Dish, error)
	UpdateDish(ctx context.Context, id models.DishID, in models.DishInput) error
	DeleteDish(ctx context.Context, id models.DishID) error
	ListTodayDishes(ctx context.Context) ([]models.Dish, error)
	AddTodayDishes(ctx context.Context, ids []models.DishID) (BatchResult, error)
	DeleteTodayDish(ctx context.Context, id models.DishID) error
}

// BatchResult is the outcome of adding several dishes to today's menu.
// Added and Rejected together cover every id that was sent.
type BatchResult struct {
	Added    []models.DishID `json:"added"`
	Rejected []models.DishID `json:"rejected"`
	Message  string          `json:"message,omitempty"`
}

// MenuClient talks to the menu backend's REST API.
type MenuClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMenuClient(baseURL string, timeout time.Duration) *MenuClient {
	return &MenuClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewMenuClientWithHTTP lets callers supply their own *http.Client.
func NewMenuClientWithHTTP(baseURL string, httpClient *http.Client) *MenuClient {
	return &MenuClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (mc *MenuClient) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return mc.list(ctx, "list dishes", "/api/getDish")
}

func (mc *MenuClient) ListTodayDishes(ctx context.Context) ([]models.Dish, error) {
	return mc.list(ctx, "list today's dishes", "/api/getDishToday")
}

// mutationResponse covers the shapes the backend answers mutations with:
// {"message": ...} optionally carrying the record under "dish" or "data".
type mutationResponse struct {
	Message string          `json:"message"`
	Dish    json.RawMessage `json:"dish"`
	Data    json.RawMessage `json:"data"`
}

// CreateDish returns the created record when the backend echoes it back, and
// nil when it only acknowledges.
func (mc *MenuClient) CreateDish(ctx context.Context, in models.DishInput) (*models.Dish, error) {
	const op = "create dish"

	var resp mutationResponse
	if err := mc.do(ctx, op, http.MethodPost, "/api/addDish", in, &resp); err != nil {
		return nil, err
	}

	for _, raw := range []json.RawMessage{resp.Dish, resp.Data} {
		if len(raw) == 0 {
			continue
		}
		var d models.Dish
		if err := json.Unmarshal(raw, &d); err == nil && d.ID != "" {
			return &d, nil
		}
	}
	return nil, nil
}

func (mc *MenuClient) UpdateDish(ctx context.Context, id models.DishID, in models.DishInput) error {
	return mc.do(ctx, "update dish", http.MethodPut, "/api/updateDish/"+url.PathEscape(id.String()), in, nil)
}

func (mc *MenuClient) DeleteDish(ctx context.Context, id models.DishID) error {
	return mc.do(ctx, "delete dish", http.MethodDelete, "/api/deleteDish/"+url.PathEscape(id.String()), nil, nil)
}

func (mc *MenuClient) DeleteTodayDish(ctx context.Context, id models.DishID) error {
	return mc.do(ctx, "remove dish from today's menu", http.MethodDelete, "/api/deleteDishToday/"+url.PathEscape(id.String()), nil, nil)
}

// AddTodayDishes sends ids in one batch. When the backend reports per-id
// outcomes ("added" and/or "rejected") they are honoured; when it reports
// neither, every id counts as added.
func (mc *MenuClient) AddTodayDishes(ctx context.Context, ids []models.DishID) (BatchResult, error) {
	const op = "add dishes to today's menu"

	if len(ids) == 0 {
		return BatchResult{}, ErrEmptySelection
	}

	payload := struct {
		Dishes []models.DishID `json:"dishes"`
	}{Dishes: ids}

	var resp struct {
		Message  string           `json:"message"`
		Added    *[]models.DishID `json:"added"`
		Rejected *[]models.DishID `json:"rejected"`
	}
	if err := mc.do(ctx, op, http.MethodPost, "/api/addDishToday", payload, &resp); err != nil {
		return BatchResult{}, err
	}

	return splitBatch(ids, resp.Added, resp.Rejected, resp.Message), nil
}

func splitBatch(sent []models.DishID, added, rejected *[]models.DishID, message string) BatchResult {
	res := BatchResult{Message: message}

	if added == nil && rejected == nil {
		res.Added = append([]models.DishID(nil), sent...)
		return res
	}

	in := func(list *[]models.DishID, id models.DishID) bool {
		if list == nil {
			return false
		}
		for _, v := range *list {
			if v == id {
				return true
			}
		}
		return false
	}

	for _, id := range sent {
		switch {
		case in(rejected, id):
			res.Rejected = append(res.Rejected, id)
		case added == nil || in(added, id):
			res.Added = append(res.Added, id)
		default:
			res.Rejected = append(res.Rejected, id)
		}
	}
	return res
}

func (mc *MenuClient) list(ctx context.Context, op, path string) ([]models.Dish, error) {
	var raw json.RawMessage
	if err := mc.do(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	dishes, err := decodeDishList(raw)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return dishes, nil
}

// decodeDishList accepts a bare array, or an envelope with the array under
// "data" or "dishes".
func decodeDishList(raw json.RawMessage) ([]models.Dish, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []models.Dish{}, nil
	}

	dishes := []models.Dish{}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &dishes); err != nil {
			return nil, fmt.Errorf("decode dish list: %w", err)
		}
		return dishes, nil
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Dishes json.RawMessage `json:"dishes"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode dish list: %w", err)
	}
	for _, inner := range []json.RawMessage{envelope.Data, envelope.Dishes} {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '[' {
			return decodeDishList(inner)
		}
	}
	return nil, errors.New("decode dish list: response holds no list")
}

func (mc *MenuClient) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, mc.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := utils.InfoLogger.WithFields(logrus.Fields{"op": op, "method": method, "path": path})
	start := time.Now()

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	log.WithFields(logrus.Fields{"status": resp.StatusCode, "latency": time.Since(start)}).Debug("menu backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(respBody, resp.StatusCode)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage pulls a human message out of an error body: "error" first
// (string or {"message": ...}), then "message", then the status text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Error) > 0 {
			var s string
			if json.Unmarshal(payload.Error, &s) == nil && strings.TrimSpace(s) != "" {
				return s
			}
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(payload.Error, &nested) == nil && strings.TrimSpace(nested.Message) != "" {
				return nested.Message
			}
		}
		if strings.TrimSpace(payload.Message) != "" {
			return payload.Message
		}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) <= 200 && !strings.HasPrefix(msg, "{") {
		return msg
	}
	return http.StatusText(status)
}
