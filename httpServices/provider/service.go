package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hotel-broker/logger"
)

// Client talks to the upstream reservation provider. All operations are
// context-bounded and carry the bearer token managed by tokenManager.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
	tokens     *tokenManager
}

func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
	c.tokens = newTokenManager(c.authenticate)
	return c
}

// authenticate exchanges the static credentials for a short-lived token.
func (c *Client) authenticate(ctx context.Context) (*AuthResponse, error) {
	body, err := json.Marshal(AuthRequest{APIKey: c.apiKey, APISecret: c.apiSecret})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: authenticate: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var apiResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	return &apiResp, nil
}

// do sends an authenticated JSON request and decodes the response into out.
// A single retry is performed when the provider rejects the cached token.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}

		var body *bytes.Buffer
		if payload != nil {
			raw, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			body = bytes.NewBuffer(raw)
		} else {
			body = bytes.NewBuffer(nil)
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.tokens.Invalidate()
			continue
		}

		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return decodeError(resp)
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response for %s: %w", path, err)
		}
		return nil
	}
	return ErrUnavailable
}

// decodeError maps a non-2xx response to the error taxonomy: 4xx with a
// provider error body is a business rejection, anything else is unavailable.
func decodeError(resp *http.Response) error {
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return &RejectionError{Code: apiErr.Code, Reason: apiErr.Message}
		}
		return &RejectionError{Code: resp.Status, Reason: "request rejected by provider"}
	}
	return fmt.Errorf("%w: provider returned %s", ErrUnavailable, resp.Status)
}

func (c *Client) SearchRooms(ctx context.Context, req RoomSearchRequest) (*RoomSearchResponse, error) {
	var out RoomSearchResponse
	if err := c.do(ctx, http.MethodPost, "/rooms/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetHotelDetail(ctx context.Context, feedID, hotelCode string) (*HotelDetailResponse, error) {
	var out HotelDetailResponse
	path := fmt.Sprintf("/hotels/%s?feed_id=%s", url.PathEscape(hotelCode), url.QueryEscape(feedID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetHotelList(ctx context.Context, feedID string, lastRevisionDate *time.Time) ([]HotelListItem, error) {
	path := "/hotels?feed_id=" + url.QueryEscape(feedID)
	if lastRevisionDate != nil {
		path += "&last_revision_date=" + url.QueryEscape(lastRevisionDate.Format(time.RFC3339))
	}
	var out []HotelListItem
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCurrencies(ctx context.Context, feedID string) ([]CurrencyItem, error) {
	var out []CurrencyItem
	if err := c.do(ctx, http.MethodGet, "/reference/currencies?feed_id="+url.QueryEscape(feedID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBoardTypes(ctx context.Context, feedID string) ([]BoardTypeItem, error) {
	var out []BoardTypeItem
	if err := c.do(ctx, http.MethodGet, "/reference/board-types?feed_id="+url.QueryEscape(feedID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFacilities(ctx context.Context, feedID string) ([]FacilityItem, error) {
	var out []FacilityItem
	if err := c.do(ctx, http.MethodGet, "/reference/facilities?feed_id="+url.QueryEscape(feedID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRoomAttributes(ctx context.Context, feedID string) ([]RoomAttributeItem, error) {
	var out []RoomAttributeItem
	if err := c.do(ctx, http.MethodGet, "/reference/room-attributes?feed_id="+url.QueryEscape(feedID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLocations(ctx context.Context, feedID string) ([]LocationItem, error) {
	var out []LocationItem
	if err := c.do(ctx, http.MethodGet, "/reference/locations?feed_id="+url.QueryEscape(feedID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBooking commits a booking upstream. Transport failures are mapped to
// ErrIndeterminate, not ErrUnavailable: once the request may have reached the
// provider the outcome is unknown and must be reconciled.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	var out CreateBookingResponse
	err := c.do(ctx, http.MethodPost, "/bookings", req, &out)
	if err != nil {
		if IsRejection(err) {
			return nil, err
		}
		logger.Warning("provider booking outcome unknown for client reference " + req.ClientReferenceID)
		return nil, fmt.Errorf("%w: %v", ErrIndeterminate, err)
	}
	return &out, nil
}

func (c *Client) GetReservationDetail(ctx context.Context, feedID, bookingNumber string) (*ReservationDetailResponse, error) {
	var out ReservationDetailResponse
	path := fmt.Sprintf("/bookings/%s?feed_id=%s", url.PathEscape(bookingNumber), url.QueryEscape(feedID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReservationByClientReference looks a booking up by the caller-issued
// idempotency key. This is the reconciliation path for bookings whose create
// call never returned.
func (c *Client) GetReservationByClientReference(ctx context.Context, feedID, clientReferenceID string) (*ReservationDetailResponse, error) {
	var out ReservationDetailResponse
	path := fmt.Sprintf("/bookings/by-client-reference/%s?feed_id=%s", url.PathEscape(clientReferenceID), url.QueryEscape(feedID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, req CancelBookingRequest) (*CancelBookingResponse, error) {
	var out CancelBookingResponse
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(req.BookingNumber)+"/cancel", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
