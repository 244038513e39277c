package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wetc/inventory"
	"go.uber.org/goleak"
	"golang.org/x/oauth2"
)

// fakeESI serves the SSO token endpoint and a few ESI endpoints.
type fakeESI struct {
	t          *testing.T
	tokens     atomic.Int32
	flaky      atomic.Int32
	failStatus int
}

func (f *fakeESI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		f.token(w, r)
		return
	}
	if got := r.Header.Get("Authorization"); got != "Bearer access-token" {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"authentication failure"}`)
		return
	}
	if got := r.Header.Get("User-Agent"); got != "invctl-test" {
		f.t.Errorf("User-Agent = %q, want invctl-test", got)
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	switch r.URL.Path {
	case "/corporations/98000001/assets/":
		w.Header().Set("X-Pages", "3")
		writeJSON(w, []map[string]any{
			{"item_id": page*10 + 1, "location_flag": "CorpSAG1", "location_id": 1000, "location_type": "item", "quantity": page, "type_id": 34, "is_singleton": false},
			{"item_id": page*10 + 2, "location_flag": "CorpSAG2", "location_id": 1000, "location_type": "item", "quantity": 1, "type_id": 35, "is_singleton": true},
		})
	case "/markets/10000002/orders/":
		if got := r.URL.Query().Get("order_type"); got != "all" {
			f.t.Errorf("order_type = %q, want all", got)
		}
		w.Header().Set("X-Pages", "2")
		writeJSON(w, []map[string]any{
			{"order_id": page*10 + 1, "type_id": 34, "is_buy_order": true, "price": 5.01, "location_id": 60003760, "volume_remain": 10},
			{"order_id": page*10 + 2, "type_id": 34, "is_buy_order": false, "price": 6, "location_id": 60008494, "volume_remain": 10},
		})
	case "/markets/structures/1022734985679/":
		writeJSON(w, []map[string]any{
			{"order_id": 7, "type_id": 35, "is_buy_order": false, "price": 12.5, "location_id": 1022734985679},
		})
	case "/flaky/":
		if f.flaky.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, []map[string]any{})
	case "/fail/":
		f.flaky.Add(1)
		w.WriteHeader(f.failStatus)
		fmt.Fprint(w, `{"error":"token is not valid for scope(s): [esi-assets.read_corporation_assets.v1]"}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeESI) token(w http.ResponseWriter, r *http.Request) {
	f.tokens.Add(1)
	id, secret, ok := r.BasicAuth()
	if !ok || id != "client" || secret != "secret" {
		f.t.Errorf("token request basic auth = %q %q %v", id, secret, ok)
	}
	if got := r.FormValue("grant_type"); got != "refresh_token" {
		f.t.Errorf("grant_type = %q, want refresh_token", got)
	}
	if got := r.FormValue("refresh_token"); got != "refresh" {
		f.t.Errorf("refresh_token = %q, want refresh", got)
	}
	writeJSON(w, map[string]any{"access_token": "access-token", "token_type": "Bearer", "expires_in": 1199, "refresh_token": "refresh"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// newTestClient returns a Client talking to a fake ESI, and a teardown function.
func newTestClient(t *testing.T) (*Client, *fakeESI, func()) {
	fake := &fakeESI{t: t}
	srv := httptest.NewServer(fake)
	tr := &http.Transport{}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: tr})
	c := New(ctx, Config{
		ClientID:     "client",
		SecretKey:    "secret",
		CallbackURL:  "http://localhost/callback",
		UserAgent:    "invctl-test",
		RefreshToken: "refresh",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
	}, nil)
	c.Backoff = time.Millisecond
	return c, fake, func() {
		tr.CloseIdleConnections()
		srv.Close()
	}
}

func TestCorporationAssets(t *testing.T) {
	defer goleak.VerifyNone(t)
	c, fake, done := newTestClient(t)
	defer done()

	got, err := c.CorporationAssets(context.Background(), 98000001)

	require.NoError(t, err)
	want := []inventory.Record{
		{ItemID: 11, LocationFlag: "CorpSAG1", LocationID: 1000, Quantity: 1, TypeID: 34},
		{ItemID: 12, LocationFlag: "CorpSAG2", LocationID: 1000, Quantity: 1, TypeID: 35},
		{ItemID: 21, LocationFlag: "CorpSAG1", LocationID: 1000, Quantity: 2, TypeID: 34},
		{ItemID: 22, LocationFlag: "CorpSAG2", LocationID: 1000, Quantity: 1, TypeID: 35},
		{ItemID: 31, LocationFlag: "CorpSAG1", LocationID: 1000, Quantity: 3, TypeID: 34},
		{ItemID: 32, LocationFlag: "CorpSAG2", LocationID: 1000, Quantity: 1, TypeID: 35},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CorporationAssets() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int32(1), fake.tokens.Load(), "the access token must be reused")
}

func TestOrders(t *testing.T) {
	defer goleak.VerifyNone(t)
	c, _, done := newTestClient(t)
	defer done()
	ctx := context.Background()

	station := &inventory.Market{Name: "Jita", LocationID: 60003760, RegionID: 10000002, Kind: inventory.Station}
	orders, err := c.Orders(ctx, station)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, int64(60003760), o.LocationID)
		assert.True(t, o.IsBuy)
		assert.Equal(t, "5.01", o.Price.String())
	}
	assert.ElementsMatch(t, []int64{11, 21}, []int64{orders[0].OrderID, orders[1].OrderID})

	structure := &inventory.Market{Name: "Keepstar", LocationID: 1022734985679, RegionID: 10000002, Kind: inventory.Structure}
	orders, err = c.Orders(ctx, structure)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(35), orders[0].TypeID)
	assert.False(t, orders[0].IsBuy)

	_, err = c.Orders(ctx, &inventory.Market{Name: "Nowhere"})
	assert.Error(t, err)
}

func TestRetryOnServerError(t *testing.T) {
	defer goleak.VerifyNone(t)
	c, fake, done := newTestClient(t)
	defer done()

	_, err := all[inventory.Order](context.Background(), c, "/flaky/", nil)

	require.NoError(t, err)
	assert.Equal(t, int32(3), fake.flaky.Load())
}

func TestServerErrorGivesUp(t *testing.T) {
	defer goleak.VerifyNone(t)
	c, fake, done := newTestClient(t)
	defer done()
	fake.failStatus = http.StatusServiceUnavailable

	_, err := all[inventory.Order](context.Background(), c, "/fail/", nil)

	var eerr *Error
	require.True(t, errors.As(err, &eerr), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, eerr.StatusCode)
	assert.Equal(t, int32(3), fake.flaky.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	defer goleak.VerifyNone(t)
	c, fake, done := newTestClient(t)
	defer done()
	fake.failStatus = http.StatusForbidden

	_, err := all[inventory.Order](context.Background(), c, "/fail/", nil)

	var eerr *Error
	require.True(t, errors.As(err, &eerr), "got %v", err)
	assert.Equal(t, http.StatusForbidden, eerr.StatusCode)
	assert.Equal(t, "token is not valid for scope(s): [esi-assets.read_corporation_assets.v1]", eerr.Message)
	assert.Equal(t, int32(1), fake.flaky.Load())
}

func TestNewError(t *testing.T) {
	testCases := []struct {
		body string
		want string
	}{
		{`{"error":"Not found"}`, "Not found"},
		{`{"message":"other"}`, `{"message":"other"}`},
		{"bad gateway\n", "bad gateway"},
	}
	for _, tc := range testCases {
		got := newError(http.StatusNotFound, []byte(tc.body)).Message
		if got != tc.want {
			t.Errorf("newError(%q).Message = %q, want %q", tc.body, got, tc.want)
		}
	}
}
