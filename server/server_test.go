package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/poll"
	"github.com/etnz/dashboard/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func snapshotAt(ms int64) *dashboard.Snapshot {
	return &dashboard.Snapshot{
		TS: dashboard.UnixMilli(ms),
		SectorSummary: []dashboard.SectorSummary{{
			Sector:            "Tech",
			TotalInvestment:   dashboard.M(1000),
			TotalPresentValue: dashboard.M(1500),
			TotalGainLoss:     dashboard.M(500),
			Items: []dashboard.Stock{{
				Ticker:           "ABC",
				Exchange:         "NSE",
				PurchasePrice:    dashboard.M(100),
				Quantity:         dashboard.Q(10),
				Sector:           "Tech",
				Investment:       dashboard.M(1000),
				PresentValue:     dashboard.M(1500),
				GainLoss:         dashboard.M(500),
				PortfolioPercent: dashboard.P(50),
			}},
		}},
	}
}

// newTestServer serves a poller that is ticked by hand.
func newTestServer(t *testing.T) (*poll.Poller, *httptest.Server) {
	t.Helper()
	ms := int64(0)
	f := dashboard.FetchFunc(func(ctx context.Context) (*dashboard.Snapshot, error) {
		ms += 1000
		return snapshotAt(ms), nil
	})
	p := poll.New(f, poll.Options{})
	s := New(Config{Source: p, Render: renderer.Options{Currency: dashboard.INR, Location: time.UTC}})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return p, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_Snapshot(t *testing.T) {
	p, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/snapshot")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"loading"}`, body)

	require.True(t, p.Tick(context.Background()))

	resp, body = get(t, ts.URL+"/api/snapshot")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	s, err := dashboard.DecodeSnapshot(strings.NewReader(body))
	require.NoError(t, err)
	assert.True(t, s.TS.Equal(dashboard.UnixMilli(1000)))
	assert.Len(t, s.SectorSummary, 1)
}

func TestServer_Index(t *testing.T) {
	p, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, renderer.Loading)
	assert.NotContains(t, body, "ABC:NSE")

	p.Tick(context.Background())

	_, body = get(t, ts.URL+"/")
	assert.Contains(t, body, "ABC:NSE")
	assert.Contains(t, body, "₹1500.00")
	assert.Contains(t, body, renderer.Placeholder, "absent CMP")
	assert.Contains(t, body, "Last updated: 00:00:01")
}

func TestServer_View(t *testing.T) {
	p, ts := newTestServer(t)

	_, body := get(t, ts.URL+"/api/view")
	var v renderer.View
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.True(t, v.Loading)

	p.Tick(context.Background())

	_, body = get(t, ts.URL+"/api/view")
	v = renderer.View{}
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.False(t, v.Loading)
	require.Len(t, v.Sectors, 1)
	require.Len(t, v.Sectors[0].Rows, 1)
	assert.Equal(t, "ABC:NSE", v.Sectors[0].Rows[0].Ticker)
	assert.Equal(t, renderer.Gain, v.Sectors[0].Rows[0].GainLoss.Tone)
}

func TestServer_Health(t *testing.T) {
	p, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"loading","applied":0}`, body)

	p.Tick(context.Background())
	_, body = get(t, ts.URL+"/health")
	assert.JSONEq(t, `{"status":"ok","applied":1}`, body)
}

func TestServer_CORS(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Updates(t *testing.T) {
	p, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	p.Tick(ctx)
	p.Tick(ctx)

	for _, want := range []uint64{1, 2} {
		var n Notice
		require.NoError(t, wsjson.Read(ctx, conn, &n))
		assert.Equal(t, want, n.Seq)
		assert.True(t, n.TS.Equal(dashboard.UnixMilli(int64(want)*1000)), "notice ts %v", n.TS.Time())
	}
}
