package api_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pinochle-score/internal/api"
	"github.com/mcoot/pinochle-score/internal/api/apierr"
	"github.com/mcoot/pinochle-score/internal/api/response"
	"github.com/mcoot/pinochle-score/internal/factory"
	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/testutil"
)

const origin = "http://localhost:5173"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: app.GameController,
		HubManager:     app.HubManager,
		MetricsHandler: promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
		AllowedOrigins: []string{origin},
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

// createGame creates a game with a known id and deals its first hand
func (ts *testServer) createGame(t *testing.T, id string, dealer model.Player) {
	t.Helper()
	ts.app.MockRandom.QueueID(id)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"dealer": string(dealer)})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/hands", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueID("abc")

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"dealer": "West"})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/games/abc", rr.Header().Get("Location"))

	game := decode[response.Game](t, rr)
	assert.Equal(t, "abc", game.ID)
	assert.Equal(t, model.West, game.CurrentDealer)
	assert.Equal(t, model.GameStateWaitingToStart, game.State)
	assert.Nil(t, game.CurrentHand)
}

func TestCreateGameRandomDealer(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueIntn(1)

	rr := ts.request(http.MethodPost, "/api/v1/games", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, model.East, decode[response.Game](t, rr).CurrentDealer)
}

func TestFullHand(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "g1", model.North)

	rr := ts.request(http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"player": "west", "bid": 51})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	game := decode[response.Game](t, rr)
	assert.Equal(t, model.West, game.CurrentHand.Bidder)
	assert.Equal(t, model.PhaseWaitingForTrump, game.CurrentHand.Phase)

	rr = ts.request(http.MethodPost, "/api/v1/games/g1/trump", map[string]string{"trump": "spades"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/games/g1/meld", map[string]int{"us_meld": 24, "them_meld": 32})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/games/g1/hands/current", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	hand := decode[response.Hand](t, rr)
	assert.Equal(t, model.PhaseWaitingForTricks, hand.Phase)
	require.NotNil(t, hand.RequiredTricks)
	assert.Equal(t, 20, *hand.RequiredTricks)
	assert.Equal(t, model.PointsOf(24), hand.UsMeld)
	assert.False(t, hand.UsTricks.Present())

	rr = ts.request(http.MethodPost, "/api/v1/games/g1/tricks", map[string]int{"us_tricks": 26, "them_tricks": 24})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	game = decode[response.Game](t, rr)
	assert.Equal(t, 1, game.HandsCompleted)
	assert.Equal(t, model.East, game.CurrentDealer)

	rr = ts.request(http.MethodGet, "/api/v1/games/g1/totals", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, response.Totals{Us: 50, Them: 56}, decode[response.Totals](t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/games/g1/hands", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	hands := decode[response.HandList](t, rr).Hands
	require.Len(t, hands, 1)
	assert.Equal(t, model.OutcomeMade, hands[0].Outcome)
	assert.Equal(t, model.PointsOf(56), hands[0].ThemTotal)
	assert.Nil(t, hands[0].RequiredTricks)
}

func TestMeldForfeitIsNullInResponse(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "g1", model.South)

	ts.request(http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"player": "north", "bid": 50})
	ts.request(http.MethodPost, "/api/v1/games/g1/trump", map[string]string{"trump": "clubs"})
	rr := ts.request(http.MethodPost, "/api/v1/games/g1/meld", map[string]int{"us_meld": 10, "them_meld": 20})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/games/g1/hands", nil)
	var raw struct {
		Hands []map[string]any `json:"hands"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw.Hands, 1)
	assert.Equal(t, "meld_forfeit", raw.Hands[0]["outcome"])
	assert.Nil(t, raw.Hands[0]["us_meld"])
	assert.Nil(t, raw.Hands[0]["us_tricks"])
	assert.Equal(t, float64(-50), raw.Hands[0]["us_total"])
}

func TestErrorResponses(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "g1", model.North)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown game", http.MethodGet, "/api/v1/games/nope", nil, http.StatusNotFound, apierr.CodeGameNotFound},
		{"unknown route", http.MethodGet, "/api/v1/nothing", nil, http.StatusNotFound, apierr.CodeNotFound},
		{"bad dealer", http.MethodPost, "/api/v1/games", map[string]string{"dealer": "center"}, http.StatusBadRequest, apierr.CodeInvalidPlayer},
		{"unknown field", http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"who": "north"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"bad bid", http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"player": "north", "bid": 45}, http.StatusBadRequest, apierr.CodeInvalidBid},
		{"bad suit", http.MethodPost, "/api/v1/games/g1/trump", map[string]string{"trump": "stars"}, http.StatusBadRequest, apierr.CodeInvalidSuit},
		{"wrong phase", http.MethodPost, "/api/v1/games/g1/tricks", map[string]int{"us_tricks": 25, "them_tricks": 25}, http.StatusConflict, apierr.CodeInvalidStateTransition},
		{"hand already dealt", http.MethodPost, "/api/v1/games/g1/hands", nil, http.StatusConflict, apierr.CodeInvalidStateTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rr))
		})
	}
}

func TestInvalidTricksReportsPair(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "g1", model.North)

	ts.request(http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"player": "east", "bid": 50})
	ts.request(http.MethodPost, "/api/v1/games/g1/trump", map[string]string{"trump": "hearts"})
	ts.request(http.MethodPost, "/api/v1/games/g1/meld", map[string]int{"us_meld": 20, "them_meld": 30})

	rr := ts.request(http.MethodPost, "/api/v1/games/g1/tricks", map[string]int{"us_tricks": 30, "them_tricks": 30})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeInvalidTricks, body.Error.Code)
	assert.Contains(t, body.Error.Message, "30 + 30")
}

func TestCurrentHandBeforeFirstDeal(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueID("g1")
	ts.request(http.MethodPost, "/api/v1/games", nil)

	rr := ts.request(http.MethodGet, "/api/v1/games/g1/hands/current", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNoCurrentHand, errorCode(t, rr))
}

func TestListAndDeleteGames(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "a", model.North)
	ts.createGame(t, "b", model.East)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	games := decode[response.GameList](t, rr).Games
	require.Len(t, games, 2)
	assert.Equal(t, "a", games[0].ID)

	rr = ts.request(http.MethodDelete, "/api/v1/games/a", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/a", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "g1", model.North)
	ts.request(http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"player": "north", "bid": 49})

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `pinochle_operations_total{operation="start_new_game",result="success"} 1`)
	assert.Contains(t, body, `pinochle_operations_total{operation="record_bid",result="rejected"} 1`)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/games", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t, "g1", model.North)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/games/g1/events")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	next := func() string {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed")
			return line
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	assert.Equal(t, "event: connected", next())
	next() // data
	next() // blank

	rr := ts.request(http.MethodPost, "/api/v1/games/g1/bid", map[string]any{"player": "south", "bid": 55})
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "event: "+string(model.EventBidRecorded), next())
	data := strings.TrimPrefix(next(), "data: ")

	var event model.Event
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, model.GameID("g1"), event.GameID)
	assert.True(t, ts.app.MockClock.Now().Equal(event.Timestamp))
	assert.Contains(t, data, `"bidder":"south"`)
}

func TestEventStreamReleasesHubOnDisconnect(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	var cancels []context.CancelFunc
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("g%d", i)
		ts.createGame(t, id, model.North)

		ctx, cancel := context.WithCancel(context.Background())
		cancels = append(cancels, cancel)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/games/"+id+"/events", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		line, err := bufio.NewReader(resp.Body).ReadString('\n')
		require.NoError(t, err)
		require.Equal(t, "event: connected\n", line)
	}
	assert.Equal(t, 5, ts.app.HubManager.HubCount())

	for _, cancel := range cancels {
		cancel()
	}
	assert.Eventually(t, func() bool {
		return ts.app.HubManager.HubCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEventStreamUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/missing/events", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}
