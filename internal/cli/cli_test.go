package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pinochle-score/internal/api"
	"github.com/mcoot/pinochle-score/internal/api/response"
	"github.com/mcoot/pinochle-score/internal/factory"
	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/testutil"
)

func startServer(t *testing.T) (*httptest.Server, *factory.TestApp) {
	t.Helper()
	app := factory.NewTestApp()
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: app.GameController,
		HubManager:     app.HubManager,
	}))
	t.Cleanup(func() {
		_ = app.Close()
		srv.Close()
	})
	return srv, app
}

func run(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", serverURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, serverURL string, result any, args ...string) {
	t.Helper()
	out, err := run(t, serverURL, append([]string{"-o", "json"}, args...)...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), result), out)
}

func TestHandFlowJSON(t *testing.T) {
	srv, app := startServer(t)
	app.MockRandom.QueueID("g1")

	var game response.Game
	runJSON(t, srv.URL, &game, "game", "new", "--dealer", "north")
	assert.Equal(t, "g1", game.ID)
	assert.Equal(t, model.North, game.CurrentDealer)

	runJSON(t, srv.URL, &game, "game", "start-hand", "g1")
	require.NotNil(t, game.CurrentHand)
	assert.Equal(t, model.PhaseWaitingForBid, game.CurrentHand.Phase)

	runJSON(t, srv.URL, &game, "game", "bid", "g1", "west", "51")
	runJSON(t, srv.URL, &game, "game", "trump", "g1", "spades")
	runJSON(t, srv.URL, &game, "game", "meld", "g1", "24", "32")
	require.NotNil(t, game.CurrentHand.RequiredTricks)
	assert.Equal(t, 20, *game.CurrentHand.RequiredTricks)

	runJSON(t, srv.URL, &game, "game", "tricks", "g1", "26", "24")
	assert.Equal(t, 1, game.HandsCompleted)
	assert.Equal(t, response.Totals{Us: 50, Them: 56}, game.Totals)

	var hands response.HandList
	runJSON(t, srv.URL, &hands, "game", "hands", "g1")
	require.Len(t, hands.Hands, 1)
	assert.Equal(t, model.OutcomeMade, hands.Hands[0].Outcome)

	var totals response.Totals
	runJSON(t, srv.URL, &totals, "game", "totals", "g1")
	assert.Equal(t, 56, totals.Them)

	var hand response.Hand
	runJSON(t, srv.URL, &hand, "game", "current", "g1")
	assert.Equal(t, model.East, hand.Dealer)
}

func TestTextOutput(t *testing.T) {
	srv, app := startServer(t)
	app.MockRandom.QueueID("g2")

	_, err := run(t, srv.URL, "game", "new", "--dealer", "south")
	require.NoError(t, err)
	_, err = run(t, srv.URL, "game", "start-hand", "g2")
	require.NoError(t, err)
	_, err = run(t, srv.URL, "game", "bid", "g2", "north", "50")
	require.NoError(t, err)

	out, err := run(t, srv.URL, "game", "get", "g2")
	require.NoError(t, err)
	assert.Contains(t, out, "Game: g2")
	assert.Contains(t, out, "Phase: waiting_for_trump")
	assert.Contains(t, out, "Bid: 50 by north (us)")

	out, err = run(t, srv.URL, "game", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "g2")

	out, err = run(t, srv.URL, "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)

	out, err = run(t, srv.URL, "game", "delete", "g2")
	require.NoError(t, err)
	assert.Contains(t, out, "Game g2 deleted")
}

func TestAPIErrorsAreReported(t *testing.T) {
	srv, app := startServer(t)
	app.MockRandom.QueueID("g3")

	_, err := run(t, srv.URL, "game", "get", "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "GAME_NOT_FOUND", apiErr.Code)

	_, err = run(t, srv.URL, "game", "new", "--dealer", "north")
	require.NoError(t, err)
	_, err = run(t, srv.URL, "game", "start-hand", "g3")
	require.NoError(t, err)

	_, err = run(t, srv.URL, "game", "bid", "g3", "north", "63")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_BID", apiErr.Code)

	_, err = run(t, srv.URL, "game", "meld", "g3", "10", "10")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_STATE_TRANSITION", apiErr.Code)

	_, err = run(t, srv.URL, "game", "bid", "g3", "north", "lots")
	assert.ErrorContains(t, err, `"lots" is not a number`)

	_, err = run(t, srv.URL, "-o", "yaml", "health")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestOutputTextRendersCompletedHands(t *testing.T) {
	var buf bytes.Buffer
	bid := 51
	NewOutput(FormatText, &buf).Print(response.HandList{Hands: []response.Hand{{
		Bidder:    model.West,
		BidAmount: &bid,
		Trump:     model.Spades,
		UsTotal:   model.PointsOf(50),
		ThemTotal: model.PointsOf(56),
		Outcome:   model.OutcomeMade,
	}}})

	assert.Equal(t, " 1. west 51    spades    us    50  them    56  made\n", buf.String())

	buf.Reset()
	NewOutput(FormatText, &buf).Print(response.Totals{Us: 500, Them: 500, Complete: true})
	assert.Equal(t, "Score: us 500 / them 500\nGame over: tied\n", buf.String())
}
