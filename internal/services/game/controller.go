package game

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/pinochle-score/internal/dependencies/clock"
	"github.com/mcoot/pinochle-score/internal/dependencies/random"
	"github.com/mcoot/pinochle-score/internal/metrics"
	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/storage"
)

// Operation names used for spans and metrics
const (
	OpStartNewGame      = "start_new_game"
	OpStartNewHand      = "start_new_hand"
	OpRecordBid         = "record_bid"
	OpDeclareTrump      = "declare_trump"
	OpRecordMeld        = "record_meld"
	OpRecordTricks      = "record_tricks"
	OpDeleteGame        = "delete_game"
	OpGetGame           = "get_game"
	OpListGames         = "list_games"
	OpGetCurrentHand    = "get_current_hand"
	OpGetCompletedHands = "get_completed_hands"
	OpGetRunningTotal   = "get_running_total"
	OpGetGameStatus     = "get_game_status"
)

// Controller runs scoring operations against stored games. Every mutation
// is a single read-transform-write through Storage.UpdateGame.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	metrics *metrics.Metrics,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger,
	}
}

// Update is the result of a mutating operation: the game as stored and
// the events describing what changed
type Update struct {
	Game   model.Game
	Events []model.Event
}

// Totals summarizes the running score of a game
type Totals struct {
	Us        int
	Them      int
	Complete  bool
	Winner    model.Team
	HasWinner bool
}

// Status is a flattened view of a game for display
type Status struct {
	Game        model.Game
	CurrentHand *model.Hand
	Totals      Totals
}

// StartNewGame creates and stores a game. An empty dealer picks one at
// random.
func (c *Controller) StartNewGame(ctx context.Context, dealer model.Player) (result Update, err error) {
	ctx, done := c.observe(ctx, OpStartNewGame, "")
	defer func() { done(err) }()

	if dealer == "" {
		dealer = model.Players[c.random.Intn(len(model.Players))]
	}
	if !dealer.Valid() {
		return Update{}, fmt.Errorf("%w: %q", model.ErrInvalidPlayer, dealer)
	}

	game := model.NewGame(model.GameID(c.random.ID()), dealer)
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID())),
			slog.String("error", err.Error()),
		)
		return Update{}, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID())),
		slog.String("dealer", string(dealer)),
	)

	return Update{
		Game:   game,
		Events: []model.Event{c.event(model.EventGameCreated, game.ID(), "", model.GameCreatedPayload{Dealer: dealer})},
	}, nil
}

// StartNewHand deals the first hand of a game
func (c *Controller) StartNewHand(ctx context.Context, id model.GameID) (result Update, err error) {
	ctx, done := c.observe(ctx, OpStartNewHand, id)
	defer func() { done(err) }()

	_, game, err := c.update(ctx, id, model.Game.StartNewHand)
	if err != nil {
		return Update{}, c.rejected(OpStartNewHand, id, err)
	}

	hand, _ := game.CurrentHand()
	c.logger.Info("hand started",
		slog.String("game_id", string(id)),
		slog.String("hand_id", string(hand.ID())),
		slog.String("dealer", string(hand.Dealer())),
	)

	return Update{
		Game:   game,
		Events: []model.Event{c.handStarted(game)},
	}, nil
}

// RecordBid records the winning bid on the current hand
func (c *Controller) RecordBid(ctx context.Context, id model.GameID, bidder model.Player, amount int) (result Update, err error) {
	ctx, done := c.observe(ctx, OpRecordBid, id)
	defer func() { done(err) }()

	_, game, err := c.update(ctx, id, func(g model.Game) (model.Game, error) {
		return g.RecordBid(bidder, amount)
	})
	if err != nil {
		return Update{}, c.rejected(OpRecordBid, id, err)
	}

	hand, _ := game.CurrentHand()
	c.logger.Info("bid recorded",
		slog.String("game_id", string(id)),
		slog.String("hand_id", string(hand.ID())),
		slog.String("bidder", string(bidder)),
		slog.Int("bid", amount),
	)

	return Update{
		Game:   game,
		Events: []model.Event{c.event(model.EventBidRecorded, id, hand.ID(), model.BidPayload{Bidder: bidder, BidAmount: amount})},
	}, nil
}

// DeclareTrump records trump on the current hand
func (c *Controller) DeclareTrump(ctx context.Context, id model.GameID, trump model.Suit) (result Update, err error) {
	ctx, done := c.observe(ctx, OpDeclareTrump, id)
	defer func() { done(err) }()

	_, game, err := c.update(ctx, id, func(g model.Game) (model.Game, error) {
		return g.DeclareTrump(trump)
	})
	if err != nil {
		return Update{}, c.rejected(OpDeclareTrump, id, err)
	}

	hand, _ := game.CurrentHand()
	c.logger.Info("trump declared",
		slog.String("game_id", string(id)),
		slog.String("hand_id", string(hand.ID())),
		slog.String("trump", string(trump)),
	)

	return Update{
		Game:   game,
		Events: []model.Event{c.event(model.EventTrumpDeclared, id, hand.ID(), model.TrumpPayload{Trump: trump})},
	}, nil
}

// RecordMeld records meld on the current hand. A forfeit or no-marriage
// hand is settled on the spot.
func (c *Controller) RecordMeld(ctx context.Context, id model.GameID, us, them int) (result Update, err error) {
	ctx, done := c.observe(ctx, OpRecordMeld, id)
	defer func() { done(err) }()

	before, game, err := c.update(ctx, id, func(g model.Game) (model.Game, error) {
		return g.RecordMeld(us, them)
	})
	if err != nil {
		return Update{}, c.rejected(OpRecordMeld, id, err)
	}

	// The hand that took the meld is either still current or just settled
	hand, _ := game.CurrentHand()
	if settled(before, game) {
		hand, _ = game.LastCompletedHand()
	}

	c.logger.Info("meld recorded",
		slog.String("game_id", string(id)),
		slog.String("hand_id", string(hand.ID())),
		slog.Int("us_meld", us),
		slog.Int("them_meld", them),
	)

	events := []model.Event{c.event(model.EventMeldRecorded, id, hand.ID(), model.MeldPayload{
		UsMeld:   hand.UsMeld(),
		ThemMeld: hand.ThemMeld(),
	})}
	events = append(events, c.settledEvents(before, game)...)

	return Update{Game: game, Events: events}, nil
}

// RecordTricks scores the current hand and deals the next one
func (c *Controller) RecordTricks(ctx context.Context, id model.GameID, us, them int) (result Update, err error) {
	ctx, done := c.observe(ctx, OpRecordTricks, id)
	defer func() { done(err) }()

	before, game, err := c.update(ctx, id, func(g model.Game) (model.Game, error) {
		return g.RecordTricks(us, them)
	})
	if err != nil {
		return Update{}, c.rejected(OpRecordTricks, id, err)
	}

	return Update{Game: game, Events: c.settledEvents(before, game)}, nil
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, id model.GameID) (err error) {
	ctx, done := c.observe(ctx, OpDeleteGame, id)
	defer func() { done(err) }()

	if _, err := c.storage.GetGame(ctx, id); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, id); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(id)))
	return nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (game model.Game, err error) {
	ctx, done := c.observe(ctx, OpGetGame, id)
	defer func() { done(err) }()

	return c.storage.GetGame(ctx, id)
}

// ListGames returns every stored game
func (c *Controller) ListGames(ctx context.Context) (games []model.Game, err error) {
	ctx, done := c.observe(ctx, OpListGames, "")
	defer func() { done(err) }()

	return c.storage.ListGames(ctx)
}

// GetCurrentHand returns the hand in play
func (c *Controller) GetCurrentHand(ctx context.Context, id model.GameID) (hand model.Hand, err error) {
	ctx, done := c.observe(ctx, OpGetCurrentHand, id)
	defer func() { done(err) }()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return model.Hand{}, err
	}
	hand, ok := game.CurrentHand()
	if !ok {
		return model.Hand{}, model.ErrNoCurrentHand
	}
	return hand, nil
}

// GetCompletedHands returns the settled hands in the order they were played
func (c *Controller) GetCompletedHands(ctx context.Context, id model.GameID) (hands []model.Hand, err error) {
	ctx, done := c.observe(ctx, OpGetCompletedHands, id)
	defer func() { done(err) }()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.CompletedHands(), nil
}

// GetRunningTotal returns the running score and whether the game is won
func (c *Controller) GetRunningTotal(ctx context.Context, id model.GameID) (totals Totals, err error) {
	ctx, done := c.observe(ctx, OpGetRunningTotal, id)
	defer func() { done(err) }()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return Totals{}, err
	}
	return TotalsOf(game), nil
}

// GetGameStatus returns a game with its current hand and totals
func (c *Controller) GetGameStatus(ctx context.Context, id model.GameID) (status Status, err error) {
	ctx, done := c.observe(ctx, OpGetGameStatus, id)
	defer func() { done(err) }()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return Status{}, err
	}
	return StatusOf(game), nil
}

// TotalsOf computes the running score of a game
func TotalsOf(game model.Game) Totals {
	us, them := game.RunningTotals()
	winner, ok := game.Winner()
	return Totals{
		Us:        us,
		Them:      them,
		Complete:  game.IsGameComplete(),
		Winner:    winner,
		HasWinner: ok,
	}
}

// StatusOf builds the status view of a game
func StatusOf(game model.Game) Status {
	status := Status{Game: game, Totals: TotalsOf(game)}
	if hand, ok := game.CurrentHand(); ok {
		status.CurrentHand = &hand
	}
	return status
}

// update applies fn atomically, also returning the game fn was given
func (c *Controller) update(ctx context.Context, id model.GameID, fn storage.UpdateFunc) (before, after model.Game, err error) {
	after, err = c.storage.UpdateGame(ctx, id, func(g model.Game) (model.Game, error) {
		before = g
		return fn(g)
	})
	return before, after, err
}

// observe opens a span for an operation. The returned func closes it and
// records the operation metric.
func (c *Controller) observe(ctx context.Context, operation string, id model.GameID) (context.Context, func(error)) {
	attrs := []attribute.KeyValue{attribute.String("operation", operation)}
	if id != "" {
		attrs = append(attrs, attribute.String("game_id", string(id)))
	}
	ctx, span := c.tracer.Start(ctx, "game."+operation, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		c.metrics.RecordOperation(operation, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (c *Controller) rejected(operation string, id model.GameID, err error) error {
	c.logger.Debug("operation rejected",
		slog.String("operation", operation),
		slog.String("game_id", string(id)),
		slog.String("error", err.Error()),
	)
	return err
}

func (c *Controller) event(eventType model.EventType, gameID model.GameID, handID model.HandID, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		HandID:    handID,
		Payload:   payload,
	}
}

func (c *Controller) handStarted(game model.Game) model.Event {
	hand, _ := game.CurrentHand()
	return c.event(model.EventHandStarted, game.ID(), hand.ID(), model.HandStartedPayload{Dealer: hand.Dealer()})
}

// settledEvents describes a hand being folded into history: the result,
// a win if this hand decided the game, and the next deal
func (c *Controller) settledEvents(before, after model.Game) []model.Event {
	if !settled(before, after) {
		return nil
	}

	hand, _ := after.LastCompletedHand()
	outcome, _ := hand.Outcome()
	bidder, _ := hand.Bidder()
	amount, _ := hand.BidAmount()
	us, them := after.RunningTotals()

	c.metrics.RecordHandCompleted(outcome)
	c.logger.Info("hand completed",
		slog.String("game_id", string(after.ID())),
		slog.String("hand_id", string(hand.ID())),
		slog.String("outcome", string(outcome)),
		slog.Int("us_total", hand.UsTotal().OrZero()),
		slog.Int("them_total", hand.ThemTotal().OrZero()),
		slog.Int("us_running_total", us),
		slog.Int("them_running_total", them),
	)

	events := []model.Event{c.event(model.EventHandCompleted, after.ID(), hand.ID(), model.HandCompletedPayload{
		Outcome:          outcome,
		Bidder:           bidder,
		BidAmount:        amount,
		UsTotal:          hand.UsTotal(),
		ThemTotal:        hand.ThemTotal(),
		UsRunningTotal:   us,
		ThemRunningTotal: them,
	})}

	if after.IsGameComplete() && !before.IsGameComplete() {
		winner, ok := after.Winner()
		if ok {
			c.metrics.RecordGameWon(winner)
		}
		c.logger.Info("game won",
			slog.String("game_id", string(after.ID())),
			slog.String("winner", string(winner)),
		)
		events = append(events, c.event(model.EventGameWon, after.ID(), "", model.GameWonPayload{
			Winner:           winner,
			UsRunningTotal:   us,
			ThemRunningTotal: them,
		}))
	}

	return append(events, c.handStarted(after))
}

func settled(before, after model.Game) bool {
	return len(after.CompletedHands()) > len(before.CompletedHands())
}
