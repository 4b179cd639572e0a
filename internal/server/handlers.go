package server

import (
	"errors"
	"log"

	"pir8/internal/ai"
	"pir8/internal/database"
	"pir8/internal/game"
	"pir8/internal/intel"
	"pir8/internal/protocol"
)

// Handlers processes incoming messages.
type Handlers struct {
	hub *Hub
}

// NewHandlers creates a new handler set.
func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{hub: hub}
}

// Handle routes a message to the appropriate handler.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypeCreateGame:
		err = h.handleCreateGame(client, msg)
	case protocol.TypeJoinGame:
		err = h.handleJoinGame(client, msg)
	case protocol.TypeSubmitIntent:
		err = h.handleSubmitIntent(client, msg)
	case protocol.TypeRequestAIMove:
		err = h.handleRequestAIMove(client, msg)
	case protocol.TypeLeakageReport:
		err = h.handleLeakageReport(client, msg)
	case protocol.TypeDossier:
		err = h.handleDossier(client, msg)
	case protocol.TypeActivateShield:
		err = h.handleActivateShield(client, msg)
	case protocol.TypeListGames:
		err = h.handleListGames(client, msg)
	case protocol.TypeGetState:
		err = h.handleGetState(client, msg)
	case protocol.TypePing:
		err = h.handlePing(client, msg)
	default:
		err = errors.New("unknown message type")
	}

	if err != nil {
		h.sendError(client, msg.ID, err)
	}
}

// sendError reports a failure back to the sender, preserving the
// request id so the client can correlate.
func (h *Handlers) sendError(client *Client, msgID string, err error) {
	payload := protocol.RejectionFrom(err)
	if payload.Code == protocol.ErrCodeInternalError {
		switch {
		case errors.Is(err, database.ErrGameNotFound):
			payload.Code = protocol.ErrCodeGameNotFound
		default:
			payload.Code = protocol.ErrCodeInvalidMessage
		}
		payload.Message = err.Error()
	}

	msg, merr := protocol.NewMessage(protocol.TypeError, payload)
	if merr != nil {
		return
	}
	msg.ID = msgID
	client.Send(msg)
}

// reply sends a response carrying the request's id.
func (h *Handlers) reply(client *Client, msgID string, msgType protocol.MessageType, payload interface{}) error {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	msg.ID = msgID
	client.Send(msg)
	return nil
}

// handleCreateGame initializes a game and stores it.
func (h *Handlers) handleCreateGame(client *Client, msg *protocol.Message) error {
	var payload protocol.CreateGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	state := game.InitializeWithBalance(payload.Seed, payload.MaxPlayers, h.hub.server.balance)
	if err := h.hub.server.db.CreateGame(state); err != nil {
		return err
	}
	h.hub.addSession(state)
	h.hub.AddClientToGame(client, state.ID)

	log.Printf("Game created: %s (seed %d, max %d players)", state.ID, state.Seed, state.MaxPlayerCount)
	return h.reply(client, msg.ID, protocol.TypeGameCreated, protocol.GameCreatedPayload{
		GameID: state.ID,
		State:  state,
	})
}

// handleJoinGame seats a player and pushes the new state to the table.
func (h *Handlers) handleJoinGame(client *Client, msg *protocol.Message) error {
	var payload protocol.JoinGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	h.hub.SetClientPlayer(client, payload.PlayerID)
	h.hub.AddClientToGame(client, payload.GameID)

	// Replies and broadcasts marshal the live state, so they stay
	// under the session lock.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.state.Join(payload.PlayerID, payload.Name); err != nil {
		return err
	}
	if err := h.hub.server.db.SaveGame(sess.state); err != nil {
		return err
	}

	if err := h.reply(client, msg.ID, protocol.TypeGameJoined, protocol.GameJoinedPayload{
		GameID:   payload.GameID,
		PlayerID: payload.PlayerID,
		State:    sess.state,
	}); err != nil {
		return err
	}

	h.hub.notifyGamePlayers(payload.GameID, protocol.TypeStateUpdate, protocol.StateUpdatePayload{
		GameID: payload.GameID,
		State:  sess.state,
	})
	return nil
}

// handleSubmitIntent runs one intent through the engine. A rejection is
// answered on the requesting connection only; an applied intent is
// broadcast to the whole table.
func (h *Handlers) handleSubmitIntent(client *Client, msg *protocol.Message) error {
	var payload protocol.SubmitIntentPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	intent, err := payload.Intent.Decode()
	if err != nil {
		return err
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	applyErr := sess.state.Apply(payload.PlayerID, intent)
	if applyErr == nil {
		if err := h.hub.server.db.SaveGame(sess.state); err != nil {
			log.Printf("Failed to save game %s: %v", payload.GameID, err)
		}
	}
	completed := sess.state.Status == game.StatusCompleted

	if applyErr != nil {
		return h.reply(client, msg.ID, protocol.TypeIntentRejected, protocol.IntentRejectedPayload{
			GameID:    payload.GameID,
			PlayerID:  payload.PlayerID,
			Rejection: protocol.RejectionFrom(applyErr),
		})
	}

	h.hub.notifyGamePlayers(payload.GameID, protocol.TypeIntentApplied, protocol.IntentAppliedPayload{
		GameID:   payload.GameID,
		PlayerID: payload.PlayerID,
		Intent:   payload.Intent,
		State:    sess.state,
	})

	if completed {
		h.hub.notifyGamePlayers(payload.GameID, protocol.TypeGameCompleted, protocol.GameCompletedPayload{
			GameID:   payload.GameID,
			WinnerID: sess.state.WinnerID,
			Victory:  sess.state.Victory,
			State:    sess.state,
		})
		log.Printf("Game %s completed: %s wins by %s", payload.GameID, sess.state.WinnerID, sess.state.Victory)
	}
	return nil
}

// handleRequestAIMove decides for a player without applying anything;
// the client submits the returned intent like any other.
func (h *Handlers) handleRequestAIMove(client *Client, msg *protocol.Message) error {
	var payload protocol.RequestAIMovePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	profile, ok := ai.ProfileByName(payload.Profile)
	if !ok {
		profile = ai.Corsair
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	decision, err := ai.Decide(sess.state, payload.PlayerID, profile)
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	envelope, err := protocol.EncodeIntent(decision.Intent)
	if err != nil {
		return err
	}
	ranked := make([]protocol.RankedOption, 0, len(decision.Options))
	for _, o := range decision.Options {
		ranked = append(ranked, protocol.RankedOption{Label: o.Label, Score: o.Score})
	}

	return h.reply(client, msg.ID, protocol.TypeAIDecision, protocol.AIDecisionPayload{
		GameID:        payload.GameID,
		PlayerID:      payload.PlayerID,
		Intent:        envelope,
		Justification: decision.Justification,
		Ranked:        ranked,
	})
}

// handleLeakageReport computes the observer's picture of one player.
func (h *Handlers) handleLeakageReport(client *Client, msg *protocol.Message) error {
	var payload protocol.LeakageReportPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	report, err := intel.ComputeReport(sess.state, payload.PlayerID, sess.state.EventsBy(payload.PlayerID))
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	payload.Report = report
	return h.reply(client, msg.ID, protocol.TypeLeakageReport, payload)
}

// handleDossier classifies one player's playstyle from their history.
func (h *Handlers) handleDossier(client *Client, msg *protocol.Message) error {
	var payload protocol.DossierPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	dossier := intel.BuildDossier(sess.state.EventsBy(payload.PlayerID))
	sess.mu.Unlock()

	payload.Dossier = &dossier
	return h.reply(client, msg.ID, protocol.TypeDossier, payload)
}

// handleActivateShield spends a shield charge out of turn order.
func (h *Handlers) handleActivateShield(client *Client, msg *protocol.Message) error {
	var payload protocol.ActivateShieldPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.state.ActivateShield(payload.PlayerID); err != nil {
		return err
	}
	if serr := h.hub.server.db.SaveGame(sess.state); serr != nil {
		log.Printf("Failed to save game %s: %v", payload.GameID, serr)
	}

	h.hub.notifyGamePlayers(payload.GameID, protocol.TypeStateUpdate, protocol.StateUpdatePayload{
		GameID: payload.GameID,
		State:  sess.state,
	})
	return nil
}

// handleListGames returns the stored game list.
func (h *Handlers) handleListGames(client *Client, msg *protocol.Message) error {
	rows, err := h.hub.server.db.ListGames()
	if err != nil {
		return err
	}

	games := make([]protocol.GameSummary, 0, len(rows))
	for _, r := range rows {
		games = append(games, protocol.GameSummary{
			ID:          r.ID,
			Status:      r.Status,
			PlayerCount: r.PlayerCount,
			MaxPlayers:  r.MaxPlayers,
			Turn:        r.Turn,
		})
	}
	return h.reply(client, msg.ID, protocol.TypeGameList, protocol.GameListPayload{Games: games})
}

// handleGetState sends the full snapshot of one game.
func (h *Handlers) handleGetState(client *Client, msg *protocol.Message) error {
	var payload protocol.GetStatePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	sess, err := h.hub.session(payload.GameID)
	if err != nil {
		return err
	}

	// Replies marshal the live state, so they stay under the session
	// lock.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return h.reply(client, msg.ID, protocol.TypeStateUpdate, protocol.StateUpdatePayload{
		GameID: payload.GameID,
		State:  sess.state,
	})
}

// handlePing answers keepalive probes at the protocol level.
func (h *Handlers) handlePing(client *Client, msg *protocol.Message) error {
	return h.reply(client, msg.ID, protocol.TypePong, struct{}{})
}
