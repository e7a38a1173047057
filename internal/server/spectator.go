package server

import "github.com/ttu-cr-stl/poker-bot-arena/protocol"

// runSpectator registers a read-only connection. Live spectators get
// every frame as it happens; presentation mode paces frames out with a
// fixed delay so a projected table is watchable.
func (t *Table) runSpectator(sess *session, mode string) {
	if mode != "presentation" {
		mode = "live"
	}
	sess.spectator = true
	sess.mode = mode

	t.mu.Lock()
	t.spectators[sess] = struct{}{}
	t.metrics.SpectatorsConnected.Set(float64(len(t.spectators)))
	welcome := protocol.SpectatorWelcome{
		TableID: t.id,
		Mode:    mode,
		Config: protocol.TableConfig{
			Variant:       t.cfg.Variant,
			Seats:         t.cfg.Seats,
			StartingStack: t.cfg.StartingStack,
			SB:            t.cfg.SmallBlind,
			BB:            t.cfg.BigBlind,
			MoveTimeMS:    t.cfg.MoveTimeMS,
		},
	}
	t.sendLocked(sess, protocol.TypeSpectatorWelcome, &welcome)
	lobby := t.engine.LobbyState()
	t.sendLocked(sess, protocol.TypeLobby, &lobby)
	if t.engine.HandInProgress() && mode == "live" {
		remaining := t.timeRemainingMSLocked()
		if state := t.engine.SpectatorStateView(t.id, &remaining); state != nil {
			if raw := t.frame(protocol.TypeSpectatorState, state); raw != nil {
				sess.enqueue(raw)
			}
		}
	}
	t.mu.Unlock()

	t.logger.Info("spectator joined", "mode", mode)
	t.readLoop(sess)

	t.mu.Lock()
	delete(t.spectators, sess)
	t.metrics.SpectatorsConnected.Set(float64(len(t.spectators)))
	t.mu.Unlock()
	t.logger.Info("spectator left", "mode", mode)
}

// presentLoop trickles queued frames to presentation spectators, one per
// delay tick, until the table closes.
func (t *Table) presentLoop() {
	for {
		var raw []byte
		select {
		case <-t.stop:
			return
		case raw = <-t.presentCh:
		}

		t.mu.Lock()
		for sess := range t.spectators {
			if sess.mode == "presentation" {
				sess.enqueue(raw)
			}
		}
		t.mu.Unlock()

		if t.presentDelay <= 0 {
			continue
		}
		timer := t.clock.NewTimer(t.presentDelay)
		select {
		case <-t.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
