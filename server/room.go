package server

import (
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hvj78/3dsnake/config"
	"github.com/hvj78/3dsnake/geometry"
	game "github.com/hvj78/3dsnake/src"
)

// Phase is a room's lifecycle stage. Transitions are monotonic within a
// round: lobby -> countdown -> running -> ended -> lobby.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseCountdown Phase = "countdown"
	PhaseRunning   Phase = "running"
	PhaseEnded     Phase = "ended"
)

// protoErr is an error that maps directly to a wire error message.
type protoErr struct {
	code    string
	message string
}

func (e *protoErr) Error() string { return e.code + ": " + e.message }

// Player is one lobby member. joinSeq orders players by arrival; the host
// is always the present player with the smallest joinSeq, which makes host
// failover deterministic.
type Player struct {
	ID    string
	Name  string
	Color int
	Ready bool

	joinSeq int
	client  *Client
	inputs  *game.InputBuffer
}

// Room is one isolated match instance. All state behind mu; the tick driver
// holds the lock for the duration of a tick, and message handlers take it
// for the duration of one mutation, so ticks and message application never
// interleave (broadcasting is non-blocking channel sends and happens under
// the lock).
type Room struct {
	ID string

	mu        sync.Mutex
	manager   *RoomManager
	phase     Phase
	players   map[string]*Player
	joinSeq   int
	settings  game.Settings
	state     *game.State
	seed      int64
	startAtMs int64
	endsAtMs  int64
	stopLoop  chan struct{}
	destroyed bool
}

func newRoom(id string, manager *RoomManager) *Room {
	return &Room{
		ID:       id,
		manager:  manager,
		phase:    PhaseLobby,
		players:  make(map[string]*Player),
		settings: game.DefaultSettings(),
	}
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

// AddPlayer admits a client to the lobby, assigns its player identity and
// color, and announces the new membership. Joins are only possible while
// the room sits in the lobby phase.
func (r *Room) AddPlayer(c *Client, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed || r.phase != PhaseLobby {
		return "", &protoErr{ErrRoomInProgress, "room has a round in progress"}
	}
	if len(r.players) >= config.MaxPlayersPerRoom {
		return "", &protoErr{ErrRoomFull, "room is full"}
	}

	playerID := uuid.New().String()
	r.joinSeq++
	p := &Player{
		ID:      playerID,
		Name:    name,
		Color:   r.firstFreeColorLocked(),
		joinSeq: r.joinSeq,
		client:  c,
	}
	r.players[playerID] = p
	if c != nil {
		c.bind(r, playerID)
		c.trySend(encodeMessage(MsgJoined, joinedPayload{
			PlayerID: playerID,
			RoomID:   r.ID,
			IsHost:   r.hostLocked() == p,
			Lobby:    r.lobbyViewLocked(),
		}))
	}
	r.broadcastLobbyLocked()

	log.Printf("room %s: player %s (%q) joined, %d in lobby", r.ID, playerID, name, len(r.players))
	return playerID, nil
}

// RemovePlayer drops a player and their snake. The host role moves to the
// earliest-joined remaining player implicitly. Reports whether the room
// became empty; an empty room's tick loop is cancelled and the room is
// destroyed by the manager.
func (r *Room) RemovePlayer(playerID string) (becameEmpty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return len(r.players) == 0
	}
	delete(r.players, playerID)
	if r.state != nil {
		r.state.RemoveSnake(playerID)
	}
	log.Printf("room %s: player %s left, %d remain", r.ID, playerID, len(r.players))

	if len(r.players) == 0 {
		r.destroyed = true
		if r.stopLoop != nil {
			close(r.stopLoop)
			r.stopLoop = nil
		}
		return true
	}
	r.broadcastLobbyLocked()
	return false
}

// SetSettings applies new round settings. Host-only, lobby-only, and out of
// range values are rejected without mutating anything.
func (r *Room) SetSettings(playerID string, s game.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return &protoErr{ErrNotInLobby, "settings can only change in the lobby"}
	}
	if host := r.hostLocked(); host == nil || host.ID != playerID {
		return &protoErr{ErrNotHost, "only the host can change settings"}
	}
	if err := s.Validate(); err != nil {
		return &protoErr{ErrBadSettings, err.Error()}
	}
	r.settings = s
	r.broadcastLobbyLocked()
	return nil
}

// SetColor switches a player's snake color to another palette entry.
func (r *Room) SetColor(playerID string, color int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return &protoErr{ErrNotInLobby, "colors can only change in the lobby"}
	}
	p, ok := r.players[playerID]
	if !ok {
		return &protoErr{ErrBadMessage, "unknown player"}
	}
	valid := false
	for _, c := range config.SnakePalette {
		if c == color {
			valid = true
			break
		}
	}
	if !valid {
		return &protoErr{ErrBadColor, "color is not in the palette"}
	}
	p.Color = color
	r.broadcastLobbyLocked()
	return nil
}

// SetReady toggles a player's ready flag; when everyone is ready the round
// starts.
func (r *Room) SetReady(playerID string, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return &protoErr{ErrNotInLobby, "ready can only change in the lobby"}
	}
	p, ok := r.players[playerID]
	if !ok {
		return &protoErr{ErrBadMessage, "unknown player"}
	}
	p.Ready = ready
	r.broadcastLobbyLocked()
	r.maybeStartLocked(false)
	return nil
}

// ForceStart lets the host begin the round with only the ready players;
// everyone else stays in the lobby as a spectator for this round.
func (r *Room) ForceStart(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return &protoErr{ErrNotInLobby, "round already started"}
	}
	if host := r.hostLocked(); host == nil || host.ID != playerID {
		return &protoErr{ErrNotHost, "only the host can force-start"}
	}
	return r.maybeStartLocked(true)
}

// QueueInputs buffers batched direction commands. Inputs are accepted
// during countdown and while running; each entry lands in the player's
// reconciliation buffer independently.
func (r *Room) QueueInputs(playerID string, entries []inputEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseCountdown && r.phase != PhaseRunning {
		return
	}
	p, ok := r.players[playerID]
	if !ok || p.inputs == nil {
		return
	}
	for _, e := range entries {
		p.inputs.Put(e.Tick, geometry.Dir(e.Dir))
	}
}

// maybeStartLocked starts the round when the trigger conditions hold: all
// present players ready, or force with at least one ready player.
func (r *Room) maybeStartLocked(force bool) error {
	if r.phase != PhaseLobby || len(r.players) == 0 {
		return nil
	}

	var participants []string
	if force {
		for pid, p := range r.players {
			if p.Ready {
				participants = append(participants, pid)
			}
		}
		if len(participants) == 0 {
			return &protoErr{ErrStartFailed, "no ready players to start with"}
		}
	} else {
		for pid, p := range r.players {
			if !p.Ready {
				return nil
			}
			participants = append(participants, pid)
		}
	}
	sort.Strings(participants)

	seed := rand.Int63()
	state, err := game.NewRound(r.settings, seed, participants)
	if err != nil {
		log.Printf("room %s: round setup failed: %v", r.ID, err)
		return &protoErr{ErrStartFailed, err.Error()}
	}

	window := int64(config.InputWindowTicks * r.settings.TickRate)
	for _, pid := range participants {
		r.players[pid].inputs = game.NewInputBuffer(window)
	}

	r.state = state
	r.seed = seed
	r.phase = PhaseCountdown
	now := nowMs()
	r.startAtMs = now + config.CountdownLead.Milliseconds()
	r.endsAtMs = r.startAtMs + int64(r.settings.RoundSeconds)*1000
	r.stopLoop = make(chan struct{})

	var roster []LobbyPlayer
	for _, pid := range participants {
		p := r.players[pid]
		roster = append(roster, LobbyPlayer{PlayerID: p.ID, Name: p.Name, Ready: p.Ready, Color: p.Color})
	}
	r.broadcastLocked(encodeMessage(MsgStart, startPayload{
		Settings:          r.settings,
		Seed:              seed,
		StartTick:         0,
		StartServerTimeMs: r.startAtMs,
		Players:           roster,
	}))
	log.Printf("room %s: round starting with %d snakes, seed %d", r.ID, len(participants), seed)

	go r.runLoop()
	return nil
}

// runLoop is the per-room tick driver: one goroutine, fixed-period ticker.
// It exits when the round ends or the room empties.
func (r *Room) runLoop() {
	r.mu.Lock()
	interval := time.Second / time.Duration(r.settings.TickRate)
	stop := r.stopLoop
	r.mu.Unlock()
	if stop == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !r.tickOnce(nowMs()) {
				return
			}
		}
	}
}

// tickOnce advances the room by one driver period and reports whether the
// loop should keep running. Split from runLoop so tests can drive rounds
// with synthetic clocks instead of wall-time waits.
func (r *Room) tickOnce(now int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return false
	}
	if r.phase == PhaseCountdown {
		if now < r.startAtMs {
			return true
		}
		r.phase = PhaseRunning
	}
	if r.phase != PhaseRunning || r.state == nil {
		return false
	}

	timerLeft := r.endsAtMs - now
	if timerLeft <= 0 {
		r.endRoundLocked()
		return false
	}

	// Pull each participant's command for exactly this tick; absent means
	// continue straight.
	inputs := make(map[string]geometry.Dir)
	tick := r.state.Tick
	for pid, p := range r.players {
		if p.inputs == nil {
			continue
		}
		if _, inRound := r.state.Snakes[pid]; !inRound {
			continue
		}
		if d, ok := p.inputs.Take(tick); ok {
			inputs[pid] = d
		}
	}

	if err := r.state.Step(inputs); err != nil {
		// Should be impossible given joint resolution; end the round rather
		// than keep simulating a corrupt board.
		log.Printf("room %s: invariant violation at tick %d: %v, ending round", r.ID, tick, err)
		r.endRoundLocked()
		return false
	}

	r.broadcastLocked(encodeMessage(MsgState, r.statePayloadLocked(now, timerLeft)))

	remaining := r.state.RemainingCount()
	if (r.state.StartingCount() >= 2 && remaining <= 1) || remaining == 0 {
		r.endRoundLocked()
		return false
	}
	return true
}

// endRoundLocked freezes and broadcasts the final scores, then returns the
// room to the lobby for another round.
func (r *Room) endRoundLocked() {
	r.phase = PhaseEnded
	final := map[string]int{}
	if r.state != nil {
		final = r.state.Scores()
	}
	r.broadcastLocked(encodeMessage(MsgEnd, endPayload{FinalScores: final}))
	log.Printf("room %s: round ended, scores %v", r.ID, final)

	r.phase = PhaseLobby
	r.state = nil
	r.stopLoop = nil
	for _, p := range r.players {
		p.Ready = false
		p.inputs = nil
	}
	r.broadcastLobbyLocked()
}

func (r *Room) statePayloadLocked(now, timerLeft int64) statePayload {
	st := r.state
	tickMs := int64(1000 / st.Settings.TickRate)

	pids := make([]string, 0, len(st.Snakes))
	for pid := range st.Snakes {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	snakes := make([]SnakeView, 0, len(pids))
	for _, pid := range pids {
		s := st.Snakes[pid]
		view := SnakeView{
			PlayerID: pid,
			Alive:    s.Alive,
			Dir:      int(s.Dir),
			Cells:    s.Cells,
		}
		if !s.Alive && s.RespawnAtTick >= 0 {
			ms := (s.RespawnAtTick - st.Tick) * tickMs
			if ms < 0 {
				ms = 0
			}
			view.RespawnInMs = &ms
		}
		snakes = append(snakes, view)
	}

	fruits := make([]game.Fruit, 0, len(st.Fruits))
	for _, f := range st.Fruits {
		fruits = append(fruits, *f)
	}
	sort.Slice(fruits, func(i, j int) bool { return fruits[i].ID < fruits[j].ID })

	ack := make(map[string]int64)
	for pid, p := range r.players {
		if p.inputs == nil {
			continue
		}
		if _, inRound := st.Snakes[pid]; inRound {
			ack[pid] = p.inputs.LastConsumed()
		}
	}

	return statePayload{
		Tick:         st.Tick,
		ServerTimeMs: now,
		TimerMsLeft:  timerLeft,
		Snakes:       snakes,
		Fruits:       fruits,
		Scores:       st.Scores(),
		InputAck:     ack,
	}
}

// hostLocked returns the present player with the smallest join sequence.
func (r *Room) hostLocked() *Player {
	var host *Player
	for _, p := range r.players {
		if host == nil || p.joinSeq < host.joinSeq {
			host = p
		}
	}
	return host
}

// HostID returns the current host's player ID, or "" in an empty room.
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h := r.hostLocked(); h != nil {
		return h.ID
	}
	return ""
}

// Phase returns the room's current lifecycle stage.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Room) firstFreeColorLocked() int {
	taken := make(map[int]bool, len(r.players))
	for _, p := range r.players {
		taken[p.Color] = true
	}
	for _, c := range config.SnakePalette {
		if !taken[c] {
			return c
		}
	}
	return config.SnakePalette[0]
}

func (r *Room) lobbyViewLocked() LobbyView {
	players := make([]LobbyPlayer, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, LobbyPlayer{PlayerID: p.ID, Name: p.Name, Ready: p.Ready, Color: p.Color})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })

	hostID := ""
	if h := r.hostLocked(); h != nil {
		hostID = h.ID
	}
	return LobbyView{
		RoomID:   r.ID,
		HostID:   hostID,
		Players:  players,
		Settings: r.settings,
	}
}

func (r *Room) broadcastLobbyLocked() {
	r.broadcastLocked(encodeMessage(MsgLobbyState, lobbyStatePayload{Lobby: r.lobbyViewLocked()}))
}

func (r *Room) broadcastLocked(message []byte) {
	for _, p := range r.players {
		if p.client != nil {
			p.client.trySend(message)
		}
	}
}

// Info snapshots the room for the REST room listing.
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		RoomID:     r.ID,
		Phase:      string(r.phase),
		Players:    len(r.players),
		MaxPlayers: config.MaxPlayersPerRoom,
		CubeN:      r.settings.CubeN,
	}
}
