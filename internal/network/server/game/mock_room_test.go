package game

import (
	"context"
	"sync"

	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
	"github.com/Kapi-hub/exploding-kittens/internal/network/server/types"
	"github.com/Kapi-hub/exploding-kittens/internal/testutil"
)

// fakeRoom 实现 types.RoomInterface，把广播和私发都记录下来
type fakeRoom struct {
	mu        sync.Mutex
	code      string
	order     []string
	clients   map[string]*testutil.SimpleClient
	broadcast []*protocol.Message
	state     types.RoomState
	server    *fakeServer
}

type fakeRoomPlayer struct {
	client *testutil.SimpleClient
}

func (p *fakeRoomPlayer) GetClient() types.ClientInterface { return p.client }

func newFakeRoom(names ...string) *fakeRoom {
	r := &fakeRoom{
		code:    "123456",
		clients: make(map[string]*testutil.SimpleClient),
		server:  &fakeServer{lb: &fakeLeaderboard{}},
	}
	for i, name := range names {
		id := "p" + string(rune('1'+i))
		r.order = append(r.order, id)
		r.clients[id] = &testutil.SimpleClient{ID: id, Name: name, RoomCode: r.code}
	}
	return r
}

func (r *fakeRoom) Broadcast(msg *protocol.Message) {
	r.mu.Lock()
	r.broadcast = append(r.broadcast, msg)
	r.mu.Unlock()
	for _, c := range r.clients {
		c.SendMessage(msg)
	}
}

func (r *fakeRoom) GetPlayer(id string) types.RoomPlayerInterface {
	c, ok := r.clients[id]
	if !ok {
		return nil
	}
	return &fakeRoomPlayer{client: c}
}

func (r *fakeRoom) GetPlayerOrder() []string       { return r.order }
func (r *fakeRoom) GetCode() string                { return r.code }
func (r *fakeRoom) SetState(s types.RoomState)     { r.state = s }
func (r *fakeRoom) GetServer() types.ServerContext { return r.server }

// broadcastTypes 已广播消息的类型序列
func (r *fakeRoom) broadcastTypes() []protocol.MessageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.MessageType, len(r.broadcast))
	for i, m := range r.broadcast {
		out[i] = m.Type
	}
	return out
}

// fakeServer 实现 types.ServerContext
type fakeServer struct {
	mu        sync.Mutex
	lb        *fakeLeaderboard
	dissolved []string
}

func (s *fakeServer) GetLeaderboard() types.LeaderboardInterface { return s.lb }

func (s *fakeServer) DissolveRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dissolved = append(s.dissolved, code)
}

// fakeLeaderboard 记录战绩调用
type fakeLeaderboard struct {
	mu      sync.Mutex
	results []matchResult
}

type matchResult struct {
	playerID string
	won      bool
	exploded bool
}

func (l *fakeLeaderboard) RecordMatchResult(_ context.Context, playerID, _ string, won, exploded bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, matchResult{playerID: playerID, won: won, exploded: exploded})
	return nil
}
