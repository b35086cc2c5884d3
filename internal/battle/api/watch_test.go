package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
	"github.com/HensleyFerrari/rpg-app/internal/battle/service"
)

func dialWatch(t *testing.T, server *httptest.Server, battleID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/battles/" + battleID + "/watch"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial watch: %v (resp: %+v)", err, resp)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshotView {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	var view snapshotView
	if err := conn.ReadJSON(&view); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	return view
}

func TestWatchBattleStreamsSnapshots(t *testing.T) {
	a := newAPITest(t)
	battle := a.openBattle(t, "gm-1")
	server := httptest.NewServer(a.router)
	defer server.Close()

	conn := dialWatch(t, server, battle.ID, signToken(t, "gm-1"))

	initial := readSnapshot(t, conn)
	if initial.Battle.ID != battle.ID || initial.Battle.Round != 1 {
		t.Fatalf("initial snapshot = %+v", initial.Battle)
	}

	if _, err := a.svc.AdvanceRound(context.Background(), service.AdvanceRoundInput{
		BattleID:  battle.ID,
		Direction: domain.RoundForward,
		CallerID:  "gm-1",
	}); err != nil {
		t.Fatalf("advance round: %v", err)
	}

	update := readSnapshot(t, conn)
	if update.Battle.Round != 2 {
		t.Fatalf("update round = %d, want 2", update.Battle.Round)
	}
}

func TestWatchBattleDeliversDeletion(t *testing.T) {
	a := newAPITest(t)
	battle := a.openBattle(t, "gm-1")
	server := httptest.NewServer(a.router)
	defer server.Close()

	conn := dialWatch(t, server, battle.ID, signToken(t, "gm-1"))
	_ = readSnapshot(t, conn)

	if err := a.svc.DeleteBattle(context.Background(), battle.ID, "gm-1"); err != nil {
		t.Fatalf("delete battle: %v", err)
	}

	final := readSnapshot(t, conn)
	if !final.Deleted {
		t.Fatalf("final snapshot = %+v, want deleted", final)
	}

	// The server closes after the deletion frame.
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection close after deletion")
	}
}

func TestWatchUnknownBattle(t *testing.T) {
	a := newAPITest(t)
	recorder := a.do(t, http.MethodGet, "/api/v1/battles/no-such-battle/watch", signToken(t, "gm-1"), nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}
