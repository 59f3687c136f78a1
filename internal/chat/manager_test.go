package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestConnManager_Register(t *testing.T) {
	cm := NewConnManager()
	conn := &websocket.Conn{}
	userID := "anon_user"
	sessionID := "tab-1"

	cm.Register(userID, sessionID, conn)

	if active := cm.GetActive(userID, sessionID); active != conn {
		t.Errorf("Expected connection %v, got %v", conn, active)
	}
}

func TestConnManager_Unregister(t *testing.T) {
	cm := NewConnManager()
	conn := &websocket.Conn{}
	userID := "anon_user"
	sessionID := "tab-1"

	cm.Register(userID, sessionID, conn)
	cm.Unregister(userID, sessionID, conn)

	if active := cm.GetActive(userID, sessionID); active != nil {
		t.Errorf("Expected nil connection, got %v", active)
	}
}

func TestConnManager_UnregisterStale(t *testing.T) {
	cm := NewConnManager()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}
	userID := "anon_user"

	cm.Register(userID, "tab-1", conn1)

	// Another tab should remain active when a stale unregister happens.
	cm.Register(userID, "tab-2", conn2)

	cm.Unregister(userID, "tab-1", conn1)

	if active := cm.GetActive(userID, "tab-2"); active != conn2 {
		t.Errorf("Expected connection %v, got %v", conn2, active)
	}
}

func TestConnManager_ConcurrentAccess(t *testing.T) {
	cm := NewConnManager()
	userID := "concurrentUser"

	go func() {
		for i := 0; i < 1000; i++ {
			cm.Register(userID, "tab-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()

	go func() {
		for i := 0; i < 1000; i++ {
			cm.GetActive(userID, "tab-"+strconv.Itoa(i))
		}
	}()

	time.Sleep(100 * time.Millisecond)
}

func TestConnManager_CloseAll(t *testing.T) {
	cm := NewConnManager()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		cm.Register("anon_user", r.URL.Query().Get("tab"), conn)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func(tab string) *websocket.Conn {
		t.Helper()
		conn, _, err := websocket.Dial(ctx, wsURL+"/?tab="+tab, nil)
		if err != nil {
			t.Fatalf("dial %s: %v", tab, err)
		}
		return conn
	}

	c1 := dial("tab-1")
	defer c1.CloseNow()
	c2 := dial("tab-2")
	defer c2.CloseNow()

	// Registration happens in the handler goroutine after the dial returns.
	deadline := time.Now().Add(5 * time.Second)
	for cm.GetActive("anon_user", "tab-1") == nil || cm.GetActive("anon_user", "tab-2") == nil {
		if time.Now().After(deadline) {
			t.Fatal("connections were not registered in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Read concurrently so each server-side Close can complete its
	// handshake instead of waiting out the timeout.
	errs := make(chan error, 2)
	for _, c := range []*websocket.Conn{c1, c2} {
		go func(c *websocket.Conn) {
			_, _, err := c.Read(ctx)
			errs <- err
		}(c)
	}

	cm.CloseAll()

	for i := 0; i < 2; i++ {
		if status := websocket.CloseStatus(<-errs); status != websocket.StatusNormalClosure {
			t.Errorf("close status = %v, want normal closure", status)
		}
	}
	if cm.GetActive("anon_user", "tab-1") != nil || cm.GetActive("anon_user", "tab-2") != nil {
		t.Error("connections still registered after CloseAll")
	}
}
