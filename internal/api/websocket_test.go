package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/weekly-tracker/backend/internal/navigation"
	"github.com/weekly-tracker/backend/internal/websocket"
)

type wsReply struct {
	Type    websocket.MessageType `json:"type"`
	Payload json.RawMessage       `json:"payload"`
}

func dialWS(t *testing.T, s *testServer) *gorillaws.Conn {
	t.Helper()
	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *gorillaws.Conn, request string) wsReply {
	t.Helper()
	if err := conn.WriteMessage(gorillaws.TextMessage, []byte(request)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read reply to %s: %v", request, err)
	}
	var reply wsReply
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return reply
}

func expectWSError(t *testing.T, reply wsReply, code string) websocket.ErrorPayload {
	t.Helper()
	if reply.Type != websocket.TypeError {
		t.Fatalf("reply type = %s, want error", reply.Type)
	}
	var e websocket.ErrorPayload
	if err := json.Unmarshal(reply.Payload, &e); err != nil {
		t.Fatal(err)
	}
	if e.Code != code {
		t.Errorf("error code = %q, want %q (%s)", e.Code, code, e.Message)
	}
	return e
}

func TestWebSocketPing(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	if reply := roundTrip(t, conn, `{"type":"ping"}`); reply.Type != websocket.TypePong {
		t.Errorf("reply type = %s, want pong", reply.Type)
	}
}

func TestWebSocketCurrentWeek(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	reply := roundTrip(t, conn, `{"type":"week.current"}`)
	if reply.Type != websocket.TypeCurrentWeek {
		t.Fatalf("reply type = %s", reply.Type)
	}
	var week navigation.WeekResult
	if err := json.Unmarshal(reply.Payload, &week); err != nil {
		t.Fatal(err)
	}
	if week.WeekKey != "2025-08-18" || week.Timezone != "America/New_York" {
		t.Errorf("week = %+v", week)
	}

	reply = roundTrip(t, conn, `{"type":"week.current","payload":{"target":"2025-08-17T23:30:00-04:00"}}`)
	week = navigation.WeekResult{}
	if err := json.Unmarshal(reply.Payload, &week); err != nil {
		t.Fatal(err)
	}
	if week.WeekKey != "2025-08-11" || week.Display != "Aug 11 – Aug 17, 2025" {
		t.Errorf("week with target = %+v", week)
	}
}

func TestWebSocketErrors(t *testing.T) {
	conn := dialWS(t, newTestServer(t))

	expectWSError(t, roundTrip(t, conn, `not json`), "bad_request")

	e := expectWSError(t, roundTrip(t, conn, `{"type":"week.current","payload":"tomorrow"}`), "bad_request")
	if e.OriginalType != string(websocket.TypeCurrentWeek) {
		t.Errorf("original_type = %q", e.OriginalType)
	}

	expectWSError(t, roundTrip(t, conn, `{"type":"week.current","payload":{"target":"someday"}}`), "week_unavailable")

	e = expectWSError(t, roundTrip(t, conn, `{"type":"week.next"}`), "unknown_command")
	if e.OriginalType != "week.next" {
		t.Errorf("original_type = %q", e.OriginalType)
	}

	// The connection survives every error.
	if reply := roundTrip(t, conn, `{"type":"ping"}`); reply.Type != websocket.TypePong {
		t.Errorf("reply type = %s, want pong", reply.Type)
	}
}
