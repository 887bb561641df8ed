package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pigdevice/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// WebSocket Fixtures
// -----------------------------------------------------------------------------

func dialTestSocket(t *testing.T, srv *WebServer) (*websocket.Conn, func()) {
	t.Helper()

	go srv.handleWebsockets()

	ts := httptest.NewServer(srv.Engine())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func joinDevice(t *testing.T, conn *websocket.Conn, deviceID string) models.MStatePush {
	t.Helper()

	if err := conn.WriteJSON(models.MJoinCommand{Event: "join-device", DeviceID: deviceID}); err != nil {
		t.Fatalf("join %s: %v", deviceID, err)
	}

	var push models.MStatePush
	if err := conn.ReadJSON(&push); err != nil {
		t.Fatalf("catch-up push for %s: %v", deviceID, err)
	}
	return push
}

// -----------------------------------------------------------------------------
// Catch-up Push
// -----------------------------------------------------------------------------

func TestJoinReceivesCurrentStateNotDefault(t *testing.T) {
	srv, deviceStore, _ := newTestServer(t)

	// Mutate before anyone is watching: the late joiner must still see it.
	deviceStore.Update("pig-1", models.MMutation{AbsoluteCents: int64Ptr(4200)}, nil)

	conn, cleanup := dialTestSocket(t, srv)
	defer cleanup()

	push := joinDevice(t, conn, "pig-1")

	if push.Event != "device-state" {
		t.Errorf("event: got %s, want device-state", push.Event)
	}
	if push.DeviceID != "pig-1" {
		t.Errorf("deviceId: got %s, want pig-1", push.DeviceID)
	}
	if push.AmountCents != 4200 {
		t.Errorf("amount: got %d, want 4200 (stale/default state pushed to late joiner)", push.AmountCents)
	}
	if push.AmountFormatted == "" {
		t.Error("amountFormatted missing from push")
	}
	if push.Clock == "" {
		t.Error("clock label missing from push")
	}
}

func TestJoinUnknownDeviceSeedsDefaults(t *testing.T) {
	srv, _, _ := newTestServer(t)

	conn, cleanup := dialTestSocket(t, srv)
	defer cleanup()

	push := joinDevice(t, conn, "never-seen")

	if push.AmountCents != 0 || push.Currency != "EUR" {
		t.Errorf("got (%d, %s), want (0, EUR)", push.AmountCents, push.Currency)
	}
}

// -----------------------------------------------------------------------------
// Broadcast
// -----------------------------------------------------------------------------

func TestBroadcastReachesWatcher(t *testing.T) {
	srv, deviceStore, _ := newTestServer(t)

	conn, cleanup := dialTestSocket(t, srv)
	defer cleanup()

	joinDevice(t, conn, "pig-1")

	deviceStore.Update("pig-1", models.MMutation{DeltaCents: int64Ptr(150)}, srv.PushDeviceState)

	var push models.MStatePush
	if err := conn.ReadJSON(&push); err != nil {
		t.Fatalf("broadcast push: %v", err)
	}
	if push.AmountCents != 150 {
		t.Errorf("amount: got %d, want 150", push.AmountCents)
	}
}

func TestBroadcastWithZeroWatchersIsNoOp(t *testing.T) {
	srv, deviceStore, _ := newTestServer(t)

	conn, cleanup := dialTestSocket(t, srv)
	defer cleanup()

	joinDevice(t, conn, "pig-1")

	// Nobody watches "lonely"; this must not panic or disturb the hub.
	deviceStore.Update("lonely", models.MMutation{DeltaCents: int64Ptr(999)}, srv.PushDeviceState)
	deviceStore.Update("pig-1", models.MMutation{DeltaCents: int64Ptr(100)}, srv.PushDeviceState)

	var push models.MStatePush
	if err := conn.ReadJSON(&push); err != nil {
		t.Fatalf("broadcast push: %v", err)
	}
	if push.DeviceID != "pig-1" || push.AmountCents != 100 {
		t.Errorf("got (%s, %d), want (pig-1, 100)", push.DeviceID, push.AmountCents)
	}
}

func TestWatchesAccumulateAcrossJoins(t *testing.T) {
	srv, deviceStore, _ := newTestServer(t)

	conn, cleanup := dialTestSocket(t, srv)
	defer cleanup()

	joinDevice(t, conn, "pig-a")
	joinDevice(t, conn, "pig-b")

	// Joining pig-b must not leave pig-a's watch list.
	deviceStore.Update("pig-a", models.MMutation{DeltaCents: int64Ptr(11)}, srv.PushDeviceState)

	var push models.MStatePush
	if err := conn.ReadJSON(&push); err != nil {
		t.Fatalf("broadcast push: %v", err)
	}
	if push.DeviceID != "pig-a" || push.AmountCents != 11 {
		t.Errorf("got (%s, %d), want (pig-a, 11)", push.DeviceID, push.AmountCents)
	}
}

func TestOnlyWatchersOfTheDeviceReceivePushes(t *testing.T) {
	srv, deviceStore, _ := newTestServer(t)

	go srv.handleWebsockets()
	ts := httptest.NewServer(srv.Engine())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	watcher, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial watcher: %v", err)
	}
	defer watcher.Close()
	watcher.SetReadDeadline(time.Now().Add(3 * time.Second))

	bystander, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial bystander: %v", err)
	}
	defer bystander.Close()

	joinDevice(t, watcher, "pig-1")
	joinDevice(t, bystander, "pig-2")

	deviceStore.Update("pig-1", models.MMutation{DeltaCents: int64Ptr(77)}, srv.PushDeviceState)

	var push models.MStatePush
	if err := watcher.ReadJSON(&push); err != nil {
		t.Fatalf("watcher push: %v", err)
	}
	if push.AmountCents != 77 {
		t.Errorf("watcher amount: got %d, want 77", push.AmountCents)
	}

	// The bystander watches a different device and must receive nothing.
	bystander.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var stray models.MStatePush
	if err := bystander.ReadJSON(&stray); err == nil {
		t.Errorf("bystander received a push for a device it does not watch: %+v", stray)
	}
}
