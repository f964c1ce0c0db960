package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"spotsense/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub, userID int64) (clientConn, serverConn *websocket.Conn) {
	t.Helper()

	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(userID, conn)
		serverSide <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	select {
	case sc := <-serverSide:
		return conn, sc
	case <-time.After(time.Second):
		t.Fatal("server never accepted the websocket")
		return nil, nil
	}
}

func TestHub_SendToUser(t *testing.T) {
	hub := NewHub()
	client, _ := dialTestHub(t, hub, 42)

	require.Eventually(t, func() bool { return hub.IsOnline(42) }, time.Second, 10*time.Millisecond)

	ok := hub.SendToUser(42, map[string]string{"type": "booking_confirmed"})
	assert.True(t, ok)

	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	var got map[string]string
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "booking_confirmed", got["type"])
}

func TestHub_OfflineUser(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.SendToUser(99, map[string]string{"type": "noop"}))
}

func TestHub_ReconnectSurvivesStaleCleanup(t *testing.T) {
	hub := NewHub()
	_, staleServer := dialTestHub(t, hub, 42)
	freshClient, _ := dialTestHub(t, hub, 42)

	// the replaced connection's read loop wakes up and cleans up after itself
	hub.UnregisterConn(42, staleServer)

	assert.True(t, hub.IsOnline(42))
	require.True(t, hub.SendToUser(42, map[string]string{"type": "booking_confirmed"}))

	_ = freshClient.SetReadDeadline(time.Now().Add(time.Second))
	var got map[string]string
	require.NoError(t, freshClient.ReadJSON(&got))
	assert.Equal(t, "booking_confirmed", got["type"])
}

func TestHub_ConcurrentSends(t *testing.T) {
	hub := NewHub()
	client, _ := dialTestHub(t, hub, 42)
	require.Eventually(t, func() bool { return hub.IsOnline(42) }, time.Second, 10*time.Millisecond)

	const sends = 25
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.SendToUser(42, map[string]string{"type": "tick"})
		}()
	}
	wg.Wait()

	for i := 0; i < sends; i++ {
		_ = client.SetReadDeadline(time.Now().Add(time.Second))
		var got map[string]string
		require.NoError(t, client.ReadJSON(&got))
		assert.Equal(t, "tick", got["type"])
	}
}

func TestStatusPush_DeliversToOwner(t *testing.T) {
	hub := NewHub()
	client, _ := dialTestHub(t, hub, 42)
	require.Eventually(t, func() bool { return hub.IsOnline(42) }, time.Second, 10*time.Millisecond)

	booking := domain.Booking{
		ID:            100,
		BookingNumber: "BK1234",
		UserID:        42,
		Status:        domain.BookingConfirmed,
		StartTime:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
	}

	push := NewStatusPush(hub, nil)
	err := push.Handle(context.Background(), domain.NewEvent(domain.EventBookingConfirmed, booking, time.Now()))
	require.NoError(t, err)

	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	var got statusMessage
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "booking_confirmed", got.Type)
	assert.Equal(t, "BK1234", got.BookingNumber)
	assert.Equal(t, "confirmed", got.Status)
}

func TestStatusPush_OfflineOwnerIsNotAnError(t *testing.T) {
	push := NewStatusPush(NewHub(), nil)
	err := push.Handle(context.Background(), domain.NewEvent(domain.EventBookingCancelled, domain.Booking{UserID: 7}, time.Now()))
	assert.NoError(t, err)
}

type fakeBookingStore struct {
	booking *domain.Booking
	saved   *domain.Booking
}

func (f *fakeBookingStore) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, nil
}

func (f *fakeBookingStore) Update(_ context.Context, b *domain.Booking) error {
	f.saved = b
	return nil
}

func TestStatusPush_RecordsDelivery(t *testing.T) {
	hub := NewHub()
	client, _ := dialTestHub(t, hub, 42)
	require.Eventually(t, func() bool { return hub.IsOnline(42) }, time.Second, 10*time.Millisecond)

	booking := domain.Booking{
		ID:            100,
		BookingNumber: "BK1234",
		UserID:        42,
		Status:        domain.BookingConfirmed,
	}
	store := &fakeBookingStore{booking: &booking}

	push := NewStatusPush(hub, store)
	err := push.Handle(context.Background(), domain.NewEvent(domain.EventBookingConfirmed, booking, time.Now()))
	require.NoError(t, err)

	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	var got statusMessage
	require.NoError(t, client.ReadJSON(&got))

	require.NotNil(t, store.saved)
	require.Len(t, store.saved.Notifications, 1)
	rec := store.saved.Notifications[0]
	assert.Equal(t, "booking_confirmed", rec.Type)
	assert.Equal(t, "websocket", rec.Channel)
	assert.True(t, rec.Sent)
}
