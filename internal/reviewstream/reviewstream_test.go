package reviewstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestDialAndWatchReceivesNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
		if err != nil {
			t.Errorf("Accept: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "done")
		ctx := r.Context()
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"change_id":42,"patch_id":3,"status":"merged"}`))
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	url := "ws" + srv.URL[len("http"):]

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s, err := Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	n, err := s.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if n.ChangeID != 42 || n.PatchID != 3 || n.Status != "merged" {
		t.Errorf("Next() = %+v, want {42 3 merged}", n)
	}
}
