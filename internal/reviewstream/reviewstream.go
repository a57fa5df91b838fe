// Package reviewstream listens for asynchronous patchset status
// notifications (build results, reviewer votes) pushed by a code
// review server over a WebSocket connection. It is read-only and
// purely additive: it never substitutes for review.BundleUploader or
// review.DownloadPatchSet, only reports on changes already uploaded.
package reviewstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/coder/websocket"

	"github.com/reposync/reposync/internal/logging"
)

// Notification is one status update pushed by the review server.
type Notification struct {
	ChangeID int    `json:"change_id"`
	PatchID  int    `json:"patch_id"`
	Status   string `json:"status"`
}

// Stream is an open connection to a review server's notification feed.
type Stream struct {
	conn   *websocket.Conn
	logger *log.Logger
}

// Dial connects to a review server's WebSocket notification endpoint.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Stream, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("reviewstream: dialing %s: %w", url, err)
	}
	if logger == nil {
		logger = logging.New("[reviewstream] ", "")
	}
	return &Stream{conn: conn, logger: logger}, nil
}

// Next blocks until the next notification arrives, ctx is canceled, or
// the connection is closed.
func (s *Stream) Next(ctx context.Context) (Notification, error) {
	_, data, err := s.conn.Read(ctx)
	if err != nil {
		return Notification{}, fmt.Errorf("reviewstream: reading: %w", err)
	}
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return Notification{}, fmt.Errorf("reviewstream: decoding notification: %w", err)
	}
	return n, nil
}

// Watch calls onNotification for every notification received until ctx
// is canceled or the stream errors. Decode errors are logged and
// skipped rather than ending the watch, since a single malformed
// message from the server shouldn't kill the whole stream.
func (s *Stream) Watch(ctx context.Context, onNotification func(Notification)) error {
	for {
		n, err := s.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.logger.Printf("reviewstream: %v", err)
				continue
			}
			return err
		}
		onNotification(n)
	}
}

// Close closes the underlying connection with a normal closure status.
func (s *Stream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "done")
}
