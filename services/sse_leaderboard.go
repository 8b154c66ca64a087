package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StreamLeaderboardSSE pushes a "leaderboard" event with the full contest
// view whenever its rendering changes.
func (s *ContestService) StreamLeaderboardSSE(c *fiber.Ctx) error {
	contestID, ok := contestIDParam(c)
	if !ok {
		return badRequest(c, "invalid contest id")
	}

	// Fail before switching to a stream so the client gets a real status
	first, err := s.renderView(c.UserContext(), contestID)
	if err != nil {
		return loadFailed(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	done := c.Context().Done()
	interval := s.StreamInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := first
		writeLeaderboardEvent(w, last)
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				payload, err := s.renderView(context.Background(), contestID)
				if err != nil {
					log.Printf("[SSE] contest %d render error: %v", contestID, err)
					continue
				}
				if bytes.Equal(payload, last) {
					// Keepalive comment so proxies and dead clients are noticed
					w.WriteString(":\n\n")
				} else {
					last = payload
					writeLeaderboardEvent(w, payload)
				}
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-done:
				return
			}
		}
	})

	return nil
}

func (s *ContestService) renderView(ctx context.Context, contestID uint) ([]byte, error) {
	v, err := s.View(ctx, contestID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func writeLeaderboardEvent(w *bufio.Writer, payload []byte) {
	fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", payload)
}
