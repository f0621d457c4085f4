package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/usehealthifier/healthifier/server/chat"
	"github.com/usehealthifier/healthifier/server/middleware"
)

// Gateway upgrades HTTP connections to WebSocket, admits them against the
// token verifier, and routes the fixed channel set to the chat service.
type Gateway struct {
	verifier middleware.TokenVerifier
	chat     *chat.Service
	limiter  *middleware.RateLimiter
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a gateway.
func New(verifier middleware.TokenVerifier, chatService *chat.Service, limiter *middleware.RateLimiter) *Gateway {
	return &Gateway{
		verifier: verifier,
		chat:     chatService,
		limiter:  limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: slog.Default(),
	}
}

// HandleConnection is the echo handler for the gateway endpoint. The
// bearer token is taken from the "token" query parameter or the
// Authorization header; an invalid token gets one auth.unauthorized frame
// and the connection is never registered for chat channels.
func (g *Gateway) HandleConnection(c echo.Context) error {
	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	token := c.QueryParam("token")
	if token == "" {
		token = extractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	}

	claims, err := g.verifier.VerifyAccessToken(token)
	if err != nil {
		g.logger.Warn("gateway admission refused", "error", err)
		reason, _ := json.Marshal("invalid access token")
		_ = conn.WriteJSON(Envelope{Channel: ChannelUnauthorized, Payload: reason})
		return conn.Close()
	}

	g.logger.Info("client connected", "user", claims.Subject)
	g.serve(conn, claims.Subject)
	return nil
}

// serve runs the connection until the client goes away. Inbound chat
// turns are handled concurrently (per-user ordering is owned by the chat
// service's registry locks); all writes go through a single writer
// goroutine as the socket allows one concurrent writer only.
func (g *Gateway) serve(conn *websocket.Conn, userUID string) {
	outbound := make(chan Envelope, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for env := range outbound {
			if err := conn.WriteJSON(env); err != nil {
				g.logger.Warn("gateway write failed", "user", userUID, "error", err)
				return
			}
		}
	}()

	var inflight sync.WaitGroup
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			g.logger.Warn("malformed gateway frame, ignoring", "user", userUID, "error", err)
			continue
		}

		switch env.Channel {
		case ChannelChatRequest:
			var payload ChatRequestPayload
			if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.Message == "" {
				g.logger.Warn("malformed chat request, ignoring", "user", userUID)
				continue
			}
			if !g.limiter.Allow(userUID) {
				g.logger.Warn("chat request rate limited", "user", userUID)
				continue
			}
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				g.handleChatRequest(userUID, payload, outbound, writerDone)
			}()

		case ChannelChatEnd:
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				g.chat.EndSession(context.Background(), userUID)
			}()

		default:
			g.logger.Warn("unknown gateway channel, ignoring", "user", userUID, "channel", env.Channel)
		}
	}

	// Disconnect cancels nothing in flight; reconciliation runs once
	// inbound processing has quiesced, with the connection's
	// authenticated identity.
	inflight.Wait()
	g.chat.EndSession(context.Background(), userUID)

	close(outbound)
	<-writerDone
	_ = conn.Close()
	g.logger.Info("client disconnected", "user", userUID)
}

func (g *Gateway) handleChatRequest(userUID string, payload ChatRequestPayload, outbound chan<- Envelope, writerDone <-chan struct{}) {
	var clientTs time.Time
	if payload.Ts != "" {
		if parsed, err := time.Parse(time.RFC3339, payload.Ts); err == nil {
			clientTs = parsed
		}
	}

	reply, err := g.chat.HandleMessage(context.Background(), userUID, payload.Message, clientTs)
	if err != nil {
		g.logger.Error("chat exchange failed", "user", userUID, "error", err)
		reply = chat.FailedReply
	}

	env, err := newEnvelope(ChannelChatResponse, ChatResponsePayload{
		Message: reply,
		Ts:      time.Now().Format(time.RFC3339),
		Sender:  senderAI,
	})
	if err != nil {
		g.logger.Error("failed to encode chat response", "user", userUID, "error", err)
		return
	}
	// Drop the frame if the writer is already gone; the turn is persisted
	// either way.
	select {
	case outbound <- env:
	case <-writerDone:
	}
}

func extractBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
