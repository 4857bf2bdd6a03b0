package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	msgSession  = "session"
	msgResponse = "response"
	msgResults  = "results"
	msgError    = "error"

	msgAnswer   = "answer"
	msgRestart  = "restart"
	msgTimer    = "timer"
	msgPresence = "presence"

	timerStart = "start"
	timerReset = "reset"
)

type WSHandler struct {
	service  *app.InterviewService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.InterviewService, l *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger.OrNop(l),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type timerPayload struct {
	Action string `json:"action"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets and drives one live interview.
// Without a sessionId query parameter a new session is created and ended
// when the socket closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	catalogID := r.URL.Query().Get("catalogId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// scoring and teardown must finish even after the client hangs up
	ctx := context.WithoutCancel(r.Context())

	owned := false
	if sessionID == "" {
		snap, err := h.service.Create(ctx, catalogID)
		if err != nil {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: msgError, Payload: errorPayload{Message: err.Error()}})
			return
		}
		sessionID = snap.SessionID
		owned = true
	}
	log := logger.WithSession(h.logger, sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: msgError, Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	if owned {
		defer func() {
			if err := h.service.End(ctx, sessionID); err != nil {
				log.Debug("end session on disconnect", zap.Error(err))
			}
		}()
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var inflight sync.WaitGroup

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	emitError := func(err error) {
		emit(outboundMessage[any]{Type: msgError, Payload: errorPayload{Message: err.Error()}})
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				// unblock the read loop
				conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: msgSession, Payload: update}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// the first question's countdown starts once someone is watching it
	if _, err := h.service.StartTimer(ctx, sessionID); err != nil {
		log.Debug("countdown not armed on attach", zap.Error(err))
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case msgAnswer:
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errInvalidPayload(msgAnswer))
				continue
			}
			// scoring can take seconds; keep reading so restart and presence still work
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				resp, snap, err := h.service.Submit(ctx, sessionID, domain.AnswerSubmission{
					QuestionID: payload.QuestionID,
					Text:       payload.Text,
				})
				if err != nil {
					emitError(err)
					return
				}
				emit(outboundMessage[any]{Type: msgResponse, Payload: resp})
				if snap.Complete {
					emit(outboundMessage[any]{Type: msgResults, Payload: app.Summarize(snap)})
				}
			}()
		case msgRestart:
			if _, err := h.service.Restart(ctx, sessionID); err != nil {
				emitError(err)
				continue
			}
			if _, err := h.service.StartTimer(ctx, sessionID); err != nil {
				emitError(err)
			}
		case msgTimer:
			var payload timerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errInvalidPayload(msgTimer))
				continue
			}
			var err error
			switch payload.Action {
			case timerStart:
				_, err = h.service.StartTimer(ctx, sessionID)
			case timerReset:
				_, err = h.service.ResetTimer(ctx, sessionID)
			default:
				err = errInvalidPayload(msgTimer)
			}
			if err != nil {
				emitError(err)
			}
		case msgPresence:
			var payload presencePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errInvalidPayload(msgPresence))
				continue
			}
			if _, err := h.service.SetPresence(ctx, sessionID, payload.Visible); err != nil {
				emitError(err)
			}
		default:
			emitError(errUnsupportedMessage)
		}
	}

	inflight.Wait()
	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
