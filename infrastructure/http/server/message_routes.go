package server

import (
	"net/http"

	"snappy/errors"

	"github.com/google/uuid"
)

type addMessageRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Message     string `json:"message"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type conversationRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type typingRequest struct {
	UserID string `json:"userId"`
	To     string `json:"to"`
}

type messageIDRequest struct {
	MessageID string `json:"messageId"`
}

func (s *Server) registerMessageRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/messages/addmsg", func(w http.ResponseWriter, r *http.Request) {
		var req addMessageRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		var err error
		var id string
		if req.IsAnonymous {
			msg, sendErr := s.anonymous.Send(r.Context(), req.From, req.To, req.Message)
			err, id = sendErr, msg.ID.String()
		} else {
			msg, sendErr := s.chat.Send(r.Context(), req.From, req.To, req.Message)
			err, id = sendErr, msg.ID.String()
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"msg": "Message added successfully.",
			"id":  id,
		})
	})

	mux.HandleFunc("POST /api/messages/getmsg", func(w http.ResponseWriter, r *http.Request) {
		var req conversationRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		history, err := s.chat.History(req.From, req.To)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	})

	mux.HandleFunc("POST /api/messages/typing-start", s.handleTyping(true))
	mux.HandleFunc("POST /api/messages/typing-stop", s.handleTyping(false))

	mux.HandleFunc("POST /api/messages/get-anonymous-chat", func(w http.ResponseWriter, r *http.Request) {
		var req conversationRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		view, err := s.anonymous.SenderView(req.From, req.To)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	})

	mux.HandleFunc("GET /api/messages/anonymous-inbox/{id}", func(w http.ResponseWriter, r *http.Request) {
		inbox, err := s.anonymous.RecipientInbox(r.PathValue("id"))
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inbox)
	})

	mux.HandleFunc("POST /api/messages/request-identity-revelation", func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.messageID(w, r)
		if !ok {
			return
		}
		if err := s.anonymous.RequestReveal(id); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"msg": "Identity revelation requested successfully"})
	})

	mux.HandleFunc("POST /api/messages/reveal-identity", func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.messageID(w, r)
		if !ok {
			return
		}
		sender, err := s.anonymous.ApproveReveal(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"msg":            "Identity revealed successfully",
			"senderUsername": sender.Username,
			"senderAvatar":   sender.AvatarImage,
		})
	})

	mux.HandleFunc("POST /api/messages/stop-receiving", func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.messageID(w, r)
		if !ok {
			return
		}
		if err := s.anonymous.StopReceiving(r.Context(), id); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"msg": "Messages stopped successfully"})
	})

	mux.HandleFunc("GET /api/messages/revealed-sender-info/{messageId}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseMessageID(r.PathValue("messageId"))
		if err != nil {
			s.fail(w, err)
			return
		}
		sender, err := s.anonymous.RevealedSenderInfo(id)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"senderUsername": sender.Username,
			"senderAvatar":   sender.AvatarImage,
		})
	})

	mux.HandleFunc("GET /api/messages/top-friends/{userId}", func(w http.ResponseWriter, r *http.Request) {
		ranks, err := s.users.TopFriends(r.PathValue("userId"), 3)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ranks)
	})
}

// handleTyping validates both identities exist before touching the
// coordinator, mirroring the checks every other identity-keyed route
// gets from its service.
func (s *Server) handleTyping(start bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req typingRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		if req.UserID == "" {
			s.fail(w, errors.ErrMissingIdentity)
			return
		}
		if req.To == "" {
			s.fail(w, errors.ErrMissingRecipient)
			return
		}
		if _, err := s.accounts.GetByID(req.UserID); err != nil {
			s.fail(w, err)
			return
		}
		if _, err := s.accounts.GetByID(req.To); err != nil {
			s.fail(w, err)
			return
		}

		var err error
		if start {
			err = s.typing.Start(r.Context(), req.UserID, req.To)
		} else {
			err = s.typing.Stop(r.Context(), req.UserID, req.To)
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func (s *Server) messageID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req messageIDRequest
	if !s.decodeJSON(w, r, &req) {
		return uuid.Nil, false
	}
	id, err := parseMessageID(req.MessageID)
	if err != nil {
		s.fail(w, err)
		return uuid.Nil, false
	}
	return id, true
}
