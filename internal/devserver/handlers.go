package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/common"
	"github.com/dmitrijs2005/cbtcompanion/internal/devserver/auth"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// naiveISO matches the timestamp shape of the production backend: UTC
// without an offset.
const naiveISO = "2006-01-02T15:04:05.000000"

const maxBodyBytes = 1 << 20

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type field struct {
	name  string
	value *string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

// decode reads a JSON body into v and checks that every listed field is
// non-blank. On failure it writes a 422 in the validation error shape and
// returns false.
func decode(w http.ResponseWriter, r *http.Request, v any, required ...field) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []fieldError{{Loc: []string{"body"}, Msg: "Invalid JSON body", Type: "json_invalid"}})
		return false
	}
	var errs []fieldError
	for _, f := range required {
		if strings.TrimSpace(*f.value) == "" {
			errs = append(errs, fieldError{Loc: []string{"body", f.name}, Msg: "Field required: " + f.name, Type: "missing"})
		}
	}
	if len(errs) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, errs)
		return false
	}
	return true
}

func naive(t time.Time) string {
	return t.UTC().Format(naiveISO)
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
}

func (s *Server) issueToken(w http.ResponseWriter, status int, userID int64) {
	token, err := auth.GenerateToken(userID, []byte(s.cfg.SecretKey), s.cfg.TokenTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, status, tokenBody{AccessToken: token, TokenType: "bearer", UserID: userID})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "CBT Therapy API"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if !decode(w, r, &body, field{"email", &body.Email}, field{"password", &body.Password}) {
		return
	}
	email := strings.TrimSpace(body.Email)

	if _, err := s.store.UserByEmail(email); err == nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	u, err := s.store.CreateUser(email, hash, s.now())
	if errors.Is(err, ErrEmailTaken) {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info(r.Context(), "user signed up", "user_id", u.ID)
	s.issueToken(w, http.StatusCreated, u.ID)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if !decode(w, r, &body, field{"email", &body.Email}, field{"password", &body.Password}) {
		return
	}
	u, err := s.store.UserByEmail(strings.TrimSpace(body.Email))
	if err != nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(body.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	s.issueToken(w, http.StatusOK, u.ID)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(userIDFrom(r.Context()))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"created_at": naive(u.CreatedAt),
	})
}

type resetBody struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// handleForgotPassword answers the same way whether or not the email is
// registered. The code is logged in place of an email.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if !decode(w, r, &body, field{"email", &body.Email}) {
		return
	}
	email := strings.TrimSpace(body.Email)

	if _, err := s.store.UserByEmail(email); err == nil {
		code, err := s.newCode()
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "could not generate code")
			return
		}
		s.store.SaveResetCode(email, code, s.now().Add(s.cfg.ResetCodeTTL))
		s.log.Info(r.Context(), "verification code created", "email", email, "code", code)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "If your email is registered, you will receive a code."})
}

func (s *Server) handleVerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if !decode(w, r, &body, field{"email", &body.Email}, field{"code", &body.Code}) {
		return
	}
	if err := s.store.CheckResetCode(strings.TrimSpace(body.Email), strings.TrimSpace(body.Code), s.now()); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid or expired verification code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Code verified successfully"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if !decode(w, r, &body, field{"email", &body.Email}, field{"code", &body.Code}, field{"new_password", &body.NewPassword}) {
		return
	}
	email := strings.TrimSpace(body.Email)

	if err := s.store.CheckResetCode(email, strings.TrimSpace(body.Code), s.now()); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid or expired verification code")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	if err := s.store.SetPassword(email, hash); err != nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	s.store.DeleteResetCode(email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

type chatBody struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	if !decode(w, r, &body, field{"message", &body.Message}) {
		return
	}
	userID := userIDFrom(r.Context())
	now := s.now()

	var conv Conversation
	if body.ConversationID == nil || *body.ConversationID == 0 {
		conv = s.store.CreateConversation(userID, now)
	} else {
		var err error
		conv, err = s.store.Conversation(userID, *body.ConversationID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Conversation not found")
			return
		}
	}

	s.store.AddMessage(userID, conv.ID, roleUser, body.Message, now)
	reply, err := s.replier.Reply(r.Context(), s.store.ConversationMessages(conv.ID))
	if err != nil {
		s.log.Error(r.Context(), "reply failed", "conversation_id", conv.ID, "error", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.store.AddMessage(userID, conv.ID, roleAssistant, reply, s.now())
	s.store.Touch(conv.ID, body.Message, s.now())

	writeJSON(w, http.StatusOK, map[string]any{"message": reply, "conversation_id": conv.ID})
}

type messageBody struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

func toMessageBodies(msgs []Message) []messageBody {
	out := make([]messageBody, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageBody{ID: m.ID, Text: m.Content, Sender: m.Role, Timestamp: naive(m.CreatedAt)})
	}
	return out
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toMessageBodies(s.store.UserMessages(userIDFrom(r.Context()))))
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	convs := s.store.Conversations(userIDFrom(r.Context()))
	out := make([]map[string]any, 0, len(convs))
	for _, c := range convs {
		out = append(out, map[string]any{
			"id":         c.ID,
			"title":      c.Title,
			"created_at": naive(c.CreatedAt),
			"updated_at": naive(c.UpdatedAt),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConversationMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []fieldError{{Loc: []string{"path", "conversation_id"}, Msg: "Input should be a valid integer", Type: "int_parsing"}})
		return
	}
	conv, err := s.store.Conversation(userIDFrom(r.Context()), id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, toMessageBodies(s.store.ConversationMessages(conv.ID)))
}
