package client

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	UserID      json.RawMessage `json:"user_id"`
}

func (t tokenResponse) credential() (models.Credential, error) {
	if t.AccessToken == "" {
		return models.Credential{}, fmt.Errorf("%w: missing access_token", ErrProtocol)
	}
	userID, err := models.ParseFlexibleID(t.UserID)
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: user_id: %v", ErrProtocol, err)
	}
	if userID == "" {
		return models.Credential{}, fmt.Errorf("%w: missing user_id", ErrProtocol)
	}
	return models.Credential{Token: t.AccessToken, UserID: userID}, nil
}

type userResponse struct {
	ID        json.RawMessage  `json:"id"`
	Email     string           `json:"email"`
	CreatedAt models.Timestamp `json:"created_at"`
}

func (u userResponse) user() (models.User, error) {
	id, err := models.ParseFlexibleID(u.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: user id: %v", ErrProtocol, err)
	}
	return models.User{ID: id, Email: u.Email, CreatedAt: u.CreatedAt.Time}, nil
}

type messageResponse struct {
	ID        json.RawMessage  `json:"id"`
	Text      string           `json:"text"`
	Sender    string           `json:"sender"`
	Timestamp models.Timestamp `json:"timestamp"`
}

// toMessages converts a server message list, keeping server order.
func toMessages(in []messageResponse) ([]models.Message, error) {
	out := make([]models.Message, 0, len(in))
	for i, m := range in {
		id, err := models.ParseFlexibleID(m.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: message %d id: %v", ErrProtocol, i, err)
		}
		sender, err := models.ParseSender(m.Sender)
		if err != nil {
			return nil, fmt.Errorf("%w: message %d: %v", ErrProtocol, i, err)
		}
		out = append(out, models.Message{
			ID:        id,
			Text:      m.Text,
			Sender:    sender,
			Timestamp: m.Timestamp.Time,
		})
	}
	return out, nil
}

type conversationResponse struct {
	ID        models.ConversationID `json:"id"`
	Title     string                `json:"title"`
	UpdatedAt models.Timestamp      `json:"updated_at"`
}

func (c conversationResponse) conversation() models.Conversation {
	return models.Conversation{ID: c.ID, Title: c.Title, UpdatedAt: c.UpdatedAt.Time}
}

type chatRequest struct {
	Message        string                `json:"message"`
	ConversationID models.ConversationID `json:"conversation_id"`
}

type chatResponse struct {
	Message        *string               `json:"message"`
	ConversationID models.ConversationID `json:"conversation_id"`
}
