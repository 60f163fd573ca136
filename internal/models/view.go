package models

import "time"

// ChatView is the denormalized read model of a chat. It is what the cache
// stores, what GetChat returns, and what ChatCreated events carry.
type ChatView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	IsGroup   bool          `json:"is_group"`
	CreatedAt time.Time     `json:"created_at"`
	Members   []PublicUser  `json:"members"`
	Messages  []MessageView `json:"messages"`
}

type MessageView struct {
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

func NewChatView(chat *Chat) *ChatView {
	view := &ChatView{
		ID:        chat.ID,
		Name:      chat.Name,
		IsGroup:   chat.IsGroup,
		CreatedAt: chat.CreatedAt,
		Members:   make([]PublicUser, len(chat.Members)),
		Messages:  make([]MessageView, len(chat.Messages)),
	}
	for i, m := range chat.Members {
		view.Members[i] = m.Public()
	}
	for i, msg := range chat.Messages {
		view.Messages[i] = MessageView{SenderID: msg.SenderID, Content: msg.Content, SentAt: msg.SentAt}
	}
	return view
}

// HasMember mirrors Chat.HasMember for the cached projection. Authorization
// is re-checked on every cache hit against this list.
func (v *ChatView) HasMember(userID string) bool {
	for _, m := range v.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
