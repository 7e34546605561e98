// Package message builds the three transient message shapes the relay
// broadcasts. Messages are constructed, sent, and discarded; nothing here is
// stored or validated.
package message

import "time"

// Chat is a user-authored text message.
type Chat struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// System carries server-originated notices (welcome, join and leave). It has
// no username on purpose.
type System struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// Location points the room at a map URL shared by a user.
type Location struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

// CreatedAt is epoch milliseconds, stamped at construction.

func NewChat(username, text string) Chat {
	return Chat{
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

func NewSystem(text string) System {
	return System{
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

func NewLocation(username, url string) Location {
	return Location{
		Username:  username,
		URL:       url,
		CreatedAt: time.Now().UnixMilli(),
	}
}
