package models

import "time"

// Like — факт симпатии одного пользователя к другому.
// Дневной лимит лайков не хранится отдельно: он выводится подсчётом
// записей, созданных с локальной полуночи опорного часового пояса.
type Like struct {
	ID        int       `json:"id"`
	LikerUID  string    `json:"liker_uid"`
	LikedUID  string    `json:"liked_uid"`
	CreatedAt time.Time `json:"created_at"`
}

// Match — взаимная симпатия двух пользователей. Создаётся при втором,
// встречном лайке и открывает обмен сообщениями.
type Match struct {
	ID        int       `json:"id"`
	FirstUID  string    `json:"first_uid"`
	SecondUID string    `json:"second_uid"`
	CreatedAt time.Time `json:"created_at"`
}

// Message — сообщение внутри пары.
type Message struct {
	ID        int       `json:"id"`
	MatchID   int       `json:"match_id"`
	SenderUID string    `json:"sender_uid"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
