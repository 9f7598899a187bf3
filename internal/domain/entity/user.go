package entity

import "time"

// User is the profile document behind a Firebase Auth account. Points is the
// in-app currency debited by checkout and credited to sellers; it must never
// go negative.
type User struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	Name      string    `json:"name" firestore:"name"`
	AvatarURL string    `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	Points    int64     `json:"points" firestore:"points"`
	FCMToken  string    `json:"-" firestore:"fcmToken,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
