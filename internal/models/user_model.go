package models

import "time"

// User represents an authenticated account known to the backend.
// An admin is any user whose UID also appears as a key in the `admins`
// collection; the user record itself carries no role field.
type User struct {
	UID                string     `json:"uid" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email              string     `json:"email" firestore:"email"`
	DisplayName        string     `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL           string     `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt          time.Time  `json:"createdAt" firestore:"createdAt"`
	LastLogin          time.Time  `json:"lastLogin" firestore:"lastLogin"`
	LastPasswordChange *time.Time `json:"lastPasswordChange,omitempty" firestore:"lastPasswordChange,omitempty"`
}
