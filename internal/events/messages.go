package events

import (
	"encoding/json"
	"time"
)

// ChallengeCompletedMessage announces that a user finished a challenge.
// Consumers fetch the full records from the database; the message carries
// identifiers only.
type ChallengeCompletedMessage struct {
	UserChallengeID uint      `json:"user_challenge_id"`
	ChallengeID     uint      `json:"challenge_id"`
	UserID          uint      `json:"user_id"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewChallengeCompletedMessage creates a completion message for the given enrollment.
func NewChallengeCompletedMessage(userChallengeID, challengeID, userID uint) *ChallengeCompletedMessage {
	return &ChallengeCompletedMessage{
		UserChallengeID: userChallengeID,
		ChallengeID:     challengeID,
		UserID:          userID,
		Timestamp:       time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChallengeCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChallengeCompletedMessageFromJSON creates a message from JSON bytes
func ChallengeCompletedMessageFromJSON(data []byte) (*ChallengeCompletedMessage, error) {
	var msg ChallengeCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
