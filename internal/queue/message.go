package queue

import (
	"encoding/json"
	"fmt"
)

const (
	EventAnalysisCompleted = "analysis.completed"

	messageVersion = 1
)

// Message announces that a document finished analysis.
type Message struct {
	Event           string `json:"event"`
	DocumentID      string `json:"documentId"`
	AnalysisID      string `json:"analysisId"`
	RequestID       string `json:"requestId,omitempty"`
	RiskScore       int    `json:"riskScore"`
	ComplexityScore int    `json:"complexityScore"`
	CompletedAt     string `json:"completedAt"`
	Version         int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message, filling event and version.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.Event == "" {
		msg.Event = EventAnalysisCompleted
	}
	if msg.Version == 0 {
		msg.Version = messageVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version > messageVersion {
		return Message{}, fmt.Errorf("unsupported message version %d", msg.Version)
	}
	return msg, nil
}
