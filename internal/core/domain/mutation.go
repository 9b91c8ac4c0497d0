package domain

import "time"

// MutationKind names the intent that produced a board change.
type MutationKind string

const (
	MutationMove   MutationKind = "move"
	MutationCreate MutationKind = "create"
	MutationEdit   MutationKind = "edit"
)

// Outcome is how the driver resolved an intent.
type Outcome string

const (
	// OutcomeApplied: a new snapshot replaced the previous one.
	OutcomeApplied Outcome = "applied"
	// OutcomeUnchanged: the intent was valid but changed nothing.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeDenied: the actor lacks the right; the intent was dropped.
	OutcomeDenied Outcome = "denied"
)

// MutationRecord is one entry of the audit trail.
type MutationRecord struct {
	BoardID   string       `json:"board_id" bson:"board_id"`
	Kind      MutationKind `json:"kind" bson:"kind"`
	TaskID    string       `json:"task_id,omitempty" bson:"task_id,omitempty"`
	ActorID   string       `json:"actor_id" bson:"actor_id"`
	ActorRole Role         `json:"actor_role" bson:"actor_role"`
	Outcome   Outcome      `json:"outcome" bson:"outcome"`
	Version   int64        `json:"version" bson:"version"`
	At        time.Time    `json:"at" bson:"at"`
}

// BoardEventType is the type of a published board change notification.
type BoardEventType string

const (
	EventTaskCreated BoardEventType = "task_created"
	EventTaskMoved   BoardEventType = "task_moved"
	EventTaskUpdated BoardEventType = "task_updated"
)

// BoardEvent notifies subscribers that a new snapshot is available.
type BoardEvent struct {
	Type    BoardEventType `json:"type"`
	BoardID string         `json:"board_id"`
	TaskID  string         `json:"task_id"`
	Version int64          `json:"version"`
	ActorID string         `json:"actor_id"`
	At      time.Time      `json:"at"`
}
