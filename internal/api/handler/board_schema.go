package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type positionRequest struct {
	ColumnID string `json:"column_id" validate:"required"`
	Index    int    `json:"index"     validate:"gte=0"`
}

// moveRequest is the end of a drag. A missing destination means the task was
// dropped outside every column.
type moveRequest struct {
	TaskID      string           `json:"task_id"     validate:"required"`
	Source      positionRequest  `json:"source"      validate:"required"`
	Destination *positionRequest `json:"destination"`
}

type createTaskRequest struct {
	ColumnID    string `json:"column_id"   validate:"required"`
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	AssignedTo  string `json:"assigned_to"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
	Notes       string `json:"notes"       validate:"max=2000"`
}

// editTaskRequest is a partial update: absent fields are left untouched and
// an empty due_date clears it. status is accepted only to be rejected.
type editTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1,max=2000"`
	AssignedTo  *string `json:"assigned_to" validate:"omitempty,min=1"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date"`
	Notes       *string `json:"notes"       validate:"omitempty,max=2000"`
	Status      *string `json:"status"`
}

// --- Response types ---

type taskResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	AssignedTo     string  `json:"assigned_to"`
	AssignedToName string  `json:"assigned_to_name"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	CreatedAt      string  `json:"created_at"`
	DueDate        *string `json:"due_date,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	CanMove        bool    `json:"can_move"`
	CanEdit        bool    `json:"can_edit"`
	IsOwn          bool    `json:"is_own"`
}

type columnResponse struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Tasks []taskResponse `json:"tasks"`
}

type boardLinks struct {
	Self  string `json:"self"`
	Moves string `json:"moves"`
	Tasks string `json:"tasks"`
}

type boardResponse struct {
	ID            string           `json:"id"`
	Version       int64            `json:"version"`
	UpdatedAt     string           `json:"updated_at,omitempty"`
	Columns       []columnResponse `json:"columns"`
	CanCreate     bool             `json:"can_create"`
	CanUpdateAny  bool             `json:"can_update_any"`
	CanManageTeam bool             `json:"can_manage_team"`
	ReadOnly      bool             `json:"read_only"`
	Links         boardLinks       `json:"_links"`
}

// mutationResponse reports the outcome of an intent. A denied intent is not
// an error: applied is false and the board is unchanged.
type mutationResponse struct {
	Applied bool          `json:"applied"`
	Outcome string        `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
	Version int64         `json:"version"`
	Task    *taskResponse `json:"task,omitempty"`
}

type mutationRecordResponse struct {
	Kind      string `json:"kind"`
	TaskID    string `json:"task_id,omitempty"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	Outcome   string `json:"outcome"`
	Version   int64  `json:"version"`
	At        string `json:"at"`
}

type historyResponse struct {
	BoardID   string                   `json:"board_id"`
	Mutations []mutationRecordResponse `json:"mutations"`
}
