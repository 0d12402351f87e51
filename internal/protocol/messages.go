package protocol

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Client messages
	MsgAssignID MessageType = "assign_id"
	MsgSnapshot MessageType = "snapshot"
	MsgResult   MessageType = "result"
	MsgError    MessageType = "error"

	// Client -> Server messages
	MsgStart  MessageType = "start"
	MsgIntent MessageType = "intent"
	MsgPause  MessageType = "pause"
	MsgResume MessageType = "resume"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// Action names a gameplay intent.
type Action string

const (
	ActionLeft      Action = "left"
	ActionRight     Action = "right"
	ActionSoftDrop  Action = "soft_drop"
	ActionRotateCW  Action = "rotate_cw"
	ActionRotateCCW Action = "rotate_ccw"
	ActionHardDrop  Action = "hard_drop"
	ActionHold      Action = "hold"
)

// --- Server -> Client payloads ---

// AssignIDPayload is sent when a client first connects.
type AssignIDPayload struct {
	PlayerID string `json:"player_id"`
}

// Point is one board cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PiecePayload is the falling piece with its landing cells.
type PiecePayload struct {
	Kind       int     `json:"kind"`
	Rotation   int     `json:"rotation"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Color      int     `json:"color"`
	Cells      []Point `json:"cells"`
	GhostY     int     `json:"ghost_y"`
	GhostCells []Point `json:"ghost_cells"`
}

// SnapshotPayload is one frame of a hosted session.
type SnapshotPayload struct {
	State       int    `json:"state"`
	Phase       int    `json:"phase"`
	Reason      int    `json:"reason"`
	Mode        string `json:"mode"`
	ModeName    string `json:"mode_name"`
	IsTimeValue bool   `json:"is_time_value"`

	Width  int `json:"width"`
	Height int `json:"height"`
	// Board is a flat array: Height * Width cells.
	// Each value is a color index (0 = empty).
	Board   []int         `json:"board"`
	Current *PiecePayload `json:"current,omitempty"`
	Next    int           `json:"next"`
	Held    *int          `json:"held,omitempty"`
	CanHold bool          `json:"can_hold"`

	Score     int   `json:"score"`
	Level     int   `json:"level"`
	Lines     int   `json:"lines"`
	Remaining int   `json:"remaining"`
	Pieces    int   `json:"pieces"`
	ElapsedMS int64 `json:"elapsed_ms"`
	Grounded  bool  `json:"grounded"`
}

// ErrorPayload reports a rejected client message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// --- Client -> Server payloads ---

// StartPayload starts, or restarts, the session in the given mode.
type StartPayload struct {
	Mode       string `json:"mode"`
	PlayerName string `json:"player_name"`
}

// IntentPayload is a key going down or up.
type IntentPayload struct {
	Action Action `json:"action"`
	Down   bool   `json:"down"`
}

// --- HTTP types ---

// PlayerInfo describes one connection in the GET /players response.
type PlayerInfo struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	State    string `json:"state"`
}

// ListPlayersResponse is returned by GET /players.
type ListPlayersResponse struct {
	Players []PlayerInfo `json:"players"`
}

// ErrorResponse is a generic JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
