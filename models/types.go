package models

import "time"

// Session roles
const (
	RoleVolunteer   = "volunteer"
	RoleAdmin       = "admin"
	RoleAdminRotate = "admin-rotate"
)

// Export tables
const (
	TableVolunteers = "volunteers"
	TableCandidates = "candidates"
	TableResults    = "results"
)

// Request types

type VolunteerLoginRequest struct {
	StudentID string `json:"student_id"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RotatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type AddVolunteerRequest struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Year      string `json:"year"`
	Branch    string `json:"branch"`
	Phone     string `json:"phone"`
}

// AddCandidateRequest is decoded from multipart form values
type AddCandidateRequest struct {
	Name      string `json:"name" schema:"name,required"`
	Year      string `json:"year" schema:"year"`
	Branch    string `json:"branch" schema:"branch"`
	Phone     string `json:"phone" schema:"phone"`
	Position1 string `json:"position1" schema:"position1,required"`
	Position2 string `json:"position2" schema:"position2"`
}

type CastVoteRequest struct {
	CandidateID int64  `json:"candidate_id"`
	Position    string `json:"position"`
}

// Response types

type SessionResponse struct {
	Token      string     `json:"token"`
	Role       string     `json:"role"`
	ExpiresAt  time.Time  `json:"expires_at"`
	MustRotate bool       `json:"must_rotate,omitempty"`
	Volunteer  *Volunteer `json:"volunteer,omitempty"`
}

type BallotResponse struct {
	StudentID      string     `json:"student_id"`
	Name           string     `json:"name"`
	Votes          []CastVote `json:"votes"`
	OpenPositions  []string   `json:"open_positions"`
	HasVotedForAll bool       `json:"has_voted_for_all"`
}

type CastVoteResponse struct {
	Receipt string `json:"receipt"`
	Message string `json:"message"`
}

type RemoveVolunteerResponse struct {
	StudentID    string `json:"student_id"`
	RemovedVotes int    `json:"removed_votes"`
}

type RecountResponse struct {
	Corrected []Drift `json:"corrected"`
}

type ImportSummary struct {
	Created    int      `json:"created"`
	Duplicates []string `json:"duplicates"`
	Invalid    []string `json:"invalid"`
}

// Domain types

type Admin struct {
	Username   string     `json:"username"`
	MustRotate bool       `json:"must_rotate"`
	CreatedAt  time.Time  `json:"created_at"`
	RotatedAt  *time.Time `json:"rotated_at,omitempty"`
}

type Volunteer struct {
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Year      string    `json:"year,omitempty"`
	Branch    string    `json:"branch,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// Number of positions voted, read from the vote table
	VotedCount int `json:"voted_count"`
}

type Candidate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Year      string    `json:"year,omitempty"`
	Branch    string    `json:"branch,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Position1 string    `json:"position1"`
	Position2 string    `json:"position2,omitempty"`
	HasPhoto  bool      `json:"has_photo"`
	PhotoType string    `json:"photo_type,omitempty"`
	Votes     int       `json:"votes"` // sum of tally rows
	CreatedAt time.Time `json:"created_at"`
}

// Positions lists the positions the candidate is eligible for, in slot order
func (c Candidate) Positions() []string {
	if c.Position2 == "" {
		return []string{c.Position1}
	}
	return []string{c.Position1, c.Position2}
}

type Photo struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
}

type CastVote struct {
	StudentID   string    `json:"student_id"`
	Position    string    `json:"position"`
	CandidateID int64     `json:"candidate_id"`
	Receipt     string    `json:"receipt"`
	CastAt      time.Time `json:"cast_at"`
}

// Tally types

type Result struct {
	Rank          int    `json:"rank"` // 1-indexed, dense within a position
	CandidateID   int64  `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	Position      string `json:"position"`
	Votes         int    `json:"votes"`
}

type PositionResults struct {
	Position string   `json:"position"`
	Results  []Result `json:"results"`
}

type PositionCandidates struct {
	Position   string      `json:"position"`
	Candidates []Candidate `json:"candidates"`
}

// Drift is a tally row corrected by a recount
type Drift struct {
	CandidateID int64  `json:"candidate_id"`
	Position    string `json:"position"`
	Stored      int    `json:"stored"`
	Counted     int    `json:"counted"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
