package models

import "time"

// Room status constants
const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusJudging   = "judging"
	StatusCompleted = "completed"
	StatusClosed    = "closed"
)

// Room type constants
const (
	RoomTypeSolo      = "solo"
	RoomTypeCollab    = "collab"
	RoomTypeChallenge = "challenge"
)

// Defaults applied at creation time
const (
	DefaultRoomName        = "New Battle Room"
	DefaultPrompt          = "Show us what you got!"
	DefaultTimerDuration   = 300
	DefaultMaxParticipants = 10
	DefaultEmojiReaction   = "🔥"
	DefaultAvatarURL       = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=150&h=150&fit=crop&crop=face"
)

// Badge and XP amounts credited by the result announcer
const (
	BadgeBattleWinner = "Battle Winner"
	BadgeNewcomer     = "Newcomer"
	WinnerXP          = 100
	ParticipantXP     = 25
)

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateRoomRequest struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Prompt          string `json:"prompt"`
	TimerDuration   int    `json:"timer_duration"`
	MaxParticipants int    `json:"max_participants"`
}

type SubmitPerformanceRequest struct {
	RoomID        string            `json:"room_id"`
	AudioData     string            `json:"audio_data"`
	Duration      float64           `json:"duration"`
	TimelineMarks []float64         `json:"timeline_marks"`
	AudioTimeline []TimelineSegment `json:"audio_timeline"`
}

// Missing numeric scores default to 5, hence the pointers.
type CastVoteRequest struct {
	PerformanceID string `json:"performance_id"`
	RoomID        string `json:"room_id"`
	Flow          *int   `json:"flow"`
	Lyrics        *int   `json:"lyrics"`
	Creativity    *int   `json:"creativity"`
	EmojiReaction string `json:"emoji_reaction"`
}

type CreateEffectRequest struct {
	Name      string  `json:"name"`
	AudioData string  `json:"audio_data"`
	Duration  float64 `json:"duration"`
}

type CreateChallengeRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Rules       map[string]any `json:"rules"`
}

// Response types

type SessionResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RoomListResponse struct {
	Rooms []Room `json:"rooms"`
}

type PerformanceListResponse struct {
	Performances []Performance `json:"performances"`
}

type VoteListResponse struct {
	Votes []Vote `json:"votes"`
}

type LeaderboardResponse struct {
	Leaderboard []User `json:"leaderboard"`
}

type EffectListResponse struct {
	Effects []AudioEffect `json:"effects"`
}

type ChallengeListResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type RoomResultsResponse struct {
	Room             Room          `json:"room"`
	Performances     []Performance `json:"performances"`
	ResultsAnnounced bool          `json:"results_announced"`
	WinnerID         *string       `json:"winner_id"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url"`
	Level        int       `json:"level"`
	XP           int       `json:"xp"`
	Bio          string    `json:"bio"`
	Badges       []string  `json:"badges"`
	Wins         int       `json:"wins"`
	Battles      int       `json:"battles"`
	CreatedAt    time.Time `json:"created_at"`
	AuthID       *string   `json:"-"` // Never expose in JSON
	PasswordHash *string   `json:"-"` // Never expose in JSON
	IsTestUser   bool      `json:"-"` // Never expose in JSON
}

type Room struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	HostID           string    `json:"host_id"`
	Type             string    `json:"type"`
	Prompt           string    `json:"prompt"`
	Participants     []string  `json:"participants"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	TimerDuration    int       `json:"timer_duration"`
	MaxParticipants  int       `json:"max_participants"`
	ResultsAnnounced bool      `json:"results_announced"`
	WinnerID         *string   `json:"winner_id"`
}

// VoteScores is one voter's three category scores on a performance.
type VoteScores struct {
	Flow       int `json:"flow"`
	Lyrics     int `json:"lyrics"`
	Creativity int `json:"creativity"`
}

// TimelineSegment is one multi-track slice of a performance's audio timeline.
type TimelineSegment struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Volume float64 `json:"volume"`
}

type Performance struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	Username      string                `json:"username"`
	RoomID        string                `json:"room_id"`
	AudioData     string                `json:"audio_data"`
	Duration      float64               `json:"duration"`
	TimelineMarks []float64             `json:"timeline_marks"`
	AudioTimeline []TimelineSegment     `json:"audio_timeline"`
	SubmittedAt   time.Time             `json:"submitted_at"`
	Votes         map[string]VoteScores `json:"votes"`
	AverageScore  float64               `json:"average_score"`
	VoteCount     int                   `json:"vote_count"`
}

type Vote struct {
	ID            string    `json:"id"`
	VoterID       string    `json:"voter_id"`
	VoterUsername string    `json:"voter_username"`
	PerformanceID string    `json:"performance_id"`
	RoomID        string    `json:"room_id"`
	Flow          int       `json:"flow"`
	Lyrics        int       `json:"lyrics"`
	Creativity    int       `json:"creativity"`
	EmojiReaction string    `json:"emoji_reaction"`
	CreatedAt     time.Time `json:"created_at"`
}

type Challenge struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	CreatorID    string         `json:"creator_id"`
	Type         string         `json:"type"`
	Rules        map[string]any `json:"rules"`
	Participants []string       `json:"participants"`
	CreatedAt    time.Time      `json:"created_at"`
	StartsAt     time.Time      `json:"starts_at"`
	Status       string         `json:"status"`
}

type AudioEffect struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	AudioData string    `json:"audio_data"`
	Duration  float64   `json:"duration"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
