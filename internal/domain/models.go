package domain

import "time"

const (
	// DefaultMaxScore is the ceiling for every catalog question.
	DefaultMaxScore = 10
	// TimeExpiredAnswer is submitted on behalf of the candidate when the countdown runs out.
	TimeExpiredAnswer = "Time's up!"
	// FallbackScore is awarded when the scorer cannot evaluate an answer.
	FallbackScore = 5
	// FallbackFeedback accompanies FallbackScore.
	FallbackFeedback = "Unable to evaluate response. Default score assigned."
)

// State is the interview lifecycle position.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Question is a single catalog entry.
type Question struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	MaxScore int    `json:"maxScore"` // defaults to 10 if zero
}

// Catalog is a named, fixed pool of questions.
type Catalog struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Evaluation is what the scorer says about one answer.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Response is the scored answer to one question.
type Response struct {
	QuestionID int       `json:"questionId"`
	Text       string    `json:"text"`
	Score      int       `json:"score"`
	Feedback   string    `json:"feedback,omitempty"`
	Fallback   bool      `json:"fallback,omitempty"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// AnswerSubmission models an answer coming from a presentation surface.
// A zero QuestionID means "whatever question is current".
type AnswerSubmission struct {
	QuestionID int
	Text       string
}

// Speaker identifies who said a transcript line.
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

// TranscriptLine is a single chat bubble on the live interview screen.
type TranscriptLine struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Countdown is the per-question timer view.
type Countdown struct {
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
	Running   bool `json:"running"`
}

// Snapshot is a consistent, read-only copy of a session.
type Snapshot struct {
	SessionID    string           `json:"sessionId"`
	State        State            `json:"state"`
	CurrentIndex int              `json:"currentIndex"`
	Questions    []Question       `json:"questions"`
	Responses    []Response       `json:"responses"`
	Complete     bool             `json:"complete"`
	TotalScore   int              `json:"totalScore"`
	Evaluating   bool             `json:"evaluating"`
	Visible      bool             `json:"visible"`
	Progress     int              `json:"progress"`
	Countdown    Countdown        `json:"countdown"`
	Transcript   []TranscriptLine `json:"transcript"`
	StartedAt    time.Time        `json:"startedAt"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// CurrentQuestion returns the question awaiting an answer, if any.
func (s Snapshot) CurrentQuestion() (Question, bool) {
	if s.State != StateInProgress || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Band is the coarse grade shown next to the overall percentage.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// Rating grades a single answer relative to its question's maximum.
type Rating string

const (
	RatingStrong Rating = "strong"
	RatingFair   Rating = "fair"
	RatingWeak   Rating = "weak"
)

// QuestionResult pairs a question with its scored response.
type QuestionResult struct {
	Question Question `json:"question"`
	Response Response `json:"response"`
	Rating   Rating   `json:"rating"`
}

// Results is the end-of-interview report.
type Results struct {
	SessionID        string           `json:"sessionId"`
	Complete         bool             `json:"complete"`
	TotalScore       int              `json:"totalScore"`
	MaxPossibleScore int              `json:"maxPossibleScore"`
	Percentage       int              `json:"percentage"`
	Band             Band             `json:"band"`
	Verdict          string           `json:"verdict"`
	Questions        []QuestionResult `json:"questions"`
}
