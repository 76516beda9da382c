// Package types contains common read types returned across layers.
package types

// Recommendation is a single ranked catalog item.
type Recommendation struct {
	Rank  int     `json:"rank"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SessionState is the progress summary for a quiz session.
type SessionState struct {
	ID             string `json:"session_id"`
	Answered       int    `json:"answered"`
	QuestionsTotal int    `json:"questions_total"`
}

// StyleLabel is the play-style classification for a profile. Secondary is
// empty unless Hybrid is true. Intensity maps each style to its position on
// the symmetric display scale.
type StyleLabel struct {
	Primary   string             `json:"primary"`
	Secondary string             `json:"secondary,omitempty"`
	Hybrid    bool               `json:"hybrid"`
	Intensity map[string]float64 `json:"intensity"`
}
