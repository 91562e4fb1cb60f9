package models

// Letters are the valid option letters for a multiple-choice question.
var Letters = []string{"A", "B", "C", "D"}

// Category groups questions into a quiz topic
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Question is one multiple-choice question with four options labelled A-D.
// Once fetched for a quiz run it is treated as immutable.
type Question struct {
	ID            int64
	CategoryID    int64
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectLetter string
}

// Option returns the option text for a letter, or "" for anything outside A-D
func (q *Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// QuestionSummary is the lightweight row shown in the admin question table
type QuestionSummary struct {
	ID            int64
	CategoryName  string
	Text          string
	CorrectLetter string
}
