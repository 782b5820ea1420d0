package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AskQuestion posts a question to the board. to may name a specific
// agent or be empty for a question open to anyone.
func (s *Store) AskQuestion(from, to, body string) (*Question, error) {
	if from == "" {
		return nil, fmt.Errorf("question asker is required")
	}
	if body == "" {
		return nil, fmt.Errorf("question body is required")
	}

	q := Question{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Body:      body,
		Status:    QuestionOpen,
		CreatedAt: time.Now().UTC(),
	}
	err := s.Update(func(d *Document) error {
		d.Questions = append(d.Questions, q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// AnswerQuestion records an answer and closes the question. Returns
// false if the question is unknown or already answered.
func (s *Store) AnswerQuestion(questionID, by, answer string) (bool, error) {
	answered := false
	err := s.Apply(func(d *Document) (bool, error) {
		for i := range d.Questions {
			q := &d.Questions[i]
			if q.ID != questionID {
				continue
			}
			if q.Status != QuestionOpen {
				return false, nil
			}
			now := time.Now().UTC()
			q.Status = QuestionAnswered
			q.Answer = answer
			q.AnsweredBy = by
			q.AnsweredAt = &now
			answered = true
			return true, nil
		}
		return false, nil
	})
	return answered, err
}

// OpenQuestions returns unanswered questions, oldest first. With a
// non-empty forAgent only questions addressed to that agent or to
// anyone are included.
func (s *Store) OpenQuestions(forAgent string) ([]Question, error) {
	var questions []Question
	err := s.View(func(d *Document) error {
		for _, q := range d.Questions {
			if q.Status != QuestionOpen {
				continue
			}
			if forAgent != "" && q.To != "" && q.To != forAgent {
				continue
			}
			questions = append(questions, q)
		}
		return nil
	})
	return questions, err
}

// Questions returns every question on the board, oldest first.
func (s *Store) Questions() ([]Question, error) {
	var questions []Question
	err := s.View(func(d *Document) error {
		questions = append(questions, d.Questions...)
		return nil
	})
	return questions, err
}
