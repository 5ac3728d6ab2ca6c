package recovery

import (
	"errors"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/identity"
)

// MinPasswordLen is the reset-password policy.
const MinPasswordLen = 8

var (
	// ErrAnswerMismatch is deliberately generic: it never says which
	// question failed, and a single miss fails the whole attempt.
	ErrAnswerMismatch = errors.New("recovery: security answers did not match")

	// ErrSequence rejects any attempt to reach a step out of order, such as
	// setting a new password before the questions have been passed.
	ErrSequence = errors.New("recovery: step attempted out of order")

	ErrNoQuestions      = errors.New("recovery: no security questions configured")
	ErrPasswordPolicy   = errors.New("recovery: new password too short")
	ErrConfirmMismatch  = errors.New("recovery: password confirmation does not match")
	ErrAlreadyCompleted = errors.New("recovery: flow already completed")
)

type State int

const (
	StateHint State = iota
	StateQuestions
	StateReset
	StateDone
)

// Flow is the strict Hint -> Questions -> Reset sequence gating a password
// reset. The flow itself never sees the old password and never stores the
// new one; it hands the accepted password to the session controller for the
// actual re-seal.
type Flow struct {
	state     State
	hint      string
	questions []bundle.SecurityQuestion
}

func New(hint string, questions []bundle.SecurityQuestion) (*Flow, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Flow{state: StateHint, hint: hint, questions: questions}, nil
}

func (f *Flow) State() State { return f.state }

// Hint returns the plaintext password hint. May be empty; intentionally
// low-assurance.
func (f *Flow) Hint() (string, error) {
	if f.state != StateHint {
		return "", ErrSequence
	}
	return f.hint, nil
}

// SkipHint advances to the questions step, whether or not the hint was read.
func (f *Flow) SkipHint() error {
	if f.state != StateHint {
		return ErrSequence
	}
	f.state = StateQuestions
	return nil
}

// Questions returns the question prompts in their configured order.
func (f *Flow) Questions() []string {
	out := make([]string, len(f.questions))
	for i, q := range f.questions {
		out[i] = q.Question
	}
	return out
}

// SubmitAnswers checks every configured question against its stored hash.
// All of them must match; there is no partial credit. A failed attempt keeps
// the flow in the Questions state, so it is restartable.
func (f *Flow) SubmitAnswers(answers []string) error {
	if f.state != StateQuestions {
		return ErrSequence
	}
	if len(answers) != len(f.questions) {
		return ErrAnswerMismatch
	}
	ok := true
	for i, q := range f.questions {
		if !identity.CheckAnswer(answers[i], q.AnswerHash) {
			ok = false
			// keep checking: the caller must not learn which one missed
		}
	}
	if !ok {
		return ErrAnswerMismatch
	}
	f.state = StateReset
	return nil
}

// SetNewPassword validates and accepts the replacement password. Only
// reachable after SubmitAnswers has passed.
func (f *Flow) SetNewPassword(password, confirm string) (string, error) {
	switch f.state {
	case StateDone:
		return "", ErrAlreadyCompleted
	case StateReset:
	default:
		return "", ErrSequence
	}
	if len(password) < MinPasswordLen {
		return "", ErrPasswordPolicy
	}
	if password != confirm {
		return "", ErrConfirmMismatch
	}
	f.state = StateDone
	return password, nil
}
