package subscription

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusFree     Status = "free"
	StatusActive   Status = "active"
	StatusTrialing Status = "trialing"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

// FreeQuizLimit is the number of quizzes a free account may generate per
// calendar month.
const FreeQuizLimit = 5

func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusActive, StatusTrialing, StatusCanceled, StatusPastDue:
		return Status(s)
	default:
		return StatusFree
	}
}

// EffectiveStatus upgrades a free account with an unexpired trial to trialing.
func EffectiveStatus(raw Status, trialEndsAt *time.Time, now time.Time) Status {
	if raw == StatusFree && trialEndsAt != nil && trialEndsAt.After(now) {
		return StatusTrialing
	}
	return raw
}

func Unlimited(s Status) bool {
	return s == StatusActive || s == StatusTrialing
}

// MonthStart is local midnight on the first day of now's month.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// Quota describes what a user may do this month.
type Quota struct {
	Status             Status     `json:"status"`
	SubscriptionID     *string    `json:"subscription_id"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	QuizCountThisMonth int        `json:"quiz_count_this_month"`
	QuizLimit          int        `json:"quiz_limit"`
	Unlimited          bool       `json:"unlimited"`
}

// Account is the billing state stored on a profile.
type Account struct {
	Status         Status
	SubscriptionID *string
	TrialEndsAt    *time.Time
}

// Checker evaluates generation quotas against a free-tier limit.
type Checker struct {
	FreeLimit int
	Now       func() time.Time
}

func NewChecker(freeLimit int) *Checker {
	if freeLimit <= 0 {
		freeLimit = FreeQuizLimit
	}
	return &Checker{FreeLimit: freeLimit, Now: time.Now}
}

func (c *Checker) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// WindowStart is recomputed on every call so month rollover is honoured.
func (c *Checker) WindowStart() time.Time {
	return MonthStart(c.now())
}

func (c *Checker) Quota(acct Account, quizCountThisMonth int) Quota {
	status := EffectiveStatus(acct.Status, acct.TrialEndsAt, c.now())
	q := Quota{
		Status:             status,
		SubscriptionID:     acct.SubscriptionID,
		TrialEndsAt:        acct.TrialEndsAt,
		QuizCountThisMonth: quizCountThisMonth,
		QuizLimit:          c.FreeLimit,
	}
	if Unlimited(status) {
		q.Unlimited = true
		q.QuizLimit = 0
	}
	return q
}

// FreeTier is the fallback quota when billing state cannot be read.
func (c *Checker) FreeTier() Quota {
	return Quota{Status: StatusFree, QuizLimit: c.FreeLimit}
}

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Quota   Quota  `json:"subscription"`
}

func Decide(q Quota) Decision {
	if q.Unlimited {
		return Decision{Allowed: true, Quota: q}
	}
	if q.QuizCountThisMonth >= q.QuizLimit {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("You've reached your monthly limit of %d quizzes. Upgrade to Pro for unlimited quizzes!", q.QuizLimit),
			Quota:   q,
		}
	}
	return Decision{Allowed: true, Quota: q}
}
