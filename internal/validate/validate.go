// Package validate runs request field rules in a fixed order and stops at
// the first failure.
package validate

import (
	"regexp"
	"strings"

	"techshop-backend/internal/apperr"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[cC][oO][mM]$`)
	phonePattern = regexp.MustCompile(`^\+[0-9]+$`)
)

const (
	MsgEmailInvalid = "Email is not valid (user123@gmail.com)"
	MsgPhoneInvalid = "Phone number is not valid (+387 12123123)"
)

func IsEmail(s string) bool { return emailPattern.MatchString(s) }

func IsPhone(s string) bool { return phonePattern.MatchString(s) }

// HasMinLength reports whether s has at least n characters once surrounding
// whitespace is removed.
func HasMinLength(s string, n int) bool {
	return len([]rune(strings.TrimSpace(s))) >= n
}

// Checker collects the first failing rule. Later rules are skipped once one
// has failed.
type Checker struct {
	msg string
}

func New() *Checker { return &Checker{} }

func (c *Checker) Check(ok bool, msg string) *Checker {
	if c.msg == "" && !ok {
		c.msg = msg
	}
	return c
}

func (c *Checker) Required(value, msg string) *Checker {
	return c.Check(strings.TrimSpace(value) != "", msg)
}

func (c *Checker) MinLength(value string, n int, msg string) *Checker {
	return c.Check(HasMinLength(value, n), msg)
}

func (c *Checker) Email(value string) *Checker {
	return c.Check(IsEmail(value), MsgEmailInvalid)
}

func (c *Checker) Phone(value string) *Checker {
	return c.Check(IsPhone(value), MsgPhoneInvalid)
}

// Err returns a validation error for the first failed rule, or nil.
func (c *Checker) Err() error {
	if c.msg == "" {
		return nil
	}
	return apperr.Validation(c.msg)
}
