package leads

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"brk-portal/internal/models"
)

const (
	FieldName  = "name"
	FieldEmail = "email"

	maxLen = 255
)

const (
	MsgNameRequired  = "Nome é obrigatório"
	MsgNameTooShort  = "Nome deve ter pelo menos 2 caracteres"
	MsgNameTooLong   = "Nome deve ter no máximo 255 caracteres"
	MsgNameLetters   = "Nome deve conter apenas letras e espaços"
	MsgEmailRequired = "Email é obrigatório"
	MsgEmailInvalid  = "Email inválido"
	MsgEmailTooLong  = "Email deve ter no máximo 255 caracteres"
)

var (
	reName  = regexp.MustCompile(`^[\p{L}\p{M}\s]+$`)
	reEmail = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(\.[a-z0-9\-]+)*\.[a-z]{2,}$`)
)

type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FieldErrors maps a field to its message. A nil map means valid.
type FieldErrors map[string]string

// ValidateName returns the cleaned name or a message.
func ValidateName(s string) (string, string) {
	name := strings.TrimSpace(s)
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return "", MsgNameRequired
	case n < 2:
		return "", MsgNameTooShort
	case n > maxLen:
		return "", MsgNameTooLong
	case !reName.MatchString(name):
		return "", MsgNameLetters
	}
	return name, ""
}

// ValidateEmail returns the cleaned, lower-cased address or a message.
func ValidateEmail(s string) (string, string) {
	email := strings.ToLower(strings.TrimSpace(s))
	switch {
	case email == "":
		return "", MsgEmailRequired
	case utf8.RuneCountInString(email) > maxLen:
		return "", MsgEmailTooLong
	case !reEmail.MatchString(email):
		return "", MsgEmailInvalid
	}
	return email, ""
}

// Validate checks both fields and reports one message per invalid field.
func Validate(in Input) (models.Lead, FieldErrors) {
	var errs FieldErrors
	name, msg := ValidateName(in.Name)
	if msg != "" {
		errs = FieldErrors{FieldName: msg}
	}
	email, msg := ValidateEmail(in.Email)
	if msg != "" {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[FieldEmail] = msg
	}
	if errs != nil {
		return models.Lead{}, errs
	}
	return models.Lead{Name: name, Email: email}, nil
}
