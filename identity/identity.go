package identity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"aninha-confeccoes/models"
)

// MinNameLength is the shortest accepted customer name, in characters
const MinNameLength = 5

var (
	// ErrNameTooShort is returned when the customer name has fewer than MinNameLength characters
	ErrNameTooShort = fmt.Errorf("name must have at least %d characters: %w", MinNameLength, models.ErrValidation)
	// ErrInvalidNationalID is returned when the CPF fails its check digits
	ErrInvalidNationalID = fmt.Errorf("invalid CPF: %w", models.ErrValidation)
)

// Digits strips everything but ASCII digits
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateNationalID checks a CPF: 11 digits, not all the same, with both
// mod-11 check digits matching. Punctuation is ignored.
func ValidateNationalID(s string) bool {
	d := Digits(s)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == 11 {
		return false
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		check := (sum * 10 % 11) % 10
		if check != int(d[n]-'0') {
			return false
		}
	}
	return true
}

// ValidateCustomer normalizes and checks the customer gate inputs
func ValidateCustomer(name, nationalID string) (models.Customer, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if utf8.RuneCountInString(name) < MinNameLength {
		return models.Customer{}, ErrNameTooShort
	}
	if !ValidateNationalID(nationalID) {
		return models.Customer{}, ErrInvalidNationalID
	}
	return models.Customer{
		Name:       name,
		NationalID: Digits(nationalID),
	}, nil
}
