package security

import (
	"fmt"
	"strings"
)

// PasswordValidator validates password strength for employee accounts
type PasswordValidator struct {
	minLength       int
	commonPasswords map[string]bool
}

// NewPasswordValidator creates a password validator with the given minimum
// length. Values below 8 are raised to 8.
func NewPasswordValidator(minLength int) *PasswordValidator {
	if minLength < 8 {
		minLength = 8
	}

	commonPasswords := map[string]bool{
		"password":    true,
		"passord":     true,
		"123456":      true,
		"123456789":   true,
		"qwerty":      true,
		"abc123":      true,
		"password123": true,
		"admin":       true,
		"letmein":     true,
		"welcome":     true,
		"velkommen":   true,
	}

	return &PasswordValidator{
		minLength:       minLength,
		commonPasswords: commonPasswords,
	}
}

// ValidatePassword checks length, common passwords and weak patterns
func (v *PasswordValidator) ValidatePassword(password string) error {
	if len(password) < v.minLength {
		return fmt.Errorf("password must be at least %d characters long", v.minLength)
	}

	if len(password) > 128 {
		return fmt.Errorf("password must be no more than 128 characters long")
	}

	if v.isCommonPassword(password) {
		return fmt.Errorf("password is too common, please choose a more secure password")
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case (char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z'):
			hasLetter = true
		case char >= '0' && char <= '9':
			hasNumber = true
		}
	}

	if !hasLetter || !hasNumber {
		return fmt.Errorf("password must contain both letters and numbers")
	}

	if hasRepeatedChars(password, 4) {
		return fmt.Errorf("password cannot contain more than 3 repeated characters in a row")
	}

	if hasSequentialChars(password, 4) {
		return fmt.Errorf("password cannot contain sequential characters (like '1234' or 'abcd')")
	}

	return nil
}

// isCommonPassword checks the common list, including a numeric suffix like
// "password1"
func (v *PasswordValidator) isCommonPassword(password string) bool {
	lower := strings.ToLower(password)
	if v.commonPasswords[lower] {
		return true
	}

	for common := range v.commonPasswords {
		if strings.HasPrefix(lower, common) {
			suffix := password[len(common):]
			if isAllNumbers(suffix) && len(suffix) <= 4 {
				return true
			}
		}
	}

	return false
}

// isAllNumbers checks if a string contains only digits
func isAllNumbers(s string) bool {
	for _, char := range s {
		if char < '0' || char > '9' {
			return false
		}
	}
	return len(s) > 0
}

// hasRepeatedChars checks for maxRepeats identical characters in a row
func hasRepeatedChars(password string, maxRepeats int) bool {
	if len(password) < maxRepeats {
		return false
	}

	for i := 0; i <= len(password)-maxRepeats; i++ {
		char := password[i]
		count := 1

		for j := i + 1; j < len(password) && password[j] == char; j++ {
			count++
			if count >= maxRepeats {
				return true
			}
		}
	}

	return false
}

// hasSequentialChars checks for ascending or descending runs of minLength
func hasSequentialChars(password string, minLength int) bool {
	if len(password) < minLength {
		return false
	}

	for i := 0; i <= len(password)-minLength; i++ {
		isAscending := true
		for j := 1; j < minLength; j++ {
			if password[i+j] != password[i+j-1]+1 {
				isAscending = false
				break
			}
		}

		isDescending := true
		for j := 1; j < minLength; j++ {
			if password[i+j] != password[i+j-1]-1 {
				isDescending = false
				break
			}
		}

		if isAscending || isDescending {
			return true
		}
	}

	return false
}
