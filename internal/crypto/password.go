package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Initial passwords avoid characters that are easy to misread when handed to a
// surveyor on paper (0/O, 1/l/I).
const (
	initialLetters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	initialDigits  = "23456789"

	DefaultPasswordLength = 10
	MinPasswordLength     = 6
	MaxPasswordLength     = 64
)

var ErrPasswordLength = errors.New("generated password length must be between 6 and 64")

// GeneratePassword returns a random password with at least one letter and one digit.
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", ErrPasswordLength
	}

	pool := initialLetters + initialDigits
	out := make([]byte, length)

	var err error
	if out[0], err = randChar(initialLetters); err != nil {
		return "", err
	}
	if out[1], err = randChar(initialDigits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if out[i], err = randChar(pool); err != nil {
			return "", err
		}
	}

	// Fisher-Yates so the guaranteed characters are not always first.
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}

	return string(out), nil
}

func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
