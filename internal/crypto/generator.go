package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.?/"
)

var ErrPasswordSize = errors.New("password size out of range")

type PasswordOptions struct {
	Size    int
	Numbers bool
	Symbols bool
}

// GeneratePassword draws from letters plus the requested classes. Every
// requested class appears at least once.
func GeneratePassword(opts PasswordOptions) (string, error) {
	classes := []string{lowerChars, upperChars}
	if opts.Numbers {
		classes = append(classes, digitChars)
	}
	if opts.Symbols {
		classes = append(classes, symbolChars)
	}
	if opts.Size < len(classes) {
		return "", fmt.Errorf("%w: %d", ErrPasswordSize, opts.Size)
	}

	var all string
	for _, c := range classes {
		all += c
	}

	out := make([]byte, opts.Size)
	for i, c := range classes {
		ch, err := pick(c)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}
	for i := len(classes); i < opts.Size; i++ {
		ch, err := pick(all)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}

	// Fisher-Yates so the guaranteed characters are not always in front.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(chars string) (byte, error) {
	i, err := randInt(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("crypto/rand failed: %w", err)
	}
	return int(v.Int64()), nil
}
