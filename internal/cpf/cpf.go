// Package cpf implements the Brazilian individual taxpayer number (CPF)
// check-digit algorithm.
package cpf

import (
	"strings"
	"unicode"
)

// Length is the number of digits in a CPF.
const Length = 11

// Digits strips every non-digit character and left-pads the result with
// zeros to 11 characters. Longer inputs are returned unpadded.
func Digits(s string) string {
	d := onlyDigits(s)
	if len(d) < Length {
		d = strings.Repeat("0", Length-len(d)) + d
	}
	return d
}

// Valid reports whether s is a CPF with correct check digits. Non-digit
// characters are ignored; sequences of a single repeated digit are rejected.
func Valid(s string) bool {
	d := Digits(s)
	if len(d) != Length {
		return false
	}
	if strings.Count(d, d[:1]) == Length {
		return false
	}
	first, second := CheckDigits(d[:9])
	return first == int(d[9]-'0') && second == int(d[10]-'0')
}

// CheckDigits computes both check digits for the first nine digits of s.
func CheckDigits(base string) (int, int) {
	d := onlyDigits(base)
	if len(d) < 9 {
		d = strings.Repeat("0", 9-len(d)) + d
	}
	d = d[:9]
	first := checkDigit(d, 9)
	second := checkDigit(d+string(rune('0'+first)), 10)
	return first, second
}

// Format renders an 11-digit CPF as 000.000.000-00. Other lengths are
// returned unchanged.
func Format(s string) string {
	d := Digits(s)
	if len(d) != Length {
		return s
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// checkDigit computes the check digit at position n (9 or 10) from the n
// digits before it, weighted n+1 down to 2.
func checkDigit(d string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(d[i]-'0') * (n + 1 - i)
	}
	return (sum * 10) % 11 % 10
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
