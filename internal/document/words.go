// File path: internal/document/words.go
package document

import (
	"math"
	"strings"
)

var (
	wordOnes = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	wordTens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	wordTeen = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
)

// AmountInWords renders an amount using the Indian numbering system (thousand,
// lakh, crore): "Forty Three Thousand Six Hundred Sixty Rupees Only". Non-zero
// paise are appended before the trailing "Only".
func AmountInWords(amount float64) string {
	if amount < 0 {
		amount = 0
	}
	rupees := int64(amount)
	paise := int64(math.Round((amount - float64(rupees)) * 100))
	if paise >= 100 {
		rupees++
		paise -= 100
	}

	var words string
	if rupees == 0 {
		words = "Zero Rupees"
	} else {
		words = indianWords(rupees) + " Rupees"
	}
	if paise > 0 {
		words += " and " + belowHundred(int(paise)) + " Paise"
	}
	return words + " Only"
}

func indianWords(n int64) string {
	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, indianWords(crore)+" Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(int(lakh))+" Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(int(thousand))+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(int(n)))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int) string {
	if n < 100 {
		return belowHundred(n)
	}
	out := wordOnes[n/100] + " Hundred"
	if rem := n % 100; rem > 0 {
		out += " " + belowHundred(rem)
	}
	return out
}

func belowHundred(n int) string {
	switch {
	case n <= 0:
		return ""
	case n < 10:
		return wordOnes[n]
	case n < 20:
		return wordTeen[n-10]
	default:
		out := wordTens[n/10]
		if rem := n % 10; rem > 0 {
			out += " " + wordOnes[rem]
		}
		return out
	}
}
