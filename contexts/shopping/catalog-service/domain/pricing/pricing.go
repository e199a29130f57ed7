// Package pricing converts display-formatted price strings into integer
// minor units. All downstream arithmetic is integer-only; this is the single
// place a human-formatted price is ever parsed.
package pricing

import (
	"strconv"
	"strings"

	domainerrors "shopsync/contexts/shopping/catalog-service/domain/errors"
)

// minorUnitsPerRupee converts whole rupees to paise.
const minorUnitsPerRupee = 100

// ParseDisplayPrice turns strings such as "₹4,999" or "Rs. 499" into paise:
// "₹4,999" → 499900. Fractional rupees ("₹4,999.50") keep their paise.
// Anything that does not reduce to a non-negative decimal number errors.
func ParseDisplayPrice(display string) (int64, error) {
	cleaned := strings.TrimSpace(display)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.TrimPrefix(cleaned, "Rs.")
	cleaned = strings.TrimPrefix(cleaned, "Rs")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || strings.HasPrefix(cleaned, "-") {
		return 0, domainerrors.ErrMalformedPrice
	}

	whole, fraction, hasFraction := strings.Cut(cleaned, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, domainerrors.ErrMalformedPrice
	}
	paise := rupees * minorUnitsPerRupee

	if hasFraction {
		if len(fraction) == 0 || len(fraction) > 2 {
			return 0, domainerrors.ErrMalformedPrice
		}
		if len(fraction) == 1 {
			fraction += "0"
		}
		cents, err := strconv.ParseInt(fraction, 10, 64)
		if err != nil {
			return 0, domainerrors.ErrMalformedPrice
		}
		paise += cents
	}
	return paise, nil
}

// FormatMinorUnits renders paise back into the "₹4,999" display shape used
// by product cards. Fractional paise render as two decimals.
func FormatMinorUnits(paise int64) string {
	rupees := paise / minorUnitsPerRupee
	cents := paise % minorUnitsPerRupee

	digits := strconv.FormatInt(rupees, 10)
	var b strings.Builder
	b.WriteString("₹")
	writeIndianGrouping(&b, digits)
	if cents != 0 {
		b.WriteString(".")
		if cents < 10 {
			b.WriteString("0")
		}
		b.WriteString(strconv.FormatInt(cents, 10))
	}
	return b.String()
}

// writeIndianGrouping applies the 3-then-2 digit grouping: 4999 → 4,999 and
// 499900 → 4,99,900.
func writeIndianGrouping(b *strings.Builder, digits string) {
	if len(digits) <= 3 {
		b.WriteString(digits)
		return
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	b.WriteString(strings.Join(groups, ","))
	b.WriteString(",")
	b.WriteString(tail)
}
