package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSalary renders a whole-dollar amount with thousand separators,
// e.g. 125000 -> "$125,000".
func FormatSalary(amount float64) string {
	n := int64(amount + 0.5)
	sign := ""
	if amount < 0 {
		sign = "-"
		n = int64(-amount + 0.5)
	}
	return fmt.Sprintf("%s$%s", sign, formatThousand(n))
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
