package utils

import (
	"fmt"
	"math"
)

// FormatVND formats an amount in Vietnamese dong.
// Example: 150000 -> "150.000 ₫", 12.5 -> "12,50 ₫"
func FormatVND(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	integer := math.Floor(amount)
	decimal := math.Round((amount-integer)*100) / 100
	if decimal >= 1 {
		integer++
		decimal = 0
	}

	integerStr := ""
	intTemp := integer
	if intTemp == 0 {
		integerStr = "0"
	}

	// thousands groups, least significant first
	for intTemp > 0 {
		remainder := int(math.Mod(intTemp, 1000))

		if intTemp >= 1000 {
			integerStr = fmt.Sprintf(".%03d%s", remainder, integerStr)
		} else {
			integerStr = fmt.Sprintf("%d%s", remainder, integerStr)
		}

		intTemp = math.Floor(intTemp / 1000)
	}

	if negative {
		integerStr = "-" + integerStr
	}

	if decimal > 0 {
		return fmt.Sprintf("%s,%02.0f ₫", integerStr, decimal*100)
	}
	return fmt.Sprintf("%s ₫", integerStr)
}
