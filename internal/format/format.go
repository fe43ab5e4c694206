// Package format renders prices, volumes and timestamps for display.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iinyiska/dextrend/internal/domain"
)

var leadingZeros = regexp.MustCompile(`^0\.(0+)(\d+)`)

// FormatPrice renders a USD price with precision scaled to its magnitude.
// Values below 0.0001 use compressed leading-zero notation, e.g.
// "$0.0₍6₎1234" for 0.0000001234. NaN renders as "$0.00".
func FormatPrice(price float64) string {
	if math.IsNaN(price) {
		return "$0.00"
	}

	if price >= 1 {
		return "$" + groupThousands(strconv.FormatFloat(price, 'f', 2, 64))
	}
	if price >= 0.01 {
		return "$" + strconv.FormatFloat(price, 'f', 4, 64)
	}
	if price >= 0.0001 {
		return "$" + strconv.FormatFloat(price, 'f', 6, 64)
	}

	fixed := strconv.FormatFloat(price, 'f', 12, 64)
	if m := leadingZeros.FindStringSubmatch(fixed); m != nil {
		zeros := len(m[1])
		significant := m[2]
		if len(significant) > 4 {
			significant = significant[:4]
		}
		return fmt.Sprintf("$0.0₍%d₎%s", zeros, significant)
	}

	return "$" + strconv.FormatFloat(price, 'e', 4, 64)
}

// ParsePrice parses a decimal price string defensively: empty or malformed
// input formats as "$0.00".
func ParsePrice(price string) string {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return FormatPrice(math.NaN())
	}
	return FormatPrice(v)
}

// FormatNumber abbreviates large magnitudes with K/M/B/T suffixes.
func FormatNumber(num float64) string {
	if math.IsNaN(num) {
		return "0"
	}

	abs := math.Abs(num)
	switch {
	case abs >= 1e12:
		return strconv.FormatFloat(num/1e12, 'f', 2, 64) + "T"
	case abs >= 1e9:
		return strconv.FormatFloat(num/1e9, 'f', 2, 64) + "B"
	case abs >= 1e6:
		return strconv.FormatFloat(num/1e6, 'f', 2, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(num/1e3, 'f', 2, 64) + "K"
	}
	return strconv.FormatFloat(num, 'f', 2, 64)
}

// FormatPercentage renders a signed percentage with two decimals.
func FormatPercentage(value float64) string {
	if math.IsNaN(value) {
		return "0%"
	}
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(value, 'f', 2, 64) + "%"
}

// FormatTimeAgo renders how long ago an epoch-ms timestamp was, relative
// to now. Timestamps older than thirty days render as a plain date.
func FormatTimeAgo(timestampMs int64, now time.Time) string {
	diff := now.UnixMilli() - timestampMs

	minutes := diff / 60_000
	hours := diff / 3_600_000
	days := diff / 86_400_000

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	}
	return time.UnixMilli(timestampMs).Format("1/2/2006")
}

// ShortenAddress truncates a chain address to its prefix and last chars
// characters: "0x1234...abcd".
func ShortenAddress(address string, chars int) string {
	if address == "" {
		return ""
	}
	if chars <= 0 {
		chars = 4
	}
	if len(address) <= chars*2+2 {
		return address
	}
	return address[:chars+2] + "..." + address[len(address)-chars:]
}

// ChainName returns the display name for a chain ID, or the ID itself for
// chains outside the supported registry.
func ChainName(chainID string) string {
	if c := domain.ChainByID(chainID); c != nil {
		return c.Name
	}
	return chainID
}

// ChainColor returns the accent color for a chain ID, grey for unknown
// chains.
func ChainColor(chainID string) string {
	if c := domain.ChainByID(chainID); c != nil {
		return c.Color
	}
	return "#888888"
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	intPart, fracPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}
