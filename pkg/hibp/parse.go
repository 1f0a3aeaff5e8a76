package hibp

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// PrefixLen is the number of hex characters of the SHA-1 sent to the range service.
const PrefixLen = 5

// HashPassword splits the uppercase hex SHA-1 of password into the range prefix and the
// suffix matched locally.
func HashPassword(password string) (prefix string, suffix string) {
	sum := sha1.Sum([]byte(password))
	full := strings.ToUpper(hex.EncodeToString(sum[:]))
	return full[:PrefixLen], full[PrefixLen:]
}

// FindSuffix scans a range body of "SUFFIX:COUNT" lines for suffix, ignoring case. Blank
// lines, CRLF endings and malformed lines are tolerated. Padding entries with a count of
// 0 are reported as not found.
func FindSuffix(body io.Reader, suffix string) (int64, bool, error) {
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		s, c, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(s, suffix) {
			continue
		}

		count, err := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
		if err != nil || count <= 0 {
			return 0, false, nil
		}
		return count, true, nil
	}

	return 0, false, scanner.Err()
}
