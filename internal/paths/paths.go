package paths

import (
	"fmt"
	"hash/fnv"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/rs/zerolog/log"
)

// TempQualifier is the fixed second-level qualifier of every temporary data
// set zoscore allocates.
const TempQualifier = "ZOSCORE"

// TempDataSetName builds <HLQ>.ZOSCORE.T<hash> for a temporary data set. The
// hash is taken over seed, so callers pass something unique per invocation
// (an invocation id plus a purpose) to avoid collisions between concurrent
// runs.
func TempDataSetName(hlq, seed string) (string, error) {
	hlq = strings.ToUpper(strings.TrimSpace(hlq))
	if hlq == "" {
		return "", fmt.Errorf("cannot build a temporary data set name without a high-level qualifier")
	}

	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(seed))
	hash := strings.ToUpper(strconv.FormatUint(uint64(hasher.Sum32()), 36))
	if len(hash) > 7 {
		hash = hash[:7]
	}

	dsn := strings.Join([]string{hlq, TempQualifier, "T" + hash}, ".")
	if err := utils.ValidateDataSetQualifiers(dsn); err != nil {
		log.Error().Err(err).Str("generated_dsn", dsn).Msg("Generated temporary DSN failed validation")
		return "", fmt.Errorf("generated temporary DSN %q failed validation: %w", dsn, err)
	}
	return dsn, nil
}

// DefaultHLQ returns the high-level qualifier of the user running zoscore.
// It honours $HLQ, then $LOGNAME/$USER, then the OS account name.
func DefaultHLQ() string {
	for _, env := range []string{"HLQ", "LOGNAME", "USER"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return truncateQualifier(v)
		}
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return truncateQualifier(u.Username)
	}
	return ""
}

func truncateQualifier(s string) string {
	s = strings.ToUpper(s)
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
