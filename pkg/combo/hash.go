package combo

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
)

// Hash computes the deterministic fingerprint of a session candidate.
// Identical logical parameter sets hash identically regardless of input
// ordering; any change to difficulty or a parameter value changes the hash.
// FNV-1a keeps the distribution well-behaved, which the source's rolling
// string hash did not.
func Hash(candidate SessionCandidate) string {
	h := fnv.New64a()

	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0}) // field separator so adjacent values cannot merge
	}

	write("d:" + strconv.Itoa(candidate.Difficulty))

	for _, id := range sortedCopy(candidate.StimulusIDs) {
		write("s:" + id)
	}
	for _, id := range sortedCopy(candidate.DistractorSet) {
		write("x:" + id)
	}
	for _, kv := range serializeTemporal(candidate.TemporalParams) {
		write("t:" + kv)
	}
	for _, kv := range serializeRules(candidate.RuleParams) {
		write("r:" + kv)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func sortedCopy(values []string) []string {
	copied := make([]string, len(values))
	copy(copied, values)
	sort.Strings(copied)
	return copied
}

// serializeTemporal renders temporal parameters as sorted key=value pairs.
// strconv with 'g' keeps the rendering stable for equal float values.
func serializeTemporal(params map[string]float64) []string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	sort.Strings(pairs)
	return pairs
}

func serializeRules(params map[string]string) []string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}
