package pdg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	testCases := map[int]string{
		35:       "H0",
		15:       "tau-",
		-15:      "tau+",
		6:        "t",
		-6:       "~t",
		-2112:    "~n0",
		1000022:  "chi_10",
		9900041:  "9900041",
		-9900041: "-9900041",
	}
	for pid, want := range testCases {
		assert.Equal(t, want, Name(pid), "pid %d", pid)
	}
}
