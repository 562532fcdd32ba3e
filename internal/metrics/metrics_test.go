package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(Logins.WithLabelValues("github"))
	Logins.WithLabelValues("github").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Logins.WithLabelValues("github")))

	MonsterBattles.WithLabelValues("slime", BattleOutcome(false)).Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(MonsterBattles.WithLabelValues("slime", OutcomeDefeat)))
	assert.Equal(t, OutcomeVictory, BattleOutcome(true))
}
