// Package metrics declares the domain counters exported on /metrics next
// to the HTTP metrics of the gin middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_quests_completed_total",
			Help: "Total number of completed quests by category.",
		},
		[]string{"category"},
	)

	MonsterBattles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_monster_battles_total",
			Help: "Total number of monster battles by monster type and outcome.",
		},
		[]string{"monster", "outcome"},
	)

	RewardsClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levelup_monster_rewards_claimed_total",
		Help: "Total number of monster rewards claimed.",
	})

	AllianceCheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levelup_alliance_check_ins_total",
		Help: "Total number of alliance check-ins.",
	})

	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_logins_total",
			Help: "Total number of successful logins by provider.",
		},
		[]string{"provider"},
	)
)

// Battle outcome label values.
const (
	OutcomeVictory = "victory"
	OutcomeDefeat  = "defeat"
)

func BattleOutcome(victory bool) string {
	if victory {
		return OutcomeVictory
	}
	return OutcomeDefeat
}
