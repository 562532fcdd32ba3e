package game

// StaticQuests is the fixed quest list served by /api/quests-static. It
// never touches the database and is identical for every caller.
var StaticQuests = []Quest{
	staticQuest(1, "Morning Training", "Complete a 20 minute workout before noon.", CategoryMight, DifficultyEasy, Rewards{XP: 25, Gold: 10}),
	staticQuest(2, "Scholar's Hour", "Read or study something new for an hour.", CategoryKnowledge, DifficultyMedium, Rewards{XP: 50, Gold: 25}),
	staticQuest(3, "Keep the Castle", "Tidy your living space from top to bottom.", CategoryCastle, DifficultyHard, Rewards{XP: 100, Gold: 50}),
}

func staticQuest(id uint, title, desc string, cat QuestCategory, d Difficulty, r Rewards) Quest {
	q := Quest{Title: title, Description: desc, Category: cat, Difficulty: d, Rewards: r}
	q.ID = id
	return q
}
