package reallybot

import "math/rand"

// Tag is a commentary category. The core only ever decides which
// category fired; picking a literal phrase is a presentation concern.
type Tag string

const (
	TagNone        Tag = ""
	TagEngine      Tag = "engine"
	TagBlunder     Tag = "blunder"
	TagYourBlunder Tag = "your_blunder"
	TagCheck       Tag = "check"
	TagRandom      Tag = "random"
)

// chatChance is the probability that a fired category actually says
// something.
const chatChance = 0.9

var trashTalk = map[Tag][]string{
	TagEngine: {
		"That's theory, buddy 😎",
		"Solid move, I learned that from you!",
		"This is peak Suraj aka ReallyBot prep 🍳",
		"Bet you didn't expect me to pull this off!",
	},
	TagBlunder: {
		"Oops… classic me 🤦",
		"Hehe, that was intentional… maybe.",
		"Lmao that's exactly how I lose my games 😂",
	},
	TagYourBlunder: {
		"Bruh, did you really just play that?",
		"Oh, that's a gift, thanks 🎁",
		"Thanks for the free pawn 😏",
	},
	TagCheck: {
		"Check! 🔔",
		"Careful, king in trouble 👑",
		"Knock knock… mate's coming 😉",
	},
	TagRandom: {
		"You trained me too well!",
		"I should be streaming this 😂",
		"Yo this feels like hostel blitz night 💡",
	},
}

// Say renders a category to a phrase, or "" (each category stays quiet
// 10% of the time).
func Say(tag Tag) string {
	phrases, ok := trashTalk[tag]
	if !ok || rand.Float64() >= chatChance {
		return ""
	}
	return phrases[rand.Intn(len(phrases))]
}
