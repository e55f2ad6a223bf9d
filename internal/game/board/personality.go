package board

import (
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

var (
	live         = play.Space{Name: "ライブ会場", Generate: liveEvent}
	library      = play.Space{Name: "図書館", Generate: libraryEvent}
	hauntedHouse = play.Space{Name: "幽霊屋敷", Generate: hauntedHouseEvent}
	newYearBell  = play.Space{Name: "除夜の鐘", Generate: newYearBellEvent}
	seminar      = play.Space{Name: "研修", Generate: seminarEvent}
	onlineGame   = play.Space{Name: "ネトゲ", Generate: onlineGameEvent}
	hygiene      = play.Space{Name: "衛生講習会", Generate: hygieneEvent}
)

func liveEvent(g *play.Game) {
	p := g.Current()
	g.Describe("ライブ会場がある。", narration.Neutral)
	g.Describe("暗黒デスメタルバンドが演奏している。", narration.Neutral)
	g.Say("ゴォトゥヘル")
	g.Describe("ドガガガガ！", narration.Negative)
	g.Say("ロックだ……")
	g.Describe(fmt.Sprintf("%sは深く感銘を受けた。", p.Name), narration.Neutral)
	g.Describe(fmt.Sprintf("暗黒デスボイスが%sの心に眠る破壊衝動を呼び覚ました。", p.Name), narration.Neutral)
	g.Change(p, narration.Neutral, indicator.SetPersonality(state.Violent))
	g.Say("うおおお！　殴りたい！　壊したい！")
}

func libraryEvent(g *play.Game) {
	p := g.Current()
	g.Describe("図書館がある。", narration.Neutral)
	if p.Personality == state.Violent {
		g.Say("あ？　俺は本とか読まないぜ")
		g.Describe(fmt.Sprintf("%sは図書館を素通りした。", p.Name), narration.Neutral)
		return
	}
	g.Say("たまには本でも読むか")
	g.Describe(fmt.Sprintf("%sは読書を始めた。", p.Name), narration.Neutral)
	g.Describe(fmt.Sprintf("%sは読書により頭がスマートになった。", p.Name), narration.Positive)
	g.Change(p, narration.Neutral, indicator.SetPersonality(state.Smart))
	g.Say("フッ……本は素晴らしい。僕たちを知らない世界へ導いてくれるのさ")
}

func hauntedHouseEvent(g *play.Game) {
	p := g.Current()
	g.Describe("幽霊屋敷がある。", narration.Neutral)
	g.Describe(fmt.Sprintf("%sは足を踏み入れた。", p.Name), narration.Neutral)
	g.Say("うらめしや……")
	switch p.Personality {
	case state.Violent:
		g.Say("邪魔くせえな")
		g.Describe(fmt.Sprintf("%sは幽霊を無視して通り抜けた。", p.Name), narration.Neutral)
	case state.Smart:
		g.Say("フッ、怖くなどないさ")
		g.Describe(fmt.Sprintf("%sはスマートに回れ右して退出した。", p.Name), narration.Neutral)
	default:
		g.Say("ギャアアアアアアアアアアアア！")
		g.Describe(fmt.Sprintf("恐怖体験がトラウマとして%sの心に刻み込まれた。", p.Name), narration.Negative)
		g.Change(p, narration.Neutral, indicator.SetPersonality(state.Phobic))
		g.Say("もう嫌だ……二度と来ない……")
	}
}

// newYearBellEvent purifies 1d100+8 desires; at zero the player ascends to the goal.
func newYearBellEvent(g *play.Game) {
	p := g.Current()
	g.Describe("除夜の鐘が鳴り響く。", narration.Neutral)
	n := g.RollDice(p.IsBot, 1, 100, 8)
	g.Describe(fmt.Sprintf("%sの煩悩が%d個浄化された。", p.Name, n), narration.Positive)
	g.Change(p, narration.Positive, indicator.SetDesire(p.Desire-n))

	if p.Desire <= 0 {
		g.Describe(fmt.Sprintf("%sは煩悩を完全に克服した。", p.Name), narration.Neutral)
		g.Say("もう迷いません……")
		g.Describe(fmt.Sprintf("%sは導かれるようにゴールへ飛翔した。", p.Name), narration.Positive)
		changers := []indicator.Changer{indicator.SetPosition(state.GoalPosition)}
		if p.Personality != state.Gentle {
			changers = append(changers, indicator.SetPersonality(state.Gentle))
		}
		g.Change(p, narration.Positive, changers...)
		g.EarnTrophy(p, "境地")
		return
	}
	if p.Personality != state.Gentle {
		g.Describe(fmt.Sprintf("%sは心が洗われた。", p.Name), narration.Neutral)
		g.Change(p, narration.Neutral, indicator.SetPersonality(state.Gentle))
	}
	g.Say("良い年になりますように")
}

func seminarEvent(g *play.Game) {
	p := g.Current()
	g.Describe(fmt.Sprintf("%sは研修を受講した。", p.Name), narration.Neutral)
	g.Say("これからの市場を生き抜くにはグローバル人材としてソリューションにコミットすることです")
	g.Say("なるほど……")
	g.Describe(fmt.Sprintf("%sは意識が高まった。", p.Name), narration.Neutral)
	g.Change(p, narration.Neutral, indicator.SetPersonality(state.Smart))
	g.Say("さあ、皆で歩いて一体感を高めましょう！")
	g.Describe("無駄に一駅分行進させられた。", narration.Negative)
	g.Change(p, narration.Positive, indicator.SetPosition(forward(p, 3)))
	g.Say("自己成長の機会になったよ")
}

func onlineGameEvent(g *play.Game) {
	p := g.Current()
	g.Describe(fmt.Sprintf("%sはオンライン対戦ゲームで遊んだ。", p.Name), narration.Neutral)
	g.Say("oh shit! noob! lagger! asshole!")
	g.Describe("かなりエキサイトした。", narration.Neutral)
	g.Describe(fmt.Sprintf("%sはゲームと現実の区別がつかなくなった。", p.Name), narration.Negative)
	g.Change(p, narration.Neutral, indicator.SetPersonality(state.Violent))
	g.Say("うおおお俺は現実でも暴力を振るいたいぜ")
}

func hygieneEvent(g *play.Game) {
	p := g.Current()
	g.Describe(fmt.Sprintf("%sは衛生講習会に参加した。", p.Name), narration.Neutral)
	g.Say("未加熱の食材は寄生虫に汚染されている場合があります。このように！")
	g.Say("ひえええ！")
	g.Describe(fmt.Sprintf("衛生講習会は%sのトラウマになった。", p.Name), narration.Negative)
	g.Change(p, narration.Neutral, indicator.SetPersonality(state.Phobic))
	g.Say("怖い……もう何も食べたくない……")
}
