package board

import (
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

var (
	konbini    = play.Space{Name: "コンビニ", Generate: konbiniEvent}
	hospital   = play.Space{Name: "病院", Generate: hospitalEvent, Hospital: true}
	shortcut   = play.Space{Name: "近道", Generate: shortcutEvent}
	weaponShop = play.Space{Name: "武器屋", Generate: weaponShopEvent}
)

func konbiniEvent(g *play.Game) {
	p := g.Current()
	g.Describe("コンビニがある。", narration.Neutral)
	switch p.Personality {
	case state.Gentle:
		g.Say("食べ物を買っていこう")
		g.Describe(fmt.Sprintf("%sはお弁当を食べて元気になった。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetHP(p.HP+5))
	case state.Violent:
		g.Say("装備を買っていくか")
		g.Describe(fmt.Sprintf("%sはこん棒を購入した。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetWeapon(combat.Stick))
		g.Say("1d10で殴れるぜ")
	case state.Phobic:
		g.Say("胃薬……")
		g.Describe(fmt.Sprintf("%sは胃薬を買って飲んだ。", p.Name), narration.Neutral)
		g.Describe("胃が少し楽になった。", narration.Positive)
		g.Change(p, narration.Positive, indicator.SetHP(p.HP+1))
	case state.Smart:
		g.Say("スマートに酒を嗜むとしよう")
		g.Describe(fmt.Sprintf("%sはワインを購入した。", p.Name), narration.Neutral)
		g.Describe("飲みすぎた！", narration.Negative)
		combat.HitPlayer(g, p, 3, combat.HitOptions{Unblockable: true, DamageLine: "オロロロロ"})
	}
}

// hospitalEvent heals players below half hp up to half.
func hospitalEvent(g *play.Game) {
	p := g.Current()
	g.Describe("病院がある。", narration.Neutral)

	if p.HP >= state.InitialHP {
		g.Say(pick(p, map[state.Personality]string{
			state.Gentle:  "特に用はないね",
			state.Violent: "どうでもいいぜ",
			state.Phobic:  "大丈夫……ですよね",
			state.Smart:   "僕の体調管理は完璧さ",
		}))
		g.Describe(fmt.Sprintf("%sは病院を素通りした。", p.Name), narration.Neutral)
		return
	}

	g.Describe(fmt.Sprintf("%sは%dダメージを受けている。", p.Name, state.InitialHP-p.HP), narration.Negative)
	threshold := state.InitialHP / 2
	if p.HP >= threshold {
		g.Say(pick(p, map[state.Personality]string{
			state.Gentle:  "大げさかな",
			state.Violent: "大したことないぜ",
			state.Phobic:  "あまり入りたくない場所です",
			state.Smart:   "西洋医学はスマートではないのさ",
		}))
		g.Describe(fmt.Sprintf("HPが半分以上あるので、%sは病院を素通りした。", p.Name), narration.Neutral)
		return
	}

	g.Say(pick(p, map[state.Personality]string{
		state.Gentle:  "つらい",
		state.Violent: "助けてくれ……",
		state.Phobic:  "痛い……苦しい！",
		state.Smart:   "流石に堪えるね",
	}))
	g.Describe(fmt.Sprintf("%sは治療を受けた。", p.Name), narration.Positive)
	g.Change(p, narration.Positive, indicator.SetHP(threshold))
}

func shortcutEvent(g *play.Game) {
	p := g.Current()
	g.Describe("近道がある。", narration.Neutral)
	switch p.Personality {
	case state.Gentle:
		g.Say("こっちに行こう")
		g.Describe(fmt.Sprintf("%sは近道を通って2マス進んだ。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetPosition(forward(p, 2)))
	case state.Violent:
		g.Say("俺は最短ルートを行くぜ")
		g.Describe(fmt.Sprintf("%sは最悪治安路地裏に踏み込んだ。", p.Name), narration.Neutral)
		g.Describe("武装集団が抗争を繰り広げている。", narration.Negative)
		g.Say("撃て！")
		g.Describe(fmt.Sprintf("%sに流れ弾（BB弾）が命中した！", p.Name), narration.Negative)
		if !combat.HitPlayer(g, p, 3, combat.HitOptions{}) {
			g.Describe(fmt.Sprintf("%sはどうにか路地裏を抜けて3マス進んだ。", p.Name), narration.Positive)
			g.Change(p, narration.Positive, indicator.SetPosition(forward(p, 3)))
		}
	case state.Phobic:
		g.Say("治安が心配です")
		g.Describe(fmt.Sprintf("%sは近道を通らなかった。", p.Name), narration.Neutral)
	case state.Smart:
		g.Say("ふむ……急がば回れとも言うね")
		g.Describe(fmt.Sprintf("%sは全然違う道を通った。", p.Name), narration.Neutral)
		g.Describe(fmt.Sprintf("%sは1マス戻った。", p.Name), narration.Negative)
		g.Change(p, narration.Negative, indicator.SetPosition(forward(p, -1)))
	}
}

type offer struct {
	weapon string
	pitch  string
}

var shopOffers = [6]offer{
	{combat.Chikuwa, "固定1ダメージの武器だぜ"},
	{combat.Knuckle, "素手より3ダメージ強くなるぜ"},
	{combat.MagicalStaff, "そいつは 1d10+3 のマジカルアイテムだ。敵をどんどん呪っていけ！"},
	{combat.Hammer, "そいつは 1d100 の超兵器！　ただし重すぎてゾロ目じゃないと外れるぜ"},
	{combat.DarkSword, "そいつは 3d6+2 の魔剣だな。掘り出し物だぜ"},
	{combat.Beam, "固定20ダメージの最強装備だ。ちなみに違法だぜ"},
}

func weaponShopEvent(g *play.Game) {
	p := g.Current()
	g.Describe("武器屋がある。", narration.Neutral)
	g.Say("らっしゃい！")
	switch p.Personality {
	case state.Gentle:
		g.Say("いらないかな")
		g.Describe(fmt.Sprintf("%sは武器屋を後にした。", p.Name), narration.Neutral)
		return
	case state.Violent:
		g.Say("強い武器が欲しいぜ")
	case state.Phobic:
		g.Say("まあ護身用に……")
	case state.Smart:
		g.Say("スマートに物色といこうか")
	}

	g.Section()
	g.Describe("何を買う？", narration.Neutral)
	for i, o := range shopOffers {
		g.System(fmt.Sprintf("(%d) %s", i+1, o.weapon), narration.Neutral)
	}

	g.Section()
	o := shopOffers[g.RollDice(p.IsBot, 1, 6, 0)-1]
	g.Describe(fmt.Sprintf("%sは%sを購入した。", p.Name, o.weapon), narration.Neutral)
	if o.weapon == combat.Chikuwa && p.Personality == state.Smart {
		g.Say(o.pitch)
		g.Say("食べ物だよね")
		g.Describe(fmt.Sprintf("%sはちくわを食べた。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetHP(p.HP+5))
		return
	}
	g.Change(p, narration.Neutral, indicator.SetWeapon(o.weapon))
	g.Say(o.pitch)
	switch p.Personality {
	case state.Violent:
		g.Say("ククク……心得た")
	case state.Phobic:
		g.Say("は、はい……")
	case state.Smart:
		g.Say("承知したよ")
	}
}

// forward returns p's position moved by n, clamped to the track.
func forward(p *state.Player, n int) int {
	return min(max(p.Position+n, 0), state.GoalPosition)
}
