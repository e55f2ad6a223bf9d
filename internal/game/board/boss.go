package board

import (
	"fmt"
	"strconv"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

var (
	fishing     = play.Space{Name: "釣り場", Generate: fishingEvent}
	police      = play.Space{Name: "職務質問", Generate: policeEvent}
	lake        = play.Space{Name: "湖", Generate: lakeEvent}
	ninjaGarden = play.Space{Name: "和風庭園", Generate: ninjaEvent}
	temple      = play.Space{Name: "神殿", Generate: templeEvent}
)

func newBigFish() *combat.NPC {
	fish := combat.NewNPC("巨大魚", 9, combat.Bite)
	fish.AttackLine = combat.Say("いただきます！")
	fish.DamageLine = func(g *play.Game, _, _ int) { g.Say("ギョエー！") }
	fish.KnockoutLine = func(g *play.Game) {
		g.Say("バカな……人間ごときに……")
		g.Describe("巨大魚は食材になった。", narration.Negative)
	}
	return fish
}

func fishingEvent(g *play.Game) {
	p := g.Current()
	g.Describe("釣りスポットの池がある。", narration.Neutral)
	switch p.Personality {
	case state.Gentle:
		g.Describe(fmt.Sprintf("%sは釣った魚を焼いて食べた。", p.Name), narration.Positive)
		g.Say("おいしい")
		g.Change(p, narration.Positive, indicator.SetHP(p.HP+3))
	case state.Violent:
		g.Describe(fmt.Sprintf("%sは巨大魚を釣り上げた！", p.Name), narration.Positive)
		g.Describe("巨大魚は喋りだした。", narration.Negative)
		g.Say("愚かな人間よ……")
		g.Say("うわ何だこいつ")
		g.Say("我が釣られたのではない。汝が釣られたのだ。そして汝は今から我が餌食となる！")
		g.Say("あ!?　ナメやがって！　お前こそ丸焼きにして賞味してやるぜェー！")
		g.Describe(fmt.Sprintf("%sは巨大魚に襲いかかった。", p.Name), narration.Negative)
		if combat.RunBattle(g, combat.NewPlayerBattler(p), newBigFish()) == combat.First {
			g.Section()
			g.Describe(fmt.Sprintf("%sは巨大魚を丸焼きにして賞味した。", p.Name), narration.Positive)
			g.Say("うまいぜ")
			g.Change(p, narration.Positive, indicator.SetHP(p.HP+5))
			g.EarnTrophy(p, "池の主釣り")
		}
	case state.Phobic:
		g.Say("衛生的にちょっと……")
		g.Describe(fmt.Sprintf("%sは釣りをしなかった。", p.Name), narration.Neutral)
	case state.Smart:
		g.Describe(fmt.Sprintf("%sはマグロを釣り上げた。", p.Name), narration.Positive)
		g.Say("僕のスマートな包丁捌きを見たまえ")
		g.Describe(fmt.Sprintf("%sはマグロを活け造りにして食べた。", p.Name), narration.Positive)
		g.Describe("加熱しなかったので腹を壊した！", narration.Negative)
		combat.HitPlayer(g, p, 5, combat.HitOptions{Unblockable: true, DamageLine: "うっ"})
	}
}

func newPolice() *combat.NPC {
	cop := combat.NewNPC("警察", 21, combat.Gun)
	cop.AttackLine = combat.Say("公務執行妨害！")
	cop.DamageLine = func(g *play.Game, _, _ int) { g.Say("ぐは！") }
	cop.KnockoutLine = func(g *play.Game) {
		g.Say("治安が……乱れていく……")
		combat.DefaultKnockedOut(g, "警察")
	}
	return cop
}

// policeEvent inspects the player's weapon. The outcome depends on
// personality, legality of the weapon, and who wins a fight.
func policeEvent(g *play.Game) {
	p := g.Current()
	confiscate := func() {
		g.Describe(fmt.Sprintf("%sは装備を没収された。", p.Name), narration.Negative)
		g.Change(p, narration.Negative, indicator.SetWeapon(combat.Hand))
	}
	reform := func() {
		g.Describe(fmt.Sprintf("%sは更生した。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetPersonality(state.Gentle))
		g.Say("これからは真面目に生きていきます")
	}
	fight := func() bool {
		won := combat.RunBattle(g, combat.NewPlayerBattler(p), newPolice()) == combat.First
		g.Section()
		return won
	}

	g.Describe("警察が話しかけてきた。", narration.Neutral)
	g.Say("君、ちょっと持ち物を見せてもらえるかな")
	w := combat.MustLookup(p.Weapon)

	if p.Personality == state.Violent {
		if w.IsIllegal() {
			g.Say("ちっ")
			g.Describe(fmt.Sprintf("%sは従うかわりに%sを構えた。", p.Name, w.Name), narration.Negative)
			g.Say(fmt.Sprintf("%sだと!?　貴様テロリストか！", w.Name))
			g.Say("見られたからには消えてもらうぜェー！")
			g.Describe(fmt.Sprintf("%sは警察に襲いかかった。", p.Name), narration.Negative)
			if fight() {
				g.Say("自由を勝ち取ったぜ")
				g.EarnTrophy(p, "凶悪犯")
			} else {
				confiscate()
				reform()
			}
			return
		}
		g.Say("俺は急いでるんだよー！")
		g.Describe(fmt.Sprintf("%sは反抗した。", p.Name), narration.Neutral)
		g.Say("非協力的な態度。貴様まさかテロリストか？")
		g.Say("あ!?　冤罪だ！　ぶっ殺してやる！")
		g.Describe(fmt.Sprintf("%sは警察に襲いかかった。", p.Name), narration.Negative)
		if fight() {
			g.Say("ククク……")
			g.Describe(fmt.Sprintf("%sは警察の装備を奪った。", p.Name), narration.Negative)
			g.Change(p, narration.Positive, indicator.SetWeapon(combat.Gun))
			g.EarnTrophy(p, "凶悪犯")
		} else {
			reform()
		}
		return
	}

	if w.Name == combat.Hand {
		g.Describe(fmt.Sprintf("%sは手ぶらだったので解放された。", p.Name), narration.Positive)
		return
	}
	g.Say(pick(p, map[state.Personality]string{
		state.Gentle: "はい",
		state.Phobic: "え、ええ",
		state.Smart:  "ご自由に",
	}))
	g.Describe(fmt.Sprintf("%sは装備を見せた。", p.Name), narration.Neutral)

	if !w.IsIllegal() {
		g.Say(fmt.Sprintf("%sですか。なぜ持ち歩いているのですか？", w.Name))
		g.Say(pick(p, map[state.Personality]string{
			state.Gentle: "いやーこれは護身用で",
			state.Phobic: "ご、護身用に……",
			state.Smart:  "フフフ……これは護身用ですよ",
		}))
		g.Say("護身用ならいいか")
		g.Describe(fmt.Sprintf("%sは解放された。", p.Name), narration.Positive)
		return
	}

	g.Say(fmt.Sprintf("%sだと!?　なぜこんなものを所持している！", w.Name))
	switch p.Personality {
	case state.Gentle:
		g.Say("こ、これは護身用で！")
		g.Say("言い訳は署で聞かせてもらおう")
		confiscate()
	case state.Smart:
		g.Say("フフフ……これは護身用ですよ")
		g.Describe(fmt.Sprintf("%sはそう言って賄賂を渡した。", p.Name), narration.Negative)
		g.Say("む。なら仕方ないな。次から気をつけるんだぞ？")
		g.Say("スマートに肝に銘じます")
		g.Describe(fmt.Sprintf("%sは解放された。", p.Name), narration.Positive)
	case state.Phobic:
		g.Say("あ、あの……これはその……")
		g.Say("言い訳は署で聞かせてもらおう。現行犯逮捕する")
		g.Say("ひっ")
		g.Describe(fmt.Sprintf("警察は%sに手錠をかけようと手を伸ばし……", p.Name), narration.Neutral)
		g.Say("触らないでッ！")
		g.Describe(fmt.Sprintf("%sは警察に襲いかかった！", p.Name), narration.Negative)
		if fight() {
			g.Describe(fmt.Sprintf("%sはその場を後にした。", p.Name), narration.Positive)
			g.Say("はー、はー……")
			g.EarnTrophy(p, "凶悪犯")
		} else {
			confiscate()
		}
	}
}

func newGoddess(weapon string, p *state.Player) *combat.NPC {
	goddess := combat.NewNPC("女神", 100, weapon)
	// The goddess rolls as the visiting player so a human pauses on her dice.
	goddess.Bot = p.IsBot
	goddess.AttackLine = combat.Say("お仕置きです")
	goddess.DamageLine = func(g *play.Game, before, _ int) {
		if before == 100 {
			g.Say("あらあら")
		}
	}
	goddess.KnockoutLine = func(g *play.Game) {
		g.Say("バカな……人間ごときに……？")
		combat.DefaultKnockedOut(g, "女神")
	}
	return goddess
}

func lakeEvent(g *play.Game) {
	p := g.Current()
	g.Describe("湖がある。", narration.Neutral)
	switch p.Weapon {
	case combat.Hand:
		g.Describe("特に何も起こらなかった。", narration.Neutral)
		return
	case combat.GoldenAxe:
		g.Say(pick(p, map[state.Personality]string{
			state.Gentle:  "斧を落とさないように注意しないと",
			state.Violent: "もうここには近づきたくないぜ",
			state.Phobic:  "嫌なこと思い出した……",
			state.Smart:   "フッ……近づかないのが賢明だね",
		}))
		g.Describe(fmt.Sprintf("%sは湖を素通りした。", p.Name), narration.Neutral)
		return
	}

	dropped := combat.MustLookup(p.Weapon)
	axe := combat.MustLookup(combat.GoldenAxe)
	g.Describe(fmt.Sprintf("%sは装備を湖に落としてしまった。", p.Name), narration.Negative)
	g.Change(p, narration.Negative, indicator.SetWeapon(combat.Hand))
	g.Describe("湖から女神が現れた。", narration.Positive)
	g.Say(fmt.Sprintf("貴方が落としたのは%sですか？　それとも、この金の斧ですか？", dropped.Name))
	goddess := newGoddess(dropped.Name, p)
	self := combat.NewPlayerBattler(p)

	switch p.Personality {
	case state.Gentle:
		g.Say(fmt.Sprintf("%sです", dropped.Name))
		g.Describe("女神は微笑んだ。", narration.Positive)
		g.Say("正直者の貴方には金の斧を与えましょう")
		g.Change(p, narration.Neutral, indicator.SetWeapon(combat.GoldenAxe))
		g.Say("ありがとうございます")
	case state.Violent:
		g.Describe(fmt.Sprintf("%sは質問した。", p.Name), narration.Neutral)
		g.Say("金の斧ってダメージいくつだ？")
		g.Say(fmt.Sprintf("%sダメージですね", strconv.FormatFloat(axe.Expected, 'f', -1, 64)))
		if axe.Expected <= dropped.Expected {
			g.Say(fmt.Sprintf("じゃあ俺が落としたのは%sです", dropped.Name))
			g.Describe("女神は微笑んだ。", narration.Negative)
			g.Say("……正直者の貴方には金の斧を与えましょう")
			g.Change(p, narration.Positive, indicator.SetWeapon(combat.GoldenAxe))
			g.Say(fmt.Sprintf("いや%sを返してくれよ", dropped.Name))
			g.Say("それは人の手に余る代物です。斧で我慢なさい")
			g.Describe("女神は湖の底に消えていった。", narration.Negative)
			g.Say("おい待てコラ！")
			return
		}
		g.Say("じゃあ俺が落としたのは金の斧です")
		g.Describe("女神は微笑んだ。", narration.Negative)
		g.Say("……なら、金の斧をお渡しします")
		g.Change(p, narration.Positive, indicator.SetWeapon(combat.GoldenAxe))
		g.Say("マジ？　やったぜ")
		g.Say("ただし")
		g.Describe("女神は冷たく言った。", narration.Neutral)
		g.Say("嘘をついた報いを今受けてもらいますよ")
		g.Describe(fmt.Sprintf("女神は%sに襲いかかった！", p.Name), narration.Negative)
		if combat.RunBattle(g, self, goddess) == combat.First {
			g.Section()
			g.Describe(fmt.Sprintf("%sは女神の力の一片を得た。", p.Name), narration.Positive)
			g.Change(p, narration.Positive, indicator.SetHP(p.HP+100))
			g.Say("オオオオ！　力が湧き出て止まらないぜ！")
			g.EarnTrophy(p, "湖の女神")
		}
	case state.Phobic:
		g.Say(fmt.Sprintf("%sです……", dropped.Name))
		g.Describe("女神は微笑んだ。", narration.Positive)
		g.Say("正直者の貴方には金の斧を与えましょう")
		g.Say("そんな、（水辺から出たものは触りたくないので）受け取れません")
		g.Describe(fmt.Sprintf("%sは断ったが、女神は更に気に入った様子だった。", p.Name), narration.Negative)
		g.Say("なんと謙虚な人間。貴方こそが金の斧にふさわしい")
		g.Say("いや本当にいらな……")
		g.Say("受け取れって言ってるでしょッ！")
		goddess.WeaponID = combat.GoldenAxe
		if combat.ResolveAttack(g, goddess, self, combat.AttackOptions{SkipAttackVoice: true}) {
			return
		}
		g.Describe(fmt.Sprintf("女神の呪いで、斧が%sの手から離れなくなった！", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetWeapon(combat.GoldenAxe))
		g.Say("嫌゛あ゛あ゛あ゛！゛")
	case state.Smart:
		g.Describe(fmt.Sprintf("%sは女神の手を取って言った。", p.Name), narration.Neutral)
		g.Say("君が欲しい……")
		g.Say("は？")
		if combat.ResolveAttack(g, goddess, self, combat.AttackOptions{SkipAttackVoice: true}) {
			return
		}
		g.Say("不敬ぞ")
		goddess.WeaponID = combat.GoldenAxe
		if combat.ResolveAttack(g, goddess, self, combat.AttackOptions{SkipAttackVoice: true}) {
			return
		}
		g.Describe("女神は湖の底に消えていった。", narration.Negative)
		g.Describe(fmt.Sprintf("%sは金の斧を拾った。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetWeapon(combat.GoldenAxe))
		g.Say("あはは……スマートが過ぎたかな")
	}
}

func newNinja() *combat.NPC {
	ninja := combat.NewNPC("忍者", 14, combat.NinjaStar)
	ninja.AttackLine = combat.Say("アチョー！")
	ninja.DamageLine = func(g *play.Game, _, _ int) { g.Say("あなや！") }
	ninja.KnockoutLine = func(g *play.Game) {
		g.Say("無念……")
		combat.DefaultKnockedOut(g, "忍者")
	}
	return ninja
}

func ninjaEvent(g *play.Game) {
	p := g.Current()
	g.Describe("和風庭園がある。", narration.Neutral)
	g.Describe("突然、忍者が現れた！", narration.Negative)
	g.Say("ニンニン……")
	switch p.Personality {
	case state.Gentle:
		g.Describe(fmt.Sprintf("%sは忍者に挨拶した。", p.Name), narration.Neutral)
		g.Say("こんにちは！")
		g.Say("朗らかな一日でござるな")
		g.Describe("心が温かくなった。", narration.Neutral)
		g.Describe("忍者は兵糧丸を分けてくれた。", narration.Positive)
		g.Say("何とも言えない味だね")
		g.Change(p, narration.Positive, indicator.SetHP(p.HP+3))
		g.Describe("忍者はドロンと消えた。", narration.Neutral)
	case state.Violent:
		g.Say("うわっ何だお前")
		g.Say("お覚悟召されよ！")
		g.Describe(fmt.Sprintf("忍者は%sに襲いかかった。", p.Name), narration.Negative)
		if combat.RunBattle(g, combat.NewPlayerBattler(p), newNinja()) == combat.First {
			g.Section()
			g.Say("何だったんだ……")
			g.Describe(fmt.Sprintf("%sは忍者の武器を拾った。", p.Name), narration.Positive)
			g.Change(p, narration.Positive, indicator.SetWeapon(combat.NinjaStar))
			g.EarnTrophy(p, "曲者退治")
		}
	case state.Phobic:
		const dash = 4
		g.Say("うわあっ！")
		g.Describe(fmt.Sprintf("%sは全力疾走で逃げて%dマス進んだ。", p.Name, dash), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetPosition(forward(p, dash)))
		g.Describe("しかし忍者に追いつかれてしまった！", narration.Negative)
		g.Say("ひいいい！")
		g.Say("拙者、走力には自信がござるよ")
		g.Describe("忍者は自慢げにドロンと消えた。", narration.Neutral)
		g.Describe(fmt.Sprintf("%sは疲れ果てた。", p.Name), narration.Negative)
		g.Change(p, narration.Negative, indicator.SetTurnSkip(1))
		g.Say("はあ、はあ……")
	case state.Smart:
		g.Describe(fmt.Sprintf("%sは忍者に指摘した。", p.Name), narration.Neutral)
		g.Say("時代錯誤ではないかい？")
		g.Say("忍者も良いものでござるよ。お近づきの印にこれを")
		g.Describe("忍者は手裏剣を分けてくれた。", narration.Positive)
		g.Change(p, narration.Positive, indicator.SetWeapon(combat.NinjaStar))
		g.Say("フッ……使ってみるよ")
		g.Describe("忍者は満足げに頷いてドロンと消えた。", narration.Neutral)
	}
}

// newZeus returns the boss whose hp is kept in GameState across visits.
func newZeus(st *state.GameState) *combat.NPC {
	return &combat.NPC{
		Label:      "ゴッドゼウス",
		Bot:        true,
		HPRef:      &st.BossHP,
		WeaponID:   combat.Lightning,
		AttackLine: combat.Say("滅びよ"),
		DamageLine: func(g *play.Game, before, damage int) {
			if before > damage {
				g.Say("愚か")
			} else {
				g.Say("な……")
			}
		},
		KnockoutLine: func(g *play.Game) {
			g.Say("バカな……我が……人間ごときに……！")
			combat.DefaultKnockedOut(g, "ゴッドゼウス")
		},
	}
}

func templeEvent(g *play.Game) {
	p := g.Current()
	met := g.State.BossHP < state.InitialBossHP
	if met {
		g.Describe("ゴッドゼウスの神殿がある。", narration.Negative)
	} else {
		g.Describe("謎の神殿がある。", narration.Neutral)
	}
	if g.State.BossHP <= 0 {
		g.Describe("ゴッドゼウスは一時的に不在のようだ。", narration.Positive)
		return
	}

	who := "何か"
	if met {
		who = "神"
	}
	g.Describe(fmt.Sprintf("%sが%sに語りかけた。", who, p.Name), narration.Neutral)
	g.Say("愚かな人間よ……")

	if p.Personality == state.Gentle {
		g.Describe(fmt.Sprintf("%sは挨拶した。", p.Name), narration.Neutral)
		g.Say("こんにちは！")
		g.Say("ほう、挨拶とは殊勝な")
		g.Describe("心が温かくなった。", narration.Neutral)
		g.Describe(fmt.Sprintf("呼応するように追い風が吹き、%sは%dマス進んだ。", p.Name, state.GoalPosition-p.Position), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetPosition(state.GoalPosition))
		return
	}

	if !met {
		g.Say(pick(p, map[state.Personality]string{
			state.Violent: "あ!?　何だてめえ！　姿を見せろ！",
			state.Phobic:  "ひいっ！　誰!?　どこ!?",
			state.Smart:   "いきなりマウントとは驚いたね。まず名前を教えてくれないかな？",
		}))
		g.Describe(fmt.Sprintf("それは%sの眼前に降臨した。", p.Name), narration.Neutral)
		g.Say("我は最強神ゴッドゼウス。裁きの時は来たれり")
	} else {
		g.Describe("怒り狂った神が降臨した。", narration.Neutral)
		g.Say("何度でも裁きを下そうぞ")
		g.Say(pick(p, map[state.Personality]string{
			state.Violent: "まだいやがったか！",
			state.Phobic:  "私が何をしたって言うんですか！",
			state.Smart:   "フッ……どうやら、HP消耗は累積するようだね",
		}))
	}
	g.Describe(fmt.Sprintf("ゴッドゼウスは%sに襲いかかった！", p.Name), narration.Negative)

	if combat.RunBattle(g, combat.NewPlayerBattler(p), newZeus(g.State)) == combat.First {
		g.Section()
		g.Describe(fmt.Sprintf("%sは神の力の一片を得た。", p.Name), narration.Positive)
		g.Change(p, narration.Positive, indicator.SetWeapon(combat.Lightning))
		g.Say(pick(p, map[state.Personality]string{
			state.Violent: "ハハハハ！　これで俺が最強神！",
			state.Phobic:  "こんなのいらない……",
			state.Smart:   "確かに人間は愚かさ。だからこそ僕たちはスマートを追求するんだ",
		}))
		g.EarnTrophy(p, "最強神")
	}
}
